package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/config"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/observability/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/whatsapp"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	r := gin.New()
	RegisterRoutes(r, Deps{
		Config:   &config.Config{JWTSecret: "test-secret", AgendaSecretKey: "n8n"},
		Logger:   logging.Discard(),
		Notifier: whatsapp.Nop{},
		Auditor:  audit.Nop{},
		Limiter:  middleware.NewMemoryLimiter(60),
		Metrics:  metrics.NewAgendaMetrics(reg),
		Gatherer: reg,
	})
	return r
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestRouter(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	w := serve(newTestRouter(), http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAgendaRequiresIntegrationKey(t *testing.T) {
	w := serve(newTestRouter(), http.MethodPost, "/api/agenda", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAgendaReachesHandlerWithKey(t *testing.T) {
	w := serve(newTestRouter(), http.MethodPost, "/api/agenda",
		map[string]string{middleware.HeaderAPIKey: "n8n"})

	// no unit identifiers in the body
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffRoutesRequireToken(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/api/me/appointments", "/api/me/clients", "/api/me/working-hours", "/api/me/audit-logs"} {
		w := serve(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
