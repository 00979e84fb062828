package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/config"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	clientdomain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/handlers"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/observability/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/whatsapp"
)

// Deps are the singletons built by main.
type Deps struct {
	Config *config.Config
	Logger *logging.Logger

	Appointments domain.Repository
	Clients      clientdomain.Repository
	AuditLogs    handlers.AuditLister

	Notifier whatsapp.Notifier
	Auditor  audit.Auditor
	Limiter  middleware.Limiter

	Metrics  *metrics.AgendaMetrics
	Gatherer prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	agendaHandler := handlers.NewAgendaHandler(
		d.Appointments,
		d.Clients,
		d.Notifier,
		d.Auditor,
		d.Logger,
		d.Metrics,
	)

	appointmentHandler := handlers.NewAppointmentHandler(d.Appointments, d.Auditor, d.Logger)
	clientHandler := handlers.NewClientHandler(d.Appointments, d.Clients, d.Logger)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.Appointments, d.Auditor, d.Logger)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.Appointments, d.AuditLogs, d.Logger)

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		httpresp.OK(c, gin.H{"status": "ok"})
	})

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🤖 INTEGRAÇÃO (automação WhatsApp)
		// ------------------------------
		integration := api.Group("/")
		integration.Use(middleware.IntegrationKey(d.Config.AgendaSecretKey))
		if d.Limiter != nil {
			integration.Use(middleware.RateLimit(d.Limiter, d.Logger))
		}
		integration.POST("/agenda", agendaHandler.Handle)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/me/clients", clientHandler.List)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
