package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type stubStaffRepo struct {
	stubAgendaRepo
	appointments map[uuid.UUID]*models.Appointment
	updated      []uuid.UUID
}

func (s *stubStaffRepo) FindAppointment(_ context.Context, unitID, id uuid.UUID) (*models.Appointment, error) {
	ap, ok := s.appointments[id]
	if !ok || ap.UnitID != unitID {
		return nil, nil
	}
	cp := *ap
	return &cp, nil
}

func (s *stubStaffRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	s.updated = append(s.updated, ap.ID)
	cp := *ap
	s.appointments[ap.ID] = &cp
	return nil
}

type searchingClients struct {
	stubClientRepo
	gotQuery  string
	gotLimit  int
	gotOffset int
}

func (s *searchingClients) Search(_ context.Context, _ uuid.UUID, query string, limit, offset int) ([]models.Client, int64, error) {
	s.gotQuery, s.gotLimit, s.gotOffset = query, limit, offset
	return []models.Client{{ID: uuid.New(), Name: "João"}}, 41, nil
}

type stubAuditLister struct {
	got audit.ListFilter
}

func (s *stubAuditLister) List(_ context.Context, f audit.ListFilter) ([]models.AuditLog, int64, error) {
	s.got = f
	return []models.AuditLog{{ID: uuid.New(), Action: audit.ActionAppointmentCompleted}}, 1, nil
}

type staffFixture struct {
	router  *gin.Engine
	owner   uuid.UUID
	unit    *models.Unit
	foreign *models.Unit
	repo    *stubStaffRepo
	clients *searchingClients
	logs    *stubAuditLister
}

func newStaffFixture(t *testing.T) *staffFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	owner := uuid.New()
	unit := &models.Unit{ID: uuid.New(), UserID: owner, Timezone: "America/Sao_Paulo"}
	foreign := &models.Unit{ID: uuid.New(), UserID: uuid.New(), Timezone: "America/Sao_Paulo"}

	repo := &stubStaffRepo{
		stubAgendaRepo: stubAgendaRepo{units: map[uuid.UUID]*models.Unit{unit.ID: unit, foreign.ID: foreign}},
		appointments:   map[uuid.UUID]*models.Appointment{},
	}
	clients := &searchingClients{}
	logs := &stubAuditLister{}
	logger := logging.Discard()

	appointments := NewAppointmentHandler(repo, audit.Nop{}, logger)
	clientHandler := NewClientHandler(repo, clients, logger)
	auditHandler := NewAuditLogsHandler(repo, logs, logger)

	r := gin.New()
	staff := r.Group("/api", func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User"); raw != "" {
			c.Set(middleware.ContextUserID, uuid.MustParse(raw))
		}
		c.Next()
	})
	staff.PATCH("/appointments/:id/complete", appointments.Complete)
	staff.GET("/clients", clientHandler.List)
	staff.GET("/audit-logs", auditHandler.List)

	return &staffFixture{
		router:  r,
		owner:   owner,
		unit:    unit,
		foreign: foreign,
		repo:    repo,
		clients: clients,
		logs:    logs,
	}
}

func (f *staffFixture) do(t *testing.T, method, path string, user *uuid.UUID) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if user != nil {
		req.Header.Set("X-Test-User", user.String())
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestStaffRoutesRequireOwnedUnit(t *testing.T) {
	f := newStaffFixture(t)

	code, _ := f.do(t, http.MethodGet, "/api/clients?unit_id="+f.unit.ID.String(), nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = f.do(t, http.MethodGet, "/api/clients?unit_id=nope", &f.owner)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := f.do(t, http.MethodGet, "/api/clients?unit_id="+f.foreign.ID.String(), &f.owner)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Unidade não encontrada", body["error"])
}

func TestClientListPaginates(t *testing.T) {
	f := newStaffFixture(t)

	code, body := f.do(t, http.MethodGet,
		"/api/clients?unit_id="+f.unit.ID.String()+"&query=%20jo%20&page=3&limit=20", &f.owner)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "jo", f.clients.gotQuery)
	assert.Equal(t, 20, f.clients.gotLimit)
	assert.Equal(t, 40, f.clients.gotOffset)
	assert.EqualValues(t, 41, body["total"])
	assert.Len(t, body["data"], 1)
}

func TestAuditLogsScopedToUnit(t *testing.T) {
	f := newStaffFixture(t)

	code, body := f.do(t, http.MethodGet,
		"/api/audit-logs?unit_id="+f.unit.ID.String()+"&action=appointment_completed&limit=999", &f.owner)

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, f.unit.ID, f.logs.got.UnitID)
	assert.Equal(t, "appointment_completed", f.logs.got.Action)
	assert.Equal(t, 50, f.logs.got.Limit)
	assert.EqualValues(t, 1, body["total"])
}

func TestCompleteAppointment(t *testing.T) {
	f := newStaffFixture(t)

	ap := &models.Appointment{ID: uuid.New(), UnitID: f.unit.ID, Status: "confirmed"}
	f.repo.appointments[ap.ID] = ap

	path := "/api/appointments/" + ap.ID.String() + "/complete?unit_id=" + f.unit.ID.String()
	code, body := f.do(t, http.MethodPatch, path, &f.owner)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []uuid.UUID{ap.ID}, f.repo.updated)
	assert.Equal(t, "completed", f.repo.appointments[ap.ID].Status)

	code, _ = f.do(t, http.MethodPatch, path, &f.owner)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCompleteAppointmentOfAnotherUnit(t *testing.T) {
	f := newStaffFixture(t)

	ap := &models.Appointment{ID: uuid.New(), UnitID: f.foreign.ID, Status: "pending"}
	f.repo.appointments[ap.ID] = ap

	code, _ := f.do(t, http.MethodPatch,
		"/api/appointments/"+ap.ID.String()+"/complete?unit_id="+f.unit.ID.String(), &f.owner)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Empty(t, f.repo.updated)
}
