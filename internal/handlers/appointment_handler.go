package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	appointmentuc "github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler is the staff view of a unit's agenda.
type AppointmentHandler struct {
	repo   domain.Repository
	logger *logging.Logger

	list     *appointmentuc.ListAppointmentsByDate
	complete *appointmentuc.CompleteAppointment
	cancel   *appointmentuc.CancelAppointment
}

func NewAppointmentHandler(
	repo domain.Repository,
	auditor audit.Auditor,
	logger *logging.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:     repo,
		logger:   logger,
		list:     appointmentuc.NewListAppointmentsByDate(repo),
		complete: appointmentuc.NewCompleteAppointment(repo, auditor),
		cancel:   appointmentuc.NewCancelAppointment(repo, auditor),
	}
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	unit, _, ok := ownedUnit(c, h.repo, h.logger)
	if !ok {
		return
	}

	var barberID *uuid.UUID
	if raw := c.Query("barber_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httperr.Fail(c, h.logger, httperr.Validation("barber_id inválido"))
			return
		}
		barberID = &id
	}

	date := c.Query("date")
	items, err := h.list.Execute(c.Request.Context(), unit, date, barberID)
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date,
		"appointments": items,
	})
}

// ======================================================
// COMPLETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	unit, userID, ok := ownedUnit(c, h.repo, h.logger)
	if !ok {
		return
	}

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), unit.ID, &userID, id)
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"appointment": ap,
	})
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	unit, _, ok := ownedUnit(c, h.repo, h.logger)
	if !ok {
		return
	}

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), appointmentuc.CancelAppointmentInput{
		Unit:          unit,
		AppointmentID: &id,
		Source:        domain.SourceStaff,
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"message":               "Agendamento cancelado com sucesso!",
		"cancelled_appointment": ap,
	})
}

func (h *AppointmentHandler) appointmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.Fail(c, h.logger, domain.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
