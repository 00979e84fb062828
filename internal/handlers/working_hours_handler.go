package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	appointmentuc "github.com/BruksfildServices01/agenda-api/internal/usecase/appointment"
)

type WorkingHoursHandler struct {
	repo   domain.Repository
	logger *logging.Logger
	hours  *appointmentuc.BusinessHours
}

func NewWorkingHoursHandler(
	repo domain.Repository,
	auditor audit.Auditor,
	logger *logging.Logger,
) *WorkingHoursHandler {
	return &WorkingHoursHandler{
		repo:   repo,
		logger: logger,
		hours:  appointmentuc.NewBusinessHours(repo, auditor),
	}
}

type WorkingHoursUpdateRequest struct {
	Days []appointmentuc.DayConfig `json:"days" binding:"required"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	unit, _, ok := ownedUnit(c, h.repo, h.logger)
	if !ok {
		return
	}

	week, err := h.hours.Week(c.Request.Context(), unit)
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": week})
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	unit, userID, ok := ownedUnit(c, h.repo, h.logger)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Fail(c, h.logger, httperr.Validation("Dados inválidos.").
			WithDetails(map[string]any{"details": err.Error()}))
		return
	}

	if err := h.hours.Replace(c.Request.Context(), unit, &userID, req.Days); err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
