package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

// AuditLister is satisfied by *audit.Logger.
type AuditLister interface {
	List(ctx context.Context, f audit.ListFilter) ([]models.AuditLog, int64, error)
}

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	repo   domain.Repository
	logs   AuditLister
	logger *logging.Logger
}

func NewAuditLogsHandler(repo domain.Repository, logs AuditLister, logger *logging.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{repo: repo, logs: logs, logger: logger}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	unit, _, ok := ownedUnit(c, h.repo, h.logger)
	if !ok {
		return
	}

	page, limit, offset := pageParams(c, 50, 200)

	logs, total, err := h.logs.List(c.Request.Context(), audit.ListFilter{
		UnitID: unit.ID,
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	httpresp.Page(c, page, limit, total, logs)
}
