package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	clientdomain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/httpresp"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
)

type ClientHandler struct {
	repo    domain.Repository
	clients clientdomain.Repository
	logger  *logging.Logger
}

func NewClientHandler(
	repo domain.Repository,
	clients clientdomain.Repository,
	logger *logging.Logger,
) *ClientHandler {
	return &ClientHandler{repo: repo, clients: clients, logger: logger}
}

// ======================================================
// LIST CLIENTS
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	unit, _, ok := ownedUnit(c, h.repo, h.logger)
	if !ok {
		return
	}

	query := strings.TrimSpace(c.Query("query"))
	page, limit, offset := pageParams(c, 50, 200)

	clients, total, err := h.clients.Search(c.Request.Context(), unit.ID, query, limit, offset)
	if err != nil {
		httperr.Fail(c, h.logger, err)
		return
	}

	httpresp.Page(c, page, limit, total, clients)
}
