package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
)

var errUnitNotOwned = httperr.NotFound("unit_not_found", "Unidade não encontrada")

// ownedUnit loads the unit named by the unit_id query parameter and checks it
// belongs to the authenticated account. On failure the response is already
// written and ok is false.
func ownedUnit(
	c *gin.Context,
	repo domain.Repository,
	logger *logging.Logger,
) (unit *models.Unit, userID uuid.UUID, ok bool) {

	userID, ok = middleware.UserID(c)
	if !ok {
		httperr.Fail(c, logger, httperr.Unauthorized("unauthorized", "Não autenticado"))
		return nil, uuid.Nil, false
	}

	unitID, err := uuid.Parse(c.Query("unit_id"))
	if err != nil {
		httperr.Fail(c, logger, httperr.Validation("unit_id inválido"))
		return nil, uuid.Nil, false
	}

	unit, err = repo.FindUnit(c.Request.Context(), unitID)
	if err != nil {
		httperr.Fail(c, logger, err)
		return nil, uuid.Nil, false
	}
	// a unit of another account is reported as missing
	if unit == nil || unit.UserID != userID {
		httperr.Fail(c, logger, errUnitNotOwned)
		return nil, uuid.Nil, false
	}

	if !timezone.IsValid(unit.Timezone) {
		unit.Timezone = timezone.DefaultTimezone
	}
	return unit, userID, true
}

func pageParams(c *gin.Context, defaultLimit, maxLimit int) (page, limit, offset int) {
	page = queryInt(c, "page", 1)
	if page <= 0 {
		page = 1
	}
	limit = queryInt(c, "limit", defaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}
