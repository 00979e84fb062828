package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

const (
	HeaderAPIKey     = "x-api-key"
	HeaderUnitAPIKey = "x-unit-api-key"
)

// IntegrationKey admits callers presenting the shared integration secret. An
// empty secret rejects everyone.
func IntegrationKey(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(HeaderAPIKey)
		if secret == "" || provided == "" || !secureEqual(provided, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Chave de API inválida",
			})
			return
		}
		c.Next()
	}
}

// UnitKeyValid checks the optional per-unit key. A unit with a hashed agenda
// key always requires it; otherwise a provided key must match the gateway key.
func UnitKeyValid(unit *models.Unit, provided string) bool {
	if unit.AgendaAPIKeyHash != "" {
		if provided == "" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(unit.AgendaAPIKeyHash), []byte(provided)) == nil
	}
	if provided != "" && unit.EvolutionAPIKey != "" {
		return secureEqual(provided, unit.EvolutionAPIKey)
	}
	return true
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
