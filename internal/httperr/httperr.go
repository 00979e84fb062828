package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-api/internal/logging"
)

// Message returned for every store or unexpected failure. Details stay in the
// server log.
const GenericMessage = "Erro ao processar solicitação"

type HTTPError struct {
	Success bool   `json:"success"`
	Code    string `json:"error_code"`
	Message string `json:"error"`
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// Fail renders err. Business errors keep their message; anything else is
// logged and answered with GenericMessage.
func Fail(c *gin.Context, logger *logging.Logger, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		if logger != nil {
			logger.Error("request failed",
				"path", c.Request.URL.Path,
				"error", err,
			)
		}
		c.JSON(http.StatusInternalServerError, HTTPError{
			Code:    "internal_error",
			Message: GenericMessage,
		})
		return
	}

	message := be.Message
	if message == "" {
		message = be.Code
	}

	body := gin.H{
		"success":    false,
		"error":      message,
		"error_code": be.Code,
	}
	for k, v := range be.Details {
		body[k] = v
	}
	c.JSON(StatusOf(be.Kind), body)
}
