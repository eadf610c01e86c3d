package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lms_sync/internal/domain"
)

type errorBody struct {
	OK                bool   `json:"ok"`
	Error             string `json:"error"`
	ReconnectRequired bool   `json:"reconnectRequired,omitempty"`
}

// statusOf maps a service error onto its response status and body.
func statusOf(err error) (int, errorBody) {
	body := errorBody{Error: err.Error()}

	var reconnect *domain.ReconnectError
	switch {
	case errors.As(err, &reconnect):
		body.Error = reconnect.Reason
		body.ReconnectRequired = true
		return http.StatusUnauthorized, body
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, body
	case errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrHostNotAllowed),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, body
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, body
	case errors.Is(err, domain.ErrRunInProgress):
		return http.StatusConflict, body
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, body
	case errors.Is(err, domain.ErrShuttingDown):
		return http.StatusServiceUnavailable, body
	default:
		body.Error = "internal server error"
		return http.StatusInternalServerError, body
	}
}

func (h *Handler) fail(c echo.Context, err error) error {
	status, body := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", status,
			"error", err,
		)
	} else {
		h.logger.Debug("request rejected", "path", c.Path(), "status", status, "error", err)
	}
	return c.JSON(status, body)
}

