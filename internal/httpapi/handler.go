package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"lms_sync/internal/domain"
	"lms_sync/internal/progress"
	"lms_sync/internal/service"
)

type Syncer interface {
	SyncUnits(ctx context.Context, ownerID string, onProgress domain.ProgressFunc) (*domain.UnitSyncResult, error)
	SyncAssignments(ctx context.Context, ownerID string, onProgress domain.ProgressFunc) (*domain.AssignmentSyncResult, error)
}

type Connections interface {
	Connect(ctx context.Context, ownerID string, req service.ConnectRequest) (*service.ConnectResult, error)
	Verify(ctx context.Context, ownerID string) (*service.VerifyResult, error)
	Disconnect(ctx context.Context, ownerID, connectionID string) error
	Status(ctx context.Context, ownerID string) (*domain.SyncStatus, error)
}

type Handler struct {
	syncer      Syncer
	connections Connections
	logger      *slog.Logger
}

func NewHandler(syncer Syncer, connections Connections, logger *slog.Logger) *Handler {
	return &Handler{
		syncer:      syncer,
		connections: connections,
		logger:      logger.With("component", "http"),
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

type connectRequest struct {
	Institution string `json:"institution"`
	BaseURL     string `json:"base_url"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

func (h *Handler) Connect(c echo.Context) error {
	var req connectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
	}

	result, err := h.connections.Connect(c.Request().Context(), ownerID(c), service.ConnectRequest{
		Institution: req.Institution,
		BaseURL:     req.BaseURL,
		DisplayName: req.DisplayName,
		Token:       req.Token,
	})
	if err != nil {
		return h.fail(c, err)
	}

	status := http.StatusOK
	if result.Action == service.ActionCreated {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"ok": true, "connectionId": result.ConnectionID, "action": result.Action})
}

func (h *Handler) Verify(c echo.Context) error {
	result, err := h.connections.Verify(c.Request().Context(), ownerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "profile": result})
}

func (h *Handler) Disconnect(c echo.Context) error {
	if err := h.connections.Disconnect(c.Request().Context(), ownerID(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Status(c echo.Context) error {
	status, err := h.connections.Status(c.Request().Context(), ownerID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *Handler) SyncUnits(c echo.Context) error {
	result, err := h.syncer.SyncUnits(c.Request().Context(), ownerID(c), nil)
	return h.respond(c, result, err)
}

func (h *Handler) SyncAssignments(c echo.Context) error {
	result, err := h.syncer.SyncAssignments(c.Request().Context(), ownerID(c), nil)
	return h.respond(c, result, err)
}

func (h *Handler) StreamUnits(c echo.Context) error {
	w := progress.NewWriter(c.Response())
	result, err := h.syncer.SyncUnits(c.Request().Context(), ownerID(c), w.Progress)
	return h.stream(c, w, result, err)
}

func (h *Handler) StreamAssignments(c echo.Context) error {
	w := progress.NewWriter(c.Response())
	result, err := h.syncer.SyncAssignments(c.Request().Context(), ownerID(c), w.Progress)
	return h.stream(c, w, result, err)
}

func (h *Handler) respond(c echo.Context, summary any, err error) error {
	if err != nil {
		return h.fail(c, err)
	}
	body, err := progress.Fields(summary)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, body)
}

// stream ends a streaming run. Failures before the first event still get a
// plain status code; after that they become the terminal event.
func (h *Handler) stream(c echo.Context, w *progress.Writer, summary any, err error) error {
	if err != nil && !w.Started() {
		return h.fail(c, err)
	}

	if err != nil {
		_, body := statusOf(err)
		err = w.Fail(errors.New(body.Error), body.ReconnectRequired)
	} else {
		err = w.Done(summary)
	}
	if err != nil {
		h.logger.Debug("progress stream not delivered", "path", c.Path(), "error", err)
	}
	return nil
}
