package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "pushgate/internal/delivery/context"
	"pushgate/internal/delivery/http/response"
	domainerrors "pushgate/internal/domain/errors"
	"pushgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PushHandler holds dependencies for push dispatch handlers
type PushHandler struct {
	uc     usecase.PushUsecase
	logger *slog.Logger
}

// NewPushHandler is the constructor for PushHandler
func NewPushHandler(uc usecase.PushUsecase, logger *slog.Logger) *PushHandler {
	return &PushHandler{
		uc:     uc,
		logger: logger,
	}
}

// SendPushRequest represents the request body for dispatch to an explicit token
type SendPushRequest struct {
	Token string         `json:"token" validate:"required"`
	Title string         `json:"title" validate:"required"`
	Body  string         `json:"body" validate:"required"`
	Data  map[string]any `json:"data,omitempty"`
}

// SendPushToUserRequest represents the request body for dispatch by user
type SendPushToUserRequest struct {
	UserID string         `json:"userId" validate:"required"`
	Title  string         `json:"title" validate:"required"`
	Body   string         `json:"body" validate:"required"`
	Data   map[string]any `json:"data,omitempty"`
}

// SendPush handles dispatch to an explicit device token
func (h *PushHandler) SendPush(c echo.Context) error {
	var req SendPushRequest
	if err := c.Bind(&req); err != nil {
		return response.RequestError(c, http.StatusBadRequest, "Invalid push input")
	}
	if err := c.Validate(&req); err != nil {
		return response.RequestError(c, http.StatusBadRequest, "Required fields: token, title, body")
	}

	ctx := c.Request().Context()

	result, err := h.uc.SendToToken(ctx, req.Token, req.Title, req.Body, req.Data)
	if err != nil {
		return h.handlePipelineError(c, err)
	}

	return response.Result(c, result.Provider)
}

// SendPushToUser handles dispatch to a user's most recently active device
func (h *PushHandler) SendPushToUser(c echo.Context) error {
	var req SendPushToUserRequest
	if err := c.Bind(&req); err != nil {
		return response.RequestError(c, http.StatusBadRequest, "Invalid push input")
	}
	if err := c.Validate(&req); err != nil {
		return response.RequestError(c, http.StatusBadRequest, "Required fields: userId, title, body")
	}

	ctx := c.Request().Context()

	result, err := h.uc.SendToUser(ctx, req.UserID, req.Title, req.Body, req.Data)
	if err != nil {
		return h.handlePipelineError(c, err)
	}

	if result.Skipped {
		return response.Skipped(c, result.Reason)
	}

	return response.Result(c, result.Provider)
}

// handlePipelineError relays a core failure to the client. Pipeline failures
// deliberately ride an HTTP 200 so upstream callers do not retry them; the
// failure itself is carried in the envelope.
func (h *PushHandler) handlePipelineError(c echo.Context, err error) error {
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		logger.Error("dispatch pipeline failed",
			slog.String("errorCode", appErr.ErrorCode()),
			slog.String("details", appErr.Details()),
		)

		return response.PipelineError(c, appErr.Error())
	}

	logger.Error("dispatch pipeline failed", slog.Any("error", err))

	return response.PipelineError(c, err.Error())
}
