package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpmiddleware "pushgate/internal/delivery/http/middleware"
	"pushgate/internal/delivery/http/validator"
	"pushgate/internal/domain/entity"
	domainerrors "pushgate/internal/domain/errors"
	"pushgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPushUsecase struct {
	mock.Mock
}

func (m *mockPushUsecase) SendToToken(ctx context.Context, token, title, body string, data map[string]any) (*entity.DispatchResult, error) {
	args := m.Called(ctx, token, title, body, data)
	if result, ok := args.Get(0).(*entity.DispatchResult); ok {
		return result, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockPushUsecase) SendToUser(ctx context.Context, userID, title, body string, data map[string]any) (*entity.DispatchResult, error) {
	args := m.Called(ctx, userID, title, body, data)
	if result, ok := args.Get(0).(*entity.DispatchResult); ok {
		return result, args.Error(1)
	}

	return nil, args.Error(1)
}

func newTestServer(uc usecase.PushUsecase) *echo.Echo {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	e := echo.New()
	e.Validator = validator.New()

	h := NewPushHandler(uc, logger)
	auth := httpmiddleware.NewAuthMiddleware(logger)

	group := e.Group("", auth.RequireBearer)
	group.POST("/send-push", h.SendPush)
	group.POST("/send-push-to-user", h.SendPushToUser)

	return e
}

func doRequest(e *echo.Echo, path, body string, withAuth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if withAuth {
		req.Header.Set(echo.HeaderAuthorization, "Bearer caller-token")
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestSendPush_Success(t *testing.T) {
	uc := &mockPushUsecase{}
	uc.On("SendToToken", mock.Anything, "device-token", "Hi", "There", mock.Anything).
		Return(&entity.DispatchResult{Provider: json.RawMessage(`{"name":"projects/p/messages/1"}`)}, nil)

	rec := doRequest(newTestServer(uc), "/send-push",
		`{"token":"device-token","title":"Hi","body":"There"}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope["ok"])
	assert.Equal(t, map[string]any{"name": "projects/p/messages/1"}, envelope["result"])

	uc.AssertExpectations(t)
}

func TestSendPush_PassesDataThrough(t *testing.T) {
	uc := &mockPushUsecase{}
	uc.On("SendToToken", mock.Anything, "device-token", "Hi", "There",
		map[string]any{"notificationId": "n-1", "badge": float64(2)}).
		Return(&entity.DispatchResult{Provider: json.RawMessage(`{}`)}, nil)

	rec := doRequest(newTestServer(uc), "/send-push",
		`{"token":"device-token","title":"Hi","body":"There","data":{"notificationId":"n-1","badge":2}}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestSendPush_MissingRequiredFields(t *testing.T) {
	uc := &mockPushUsecase{}

	rec := doRequest(newTestServer(uc), "/send-push", `{"title":"Hi"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope["ok"])

	// The pipeline must never run for an invalid request.
	uc.AssertNotCalled(t, "SendToToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendPush_MissingBearerToken(t *testing.T) {
	uc := &mockPushUsecase{}

	rec := doRequest(newTestServer(uc), "/send-push",
		`{"token":"device-token","title":"Hi","body":"There"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	uc.AssertNotCalled(t, "SendToToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendPush_PipelineErrorRidesHTTP200(t *testing.T) {
	uc := &mockPushUsecase{}
	uc.On("SendToToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrDispatchFailed.WithDetails("FCM send error: 404 UNREGISTERED"))

	rec := doRequest(newTestServer(uc), "/send-push",
		`{"token":"gone","title":"Hi","body":"There"}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope["ok"])
	assert.Contains(t, envelope["error"], "404 UNREGISTERED")
}

func TestSendPushToUser_Success(t *testing.T) {
	uc := &mockPushUsecase{}
	uc.On("SendToUser", mock.Anything, "user-1", "Hi", "There", mock.Anything).
		Return(&entity.DispatchResult{Provider: json.RawMessage(`{"name":"projects/p/messages/2"}`)}, nil)

	rec := doRequest(newTestServer(uc), "/send-push-to-user",
		`{"userId":"user-1","title":"Hi","body":"There"}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope["ok"])
	assert.Nil(t, envelope["skipped"])

	uc.AssertExpectations(t)
}

func TestSendPushToUser_SkippedWhenNoDestination(t *testing.T) {
	uc := &mockPushUsecase{}
	uc.On("SendToUser", mock.Anything, "user-1", "Hi", "There", mock.Anything).
		Return(&entity.DispatchResult{Skipped: true, Reason: "No fcmTokens"}, nil)

	rec := doRequest(newTestServer(uc), "/send-push-to-user",
		`{"userId":"user-1","title":"Hi","body":"There"}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope["ok"])
	assert.Equal(t, true, envelope["skipped"])
	assert.Equal(t, "No fcmTokens", envelope["reason"])
}

func TestSendPushToUser_MissingUserID(t *testing.T) {
	uc := &mockPushUsecase{}

	rec := doRequest(newTestServer(uc), "/send-push-to-user",
		`{"title":"Hi","body":"There"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
