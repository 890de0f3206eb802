package fcm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"pushgate/internal/domain/entity"
	domainerrors "pushgate/internal/domain/errors"
	"pushgate/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestDispatcher(serverURL string) service.PushDispatcher {
	return NewDispatcher("test-project", discardLogger(), WithBaseURL(serverURL))
}

func TestSendPush_BuildsProviderRequest(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(`{"name":"projects/test-project/messages/0:12345"}`))
	}))
	defer server.Close()

	d := newTestDispatcher(server.URL)

	result, err := d.SendPush(context.Background(), &entity.AccessToken{Value: "ya29.test"}, &entity.PushMessage{
		Token: "device-token",
		Title: "Hello",
		Body:  "World",
		Data:  map[string]string{"notificationId": "n-42", "deepLink": "app://x"},
	})
	require.NoError(t, err)

	// Provider response is returned opaque.
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(result, &parsed))
	assert.Equal(t, "projects/test-project/messages/0:12345", parsed["name"])

	assert.Equal(t, "/projects/test-project/messages:send", gotPath)
	assert.Equal(t, "Bearer ya29.test", gotAuth)
	assert.Equal(t, "application/json", gotContentType)

	msg, ok := gotBody["message"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "device-token", msg["token"])
	assert.Equal(t, map[string]any{"title": "Hello", "body": "World"}, msg["notification"])
	assert.Equal(t, map[string]any{"notificationId": "n-42", "deepLink": "app://x"}, msg["data"])

	android, ok := msg["android"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "HIGH", android["priority"])
	assert.Equal(t, "n-42", android["collapse_key"])
	assert.Equal(t, map[string]any{"tag": "n-42"}, android["notification"])
}

func TestSendPush_CollapseKeyFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]string
		expected string
	}{
		{name: "notificationId preferred", data: map[string]string{"notificationId": "n-1", "id": "i-1"}, expected: "n-1"},
		{name: "id fallback", data: map[string]string{"id": "i-1"}, expected: "i-1"},
		{name: "fixed default", data: map[string]string{"other": "x"}, expected: "ttu-default"},
		{name: "absent data", data: nil, expected: "ttu-default"},
		// Presence wins over emptiness: an explicitly empty notificationId is
		// still the chosen key, it does not fall through to id or the default.
		{name: "present but empty notificationId", data: map[string]string{"notificationId": "", "id": "i-1"}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]any
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			d := newTestDispatcher(server.URL)

			_, err := d.SendPush(context.Background(), &entity.AccessToken{Value: "t"}, &entity.PushMessage{
				Token: "device-token",
				Title: "T",
				Body:  "B",
				Data:  tt.data,
			})
			require.NoError(t, err)

			msg := gotBody["message"].(map[string]any)
			android := msg["android"].(map[string]any)
			assert.Equal(t, tt.expected, android["collapse_key"])
			assert.Equal(t, map[string]any{"tag": tt.expected}, android["notification"])

			// Absent data is sent as an empty object, never omitted.
			assert.NotNil(t, msg["data"])
		})
	}
}

func TestSendPush_ProviderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"status":"UNREGISTERED"}}`))
	}))
	defer server.Close()

	d := newTestDispatcher(server.URL)

	_, err := d.SendPush(context.Background(), &entity.AccessToken{Value: "t"}, &entity.PushMessage{
		Token: "gone-token",
		Title: "T",
		Body:  "B",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDispatchFailed))
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "UNREGISTERED")
}
