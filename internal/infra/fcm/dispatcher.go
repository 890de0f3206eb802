// Package fcm dispatches push messages through the FCM HTTP v1 API.
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"pushgate/internal/domain/entity"
	domainerrors "pushgate/internal/domain/errors"
	"pushgate/internal/domain/service"

	"github.com/pkg/errors"
)

// googleFCMURL is the base of the FCM HTTP v1 API; sends go to
// projects/{project}/messages:send.
const googleFCMURL = "https://fcm.googleapis.com/v1"

// sendRequest is the FCM v1 send envelope.
type sendRequest struct {
	Message message `json:"message"`
}

type message struct {
	Token        string            `json:"token"`
	Notification notification      `json:"notification"`
	Data         map[string]string `json:"data"`
	Android      androidConfig     `json:"android"`
}

type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// androidConfig carries the delivery hints: high priority, and a collapse
// key plus notification tag so that a later message about the same thing
// replaces an earlier undelivered one on the device instead of stacking.
type androidConfig struct {
	Priority     string              `json:"priority"`
	CollapseKey  string              `json:"collapse_key"`
	Notification androidNotification `json:"notification"`
}

type androidNotification struct {
	Tag string `json:"tag"`
}

// dispatcher is a concrete implementation of service.PushDispatcher backed by
// the FCM HTTP v1 REST endpoint.
type dispatcher struct {
	projectID  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a dispatcher.
type Option func(*dispatcher)

// WithBaseURL overrides the FCM API base URL.
func WithBaseURL(baseURL string) Option {
	return func(d *dispatcher) {
		d.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client used for sends.
func WithHTTPClient(client *http.Client) Option {
	return func(d *dispatcher) {
		d.httpClient = client
	}
}

// NewDispatcher creates an FCM HTTP v1 push dispatcher.
func NewDispatcher(projectID string, logger *slog.Logger, opts ...Option) service.PushDispatcher {
	d := &dispatcher{
		projectID:  projectID,
		baseURL:    googleFCMURL,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SendPush posts one message to the provider and returns its response body.
func (d *dispatcher) SendPush(ctx context.Context, accessToken *entity.AccessToken, msg *entity.PushMessage) (json.RawMessage, error) {
	data := msg.Data
	if data == nil {
		data = map[string]string{}
	}

	collapseKey := msg.CollapseKey()

	payload := sendRequest{
		Message: message{
			Token: msg.Token,
			Notification: notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: data,
			Android: androidConfig{
				Priority:     "HIGH",
				CollapseKey:  collapseKey,
				Notification: androidNotification{Tag: collapseKey},
			},
		},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode send request")
	}

	sendURL := fmt.Sprintf("%s/projects/%s/messages:send", d.baseURL, d.projectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "build send request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken.Value)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read send response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domainerrors.ErrDispatchFailed.WithDetails(fmt.Sprintf("FCM send error: %d %s", resp.StatusCode, string(body)))
	}

	d.logger.Info("push message dispatched",
		slog.String("collapseKey", collapseKey),
	)

	return json.RawMessage(body), nil
}
