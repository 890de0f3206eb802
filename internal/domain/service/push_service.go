package service

import (
	"context"
	"encoding/json"

	"pushgate/internal/domain/entity"
)

// PushDispatcher sends a single push message through the messaging provider.
type PushDispatcher interface {
	// SendPush delivers the message to its destination token and returns the
	// provider's response body, which the core treats as opaque.
	SendPush(ctx context.Context, accessToken *entity.AccessToken, msg *entity.PushMessage) (json.RawMessage, error)
}
