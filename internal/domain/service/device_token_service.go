package service

import (
	"context"

	"pushgate/internal/domain/entity"
)

// DeviceTokenResolver resolves the most recently active device token
// registered for a user.
type DeviceTokenResolver interface {
	// ResolveNewestToken fetches the user's token collection and returns the
	// token with the greatest activity timestamp. An empty string with a nil
	// error means the user has no deliverable destination, which is a normal
	// outcome rather than a failure.
	ResolveNewestToken(ctx context.Context, userID string, accessToken *entity.AccessToken) (string, error)
}
