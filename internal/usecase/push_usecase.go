// Package usecase defines the application's use case interfaces.
package usecase

import (
	"context"

	"pushgate/internal/domain/entity"
)

// PushUsecase drives the dispatch pipeline: mint an access token, resolve the
// destination when dispatching by user, then send the message. Each call is
// fully independent; nothing is cached or shared across invocations.
type PushUsecase interface {
	// SendToToken dispatches a push message to an explicit device token.
	SendToToken(ctx context.Context, token, title, body string, data map[string]any) (*entity.DispatchResult, error)

	// SendToUser resolves the user's most recently active device token and
	// dispatches to it. When the user has no registered token, the result is
	// the distinguished skipped outcome rather than an error.
	SendToUser(ctx context.Context, userID, title, body string, data map[string]any) (*entity.DispatchResult, error)
}
