// Package impl contains the concrete use case implementations.
package impl

import (
	"context"
	"log/slog"

	"pushgate/internal/domain/entity"
	"pushgate/internal/domain/service"
	"pushgate/internal/usecase"
	"pushgate/internal/util"
)

// skippedNoTokens is the reason reported when a by-user dispatch finds no
// deliverable destination.
const skippedNoTokens = "No fcmTokens"

type pushService struct {
	logger     *slog.Logger
	tokenSvc   service.AccessTokenService
	resolver   service.DeviceTokenResolver
	dispatcher service.PushDispatcher
}

// NewPushService creates a new push dispatch service instance
func NewPushService(
	logger *slog.Logger,
	tokenSvc service.AccessTokenService,
	resolver service.DeviceTokenResolver,
	dispatcher service.PushDispatcher,
) usecase.PushUsecase {
	return &pushService{
		logger:     logger,
		tokenSvc:   tokenSvc,
		resolver:   resolver,
		dispatcher: dispatcher,
	}
}

// SendToToken mints a messaging-scoped access token and dispatches directly.
func (s *pushService) SendToToken(ctx context.Context, token, title, body string, data map[string]any) (*entity.DispatchResult, error) {
	accessToken, err := s.tokenSvc.MintAccessToken(ctx, []string{service.ScopeFirebaseMessaging})
	if err != nil {
		return nil, err
	}

	return s.dispatch(ctx, accessToken, token, title, body, data)
}

// SendToUser mints an access token scoped for messaging and the document
// store, resolves the user's newest device token, and dispatches to it.
func (s *pushService) SendToUser(ctx context.Context, userID, title, body string, data map[string]any) (*entity.DispatchResult, error) {
	accessToken, err := s.tokenSvc.MintAccessToken(ctx, []string{
		service.ScopeFirebaseMessaging,
		service.ScopeDatastore,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.resolver.ResolveNewestToken(ctx, userID, accessToken)
	if err != nil {
		return nil, err
	}

	if token == "" {
		s.logger.Info("dispatch skipped, user has no device token", slog.String("userID", userID))

		return &entity.DispatchResult{Skipped: true, Reason: skippedNoTokens}, nil
	}

	return s.dispatch(ctx, accessToken, token, title, body, data)
}

func (s *pushService) dispatch(ctx context.Context, accessToken *entity.AccessToken, token, title, body string, data map[string]any) (*entity.DispatchResult, error) {
	msg := &entity.PushMessage{
		Token: token,
		Title: title,
		Body:  body,
		Data:  util.StringifyMap(data),
	}

	providerResp, err := s.dispatcher.SendPush(ctx, accessToken, msg)
	if err != nil {
		return nil, err
	}

	return &entity.DispatchResult{Provider: providerResp}, nil
}
