package service

import (
	"context"

	"pushgate/internal/domain/entity"
)

// OAuth scopes requested when minting access tokens. Dispatch-by-token only
// needs messaging; dispatch-by-user additionally reads the document store.
const (
	ScopeFirebaseMessaging = "https://www.googleapis.com/auth/firebase.messaging"
	ScopeDatastore         = "https://www.googleapis.com/auth/datastore"
)

// AccessTokenService mints a short-lived bearer token from a service-account
// credential. The scope set is chosen by the caller; one outbound call per
// invocation, no caching, no retries.
type AccessTokenService interface {
	MintAccessToken(ctx context.Context, scopes []string) (*entity.AccessToken, error)
}
