// Package googleauth mints short-lived Google OAuth2 access tokens from a
// service-account credential using the RFC 7523 JWT-bearer grant.
package googleauth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pushgate/internal/domain/entity"
	domainerrors "pushgate/internal/domain/errors"
	"pushgate/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// googleTokenURL is the Google authorization server's token endpoint.
	// It is also the audience of every signed assertion.
	googleTokenURL = "https://oauth2.googleapis.com/token"

	grantTypeJWTBearer = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// assertionLifetime is the validity window claimed by the signed assertion.
	assertionLifetime = time.Hour
)

// tokenSigner is a concrete implementation of service.AccessTokenService.
// It signs a JWT assertion with the service-account private key and exchanges
// it for a bearer token in a single round trip.
type tokenSigner struct {
	clientEmail string
	privateKey  *rsa.PrivateKey
	tokenURL    string
	httpClient  *http.Client
}

// Option customizes a token signer.
type Option func(*tokenSigner)

// WithTokenURL overrides the authorization server's token endpoint.
func WithTokenURL(tokenURL string) Option {
	return func(s *tokenSigner) {
		s.tokenURL = tokenURL
	}
}

// WithHTTPClient overrides the HTTP client used for the exchange.
func WithHTTPClient(client *http.Client) Option {
	return func(s *tokenSigner) {
		s.httpClient = client
	}
}

// NewTokenSigner is the constructor for tokenSigner. It parses the PEM private
// key up front so that credential problems surface at startup rather than on
// the first request.
func NewTokenSigner(cred *entity.ServiceAccountCredential, opts ...Option) (service.AccessTokenService, error) {
	if err := cred.Validate(); err != nil {
		return nil, domainerrors.ErrConfigInvalid.WithDetails(err.Error())
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cred.PrivateKeyPEM))
	if err != nil {
		return nil, domainerrors.ErrConfigInvalid.WithDetails(fmt.Sprintf("parse service account private key: %v", err))
	}

	signer := &tokenSigner{
		clientEmail: cred.ClientEmail,
		privateKey:  key,
		tokenURL:    googleTokenURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(signer)
	}

	return signer, nil
}

// tokenResponse is the subset of the token endpoint's response this service reads.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// MintAccessToken builds a signed RS256 assertion for the requested scopes and
// exchanges it for a bearer access token.
func (s *tokenSigner) MintAccessToken(ctx context.Context, scopes []string) (*entity.AccessToken, error) {
	assertion, err := s.signAssertion(scopes, time.Now())
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", grantTypeJWTBearer)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "build token exchange request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "token exchange request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read token exchange response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domainerrors.ErrAuthFailed.WithDetails(fmt.Sprintf("OAuth token error: %d %s", resp.StatusCode, string(body)))
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, domainerrors.ErrAuthFailed.WithDetails(fmt.Sprintf("malformed token response: %v", err))
	}

	if parsed.AccessToken == "" {
		return nil, domainerrors.ErrAuthFailed.WithDetails("OAuth token response missing access_token")
	}

	return &entity.AccessToken{
		Value:     parsed.AccessToken,
		ExpiresAt: time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second),
	}, nil
}

// signAssertion creates the service-account JWT bearer assertion. The issuer
// and subject are both the service-account principal, the audience is the
// token endpoint itself, and the scope claim carries the space-joined scopes.
func (s *tokenSigner) signAssertion(scopes []string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss":   s.clientEmail,
		"sub":   s.clientEmail,
		"aud":   s.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
		"scope": strings.Join(scopes, " "),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", errors.Wrap(err, "sign assertion")
	}

	return signed, nil
}
