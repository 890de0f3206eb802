package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"pushgate/internal/domain/entity"
	domainerrors "pushgate/internal/domain/errors"
	"pushgate/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	// googleFirestoreURL is the base of the Firestore REST API; user documents
	// live under projects/{project}/databases/(default)/documents/users/{userId}.
	googleFirestoreURL = "https://firestore.googleapis.com/v1"

	// fcmTokensField is the document field holding the per-token metadata map.
	fcmTokensField = "fcmTokens"
)

// document is a Firestore REST document body.
type document struct {
	Fields map[string]Value `json:"fields"`
}

// tokenResolver is a concrete implementation of service.DeviceTokenResolver
// backed by the Firestore REST API.
type tokenResolver struct {
	projectID  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a token resolver.
type Option func(*tokenResolver)

// WithBaseURL overrides the Firestore REST API base URL.
func WithBaseURL(baseURL string) Option {
	return func(r *tokenResolver) {
		r.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client used for document reads.
func WithHTTPClient(client *http.Client) Option {
	return func(r *tokenResolver) {
		r.httpClient = client
	}
}

// NewTokenResolver creates a Firestore-backed device token resolver.
func NewTokenResolver(projectID string, logger *slog.Logger, opts ...Option) service.DeviceTokenResolver {
	resolver := &tokenResolver{
		projectID:  projectID,
		baseURL:    googleFirestoreURL,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// ResolveNewestToken fetches the user document and picks the device token with
// the greatest activity timestamp. An empty result with a nil error means the
// user simply has no registered tokens.
func (r *tokenResolver) ResolveNewestToken(ctx context.Context, userID string, accessToken *entity.AccessToken) (string, error) {
	docURL := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/users/%s",
		r.baseURL, r.projectID, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "build document read request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken.Value)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "document read request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read document response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", domainerrors.ErrLookupFailed.WithDetails(fmt.Sprintf("Firestore read error: %d %s", resp.StatusCode, string(body)))
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", domainerrors.ErrLookupFailed.WithDetails(fmt.Sprintf("malformed document response: %v", err))
	}

	token := pickNewestToken(&doc)
	if token == "" {
		r.logger.Info("user has no registered device tokens", slog.String("userID", userID))
	}

	return token, nil
}

// pickNewestToken walks the fcmTokens map and returns the token whose
// metadata carries the greatest effective timestamp. The effective timestamp
// of an entry is the maximum of its updatedAt (structured) and updatedAtLocal
// (raw integer) fields, each converted totally to milliseconds. Entries with
// an empty token key are skipped; ties keep the first entry encountered.
func pickNewestToken(doc *document) string {
	tokens := doc.Fields[fcmTokensField].mapFields()
	if len(tokens) == 0 {
		return ""
	}

	bestToken := ""
	bestMillis := int64(-1)

	for token, meta := range tokens {
		if token == "" {
			continue
		}

		metaFields := meta.mapFields()

		updatedAt := metaFields["updatedAt"]
		updatedAtLocal := metaFields["updatedAtLocal"]

		millis := max(updatedAt.Millis(), updatedAtLocal.Millis())

		if millis > bestMillis {
			bestMillis = millis
			bestToken = token
		}
	}

	return bestToken
}
