package entity

import "encoding/json"

// DefaultCollapseKey is used when the payload carries no notification identifier.
const DefaultCollapseKey = "ttu-default"

// PushMessage describes one push notification bound for a single device.
type PushMessage struct {
	Token string            `json:"token"` // Destination FCM device token.
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"` // Arbitrary application metadata.
}

// CollapseKey derives the identifier under which the provider replaces an
// earlier undelivered notification instead of stacking a new one.
// Taken from data.notificationId, then data.id, then a fixed default.
// Presence decides, not emptiness: a key set to "" is still a chosen key.
func (m *PushMessage) CollapseKey() string {
	if id, ok := m.Data["notificationId"]; ok {
		return id
	}
	if id, ok := m.Data["id"]; ok {
		return id
	}

	return DefaultCollapseKey
}

// DispatchResult is the terminal outcome of one dispatch pipeline run.
// Skipped marks the distinguished "no destination token" outcome, which is
// not an error.
type DispatchResult struct {
	Skipped  bool            `json:"skipped,omitempty"`
	Reason   string          `json:"reason,omitempty"`
	Provider json.RawMessage `json:"result,omitempty"` // Opaque provider response body.
}
