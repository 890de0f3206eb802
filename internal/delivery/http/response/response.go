package response

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the wire contract existing push clients consume: a flat object
// flagged by "ok", with the provider payload under "result" and the
// no-destination outcome marked by "skipped".
type Envelope struct {
	OK      bool            `json:"ok"`
	Skipped bool            `json:"skipped,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Result returns the provider's success payload.
func Result(c echo.Context, result json.RawMessage) error {
	return c.JSON(http.StatusOK, Envelope{
		OK:     true,
		Result: result,
	})
}

// Skipped reports the distinguished "no destination" outcome.
func Skipped(c echo.Context, reason string) error {
	return c.JSON(http.StatusOK, Envelope{
		OK:      true,
		Skipped: true,
		Reason:  reason,
	})
}

// PipelineError reports a dispatch pipeline failure. The status is 200 so
// that upstream callers (e.g. webhook senders) do not retry a request the
// pipeline has already rejected deterministically.
func PipelineError(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Envelope{
		OK:    false,
		Error: message,
	})
}

// RequestError reports a malformed or unauthorized request with a real HTTP
// error status.
func RequestError(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Envelope{
		OK:    false,
		Error: message,
	})
}
