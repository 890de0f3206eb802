// Package lifecycle holds shared lifecycle constants for server startup and
// shutdown handling.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of delivery servers.
const DefaultTimeout = 30 * time.Second
