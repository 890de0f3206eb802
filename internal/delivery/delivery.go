// Package delivery defines the inbound delivery surfaces of the service.
package delivery

import "context"

// Delivery is a long-running inbound server (HTTP today).
type Delivery interface {
	Serve(ctx context.Context) error
}
