// Package entity contains the core business objects of the project.
package entity

import (
	"errors"
	"time"
)

// ServiceAccountCredential identifies the service-account principal used to
// mint short-lived access tokens. The private key is only ever used to sign
// assertions locally and is never transmitted.
type ServiceAccountCredential struct {
	ClientEmail   string // Principal identity (issuer and subject of assertions).
	PrivateKeyPEM string // PEM-encoded RSA private key.
}

// Validate reports whether the credential is usable at all.
func (c *ServiceAccountCredential) Validate() error {
	if c == nil || c.ClientEmail == "" || c.PrivateKeyPEM == "" {
		return errors.New("service account credential missing client email or private key")
	}

	return nil
}

// AccessToken is a short-lived bearer token minted for a single request.
// Nothing caches it; ExpiresAt is informational only.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}
