// Package entity defines the domain entities for the session feature.
package entity

import "time"

// TokenRecord is the canonical state for one issued session token.
// The token value itself is immutable once issued; only the record's
// liveness (TTL, revocation) changes over its lifetime.
type TokenRecord struct {
	// Token is the opaque session token value (UUID string).
	Token string

	// UserID is the identifier of the user the token was issued to.
	UserID int64

	// IPAddress is the client address observed at issuance, stored in
	// canonical form. Verification compares against it to make casual
	// token theft from another host fail.
	IPAddress string

	// CreatedAt is the issuance time.
	CreatedAt time.Time
}
