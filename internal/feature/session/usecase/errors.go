// Package usecase implements the business logic for the session feature.
package usecase

import "errors"

var (
	// ErrInvalidAddress is returned when a supplied IP address does not
	// parse as an IPv4 or IPv6 literal.
	ErrInvalidAddress = errors.New("invalid ip address")

	// ErrTokenNotFound is returned when no token record exists for the
	// given token value.
	ErrTokenNotFound = errors.New("session token not found")

	// ErrInvalidTTL is returned when a session would be created with a
	// zero or negative time-to-live.
	ErrInvalidTTL = errors.New("session ttl must be positive")
)
