// Package dto defines the data transfer objects for the session feature's HTTP transport.
package dto

// SessionListRes lists the caller's active session tokens. Tokens whose
// record expired moments ago may still appear until the reconciler
// catches up.
type SessionListRes struct {
	Sessions []string `json:"sessions"`
	Count    int      `json:"count"`
}

// PurgeRes reports how many sessions a bulk revocation removed.
type PurgeRes struct {
	Purged int `json:"purged"`
}

// MessageRes is a generic success payload.
type MessageRes struct {
	Message string `json:"message"`
}

// ErrorRes is a generic error payload.
type ErrorRes struct {
	Error string `json:"error"`
}
