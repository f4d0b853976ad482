// Package cookie issues and clears the client-held session credential.
package cookie

import (
	"net/http"
	"time"
)

// Name is the session cookie name. The __Host- prefix pins the cookie to
// this host over HTTPS with Path=/.
const Name = "__Host-session"

// Set issues the session cookie carrying the opaque token.
func Set(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the session cookie from the client. Callers clear the
// credential whenever verification fails, so an invalid token and no
// session look the same to the client.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
