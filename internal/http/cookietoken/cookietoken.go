// Package cookietoken implements the long-lived token store over a
// client-side HTTP cookie. A store is scoped to a single request/response
// pair; the resolver treats any read failure as "no token".
package cookietoken

import (
	"net/http"
	"time"
)

// CookieName is the persisted auth cookie carrying "<email>|<expiry>".
const CookieName = "smartcomptable_auth"

// Store reads and writes the auth cookie for one request.
type Store struct {
	w http.ResponseWriter
	r *http.Request
}

// New creates a Store bound to the given request/response pair.
func New(w http.ResponseWriter, r *http.Request) *Store {
	return &Store{w: w, r: r}
}

// Get returns the raw cookie value and whether it was present.
func (s *Store) Get() (string, bool) {
	c, err := s.r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Set persists the token value with the given expiry.
func (s *Store) Set(value string, expires time.Time) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Delete removes the cookie unconditionally.
func (s *Store) Delete() {
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
