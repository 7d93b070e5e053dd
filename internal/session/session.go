// Package session keeps track of the authenticated user between requests.
//
// A Store loads the Session for an incoming request and persists or clears it when a
// handler changes it. Server-side stores keep the data in a Backend keyed by a random
// cookie value; the cookie store signs the data into the cookie itself.
package session

import (
	"net/http"
	"time"
)

// User is what a session remembers about the authenticated user
type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Session is the per-request view of a client's session. A nil User means guest.
type Session struct {
	ID   string
	User *User

	previousID string
}

// Authenticated reports whether the session belongs to a logged-in user
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// SetUser attaches u to the session and drops the current ID so the next Save
// issues a fresh one. The old ID is discarded on Save.
func (s *Session) SetUser(u *User) {
	if s.ID != "" {
		s.previousID = s.ID
	}
	s.ID = ""
	s.User = u
}

// Store loads and persists sessions for HTTP requests
type Store interface {
	// Load returns the session for r. It never returns nil; a missing or invalid
	// cookie yields a guest session. The error reports a backend failure.
	Load(r *http.Request) (*Session, error)
	// Save persists s and writes the cookie to w
	Save(w http.ResponseWriter, r *http.Request, s *Session) error
	// Clear forgets s and expires the cookie
	Clear(w http.ResponseWriter, r *http.Request, s *Session) error
}

// Options control the session cookie
type Options struct {
	CookieName string        // Cookie name
	TTL        time.Duration // Session lifetime
	Secure     bool          // Send the cookie over HTTPS only
}

func (o Options) withDefaults() Options {
	if o.CookieName == "" {
		o.CookieName = "grantguard_session"
	}
	if o.TTL <= 0 {
		o.TTL = 24 * time.Hour
	}
	return o
}

func (o Options) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     o.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o Options) setCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, o.cookie(value, int(o.TTL.Seconds())))
}

func (o Options) expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, o.cookie("", -1))
}

func (o Options) readCookie(r *http.Request) string {
	c, err := r.Cookie(o.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
