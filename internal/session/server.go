package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Backend persists session users under opaque IDs
type Backend interface {
	// Get returns the user stored under id, or nil when there is none
	Get(ctx context.Context, id string) (*User, error)
	Set(ctx context.Context, id string, u *User, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// ServerStore keeps session data in a Backend and only a random ID in the cookie
type ServerStore struct {
	backend Backend
	opts    Options
}

// NewServerStore builds a cookie-keyed store over backend
func NewServerStore(backend Backend, opts Options) *ServerStore {
	return &ServerStore{backend: backend, opts: opts.withDefaults()}
}

// Load implements Store
func (s *ServerStore) Load(r *http.Request) (*Session, error) {
	id := s.opts.readCookie(r)
	if id == "" {
		return &Session{}, nil
	}
	u, err := s.backend.Get(r.Context(), id)
	if err != nil {
		return &Session{}, fmt.Errorf("load session: %w", err)
	}
	if u == nil {
		return &Session{}, nil // Expired or unknown ID
	}
	return &Session{ID: id, User: u}, nil
}

// Save implements Store
func (s *ServerStore) Save(w http.ResponseWriter, r *http.Request, sess *Session) error {
	if sess.User == nil {
		return s.Clear(w, r, sess)
	}
	ctx := r.Context()
	if sess.previousID != "" {
		if err := s.backend.Delete(ctx, sess.previousID); err != nil {
			return fmt.Errorf("rotate session: %w", err)
		}
		sess.previousID = ""
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if err := s.backend.Set(ctx, sess.ID, sess.User, s.opts.TTL); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.opts.setCookie(w, sess.ID)
	return nil
}

// Clear implements Store
func (s *ServerStore) Clear(w http.ResponseWriter, r *http.Request, sess *Session) error {
	s.opts.expireCookie(w)
	ids := []string{sess.ID, sess.previousID}
	sess.ID, sess.previousID, sess.User = "", "", nil
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := s.backend.Delete(r.Context(), id); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
	}
	return nil
}
