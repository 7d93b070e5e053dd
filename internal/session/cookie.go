package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// claims carries the session user inside a signed cookie
type claims struct {
	User User `json:"user"`
	jwt.RegisteredClaims
}

// CookieStore keeps the whole session in an HS256-signed cookie. Nothing is stored
// server-side, so Clear cannot revoke a cookie copied before logout; it expires with the TTL.
type CookieStore struct {
	secret []byte
	opts   Options
}

// NewCookieStore signs cookies with secret
func NewCookieStore(secret string, opts Options) *CookieStore {
	return &CookieStore{secret: []byte(secret), opts: opts.withDefaults()}
}

// Load implements Store. Tampered or expired cookies yield a guest session.
func (s *CookieStore) Load(r *http.Request) (*Session, error) {
	raw := s.opts.readCookie(r)
	if raw == "" {
		return &Session{}, nil
	}
	c, err := s.parse(raw)
	if err != nil {
		return &Session{}, nil
	}
	u := c.User
	return &Session{User: &u}, nil
}

// Save implements Store
func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, sess *Session) error {
	if sess.User == nil {
		return s.Clear(w, r, sess)
	}
	token, err := s.sign(*sess.User)
	if err != nil {
		return err
	}
	sess.previousID = ""
	s.opts.setCookie(w, token)
	return nil
}

// Clear implements Store
func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request, sess *Session) error {
	sess.ID, sess.previousID, sess.User = "", "", nil
	s.opts.expireCookie(w)
	return nil
}

func (s *CookieStore) sign(u User) (string, error) {
	now := time.Now()
	c := claims{
		User: u,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *CookieStore) parse(raw string) (*claims, error) {
	token, err := jwt.ParseWithClaims(raw, &claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c, ok := token.Claims.(*claims); ok && token.Valid {
		return c, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
