package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

// userIDKey is the only session field: the id of the authenticated user.
const userIDKey = "user_id"

// Store holds server-side session state keyed by an opaque cookie token.
// Clients only ever see the token; the user id never leaves the server.
type Store struct {
	Manager *scs.SessionManager
}

// New builds a session store backed by scs's in-memory store.
// secure should be true when the API serves HTTPS.
func New(cookieName string, lifetime time.Duration, secure bool) *Store {
	m := scs.New()
	m.Lifetime = lifetime
	m.Cookie.Name = cookieName
	m.Cookie.HttpOnly = true
	m.Cookie.SameSite = http.SameSiteLaxMode
	m.Cookie.Secure = secure
	return &Store{Manager: m}
}

// LoadAndSave is the middleware that loads the session for each request and
// writes the cookie back when the session changed. Must wrap every route that
// touches the session.
func (s *Store) LoadAndSave(next http.Handler) http.Handler {
	return s.Manager.LoadAndSave(next)
}

// SetUserID records the authenticated user for this session.
func (s *Store) SetUserID(ctx context.Context, id int) {
	s.Manager.Put(ctx, userIDKey, id)
}

// UserID returns the session's user id, and false when no user is logged in.
func (s *Store) UserID(ctx context.Context) (int, bool) {
	id := s.Manager.GetInt(ctx, userIDKey)
	return id, id != 0
}

// Clear removes the user id from the session. Safe to call when not logged in.
func (s *Store) Clear(ctx context.Context) {
	s.Manager.Remove(ctx, userIDKey)
}
