// Package session is the single source of truth for who is logged in.
//
// Exactly one session exists per running console. It is mutated only through
// Login, Logout and Invalidate; everything else is a read. The session is
// persisted to a small state file so a restart does not log the user out.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Role is the closed set of backend roles.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

// ParseRole maps the backend's role string onto the closed enum.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "USER":
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	default:
		return "UNKNOWN"
	}
}

// Satisfies reports whether a holder of r may access a route requiring need.
func (r Role) Satisfies(need Role) bool {
	switch need {
	case RoleAdmin:
		return r == RoleAdmin
	case RoleUser:
		return r == RoleAdmin || r == RoleUser
	default:
		return false
	}
}

// Session is the authenticated identity for this console instance.
type Session struct {
	Token              string
	UserID             string
	Username           string
	Email              string
	FullName           string
	Role               Role
	MustChangePassword bool
}

// Credentials are what the login form collects.
type Credentials struct {
	Username string
	Password string
}

// Backend performs the actual login call against the API.
type Backend interface {
	Login(ctx context.Context, creds Credentials) (Session, error)
}

// Store holds the current session behind a mutex. Reads vastly outnumber
// writes; writes happen only on login, logout and auth failure.
type Store struct {
	mu      sync.RWMutex
	current *Session

	backend Backend
	state   *StateFile
}

// NewStore creates a session store. state may be nil for a purely in-memory
// store (tests).
func NewStore(backend Backend, state *StateFile) *Store {
	return &Store{backend: backend, state: state}
}

// SetBackend installs the login backend. The API client authenticates the
// store, while the store supplies the client's bearer token; this breaks the
// construction cycle. Called once during startup wiring, before the store is
// shared.
func (s *Store) SetBackend(b Backend) {
	s.backend = b
}

// Restore installs a previously persisted session, discarding expired tokens.
// It is called once at startup, before the store is shared.
func (s *Store) Restore() error {
	if s.state == nil {
		return nil
	}
	sess, err := s.state.Read()
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// Login authenticates against the backend and installs the session on
// success. The session is persisted before it is installed, so an error
// return always means the console is still anonymous. The error is
// surfaced to the caller for display; there is no retry.
func (s *Store) Login(ctx context.Context, creds Credentials) (Session, error) {
	sess, err := s.backend.Login(ctx, creds)
	if err != nil {
		return Session{}, err
	}

	if s.state != nil {
		if err := s.state.Write(&sess); err != nil {
			return Session{}, fmt.Errorf("persist session: %w", err)
		}
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return sess, nil
}

// Logout clears the session unconditionally, including the persisted copy.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if s.state != nil {
		s.state.Clear()
	}
}

// Invalidate drops the session after the backend rejected its token.
// Identical effect to Logout; kept separate so call sites read correctly.
func (s *Store) Invalidate() {
	s.Logout()
}

// Current returns a copy of the session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a session is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// IsAdmin reports whether the current session holds the admin role.
func (s *Store) IsAdmin() bool {
	sess, ok := s.Current()
	return ok && sess.Role == RoleAdmin
}

// MustChangePassword reports whether the current session is in the forced
// password-change sub-state.
func (s *Store) MustChangePassword() bool {
	sess, ok := s.Current()
	return ok && sess.MustChangePassword
}

// Token returns the bearer token for outbound requests, or "".
func (s *Store) Token() string {
	sess, ok := s.Current()
	if !ok {
		return ""
	}
	return sess.Token
}

// PasswordChanged clears the forced password-change flag after a successful
// change, keeping the rest of the session intact.
func (s *Store) PasswordChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current.MustChangePassword = false
	if s.state != nil {
		_ = s.state.Write(s.current)
	}
}
