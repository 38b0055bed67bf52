package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StateFile persists the session across console restarts. It plays the role
// browser local storage plays for a web client: token plus minimal profile,
// cleared on logout.
type StateFile struct {
	path string
}

// NewStateFile creates a state file handle at path.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

type persistedSession struct {
	Token              string `json:"token"`
	UserID             string `json:"userId"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	FullName           string `json:"fullName"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

// Read loads the persisted session. A missing file, an unreadable payload or
// an expired token all yield (nil, nil): the user is simply logged out.
func (f *StateFile) Read() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session state: %w", err)
	}

	var p persistedSession
	if err := json.Unmarshal(data, &p); err != nil {
		f.Clear()
		return nil, nil
	}
	if p.Token == "" || tokenExpired(p.Token) {
		f.Clear()
		return nil, nil
	}

	role, err := ParseRole(p.Role)
	if err != nil {
		f.Clear()
		return nil, nil
	}

	return &Session{
		Token:              p.Token,
		UserID:             p.UserID,
		Username:           p.Username,
		Email:              p.Email,
		FullName:           p.FullName,
		Role:               role,
		MustChangePassword: p.MustChangePassword,
	}, nil
}

// Write persists the session with owner-only permissions.
func (f *StateFile) Write(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(persistedSession{
		Token:              s.Token,
		UserID:             s.UserID,
		Username:           s.Username,
		Email:              s.Email,
		FullName:           s.FullName,
		Role:               s.Role.String(),
		MustChangePassword: s.MustChangePassword,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}

// Clear removes the state file. Removal failures are ignored; a stale file
// with an expired token is harmless.
func (f *StateFile) Clear() {
	_ = os.Remove(f.path)
}

// tokenExpired inspects the token's exp claim without verifying the
// signature. The console holds no signing key; the backend remains the
// authority and still rejects bad tokens with 401.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) tokens are kept and left to the backend.
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
