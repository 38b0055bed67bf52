package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/follysitou/sygpress-console/internal/apierr"
)

type fakeBackend struct {
	session Session
	err     error
	calls   int
}

func (f *fakeBackend) Login(_ context.Context, creds Credentials) (Session, error) {
	f.calls++
	if f.err != nil {
		return Session{}, f.err
	}
	return f.session, nil
}

func adminSession() Session {
	return Session{
		Token:    "tok-123",
		UserID:   "u-1",
		Username: "fatou",
		FullName: "Fatou Diallo",
		Role:     RoleAdmin,
	}
}

func TestLoginInstallsSession(t *testing.T) {
	backend := &fakeBackend{session: adminSession()}
	store := NewStore(backend, nil)

	if store.IsAuthenticated() {
		t.Fatal("fresh store should not be authenticated")
	}

	got, err := store.Login(context.Background(), Credentials{Username: "fatou", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if got.Username != "fatou" {
		t.Fatalf("Login() username = %q, want fatou", got.Username)
	}
	if !store.IsAuthenticated() {
		t.Fatal("store should be authenticated after login")
	}
	if !store.IsAdmin() {
		t.Fatal("store should report admin for ADMIN session")
	}
	if store.Token() != "tok-123" {
		t.Fatalf("Token() = %q, want tok-123", store.Token())
	}
}

func TestLoginPersistFailureLeavesStoreAnonymous(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	// The state path nests under a regular file, so the persist must fail.
	state := NewStateFile(filepath.Join(blocker, "nested", "sygpress_state.json"))
	store := NewStore(&fakeBackend{session: adminSession()}, state)

	if _, err := store.Login(context.Background(), Credentials{Username: "fatou"}); err == nil {
		t.Fatal("Login() must fail when the session cannot be persisted")
	}
	if store.IsAuthenticated() {
		t.Fatal("a failed persist must leave the console anonymous")
	}
	if store.Token() != "" {
		t.Fatalf("Token() = %q after failed persist, want empty", store.Token())
	}
}

func TestLoginFailureLeavesStoreAnonymous(t *testing.T) {
	backend := &fakeBackend{err: apierr.InvalidCredentials("")}
	store := NewStore(backend, nil)

	_, err := store.Login(context.Background(), Credentials{Username: "fatou", Password: "wrong"})
	if !apierr.Is(err, apierr.KindInvalidCredentials) {
		t.Fatalf("Login() error = %v, want invalid credentials", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("failed login must not install a session")
	}
	if _, ok := store.Current(); ok {
		t.Fatal("Current() must report no session after failed login")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	backend := &fakeBackend{session: adminSession()}
	store := NewStore(backend, nil)

	if _, err := store.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	store.Logout()

	if store.IsAuthenticated() {
		t.Fatal("store should be anonymous after logout")
	}
	if store.Token() != "" {
		t.Fatalf("Token() = %q after logout, want empty", store.Token())
	}
}

func TestInvalidateClearsSession(t *testing.T) {
	backend := &fakeBackend{session: adminSession()}
	store := NewStore(backend, nil)

	if _, err := store.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	store.Invalidate()

	if store.IsAuthenticated() {
		t.Fatal("store should be anonymous after invalidation")
	}
}

func TestIsAuthenticatedMatchesSessionPresence(t *testing.T) {
	backend := &fakeBackend{session: adminSession()}
	store := NewStore(backend, nil)

	states := []func(){
		func() {},
		func() { _, _ = store.Login(context.Background(), Credentials{}) },
		func() { store.Logout() },
	}
	for i, transition := range states {
		transition()
		_, present := store.Current()
		if store.IsAuthenticated() != present {
			t.Fatalf("step %d: IsAuthenticated() != session presence", i)
		}
	}
}

func TestPasswordChangedClearsFlag(t *testing.T) {
	sess := adminSession()
	sess.MustChangePassword = true
	backend := &fakeBackend{session: sess}
	store := NewStore(backend, nil)

	if _, err := store.Login(context.Background(), Credentials{}); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !store.MustChangePassword() {
		t.Fatal("MustChangePassword() = false, want true before change")
	}

	store.PasswordChanged()

	if store.MustChangePassword() {
		t.Fatal("MustChangePassword() = true after PasswordChanged")
	}
	if !store.IsAuthenticated() {
		t.Fatal("PasswordChanged must keep the session")
	}
}

func TestStateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	file := NewStateFile(path)

	sess := adminSession()
	if err := file.Write(&sess); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := file.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got == nil {
		t.Fatal("Read() = nil, want persisted session")
	}
	if got.Username != sess.Username || got.Role != sess.Role || got.Token != sess.Token {
		t.Fatalf("Read() = %+v, want %+v", got, sess)
	}

	file.Clear()
	got, err = file.Read()
	if err != nil {
		t.Fatalf("Read() after Clear error: %v", err)
	}
	if got != nil {
		t.Fatal("Read() after Clear should report no session")
	}
}

func TestStateFileDiscardsExpiredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	file := NewStateFile(path)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	sess := adminSession()
	sess.Token = signed
	if err := file.Write(&sess); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := file.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got != nil {
		t.Fatal("expired token must not restore a session")
	}
}

func TestStoreRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	file := NewStateFile(path)
	sess := adminSession()
	if err := file.Write(&sess); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	store := NewStore(&fakeBackend{}, file)
	if err := store.Restore(); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatal("Restore should install the persisted session")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "ADMIN", want: RoleAdmin},
		{in: "admin", want: RoleAdmin},
		{in: " USER ", want: RoleUser},
		{in: "MANAGER", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRole(%q) accepted unknown role", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRoleSatisfies(t *testing.T) {
	if !RoleAdmin.Satisfies(RoleUser) {
		t.Fatal("admin must satisfy user routes")
	}
	if !RoleAdmin.Satisfies(RoleAdmin) {
		t.Fatal("admin must satisfy admin routes")
	}
	if !RoleUser.Satisfies(RoleUser) {
		t.Fatal("user must satisfy user routes")
	}
	if RoleUser.Satisfies(RoleAdmin) {
		t.Fatal("user must not satisfy admin routes")
	}
}

func TestLoginPropagatesBackendError(t *testing.T) {
	wantErr := errors.New("boom")
	backend := &fakeBackend{err: wantErr}
	store := NewStore(backend, nil)

	_, err := store.Login(context.Background(), Credentials{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Login() error = %v, want %v", err, wantErr)
	}
	if backend.calls != 1 {
		t.Fatalf("backend called %d times, want exactly 1 (no retry)", backend.calls)
	}
}
