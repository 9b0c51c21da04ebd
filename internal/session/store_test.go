package session

import (
	"encoding/base64"
	"errors"
	"testing"
)

// fakeStorage is an in-memory TokenStorage for tests
type fakeStorage struct {
	token   string
	saveErr error
}

func (f *fakeStorage) Token() (string, error)   { return f.token, nil }
func (f *fakeStorage) SaveToken(t string) error { f.token = t; return f.saveErr }
func (f *fakeStorage) DeleteToken() error       { f.token = ""; return nil }

func testToken(payload string) string {
	return "head." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestInitializeWithoutToken(t *testing.T) {
	store := New(&fakeStorage{})
	store.Initialize()

	state := store.Snapshot()
	if !state.Initialized {
		t.Error("Initialized = false after Initialize")
	}
	if state.Authenticated {
		t.Error("Authenticated = true with no persisted token")
	}
	if state.User != nil {
		t.Error("User present with no persisted token")
	}
}

func TestInitializeWithValidToken(t *testing.T) {
	storage := &fakeStorage{token: testToken(`{"email":"alex@elevate.app","name":"Alex"}`)}
	store := New(storage)
	store.Initialize()

	state := store.Snapshot()
	if !state.Authenticated {
		t.Fatal("Authenticated = false with a valid persisted token")
	}
	if state.User == nil || state.User.Email != "alex@elevate.app" {
		t.Errorf("User = %+v, want email alex@elevate.app", state.User)
	}
}

func TestInitializeClearsGarbageToken(t *testing.T) {
	// Well-formed shape, but the payload decodes to garbage
	storage := &fakeStorage{token: "head.!!!garbage!!!.sig"}
	store := New(storage)
	store.Initialize()

	state := store.Snapshot()
	if !state.Initialized {
		t.Error("Initialized = false after Initialize")
	}
	if state.Authenticated {
		t.Error("Authenticated = true with a garbage token")
	}
	if storage.token != "" {
		t.Errorf("storage still holds %q, want cleared", storage.token)
	}
}

func TestLoginSuccess(t *testing.T) {
	storage := &fakeStorage{}
	store := New(storage)
	store.Initialize()

	raw := testToken(`{"email":"alex@elevate.app","name":"Alex"}`)
	if err := store.Login(raw); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	state := store.Snapshot()
	if !state.Authenticated || state.User == nil {
		t.Fatalf("state after login = %+v, want authenticated with user", state)
	}
	if storage.token != raw {
		t.Errorf("persisted token = %q, want %q", storage.token, raw)
	}
}

func TestLoginMalformedTokenClearsStorage(t *testing.T) {
	storage := &fakeStorage{token: testToken(`{"email":"old@elevate.app"}`)}
	store := New(storage)
	store.Initialize()

	if err := store.Login("not-a-jwt"); err == nil {
		t.Fatal("Login(not-a-jwt) returned nil error")
	}

	state := store.Snapshot()
	if state.Authenticated {
		t.Error("Authenticated = true after failed login")
	}
	if storage.token != "" {
		t.Errorf("storage still holds %q after failed login", storage.token)
	}
}

func TestLoginPersistFailureResetsState(t *testing.T) {
	storage := &fakeStorage{saveErr: errors.New("disk full")}
	store := New(storage)
	store.Initialize()

	err := store.Login(testToken(`{"email":"alex@elevate.app"}`))
	if err == nil {
		t.Fatal("Login returned nil error when persistence failed")
	}
	if store.Snapshot().Authenticated {
		t.Error("Authenticated = true after persistence failure")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	storage := &fakeStorage{}
	store := New(storage)
	store.Initialize()
	if err := store.Login(testToken(`{"email":"alex@elevate.app"}`)); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	calls := 0
	store.Logout(func() { calls++ })
	first := store.Snapshot()
	store.Logout()
	second := store.Snapshot()

	if calls != 1 {
		t.Errorf("completion callback ran %d times, want 1", calls)
	}
	if first != second {
		t.Errorf("second logout changed state: %+v vs %+v", first, second)
	}
	if first.Authenticated || first.User != nil {
		t.Errorf("state after logout = %+v, want unauthenticated", first)
	}
	if !first.Initialized {
		t.Error("Initialized reverted to false after logout")
	}
	if storage.token != "" {
		t.Errorf("storage still holds %q after logout", storage.token)
	}
}

func TestSubscribersSeeStateChanges(t *testing.T) {
	store := New(&fakeStorage{})
	var seen []State
	store.Subscribe(func(s State) { seen = append(seen, s) })

	store.Initialize()
	if err := store.Login(testToken(`{"email":"alex@elevate.app"}`)); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	store.Logout()

	if len(seen) != 3 {
		t.Fatalf("subscriber saw %d states, want 3", len(seen))
	}
	if seen[0].Authenticated || !seen[1].Authenticated || seen[2].Authenticated {
		t.Errorf("subscriber state sequence wrong: %+v", seen)
	}
}
