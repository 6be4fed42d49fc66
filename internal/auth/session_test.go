package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gateward/gateward/internal/models"
	"github.com/rs/zerolog"
)

func newTestSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	secret := []byte("test-secret-that-is-at-least-32-bytes-long")
	store, err := NewSessionStore(DefaultSessionConfig(secret, false, 0), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

// carryCookies builds a new request carrying the cookies set on w.
func carryCookies(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range w.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

func TestDefaultSessionConfig_MaxAge(t *testing.T) {
	secret := []byte("test-secret-that-is-at-least-32-bytes-long")

	cfg := DefaultSessionConfig(secret, false, 3600)
	if cfg.MaxAge != 3600 {
		t.Errorf("expected MaxAge 3600, got %d", cfg.MaxAge)
	}

	cfg = DefaultSessionConfig(secret, false, 0)
	if cfg.MaxAge != 86400 {
		t.Errorf("expected default MaxAge 86400, got %d", cfg.MaxAge)
	}
}

func TestNewSessionStore_CookieMaxAgeFollowsConfig(t *testing.T) {
	secret := []byte("test-secret-that-is-at-least-32-bytes-long")
	store, err := NewSessionStore(DefaultSessionConfig(secret, false, 3600), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if store.store.Options.MaxAge != 3600 {
		t.Errorf("expected cookie MaxAge 3600, got %d", store.store.Options.MaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	if err := store.SavePath(req, w, "/Audi/reports"); err != nil {
		t.Fatalf("failed to save path: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}
	if got := cookies[0].MaxAge; got != 3600 {
		t.Errorf("expected session cookie Max-Age 3600, got %d", got)
	}
}

func TestNewSessionStore_SecretTooShort(t *testing.T) {
	_, err := NewSessionStore(SessionConfig{Secret: []byte("short")}, zerolog.Nop())
	if err == nil {
		t.Error("expected error for short secret")
	}
}

func TestSessionStore_PrincipalRoundTrip(t *testing.T) {
	store := newTestSessionStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	principal := &models.Principal{
		ID:           "u-42",
		Name:         "Alice",
		Role:         models.RoleStaffChief,
		Organization: "Audi",
		Active:       true,
	}
	if err := store.SetPrincipal(req, w, principal); err != nil {
		t.Fatalf("failed to set principal: %v", err)
	}

	req2 := carryCookies(t, w)
	token := store.Token(req2)
	if token == nil {
		t.Fatal("expected token for session with principal")
	}
	if !token.Authenticated {
		t.Error("expected authenticated token")
	}
	if got := token.Principal(); got == nil || got.ID != "u-42" {
		t.Errorf("expected principal u-42, got %+v", got)
	}
	if token.Organization != "Audi" {
		t.Errorf("expected organization Audi, got %s", token.Organization)
	}
	if !token.HasCapability(models.CapStaffChief) {
		t.Error("expected STAFFCHIEF capability rebuilt from role")
	}

	// SetPrincipal also remembers the organization for the resolver.
	state := store.State(req2, httptest.NewRecorder())
	name, ok := state.Organization()
	if !ok || name != "Audi" {
		t.Errorf("expected remembered organization Audi, got (%q, %v)", name, ok)
	}
}

func TestSessionStore_TokenMissing(t *testing.T) {
	store := newTestSessionStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token := store.Token(req); token != nil {
		t.Errorf("expected nil token for fresh request, got %+v", token)
	}
}

func TestSessionStore_SavedPath(t *testing.T) {
	store := newTestSessionStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	if err := store.SavePath(req, w, "/Audi/articles/42"); err != nil {
		t.Fatalf("failed to save path: %v", err)
	}

	req2 := carryCookies(t, w)
	state := store.State(req2, httptest.NewRecorder())
	path, ok := state.SavedPath()
	if !ok || path != "/Audi/articles/42" {
		t.Errorf("expected saved path, got (%q, %v)", path, ok)
	}
}

func TestSessionStore_RememberOrganization(t *testing.T) {
	store := newTestSessionStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	state := store.State(req, w)

	if _, ok := state.Organization(); ok {
		t.Error("expected no remembered organization on fresh session")
	}

	state.RememberOrganization("Audi")

	req2 := carryCookies(t, w)
	state2 := store.State(req2, httptest.NewRecorder())
	name, ok := state2.Organization()
	if !ok || name != "Audi" {
		t.Errorf("expected remembered organization Audi, got (%q, %v)", name, ok)
	}
}

func TestSessionStore_Clear(t *testing.T) {
	store := newTestSessionStore(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	principal := &models.Principal{ID: "u-42", Role: models.RoleUser, Organization: "Audi", Active: true}
	if err := store.SetPrincipal(req, w, principal); err != nil {
		t.Fatalf("failed to set principal: %v", err)
	}

	req2 := carryCookies(t, w)
	w2 := httptest.NewRecorder()
	if err := store.Clear(req2, w2); err != nil {
		t.Fatalf("failed to clear session: %v", err)
	}

	cookies := w2.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected cookie to be set")
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("expected MaxAge < 0 to delete cookie, got %d", cookies[0].MaxAge)
	}
}
