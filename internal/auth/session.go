package auth

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/gateward/gateward/internal/models"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

func init() {
	// Register types for session serialization
	gob.Register(models.Principal{})
}

const (
	// SessionName is the name of the session cookie.
	SessionName = "gateward_session"
	// OrganizationKey is the session key for the remembered organization name.
	OrganizationKey = "organization"
	// SavedPathKey is the session key for the pre-authentication target path.
	SavedPathKey = "saved_path"
	// PrincipalKey is the session key for the authenticated principal.
	PrincipalKey = "principal"
)

// SessionConfig holds session store configuration.
type SessionConfig struct {
	Secret     []byte
	MaxAge     int  // seconds
	Secure     bool // require HTTPS
	HTTPOnly   bool // prevent JavaScript access
	SameSite   http.SameSite
	CookiePath string
}

// DefaultSessionConfig returns a SessionConfig with secure defaults.
// A maxAge of 0 or less falls back to 24 hours.
func DefaultSessionConfig(secret []byte, secure bool, maxAge int) SessionConfig {
	if maxAge <= 0 {
		maxAge = 86400 // 24 hours
	}
	return SessionConfig{
		Secret:     secret,
		MaxAge:     maxAge,
		Secure:     secure,
		HTTPOnly:   true,
		SameSite:   http.SameSiteLaxMode,
		CookiePath: "/",
	}
}

// SessionStore wraps a gorilla/sessions store with helpers for the
// organization resolver and the token lifecycle.
type SessionStore struct {
	store  *sessions.CookieStore
	logger zerolog.Logger
}

// NewSessionStore creates a new session store.
func NewSessionStore(cfg SessionConfig, logger zerolog.Logger) (*SessionStore, error) {
	if len(cfg.Secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes")
	}

	store := sessions.NewCookieStore(cfg.Secret)
	store.Options = &sessions.Options{
		Path:     cfg.CookiePath,
		MaxAge:   cfg.MaxAge,
		HttpOnly: cfg.HTTPOnly,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	}

	s := &SessionStore{
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}

	s.logger.Info().
		Bool("secure", cfg.Secure).
		Int("max_age", cfg.MaxAge).
		Msg("session store initialized")

	return s, nil
}

// State returns the resolver's view of the request's session.
func (s *SessionStore) State(r *http.Request, w http.ResponseWriter) *RequestState {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		// A bad cookie decodes to a fresh session; keep going with it.
		s.logger.Debug().Err(err).Msg("session decode failed, starting fresh")
	}
	return &RequestState{session: session, r: r, w: w, logger: s.logger}
}

// SavePath stores the pre-authentication target path in the session.
func (s *SessionStore) SavePath(r *http.Request, w http.ResponseWriter, path string) error {
	state := s.State(r, w)
	state.session.Values[SavedPathKey] = path
	return state.save()
}

// SetPrincipal stores the verified principal after successful
// authentication and remembers its organization.
func (s *SessionStore) SetPrincipal(r *http.Request, w http.ResponseWriter, principal *models.Principal) error {
	state := s.State(r, w)
	state.session.Values[PrincipalKey] = *principal
	state.session.Values[OrganizationKey] = principal.Organization
	delete(state.session.Values, SavedPathKey)
	return state.save()
}

// Token rebuilds the authenticated session token from the session, or
// returns nil if the session carries no verified principal.
func (s *SessionStore) Token(r *http.Request) *models.SessionToken {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	principal, ok := session.Values[PrincipalKey].(models.Principal)
	if !ok {
		return nil
	}
	return models.NewAuthenticatedToken(&principal)
}

// Clear removes all session data and expires the cookie (logout). The
// remembered organization is kept available to the caller beforehand
// via State so logout can still route to the tenant's pages.
func (s *SessionStore) Clear(r *http.Request, w http.ResponseWriter) error {
	state := s.State(r, w)
	for key := range state.session.Values {
		delete(state.session.Values, key)
	}
	// Set MaxAge to -1 to delete the cookie
	state.session.Options.MaxAge = -1
	return state.save()
}

// RequestState is the per-request session view handed to the resolver.
// It implements SessionState.
type RequestState struct {
	session *sessions.Session
	r       *http.Request
	w       http.ResponseWriter
	logger  zerolog.Logger
}

// Organization returns the remembered organization name, if any.
func (s *RequestState) Organization() (string, bool) {
	name, ok := s.session.Values[OrganizationKey].(string)
	return name, ok && name != ""
}

// RememberOrganization stores the organization name in the session.
func (s *RequestState) RememberOrganization(name string) {
	s.session.Values[OrganizationKey] = name
	if err := s.save(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist remembered organization")
	}
}

// SavedPath returns the saved pre-authentication target path, if any.
func (s *RequestState) SavedPath() (string, bool) {
	path, ok := s.session.Values[SavedPathKey].(string)
	return path, ok && path != ""
}

func (s *RequestState) save() error {
	if err := s.session.Save(s.r, s.w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
