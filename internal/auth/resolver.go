package auth

import (
	"errors"
	"strings"

	"github.com/gateward/gateward/internal/models"
)

// ErrOrganizationUnresolved is returned when no organization context
// can be determined for a request. Callers must treat this as a routing
// dead-end and must never fall back to a guessable tenant.
var ErrOrganizationUnresolved = errors.New("organization unresolved")

// SessionState is the view of the web layer's session the resolver
// operates on: a remembered organization name and the target path saved
// before the request was redirected to login.
type SessionState interface {
	// Organization returns the remembered organization name, if any.
	Organization() (string, bool)
	// RememberOrganization stores the organization name for later requests.
	RememberOrganization(name string)
	// SavedPath returns the saved pre-authentication target path, if any.
	SavedPath() (string, bool)
}

// ResolveOrganization determines which organization a request logically
// belongs to, in priority order: the session's remembered organization,
// the first path segment of the saved target path (remembered as a side
// effect), then the authenticated principal's organization.
func ResolveOrganization(state SessionState, token *models.SessionToken) (string, error) {
	if state != nil {
		if name, ok := state.Organization(); ok && name != "" {
			return name, nil
		}
		if path, ok := state.SavedPath(); ok {
			if name := firstPathSegment(path); name != "" {
				state.RememberOrganization(name)
				return name, nil
			}
		}
	}

	if principal := token.Principal(); principal != nil {
		return principal.Organization, nil
	}

	return "", ErrOrganizationUnresolved
}

// firstPathSegment extracts the organization segment: the first path
// component after the root.
func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	// Strip any query string carried along with the saved path.
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}
