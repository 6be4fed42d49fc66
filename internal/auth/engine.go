// Package auth provides the authentication and authorization core for
// Gateward: the authentication engine, the guard predicates and the
// session organization resolver.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gateward/gateward/internal/identity"
	"github.com/gateward/gateward/internal/metrics"
	"github.com/gateward/gateward/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrBadCredentials is the single generic authentication failure.
	// It covers wrong credentials, unknown accounts and an unreachable
	// identity backend; callers must not be able to tell these apart.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrAccountLocked is returned when the identity was verified but
	// the account is disabled. Distinct and user-visible.
	ErrAccountLocked = errors.New("account locked")
)

// IdentityClient is the interface the engine needs from the identity backend.
type IdentityClient interface {
	VerifyCredentials(ctx context.Context, login, orgID, password string) (*models.Principal, error)
}

// OrgLookup resolves an organization name to its identifier from the
// tenant cache.
type OrgLookup interface {
	Lookup(name string) (string, bool)
}

// Engine turns a (login, organization name, password) triple into an
// authenticated session token. It holds no local state; a cancelled
// attempt simply has its result discarded.
type Engine struct {
	identity IdentityClient
	orgs     OrgLookup
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewEngine creates an authentication engine. The metrics parameter is
// optional and can be nil.
func NewEngine(identityClient IdentityClient, orgs OrgLookup, m *metrics.Metrics, logger zerolog.Logger) *Engine {
	return &Engine{
		identity: identityClient,
		orgs:     orgs,
		metrics:  m,
		logger:   logger.With().Str("component", "auth_engine").Logger(),
	}
}

// Authenticate verifies the credentials and returns an authenticated
// token, or ErrBadCredentials / ErrAccountLocked. The organization name
// is resolved through the tenant cache first, but a cache miss does not
// fail the attempt: the identity backend is the authority and rejects
// unknown organizations itself.
func (e *Engine) Authenticate(ctx context.Context, login, orgName, password string) (*models.SessionToken, error) {
	attemptID := uuid.New()
	log := e.logger.With().
		Str("attempt_id", attemptID.String()).
		Str("organization", orgName).
		Logger()

	token := models.NewCandidateToken(login, orgName, password)
	defer token.ClearCredential()

	orgID, ok := e.orgs.Lookup(orgName)
	if !ok {
		log.Debug().Msg("organization not in tenant snapshot, deferring to identity backend")
	}

	principal, err := e.identity.VerifyCredentials(ctx, login, orgID, token.Credential())
	if err != nil {
		// Backend health and account existence must look identical to
		// the caller; the distinction lives only in this log line.
		if errors.Is(err, identity.ErrBackendUnavailable) {
			log.Error().Err(err).Msg("identity backend unavailable during authentication")
		} else {
			log.Info().Msg("credentials rejected")
		}
		e.metrics.ObserveAuth(metrics.AuthOutcomeBadCredentials)
		return nil, ErrBadCredentials
	}

	if !principal.Active {
		log.Info().Str("principal_id", principal.ID).Msg("authentication refused, account locked")
		e.metrics.ObserveAuth(metrics.AuthOutcomeAccountLocked)
		return nil, fmt.Errorf("%w: principal %s", ErrAccountLocked, principal.ID)
	}

	// The token's organization is fixed at attempt time; a verified
	// principal from a different organization means the backend and the
	// request disagree about tenant context.
	if principal.Organization != orgName {
		log.Warn().
			Str("principal_id", principal.ID).
			Str("principal_organization", principal.Organization).
			Msg("verified principal belongs to a different organization")
		e.metrics.ObserveAuth(metrics.AuthOutcomeBadCredentials)
		return nil, ErrBadCredentials
	}

	log.Info().
		Str("principal_id", principal.ID).
		Str("role", string(principal.Role)).
		Msg("authentication succeeded")
	e.metrics.ObserveAuth(metrics.AuthOutcomeSuccess)

	return models.NewAuthenticatedToken(principal), nil
}
