package auth

import (
	"github.com/gateward/gateward/internal/models"
)

// Guard provides the stateless authorization predicates evaluated per
// request by the policy enforcer. The three predicates compose with
// logical AND into the access tiers the router gates on: public pages
// need none, organization-gated pages need IsValidOrganization,
// same-tenant pages add IsOwnOrganization, and fresh-credential pages
// add CredentialsOkay. Role-gated pages are evaluated by the enforcer
// directly from the token's capability set.
type Guard struct {
	orgs OrgLookup
}

// NewGuard creates a guard over the tenant cache.
func NewGuard(orgs OrgLookup) *Guard {
	return &Guard{orgs: orgs}
}

// IsValidOrganization reports whether the name is present in the
// current tenant directory snapshot.
func (g *Guard) IsValidOrganization(name string) bool {
	_, ok := g.orgs.Lookup(name)
	return ok
}

// IsOwnOrganization reports whether the token's verified principal
// belongs to the addressed organization. False for nil or
// unauthenticated tokens and for subjects that are not verified
// principals. The name must be valid and match the principal's
// organization exactly, case-sensitively.
func (g *Guard) IsOwnOrganization(token *models.SessionToken, name string) bool {
	if token == nil || !token.Authenticated {
		return false
	}
	principal := token.Principal()
	if principal == nil {
		return false
	}
	return g.IsValidOrganization(name) && name == principal.Organization
}

// CredentialsOkay reports whether the token's principal may proceed
// without first changing credentials. False for nil or unauthenticated
// tokens.
func (g *Guard) CredentialsOkay(token *models.SessionToken) bool {
	if token == nil || !token.Authenticated {
		return false
	}
	principal := token.Principal()
	if principal == nil {
		return false
	}
	return !principal.MustChangePassword
}
