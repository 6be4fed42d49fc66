package models

// Capability is a permission derived from a principal's role.
type Capability string

const (
	// CapUser grants standard access within the principal's organization.
	CapUser Capability = "USER"
	// CapStaffChief grants tenant administration.
	CapStaffChief Capability = "STAFFCHIEF"
	// CapSysAdmin grants system administration.
	CapSysAdmin Capability = "SYSADMIN"
)

// capabilitiesByRole is the fixed role to capability mapping. Staff
// chiefs hold every regular-user capability; system administrators are
// not implicitly regular users.
var capabilitiesByRole = map[Role][]Capability{
	RoleUser:       {CapUser},
	RoleStaffChief: {CapStaffChief, CapUser},
	RoleSysAdmin:   {CapSysAdmin},
}

// CapabilitiesForRole returns the capability set for a role. Unknown
// roles map to no capabilities.
func CapabilitiesForRole(role Role) []Capability {
	caps, ok := capabilitiesByRole[role]
	if !ok {
		return nil
	}
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// SubjectKind discriminates the authentication-subject states a token
// can carry.
type SubjectKind int

const (
	// SubjectAnonymous is a request with no identity at all.
	SubjectAnonymous SubjectKind = iota
	// SubjectCandidate is a partially filled identity from login form
	// fields, not yet verified by the identity backend.
	SubjectCandidate
	// SubjectPrincipal is a fully populated, backend-verified identity.
	SubjectPrincipal
)

// Candidate holds the login form fields of an unverified identity.
type Candidate struct {
	Login string `json:"login"`
}

// Subject is the tagged union over authentication-subject states.
// Exactly the field matching Kind is set.
type Subject struct {
	Kind      SubjectKind `json:"kind"`
	Candidate *Candidate  `json:"candidate,omitempty"`
	Principal *Principal  `json:"principal,omitempty"`
}

// SessionToken is the authenticated-request carrier. It is created
// unauthenticated when a login attempt begins and promoted exactly once
// on successful verification. Organization is fixed at authentication
// time and never mutated afterward.
type SessionToken struct {
	Subject       Subject      `json:"subject"`
	Organization  string       `json:"organization"`
	Capabilities  []Capability `json:"capabilities,omitempty"`
	Authenticated bool         `json:"authenticated"`

	// credential is the raw secret presented at authentication time.
	// It is retained only transiently for the backend call, excluded
	// from serialization and must never be logged.
	credential string
}

// NewCandidateToken creates the unauthenticated token for a login
// attempt under the given organization name.
func NewCandidateToken(login, organization, password string) *SessionToken {
	return &SessionToken{
		Subject: Subject{
			Kind:      SubjectCandidate,
			Candidate: &Candidate{Login: login},
		},
		Organization: organization,
		credential:   password,
	}
}

// NewAuthenticatedToken promotes a verified principal into an
// authenticated token with its derived capability set.
func NewAuthenticatedToken(principal *Principal) *SessionToken {
	return &SessionToken{
		Subject: Subject{
			Kind:      SubjectPrincipal,
			Principal: principal,
		},
		Organization:  principal.Organization,
		Capabilities:  CapabilitiesForRole(principal.Role),
		Authenticated: true,
	}
}

// Credential returns the raw credential presented at authentication
// time, or empty once cleared.
func (t *SessionToken) Credential() string {
	return t.credential
}

// ClearCredential drops the transiently held raw credential.
func (t *SessionToken) ClearCredential() {
	t.credential = ""
}

// Principal returns the verified principal, or nil if the subject is
// anonymous or an unverified candidate.
func (t *SessionToken) Principal() *Principal {
	if t == nil || t.Subject.Kind != SubjectPrincipal {
		return nil
	}
	return t.Subject.Principal
}

// HasCapability reports whether the token carries the capability.
func (t *SessionToken) HasCapability(c Capability) bool {
	if t == nil || !t.Authenticated {
		return false
	}
	for _, have := range t.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
