package auth

import (
	"testing"

	"github.com/gateward/gateward/internal/models"
)

func audiToken() *models.SessionToken {
	return models.NewAuthenticatedToken(&models.Principal{
		ID:           "u-42",
		Role:         models.RoleUser,
		Organization: "Audi",
		Active:       true,
	})
}

func TestGuard_IsValidOrganization(t *testing.T) {
	guard := NewGuard(fakeOrgs{"Audi": "A1"})

	if !guard.IsValidOrganization("Audi") {
		t.Error("expected Audi to be valid")
	}
	if guard.IsValidOrganization("BMW") {
		t.Error("expected BMW to be invalid")
	}
	if guard.IsValidOrganization("audi") {
		t.Error("matching must be case-sensitive")
	}
}

func TestGuard_IsOwnOrganization(t *testing.T) {
	guard := NewGuard(fakeOrgs{"Audi": "A1", "BMW": "B2"})
	token := audiToken()

	if !guard.IsOwnOrganization(token, "Audi") {
		t.Error("expected token to own Audi")
	}
	if guard.IsOwnOrganization(token, "BMW") {
		t.Error("token authenticated under Audi must not own BMW")
	}
	if guard.IsOwnOrganization(nil, "Audi") {
		t.Error("nil token must not own any organization")
	}
}

func TestGuard_IsOwnOrganization_Unauthenticated(t *testing.T) {
	guard := NewGuard(fakeOrgs{"Audi": "A1"})

	candidate := models.NewCandidateToken("alice@example.com", "Audi", "secret")
	if guard.IsOwnOrganization(candidate, "Audi") {
		t.Error("candidate token must not own any organization")
	}

	anonymous := &models.SessionToken{}
	if guard.IsOwnOrganization(anonymous, "Audi") {
		t.Error("anonymous token must not own any organization")
	}
}

// Own-organization approval must imply organization validity: the guard
// never approves access to a tenant absent from the directory snapshot.
func TestGuard_OwnImpliesValid(t *testing.T) {
	guard := NewGuard(fakeOrgs{"BMW": "B2"})
	token := audiToken() // Audi is not in the snapshot

	if guard.IsOwnOrganization(token, "Audi") {
		t.Error("guard approved access to an organization missing from the snapshot")
	}

	for _, name := range []string{"Audi", "BMW", "Citroen"} {
		if guard.IsOwnOrganization(token, name) && !guard.IsValidOrganization(name) {
			t.Errorf("IsOwnOrganization(%q) true but IsValidOrganization(%q) false", name, name)
		}
	}
}

func TestGuard_CredentialsOkay(t *testing.T) {
	guard := NewGuard(fakeOrgs{"Audi": "A1"})

	token := audiToken()
	if !guard.CredentialsOkay(token) {
		t.Error("expected credentials okay for fresh principal")
	}

	stale := models.NewAuthenticatedToken(&models.Principal{
		ID:                 "u-43",
		Role:               models.RoleUser,
		Organization:       "Audi",
		MustChangePassword: true,
		Active:             true,
	})
	if guard.CredentialsOkay(stale) {
		t.Error("expected credentials not okay when change is required")
	}
	// The same-tenant check still passes; only the credential gate blocks.
	if !guard.IsOwnOrganization(stale, "Audi") {
		t.Error("must-change-password must not affect tenant ownership")
	}

	if guard.CredentialsOkay(nil) {
		t.Error("nil token must not pass the credential gate")
	}
	if guard.CredentialsOkay(models.NewCandidateToken("a", "Audi", "p")) {
		t.Error("unauthenticated token must not pass the credential gate")
	}
}
