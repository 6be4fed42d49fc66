package auth

import (
	"errors"
	"testing"

	"github.com/gateward/gateward/internal/models"
)

// fakeState implements SessionState in memory.
type fakeState struct {
	org        string
	savedPath  string
	remembered string
}

func (f *fakeState) Organization() (string, bool) {
	return f.org, f.org != ""
}

func (f *fakeState) RememberOrganization(name string) {
	f.remembered = name
	f.org = name
}

func (f *fakeState) SavedPath() (string, bool) {
	return f.savedPath, f.savedPath != ""
}

func TestResolveOrganization_RememberedWins(t *testing.T) {
	state := &fakeState{org: "Audi", savedPath: "/BMW/articles"}
	token := audiToken()

	name, err := ResolveOrganization(state, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Audi" {
		t.Errorf("expected remembered organization Audi, got %s", name)
	}
}

func TestResolveOrganization_FromSavedPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "plain path", path: "/BMW/articles/42", want: "BMW"},
		{name: "single segment", path: "/BMW", want: "BMW"},
		{name: "trailing slash", path: "/BMW/", want: "BMW"},
		{name: "query string", path: "/BMW?page=2", want: "BMW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &fakeState{savedPath: tt.path}
			name, err := ResolveOrganization(state, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.want {
				t.Errorf("expected %s, got %s", tt.want, name)
			}
			if state.remembered != tt.want {
				t.Errorf("expected organization remembered in session, got %q", state.remembered)
			}
		})
	}
}

func TestResolveOrganization_FromPrincipal(t *testing.T) {
	state := &fakeState{}
	name, err := ResolveOrganization(state, audiToken())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Audi" {
		t.Errorf("expected principal organization Audi, got %s", name)
	}
}

func TestResolveOrganization_Unresolved(t *testing.T) {
	_, err := ResolveOrganization(&fakeState{}, nil)
	if !errors.Is(err, ErrOrganizationUnresolved) {
		t.Errorf("expected ErrOrganizationUnresolved, got %v", err)
	}

	// A candidate token carries no verified organization context.
	_, err = ResolveOrganization(&fakeState{}, models.NewCandidateToken("a", "Audi", "p"))
	if !errors.Is(err, ErrOrganizationUnresolved) {
		t.Errorf("expected ErrOrganizationUnresolved for candidate token, got %v", err)
	}

	// Root-only saved path yields no organization segment.
	_, err = ResolveOrganization(&fakeState{savedPath: "/"}, nil)
	if !errors.Is(err, ErrOrganizationUnresolved) {
		t.Errorf("expected ErrOrganizationUnresolved for root path, got %v", err)
	}
}

func TestResolveOrganization_NilState(t *testing.T) {
	name, err := ResolveOrganization(nil, audiToken())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Audi" {
		t.Errorf("expected Audi, got %s", name)
	}
}
