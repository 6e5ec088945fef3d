package client

import (
	"net/http"
	"testing"
)

func TestGuard_PublicDestinationAdmits(t *testing.T) {
	g := NewGuard(NewSessionStore())
	if d := g.Check(nil); !d.Admitted {
		t.Fatalf("expected admission for destination without requirement, got %+v", d)
	}
}

func TestGuard_NoSessionRedirectsToAuth(t *testing.T) {
	g := NewGuard(NewSessionStore())
	d := g.Check(&Requirement{})
	if d.Admitted {
		t.Fatalf("expected denial without session")
	}
	if d.RedirectTo != PathAuth {
		t.Fatalf("expected redirect to %s, got %s", PathAuth, d.RedirectTo)
	}
}

func TestGuard_AuthenticatedOnlyRequirement(t *testing.T) {
	s := NewSessionStore()
	s.Set(identity("a@example.com", UserTypeClient, "USER"))
	g := NewGuard(s)

	if d := g.Check(&Requirement{}); !d.Admitted {
		t.Fatalf("expected any authenticated identity admitted, got %+v", d)
	}
}

func TestGuard_UserTypeMismatchRedirectsToCanonicalHome(t *testing.T) {
	// A client logged in via the generic endpoint entering a producer route
	// lands on the client listing surface.
	s := NewSessionStore()
	s.Set(identity("cliente@example.com", UserTypeClient, "USER"))
	g := NewGuard(s)

	d := g.Check(&Requirement{UserType: UserTypeProducer})
	if d.Admitted {
		t.Fatalf("expected denial on user type mismatch")
	}
	if d.RedirectTo != PathArticles {
		t.Fatalf("expected redirect to %s, got %s", PathArticles, d.RedirectTo)
	}
}

func TestGuard_ProducerMismatchRedirectsToDashboard(t *testing.T) {
	s := NewSessionStore()
	s.Set(identity("productor@example.com", UserTypeProducer, "USER", "PRODUCTOR"))
	g := NewGuard(s)

	d := g.Check(&Requirement{UserType: UserTypeClient})
	if d.Admitted {
		t.Fatalf("expected denial on user type mismatch")
	}
	if d.RedirectTo != PathProducerDashboard {
		t.Fatalf("expected redirect to %s, got %s", PathProducerDashboard, d.RedirectTo)
	}
}

func TestGuard_RoleMissDeniesWith403(t *testing.T) {
	s := NewSessionStore()
	s.Set(identity("productor@example.com", UserTypeProducer, "PRODUCTOR"))
	g := NewGuard(s)

	d := g.Check(&Requirement{Roles: []string{"ADMIN"}})
	if d.Admitted {
		t.Fatalf("expected denial on role miss")
	}
	if d.RedirectTo != PathError || d.Code != http.StatusForbidden || d.Message != MsgInsufficientPermissions {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestGuard_RoleIntersectionAdmits(t *testing.T) {
	s := NewSessionStore()
	s.Set(identity("a@example.com", UserTypeClient, "USER", "ADMIN"))
	g := NewGuard(s)

	if d := g.Check(&Requirement{Roles: []string{"ADMIN", "SUPERADMIN"}}); !d.Admitted {
		t.Fatalf("expected admission with intersecting role, got %+v", d)
	}
}

func TestGuard_TypeCheckedBeforeRoles(t *testing.T) {
	// Both constraints fail: the type redirect wins over the 403 surface.
	s := NewSessionStore()
	s.Set(identity("cliente@example.com", UserTypeClient, "USER"))
	g := NewGuard(s)

	d := g.Check(&Requirement{UserType: UserTypeProducer, Roles: []string{"ADMIN"}})
	if d.Admitted {
		t.Fatalf("expected denial")
	}
	if d.RedirectTo != PathArticles {
		t.Fatalf("type mismatch must take precedence, got redirect %s", d.RedirectTo)
	}
	if d.Code != 0 {
		t.Fatalf("expected no status code on type redirect, got %d", d.Code)
	}
}

// admission property: admit iff no requirement, or session present and both
// optional constraints satisfied.
func TestGuard_AdmissionMatrix(t *testing.T) {
	producer := identity("p@example.com", UserTypeProducer, "PRODUCTOR")

	cases := []struct {
		name   string
		ident  *Identity
		req    *Requirement
		admit  bool
	}{
		{"no requirement, no session", nil, nil, true},
		{"no requirement, session", producer, nil, true},
		{"session required, none", nil, &Requirement{}, false},
		{"session required, present", producer, &Requirement{}, true},
		{"type match", producer, &Requirement{UserType: UserTypeProducer}, true},
		{"type mismatch", producer, &Requirement{UserType: UserTypeClient}, false},
		{"role match", producer, &Requirement{Roles: []string{"PRODUCTOR"}}, true},
		{"role miss", producer, &Requirement{Roles: []string{"ADMIN"}}, false},
		{"type and role match", producer, &Requirement{UserType: UserTypeProducer, Roles: []string{"PRODUCTOR"}}, true},
		{"type match role miss", producer, &Requirement{UserType: UserTypeProducer, Roles: []string{"ADMIN"}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSessionStore()
			if tc.ident != nil {
				s.Set(tc.ident)
			}
			if d := NewGuard(s).Check(tc.req); d.Admitted != tc.admit {
				t.Fatalf("expected admit=%v, got %+v", tc.admit, d)
			}
		})
	}
}
