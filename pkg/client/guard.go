package client

import "net/http"

// Navigation surfaces the guard and the transport redirect to.
const (
	PathAuth              = "/auth"
	PathLogin             = "/login"
	PathError             = "/error"
	PathArticles          = "/articulos"
	PathProducerDashboard = "/productor/dashboard"
)

// MsgInsufficientPermissions is the message carried to the error surface on a
// role-based denial, matching what the web client displays.
const MsgInsufficientPermissions = "Sin permisos suficientes"

// Requirement is the authorization metadata attached to a navigable
// destination. A nil Requirement marks the destination public. A non-nil
// Requirement always demands a session; UserType and Roles further narrow it.
type Requirement struct {
	// UserType, when non-empty, admits only identities of that type.
	UserType string
	// Roles, when non-empty, admits only identities holding at least one of them.
	Roles []string
}

// Decision is the outcome of an admission check.
type Decision struct {
	Admitted   bool
	RedirectTo string
	Code       int
	Message    string
}

// Guard gates navigation based on a destination's Requirement and the current
// session. Checks are synchronous, stateless across attempts, and never touch
// the network.
type Guard struct {
	session *SessionStore
}

func NewGuard(session *SessionStore) *Guard {
	return &Guard{session: session}
}

// Check evaluates admission for a destination carrying the given requirement.
// A user-type mismatch redirects to the identity's canonical home and takes
// precedence over the role check.
func (g *Guard) Check(req *Requirement) Decision {
	if req == nil {
		return Decision{Admitted: true}
	}

	identity := g.session.Current()
	if identity == nil {
		return Decision{RedirectTo: PathAuth}
	}

	if req.UserType != "" && identity.UserType != req.UserType {
		return Decision{RedirectTo: homeFor(identity)}
	}

	if len(req.Roles) > 0 && !anyRole(identity, req.Roles) {
		return Decision{
			RedirectTo: PathError,
			Code:       http.StatusForbidden,
			Message:    MsgInsufficientPermissions,
		}
	}

	return Decision{Admitted: true}
}

// homeFor returns the canonical home surface for the identity's user type.
func homeFor(identity *Identity) string {
	if identity.UserType == UserTypeProducer {
		return PathProducerDashboard
	}
	return PathArticles
}

func anyRole(identity *Identity, roles []string) bool {
	for _, r := range roles {
		if identity.HasRole(r) {
			return true
		}
	}
	return false
}
