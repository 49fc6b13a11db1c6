// Package guard decides what a route transition is allowed to show.
//
// Decide is a pure function of (path, session) and nothing else. The
// router re-evaluates it on every path change and every session change
// rather than caching a decision, so a decision computed against a
// stale session can never apply after newer state exists.
package guard

import (
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/session"
)

// Action is what the router must do with the requested path.
type Action int

const (
	// ActionWait renders nothing: the session is still resolving and
	// protected content must not flash before it does.
	ActionWait Action = iota
	// ActionRedirect navigates to Decision.Target instead.
	ActionRedirect
	// ActionAllow shows the requested path.
	ActionAllow
)

func (a Action) String() string {
	switch a {
	case ActionWait:
		return "wait"
	case ActionRedirect:
		return "redirect"
	case ActionAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict for one (path, session) pair.
type Decision struct {
	Action Action
	Target string
}

// Paths with screens that exist outside a session.
const (
	PathLogin        = "/login"
	PathRegistration = "/registration"
	PathHome         = "/"
	PathHistory      = "/history"
)

func isPublic(path string) bool {
	return path == PathLogin || path == PathRegistration
}

// Decide classifies a route transition. Rule order matters: the
// resolving check dominates everything, and the remaining rules are
// mutually exclusive once the session is resolved.
func Decide(path string, s session.Session) Decision {
	if s.Resolving {
		return Decision{Action: ActionWait}
	}

	if s.Identity == nil && !isPublic(path) {
		return Decision{Action: ActionRedirect, Target: PathLogin}
	}

	if s.Identity != nil && isPublic(path) {
		return Decision{Action: ActionRedirect, Target: PathHome}
	}

	// History is a user-only view; admins land on the reservation list.
	if s.Identity != nil && s.Identity.Role == models.RoleAdmin && path == PathHistory {
		return Decision{Action: ActionRedirect, Target: PathHome}
	}

	return Decision{Action: ActionAllow}
}
