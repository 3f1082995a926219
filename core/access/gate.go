// Package access decides which routes the current session may enter.
package access

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/core/user"
)

// Routes
const (
	RouteLogin    Route = "/" // public entry
	RouteRegister Route = "/register"
	RouteTeacher  Route = "/teacher"
	RouteStudent  Route = "/student"
)

type Route string

var guarded = map[Route][]user.Role{
	RouteTeacher: {user.RoleTeacher},
	RouteStudent: {user.RoleStudent},
}

// ResolveRoute maps a path onto a known Route. Unknown paths fall back to the public entry.
func ResolveRoute(path string) Route {
	r := Route("/" + strings.Trim(strings.TrimSpace(path), "/"))
	switch r {
	case RouteLogin, RouteRegister, RouteTeacher, RouteStudent:
		return r
	default:
		return RouteLogin
	}
}

// Roles returns the roles allowed on r; nil means r is public.
func (r Route) Roles() []user.Role {
	return guarded[r]
}

func (r Route) String() string { return string(r) }

// Decision is either Allowed or Denied with a redirect target.
type Decision struct {
	Allowed  bool
	Redirect Route
}

func allow() Decision { return Decision{Allowed: true} }

func deny(to Route) Decision { return Decision{Redirect: to} }

// Check lets sess through when it is present and its role is one of required.
func Check(sess *session.Session, required ...user.Role) Decision {
	if sess == nil {
		return deny(RouteLogin)
	}
	if !lo.Contains(required, sess.User.Role) {
		// only two roles and two dashboards exist: send everyone back to the entry
		return deny(RouteLogin)
	}
	return allow()
}

// Home is the dashboard of role.
func Home(role user.Role) Route {
	switch role {
	case user.RoleTeacher:
		return RouteTeacher
	case user.RoleStudent:
		return RouteStudent
	default:
		return RouteLogin
	}
}

// Gate evaluates Check against the current session on every navigation. It keeps no state of its own.
type Gate struct {
	sessions *session.Manager
}

func NewGate(sessions *session.Manager) *Gate {
	return &Gate{sessions: sessions}
}

// Enter decides whether route may be shown right now.
func (g *Gate) Enter(ctx context.Context, route Route) Decision {
	roles := route.Roles()
	if roles == nil {
		return allow()
	}
	return Check(g.sessions.Current(ctx), roles...)
}

// Landing is where a user arriving on the public entry ends up: their dashboard when logged in.
func (g *Gate) Landing(ctx context.Context) Route {
	if sess := g.sessions.Current(ctx); sess != nil {
		return Home(sess.User.Role)
	}
	return RouteLogin
}
