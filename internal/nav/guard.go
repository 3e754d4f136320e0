package nav

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fieldkpi/qualdash/internal/api"
	"github.com/fieldkpi/qualdash/internal/notify"
)

// Action is the guard's verdict on a navigation.
type Action int

const (
	// ActionAllow lets the transition proceed.
	ActionAllow Action = iota

	// ActionRedirect sends the navigation elsewhere.
	ActionRedirect

	// ActionDeny blocks the transition in place; the user stays on the
	// previous view.
	ActionDeny
)

// Decision is the outcome of one guard evaluation.
type Decision struct {
	Action  Action
	To      string // redirect target path, may carry a query
	Replace bool   // replace-navigate instead of push
	Reason  string // denial text, already notified
}

// Session is the guard's read view of the session store.
type Session interface {
	IsAuthenticated() bool
	CheckTokenValidity(ctx context.Context) bool
	FetchCurrentUser(ctx context.Context) error
	User() *api.User
	CanUpload() bool
}

// Guard intercepts every navigation. It keeps no state of its own: each
// decision is a function of the target route and the current session, with
// one suspension point at the profile fetch.
type Guard struct {
	session  Session
	notifier notify.Notifier
	logger   zerolog.Logger
}

func NewGuard(session Session, notifier notify.Notifier, logger zerolog.Logger) *Guard {
	return &Guard{session: session, notifier: notifier, logger: logger}
}

// Check evaluates one transition to target.
func (g *Guard) Check(ctx context.Context, target *Route) Decision {
	// An authenticated user never re-visits login.
	if target.Name == RouteLogin && g.session.IsAuthenticated() {
		return Decision{Action: ActionRedirect, To: DefaultLanding(g.session.User()), Replace: true}
	}

	if !target.RequiresAuth {
		return Decision{Action: ActionAllow}
	}

	if !g.session.IsAuthenticated() {
		return Decision{Action: ActionRedirect, To: loginRedirect(target.Path)}
	}

	// Re-validate freshness; an expired token has already torn the session
	// down by the time this returns false.
	if !g.session.CheckTokenValidity(ctx) {
		return Decision{Action: ActionRedirect, To: loginRedirect(target.Path)}
	}

	// Token present but no cached profile, e.g. after a restart.
	if g.session.User() == nil {
		if err := g.session.FetchCurrentUser(ctx); err != nil {
			g.logger.Debug().Err(err).Msg("profile fetch failed during navigation")
			return Decision{Action: ActionRedirect, To: loginRedirect(target.Path)}
		}
	}

	// Never land on the bare layout root.
	if target.Name == RouteRoot {
		return Decision{Action: ActionRedirect, To: DefaultLanding(g.session.User()), Replace: true}
	}

	if target.RequireUpload && !g.session.CanUpload() {
		return g.deny(target)
	}

	if target.RequiredRole != "" {
		user := g.session.User()
		if user == nil || user.Role != target.RequiredRole {
			return g.deny(target)
		}
	}

	return Decision{Action: ActionAllow}
}

func (g *Guard) deny(target *Route) Decision {
	reason := "access denied: insufficient permission"
	g.notifier.Notify(reason)
	g.logger.Debug().Str("route", target.Name).Msg("navigation denied")
	return Decision{Action: ActionDeny, Reason: reason}
}
