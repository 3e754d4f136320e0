package nav

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fieldkpi/qualdash/internal/notify"
)

// ErrDenied is returned when the guard blocks a navigation in place.
var ErrDenied = errors.New("navigation denied")

// maxRedirects bounds redirect chains (root → landing → ...).
const maxRedirects = 8

// Router resolves paths against the route table, runs every transition
// through the guard, and tracks the current location. It also implements
// session.Navigator so the store can bounce to login on teardown.
type Router struct {
	byPath map[string]*Route
	byName map[string]*Route
	guard  *Guard
	logger zerolog.Logger

	mu      sync.Mutex
	current string
}

func NewRouter(session Session, notifier notify.Notifier, logger zerolog.Logger) *Router {
	r := &Router{
		byPath: make(map[string]*Route),
		byName: make(map[string]*Route),
		guard:  NewGuard(session, notifier, logger),
		logger: logger,
		// The client starts on the login view; the first navigation moves
		// an authenticated session off it.
		current: "/login",
	}

	for _, route := range Table() {
		rt := route
		r.byPath[rt.Path] = &rt
		r.byName[rt.Name] = &rt
	}

	return r
}

// Lookup resolves a path (query ignored) to its route.
func (r *Router) Lookup(path string) (*Route, bool) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	rt, ok := r.byPath[path]
	return rt, ok
}

// Navigate moves to path, following guard redirects. It returns the route
// finally settled on; callers detect a login bounce by comparing names.
// A denial leaves the location unchanged and returns ErrDenied.
func (r *Router) Navigate(ctx context.Context, path string) (*Route, error) {
	for i := 0; i < maxRedirects; i++ {
		route, ok := r.Lookup(path)
		if !ok {
			return nil, fmt.Errorf("unknown route: %s", path)
		}

		decision := r.guard.Check(ctx, route)
		switch decision.Action {
		case ActionAllow:
			r.setCurrent(route.Path)
			return route, nil
		case ActionRedirect:
			r.logger.Debug().Str("from", path).Str("to", decision.To).Bool("replace", decision.Replace).Msg("redirect")
			path = decision.To
		case ActionDeny:
			return nil, fmt.Errorf("%w: %s", ErrDenied, decision.Reason)
		}
	}

	return nil, fmt.Errorf("redirect loop at %s", path)
}

// Current returns the current location path.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) setCurrent(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
}

// AtLogin implements session.Navigator.
func (r *Router) AtLogin() bool {
	route, ok := r.Lookup(r.Current())
	return ok && route.Name == RouteLogin
}

// ReplaceToLogin implements session.Navigator. The guard is deliberately
// bypassed: teardown must always land on login.
func (r *Router) ReplaceToLogin() {
	r.setCurrent("/login")
}
