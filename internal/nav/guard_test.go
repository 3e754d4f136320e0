package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldkpi/qualdash/internal/api"
	"github.com/fieldkpi/qualdash/internal/notify"
)

type fakeSession struct {
	authenticated bool
	tokenValid    bool
	user          *api.User
	fetchUser     *api.User
	fetchErr      error
	fetchCalls    int
}

func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }

func (f *fakeSession) CheckTokenValidity(ctx context.Context) bool {
	if !f.tokenValid {
		// An expired token tears the session down.
		f.authenticated = false
		f.user = nil
	}
	return f.tokenValid
}

func (f *fakeSession) FetchCurrentUser(ctx context.Context) error {
	f.fetchCalls++
	if f.fetchErr != nil {
		return f.fetchErr
	}
	f.user = f.fetchUser
	return nil
}

func (f *fakeSession) User() *api.User { return f.user }

func (f *fakeSession) CanUpload() bool { return f.user.CanUpload() }

func userWithRole(role api.Role) *api.User {
	return &api.User{ID: 1, Username: "alice", Role: role, IsActive: true}
}

func routeByName(t *testing.T, name string) *Route {
	t.Helper()
	for _, r := range Table() {
		if r.Name == name {
			rt := r
			return &rt
		}
	}
	t.Fatalf("no route named %s", name)
	return nil
}

func newTestGuard(session Session) (*Guard, *notify.Recorder) {
	rec := &notify.Recorder{}
	return NewGuard(session, rec, zerolog.Nop()), rec
}

func TestGuard_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthenticated visitor is sent to login with return target", func(t *testing.T) {
		guard, _ := newTestGuard(&fakeSession{})

		d := guard.Check(ctx, routeByName(t, RouteAdminUsers))
		assert.Equal(t, ActionRedirect, d.Action)
		assert.Equal(t, "/login?redirect=%2Fadmin%2Fusers", d.To)
	})

	t.Run("login view is public for unauthenticated visitors", func(t *testing.T) {
		guard, _ := newTestGuard(&fakeSession{})

		d := guard.Check(ctx, routeByName(t, RouteLogin))
		assert.Equal(t, ActionAllow, d.Action)
	})

	t.Run("authenticated user visiting login lands on default view", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(api.RoleViewer)}
		guard, _ := newTestGuard(session)

		d := guard.Check(ctx, routeByName(t, RouteLogin))
		assert.Equal(t, ActionRedirect, d.Action)
		assert.Equal(t, "/kpi/ifir/odm-analysis", d.To)
		assert.True(t, d.Replace)
	})

	t.Run("expired token redirects to login", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: false, user: userWithRole(api.RoleAdmin)}
		guard, _ := newTestGuard(session)

		d := guard.Check(ctx, routeByName(t, RouteUpload))
		assert.Equal(t, ActionRedirect, d.Action)
		assert.Equal(t, "/login?redirect=%2Fupload", d.To)
		// The validity check already tore the session down.
		assert.False(t, session.authenticated)
	})

	t.Run("missing profile is fetched before proceeding", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: true, fetchUser: userWithRole(api.RoleAdmin)}
		guard, _ := newTestGuard(session)

		d := guard.Check(ctx, routeByName(t, RouteAdminUsers))
		assert.Equal(t, ActionAllow, d.Action)
		assert.Equal(t, 1, session.fetchCalls)
	})

	t.Run("profile fetch failure redirects to login", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: true, fetchErr: errors.New("boom")}
		guard, _ := newTestGuard(session)

		d := guard.Check(ctx, routeByName(t, RouteAdminUsers))
		assert.Equal(t, ActionRedirect, d.Action)
		assert.Equal(t, "/login?redirect=%2Fadmin%2Fusers", d.To)
	})

	t.Run("root replace-navigates to role landing", func(t *testing.T) {
		for _, tc := range []struct {
			role    api.Role
			landing string
		}{
			{api.RoleAdmin, "/upload"},
			{api.RoleUploader, "/upload"},
			{api.RoleViewer, "/kpi/ifir/odm-analysis"},
		} {
			session := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(tc.role)}
			guard, _ := newTestGuard(session)

			d := guard.Check(ctx, routeByName(t, RouteRoot))
			assert.Equal(t, ActionRedirect, d.Action, "role %s", tc.role)
			assert.Equal(t, tc.landing, d.To, "role %s", tc.role)
			assert.True(t, d.Replace, "role %s", tc.role)
		}
	})

	t.Run("viewer is denied the admin route in place", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(api.RoleViewer)}
		guard, rec := newTestGuard(session)

		d := guard.Check(ctx, routeByName(t, RouteAdminUsers))
		assert.Equal(t, ActionDeny, d.Action)
		require.Len(t, rec.Messages(), 1)
		assert.Contains(t, rec.Messages()[0], "access denied")
	})

	t.Run("viewer is denied upload, uploader is not", func(t *testing.T) {
		viewer := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(api.RoleViewer)}
		guard, _ := newTestGuard(viewer)
		d := guard.Check(ctx, routeByName(t, RouteUpload))
		assert.Equal(t, ActionDeny, d.Action)

		uploader := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(api.RoleUploader)}
		guard, _ = newTestGuard(uploader)
		d = guard.Check(ctx, routeByName(t, RouteUpload))
		assert.Equal(t, ActionAllow, d.Action)
	})

	t.Run("uploader is denied the admin route", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(api.RoleUploader)}
		guard, _ := newTestGuard(session)

		d := guard.Check(ctx, routeByName(t, RouteAdminUsers))
		assert.Equal(t, ActionDeny, d.Action)
	})

	t.Run("viewer may open the analysis views", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(api.RoleViewer)}
		guard, _ := newTestGuard(session)

		for _, name := range []string{RouteIFIRODM, RouteIFIRSegment, RouteIFIRModel, RouteRAODM, RouteRASegment, RouteRAModel} {
			d := guard.Check(ctx, routeByName(t, name))
			assert.Equal(t, ActionAllow, d.Action, "route %s", name)
		}
	})
}

func TestRouter_Navigate(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthenticated navigation settles on login", func(t *testing.T) {
		router := NewRouter(&fakeSession{}, &notify.Recorder{}, zerolog.Nop())

		route, err := router.Navigate(ctx, "/admin/users")
		require.NoError(t, err)
		assert.Equal(t, RouteLogin, route.Name)
		assert.Equal(t, "/login", router.Current())
	})

	t.Run("denied navigation keeps the previous location", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(api.RoleViewer)}
		router := NewRouter(session, &notify.Recorder{}, zerolog.Nop())

		_, err := router.Navigate(ctx, "/kpi/ifir/odm-analysis")
		require.NoError(t, err)

		_, err = router.Navigate(ctx, "/admin/users")
		require.ErrorIs(t, err, ErrDenied)
		assert.Equal(t, "/kpi/ifir/odm-analysis", router.Current())
	})

	t.Run("root navigation lands on the role default", func(t *testing.T) {
		session := &fakeSession{authenticated: true, tokenValid: true, user: userWithRole(api.RoleAdmin)}
		router := NewRouter(session, &notify.Recorder{}, zerolog.Nop())

		route, err := router.Navigate(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, RouteUpload, route.Name)
		assert.Equal(t, "/upload", router.Current())
	})

	t.Run("unknown route is an error", func(t *testing.T) {
		router := NewRouter(&fakeSession{}, &notify.Recorder{}, zerolog.Nop())

		_, err := router.Navigate(ctx, "/nope")
		require.Error(t, err)
	})

	t.Run("redirect target query is ignored when matching routes", func(t *testing.T) {
		router := NewRouter(&fakeSession{}, &notify.Recorder{}, zerolog.Nop())

		route, err := router.Navigate(ctx, "/upload")
		require.NoError(t, err)
		assert.Equal(t, RouteLogin, route.Name)
	})
}
