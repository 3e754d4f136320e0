package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldkpi/qualdash/internal/api"
)

type memRecords struct {
	token string
	user  []byte
}

func (m *memRecords) Save(token string, user []byte) error {
	m.token = token
	m.user = user
	return nil
}

func (m *memRecords) Load() (string, []byte, error) {
	return m.token, m.user, nil
}

func (m *memRecords) Clear() error {
	m.token = ""
	m.user = nil
	return nil
}

func (m *memRecords) Close() error { return nil }

type fakeAuth struct {
	grant      *api.TokenGrant
	user       *api.User
	err        error
	loginCalls int
	fetchCalls int
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*api.TokenGrant, error) {
	f.loginCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.grant, nil
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*api.User, error) {
	f.fetchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeNav struct {
	atLogin  bool
	replaced int
}

func (f *fakeNav) AtLogin() bool { return f.atLogin }

func (f *fakeNav) ReplaceToLogin() {
	f.replaced++
	f.atLogin = true
}

func testUser() api.User {
	return api.User{
		ID:          1,
		Username:    "alice",
		DisplayName: "Alice",
		Role:        api.RoleAdmin,
		IsActive:    true,
	}
}

func newTestStore(t *testing.T, records Records, auth AuthClient) *Store {
	t.Helper()
	return NewStore(Config{
		Records: records,
		Auth:    auth,
		Logger:  zerolog.Nop(),
	})
}

func TestStore_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success populates memory and persisted record together", func(t *testing.T) {
		user := testUser()
		records := &memRecords{}
		auth := &fakeAuth{grant: &api.TokenGrant{AccessToken: "tok-1", TokenType: "bearer", ExpiresIn: 3600, User: user}}
		store := newTestStore(t, records, auth)

		require.NoError(t, store.Login(ctx, "alice", "secret"))

		assert.Equal(t, "tok-1", store.Token())
		require.NotNil(t, store.User())
		assert.Equal(t, "alice", store.User().Username)

		assert.Equal(t, "tok-1", records.token)
		var persisted api.User
		require.NoError(t, json.Unmarshal(records.user, &persisted))
		assert.Equal(t, user, persisted)
	})

	t.Run("failure leaves prior session untouched", func(t *testing.T) {
		user := testUser()
		raw, err := json.Marshal(user)
		require.NoError(t, err)
		records := &memRecords{token: "tok-old", user: raw}
		auth := &fakeAuth{err: errors.New("invalid credentials")}
		store := newTestStore(t, records, auth)

		require.Error(t, store.Login(ctx, "alice", "wrong"))

		assert.Equal(t, "tok-old", store.Token())
		assert.Equal(t, "tok-old", records.token)
		require.NotNil(t, store.User())
		assert.Equal(t, "alice", store.User().Username)
	})
}

func TestStore_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears memory and record, navigates to login", func(t *testing.T) {
		user := testUser()
		raw, err := json.Marshal(user)
		require.NoError(t, err)
		records := &memRecords{token: "tok-1", user: raw}
		store := newTestStore(t, records, &fakeAuth{})
		nav := &fakeNav{}
		store.BindNavigator(nav)

		store.Logout(ctx)

		assert.Empty(t, store.Token())
		assert.Nil(t, store.User())
		assert.Empty(t, records.token)
		assert.Nil(t, records.user)
		assert.Equal(t, 1, nav.replaced)
	})

	t.Run("idempotent, no second navigation from login", func(t *testing.T) {
		records := &memRecords{token: "tok-1"}
		store := newTestStore(t, records, &fakeAuth{})
		nav := &fakeNav{}
		store.BindNavigator(nav)

		store.Logout(ctx)
		store.Logout(ctx)

		assert.Empty(t, store.Token())
		assert.Equal(t, 1, nav.replaced)
	})

	t.Run("no navigation when already at login", func(t *testing.T) {
		store := newTestStore(t, &memRecords{token: "tok-1"}, &fakeAuth{})
		nav := &fakeNav{atLogin: true}
		store.BindNavigator(nav)

		store.Logout(ctx)

		assert.Zero(t, nav.replaced)
	})
}

func TestStore_FetchCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces profile wholesale and persists it", func(t *testing.T) {
		fetched := testUser()
		fetched.DisplayName = "Alice Chen"
		records := &memRecords{token: "tok-1"}
		auth := &fakeAuth{user: &fetched}
		store := newTestStore(t, records, auth)

		require.NoError(t, store.FetchCurrentUser(ctx))

		require.NotNil(t, store.User())
		assert.Equal(t, "Alice Chen", store.User().DisplayName)
		assert.Equal(t, 1, auth.fetchCalls)

		var persisted api.User
		require.NoError(t, json.Unmarshal(records.user, &persisted))
		assert.Equal(t, "Alice Chen", persisted.DisplayName)
	})

	t.Run("fails without a token", func(t *testing.T) {
		auth := &fakeAuth{user: &api.User{}}
		store := newTestStore(t, &memRecords{}, auth)

		err := store.FetchCurrentUser(ctx)
		require.ErrorIs(t, err, ErrNoSession)
		assert.Zero(t, auth.fetchCalls)
	})
}

func TestStore_CheckTokenValidity(t *testing.T) {
	ctx := context.Background()

	mint := func(t *testing.T, exp time.Time) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "alice",
			"exp": exp.Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}

	t.Run("future expiry is valid and leaves session untouched", func(t *testing.T) {
		records := &memRecords{token: mint(t, time.Now().Add(time.Hour))}
		store := newTestStore(t, records, &fakeAuth{})

		assert.True(t, store.CheckTokenValidity(ctx))
		assert.NotEmpty(t, store.Token())
		assert.NotEmpty(t, records.token)
	})

	t.Run("past expiry clears the session", func(t *testing.T) {
		records := &memRecords{token: mint(t, time.Now().Add(-time.Hour))}
		store := newTestStore(t, records, &fakeAuth{})
		nav := &fakeNav{}
		store.BindNavigator(nav)

		assert.False(t, store.CheckTokenValidity(ctx))
		assert.Empty(t, store.Token())
		assert.Empty(t, records.token)
		assert.Equal(t, 1, nav.replaced)
	})

	t.Run("no token is invalid", func(t *testing.T) {
		store := newTestStore(t, &memRecords{}, &fakeAuth{})
		assert.False(t, store.CheckTokenValidity(ctx))
	})

	t.Run("malformed token is invalid without logout", func(t *testing.T) {
		records := &memRecords{token: "garbage"}
		store := newTestStore(t, records, &fakeAuth{})
		nav := &fakeNav{}
		store.BindNavigator(nav)

		assert.False(t, store.CheckTokenValidity(ctx))
		// Decode failure means "no claims", not an expired session.
		assert.Equal(t, "garbage", store.Token())
		assert.Zero(t, nav.replaced)
	})

	t.Run("token without expiry is invalid without logout", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)
		store := newTestStore(t, &memRecords{token: token}, &fakeAuth{})

		assert.False(t, store.CheckTokenValidity(ctx))
		assert.Equal(t, token, store.Token())
	})
}

func TestStore_Rehydration(t *testing.T) {
	t.Run("restores token and profile", func(t *testing.T) {
		user := testUser()
		raw, err := json.Marshal(user)
		require.NoError(t, err)
		store := newTestStore(t, &memRecords{token: "tok-1", user: raw}, &fakeAuth{})

		assert.True(t, store.IsAuthenticated())
		require.NotNil(t, store.User())
		assert.Equal(t, "alice", store.User().Username)
	})

	t.Run("stale profile without token means unauthenticated", func(t *testing.T) {
		raw, err := json.Marshal(testUser())
		require.NoError(t, err)
		store := newTestStore(t, &memRecords{user: raw}, &fakeAuth{})

		assert.False(t, store.IsAuthenticated())
		assert.Nil(t, store.User())
	})
}

func TestStore_DerivedFlags(t *testing.T) {
	for _, tc := range []struct {
		role      api.Role
		isAdmin   bool
		canUpload bool
	}{
		{api.RoleAdmin, true, true},
		{api.RoleUploader, false, true},
		{api.RoleViewer, false, false},
	} {
		t.Run(string(tc.role), func(t *testing.T) {
			user := testUser()
			user.Role = tc.role
			raw, err := json.Marshal(user)
			require.NoError(t, err)
			store := newTestStore(t, &memRecords{token: "tok-1", user: raw}, &fakeAuth{})

			assert.Equal(t, tc.isAdmin, store.IsAdmin())
			assert.Equal(t, tc.canUpload, store.CanUpload())
		})
	}
}
