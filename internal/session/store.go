// Package session holds the client's authentication state: the bearer token
// and the user profile, persisted across runs and exposed through derived
// authorization flags.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldkpi/qualdash/internal/api"
)

// ErrNoSession is returned by operations that require a logged-in session.
var ErrNoSession = errors.New("not authenticated")

// AuthClient is the slice of the backend API the store drives.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*api.TokenGrant, error)
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Navigator lets the store bounce the UI to the login view on teardown.
// Bound after construction because the router needs the store first.
type Navigator interface {
	AtLogin() bool
	ReplaceToLogin()
}

// Config holds Store construction parameters.
type Config struct {
	// Records persists the session across runs. It must not be nil.
	Records Records

	// Auth performs the backend calls. It must not be nil.
	Auth AuthClient

	Logger zerolog.Logger

	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// Store is the process-wide session. Token and user change together on
// login and logout; the user alone changes on a profile refresh. The user
// is only meaningful while a token is present.
type Store struct {
	records Records
	auth    AuthClient
	logger  zerolog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	token string
	user  *api.User
	nav   Navigator
}

// NewStore creates the store and rehydrates it from the persisted record.
// A persisted user without a token is discarded: no token means
// unauthenticated regardless of stale profile data.
func NewStore(cfg Config) *Store {
	s := &Store{
		records: cfg.Records,
		auth:    cfg.Auth,
		logger:  cfg.Logger,
		now:     cfg.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}

	token, rawUser, err := cfg.Records.Load()
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to restore session")
		return s
	}
	if token == "" {
		return s
	}

	s.token = token
	if len(rawUser) > 0 {
		var user api.User
		if err := json.Unmarshal(rawUser, &user); err != nil {
			s.logger.Warn().Err(err).Msg("discarding unreadable persisted profile")
		} else {
			s.user = &user
		}
	}

	return s
}

// BindNavigator attaches the navigation capability after construction.
func (s *Store) BindNavigator(nav Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nav
}

// Login authenticates against the backend. On success both fields are set
// in memory and persisted together; on failure prior state is untouched.
func (s *Store) Login(ctx context.Context, username, password string) error {
	grant, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user := grant.User

	s.mu.Lock()
	s.token = grant.AccessToken
	s.user = &user
	s.mu.Unlock()

	s.persist(grant.AccessToken, &user)

	s.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("logged in")

	return nil
}

// Logout clears the in-memory session and the persisted record, then
// replace-navigates to the login view unless already there. Idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	nav := s.nav
	s.mu.Unlock()

	if err := s.records.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}

	if nav != nil && !nav.AtLogin() {
		nav.ReplaceToLogin()
	}
}

// FetchCurrentUser replaces the stored profile with the backend's
// authoritative one and persists it.
func (s *Store) FetchCurrentUser(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return ErrNoSession
	}

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	s.mu.Lock()
	s.user = user
	token = s.token
	s.mu.Unlock()

	if token != "" {
		s.persist(token, user)
	}

	return nil
}

// CheckTokenValidity is the single authority on whether the session is
// still usable: token present, claims decodable, expiry in the future.
// An expired token tears the session down as a side effect.
func (s *Store) CheckTokenValidity(ctx context.Context) bool {
	token := s.Token()
	if token == "" {
		return false
	}

	claims, ok := DecodeClaims(token)
	if !ok || claims.ExpiresAt.IsZero() {
		return false
	}

	// Second granularity, expiry inclusive: exp <= now is expired.
	if claims.ExpiresAt.Unix() <= s.now().Unix() {
		s.logger.Debug().Msg("token expired, clearing session")
		s.Logout(ctx)
		return false
	}

	return true
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the current user has the admin role.
func (s *Store) IsAdmin() bool {
	u := s.User()
	return u != nil && u.Role == api.RoleAdmin
}

// CanUpload reports whether the current user may push datasets.
func (s *Store) CanUpload() bool {
	return s.User().CanUpload()
}

// User returns the cached profile, or nil when not fetched.
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current bearer token. Part of api.SessionHandle.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Invalidate implements api.SessionHandle: the gateway calls it on 401.
func (s *Store) Invalidate(ctx context.Context) {
	s.Logout(ctx)
}

// persist writes both fields in one transaction, best-effort: a storage
// failure is logged, not propagated, matching the in-memory-first model.
func (s *Store) persist(token string, user *api.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to serialize profile")
		return
	}
	if err := s.records.Save(token, raw); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist session")
	}
}
