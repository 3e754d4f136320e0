package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/fieldkpi/qualdash/internal/api"
	"github.com/fieldkpi/qualdash/internal/config"
	"github.com/fieldkpi/qualdash/internal/logger"
	"github.com/fieldkpi/qualdash/internal/nav"
	"github.com/fieldkpi/qualdash/internal/notify"
	"github.com/fieldkpi/qualdash/internal/session"
)

type Globals struct {
	Debug   bool
	Version string
	Config  string
	Server  string
}

// app wires the gateway, session store, and router for one invocation.
type app struct {
	cfg      config.Config
	records  session.Records
	session  *session.Store
	clients  *api.Clients
	router   *nav.Router
	notifier notify.Notifier
	logger   zerolog.Logger
}

func buildApp(globals *Globals) (*app, error) {
	log := logger.Setup(globals.Debug)

	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}
	if globals.Server != "" {
		cfg.ServerURL = globals.Server
	}

	notifier := notify.NewConsole(os.Stderr)

	gateway, err := api.New(api.Config{
		BaseURL:  cfg.ServerURL,
		Timeout:  cfg.Timeout(),
		CacheDir: cfg.CacheDir,
		Notifier: notifier,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}
	clients := api.NewClients(gateway)

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	records, err := session.OpenBoltRecords(filepath.Join(dataDir, "session.db"))
	if err != nil {
		return nil, err
	}

	store := session.NewStore(session.Config{
		Records: records,
		Auth:    clients.Auth,
		Logger:  log,
	})

	router := nav.NewRouter(store, notifier, log)

	// The gateway and router exist before the store; bind the handles now.
	store.BindNavigator(router)
	gateway.BindSession(store)

	return &app{
		cfg:      cfg,
		records:  records,
		session:  store,
		clients:  clients,
		router:   router,
		notifier: notifier,
		logger:   log,
	}, nil
}

func (a *app) Close() {
	if err := a.records.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close session database")
	}
}

// visit navigates to path and converts a guard bounce or denial into a
// command error.
func (a *app) visit(ctx context.Context, path string) error {
	route, err := a.router.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if route.Name == nav.RouteLogin {
		return fmt.Errorf("authentication required: run 'qualdash login <username>'")
	}
	return nil
}

func promptPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
