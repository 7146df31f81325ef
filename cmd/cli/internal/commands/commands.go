package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edufinai/edufin/internal/api"
	"github.com/edufinai/edufin/internal/config"
	"github.com/edufinai/edufin/internal/guard"
	"github.com/edufinai/edufin/internal/logger"
	"github.com/edufinai/edufin/internal/models"
	"github.com/edufinai/edufin/internal/session"
	"github.com/edufinai/edufin/internal/tokenstore"
)

type Globals struct {
	Debug    bool
	Server   string
	AuthOff  bool
	StateDir string
	Version  string
}

// App wires the config, token store, gateway client and session for one
// command invocation.
type App struct {
	Config  *config.Config
	Store   *tokenstore.Store
	Client  *api.Client
	Session *session.Session
	Logger  zerolog.Logger
}

func newApp(globals *Globals) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if globals.Server != "" {
		cfg.GatewayURL = globals.Server
	}
	if globals.StateDir != "" {
		cfg.StateDir = globals.StateDir
	}
	if globals.Debug {
		cfg.Debug = true
	}
	if globals.AuthOff {
		cfg.AuthOff = true
	}

	log := logger.Setup(cfg.Debug)

	store, err := tokenstore.NewStore(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session state: %w", err)
	}

	client := api.New(api.Config{
		BaseURL:  cfg.GatewayURL,
		Timeout:  cfg.Timeout,
		CacheDir: cfg.CacheDir,
	}, store.Token, log)

	opts := []session.Option{
		session.WithLogger(log),
		session.WithAuthOffRequest(cfg.AuthOff),
	}
	if !cfg.AuthEnabled {
		opts = append(opts, session.WithAuthDisabled())
	}

	sess := session.New(store, client, opts...)
	client.OnUnauthorized(sess.HandleUnauthorized)

	return &App{
		Config:  cfg,
		Store:   store,
		Client:  client,
		Session: sess,
		Logger:  log,
	}, nil
}

// requireUser resolves the session and applies the generic guard before a
// command touches an authenticated surface.
func (a *App) requireUser(ctx context.Context, target string) (*models.User, error) {
	a.Session.Resolve(ctx)

	decision := guard.Generic{AuthEnabled: a.Config.AuthEnabled}.Evaluate(a.Session.Snapshot(), target)
	return a.applyDecision(decision)
}

// requireRole resolves the session and applies a role guard.
func (a *App) requireRole(ctx context.Context, g guard.RoleGuard, target string) (*models.User, error) {
	a.Session.Resolve(ctx)
	return a.applyDecision(g.Evaluate(a.Session.Snapshot(), target))
}

func (a *App) applyDecision(decision guard.Decision) (*models.User, error) {
	switch decision.Action {
	case guard.ActionAllow:
		return a.Session.Snapshot().User, nil

	case guard.ActionWait:
		if !decision.Quiet && decision.Message != "" {
			fmt.Println(decision.Message)
		}
		return nil, errors.New("session is still resolving, try again")

	case guard.ActionRedirect:
		return nil, fmt.Errorf("not signed in for %s: log in via %s (run 'edufin login')", decision.From, decision.Route)

	default:
		return nil, errors.New(decision.Message)
	}
}
