package session

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edufinai/edufin/internal/api"
	"github.com/edufinai/edufin/internal/models"
	"github.com/edufinai/edufin/internal/tokenstore"
)

// State is the session's resolved position. A session starts Unresolved and
// settles into exactly one of the other states; login, logout and bypass
// move it between them afterwards.
type State int

const (
	StateUnresolved State = iota
	StateBypassed
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateBypassed:
		return "bypassed"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unresolved"
	}
}

// Snapshot is a point-in-time copy of the session for guards and display.
type Snapshot struct {
	IsAuthenticated bool
	User            *models.User
	Ready           bool
	Bypassed        bool
}

// Gateway is the slice of the API client the session needs. The concrete
// client satisfies it; tests swap in fakes.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, reg models.Registration) error
}

// Credentials is the login input: either username+password or a
// pre-obtained token.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// LoginResult is the structured outcome of Login and Register. These
// operations never return a Go error; callers branch on Success.
type LoginResult struct {
	Success bool
	Error   string
}

// Session is the client-wide authentication state machine. The stored token
// is the sole source of truth for "logged in" across runs; the session is
// derived from it, never persisted itself (only the token and the bypass
// flag are).
type Session struct {
	store   *tokenstore.Store
	gateway Gateway
	logger  zerolog.Logger

	// authEnabled is the build-out switch: when false, auth is disabled
	// app-wide and the session is permanently bypassed.
	authEnabled bool
	// authOffRequested mirrors the ?auth=off entry flag: seen once, the
	// bypass flag is persisted for every later run.
	authOffRequested bool

	mu       sync.Mutex
	state    State
	user     *models.User
	ready    bool
	bypassed bool

	resolveOnce sync.Once
}

// Option configures a Session.
type Option func(*Session)

// WithAuthDisabled turns authentication off app-wide. The session is
// permanently bypassed and ready from construction.
func WithAuthDisabled() Option {
	return func(s *Session) { s.authEnabled = false }
}

// WithAuthOffRequest marks that this run was started with the auth-off
// flag. Resolve persists bypass before looking at any token.
func WithAuthOffRequest(requested bool) Option {
	return func(s *Session) { s.authOffRequested = requested }
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates a session over the given store and gateway.
func New(store *tokenstore.Store, gateway Gateway, opts ...Option) *Session {
	s := &Session{
		store:       store,
		gateway:     gateway,
		logger:      zerolog.Nop(),
		authEnabled: true,
		state:       StateUnresolved,
	}

	for _, opt := range opts {
		opt(s)
	}

	if !s.authEnabled {
		s.state = StateBypassed
		s.user = models.PlaceholderUser()
		s.ready = true
		s.bypassed = true
	}

	return s
}

// AuthEnabled reports whether authentication is enabled app-wide.
func (s *Session) AuthEnabled() bool {
	return s.authEnabled
}

// Snapshot returns a copy of the current session state. The user is copied
// too; mutating the snapshot never reaches back into the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *models.User
	if s.user != nil {
		u := *s.user
		u.Roles = slices.Clone(u.Roles)
		user = &u
	}

	return Snapshot{
		IsAuthenticated: s.state == StateAuthenticated || s.state == StateBypassed,
		User:            user,
		Ready:           s.ready,
		Bypassed:        s.bypassed,
	}
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token is a pure read-through to the token store; it never changes state.
func (s *Session) Token() string {
	return s.store.Token()
}

// Resolve performs the boot-time resolution exactly once. Guards must not
// decide before it completes: bypass first, then stored token against the
// gateway, else unauthenticated. With auth disabled it is a no-op.
func (s *Session) Resolve(ctx context.Context) {
	if !s.authEnabled {
		return
	}

	s.resolveOnce.Do(func() {
		s.resolve(ctx)
	})
}

func (s *Session) resolve(ctx context.Context) {
	if s.authOffRequested || s.store.Bypass() {
		if err := s.store.SetBypass(true); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist bypass flag")
		}
		s.enterBypassed()
		s.logger.Debug().Msg("session resolved: bypassed")
		return
	}

	token := s.store.Token()
	if token == "" {
		s.enterUnauthenticated()
		s.logger.Debug().Msg("session resolved: no stored token")
		return
	}

	if info, err := InspectToken(token); err == nil && info.Expired {
		s.logger.Debug().Time("expiresAt", info.ExpiresAt).Msg("stored token already expired")
	}

	user, err := s.gateway.CurrentUser(ctx)
	if err != nil {
		// Expired, malformed, or unreachable: all collapse to logged out.
		if removeErr := s.store.RemoveToken(); removeErr != nil {
			s.logger.Warn().Err(removeErr).Msg("failed to discard stale token")
		}
		s.enterUnauthenticated()
		s.logger.Debug().Err(err).Msg("session resolved: stored token rejected")
		return
	}

	s.enterAuthenticated(user)
	s.logger.Debug().Str("username", user.Username).Msg("session resolved: authenticated")
}

// Login establishes a session from credentials or a pre-obtained token.
// Bypass is cleared on success only.
func (s *Session) Login(ctx context.Context, creds Credentials) LoginResult {
	if !s.authEnabled {
		return LoginResult{Success: true}
	}

	token := creds.Token
	if token == "" {
		if creds.Username == "" || creds.Password == "" {
			return LoginResult{Error: "username and password are required"}
		}

		obtained, err := s.gateway.Login(ctx, creds.Username, creds.Password)
		if err != nil {
			return LoginResult{Error: errMessage(err)}
		}
		token = obtained
	}

	if err := s.store.SetToken(token); err != nil {
		return LoginResult{Error: errMessage(err)}
	}

	user, err := s.gateway.CurrentUser(ctx)
	if err != nil {
		return LoginResult{Error: errMessage(err)}
	}

	if err := s.store.ClearBypass(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear bypass flag")
	}
	s.enterAuthenticated(user)

	s.logger.Info().Str("username", user.Username).Msg("logged in")
	return LoginResult{Success: true}
}

// Register creates the account on the gateway, then performs the same login
// transition with the new credentials.
func (s *Session) Register(ctx context.Context, reg models.Registration) LoginResult {
	if !s.authEnabled {
		return LoginResult{Success: true}
	}

	if err := s.gateway.Register(ctx, reg); err != nil {
		return LoginResult{Error: errMessage(err)}
	}

	return s.Login(ctx, Credentials{Username: reg.Username, Password: reg.Password})
}

// Logout tears the session down. The backend call is best effort; local
// state is always cleared. With auth disabled, logout is a no-op and state
// is left untouched.
func (s *Session) Logout(ctx context.Context) {
	if !s.authEnabled {
		return
	}

	token := s.store.Token()

	// Local clearing is synchronous and unconditional; any call issued
	// afterwards picks up "no token" from the store.
	if err := s.store.ClearBypass(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear bypass flag")
	}
	if err := s.store.RemoveToken(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to remove token")
	}

	// The token to invalidate is handed over explicitly; the store no
	// longer holds it at this point.
	if token != "" {
		if err := s.gateway.Logout(ctx, token); err != nil {
			s.logger.Debug().Err(err).Msg("backend logout failed, ignoring")
		}
	}

	s.enterUnauthenticated()
	s.logger.Info().Msg("logged out")
}

// EnableBypass persists the bypass flag and enters bypass mode with the
// placeholder user. Idempotent override from any state.
func (s *Session) EnableBypass() {
	if err := s.store.SetBypass(true); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist bypass flag")
	}
	s.enterBypassed()
	s.logger.Info().Msg("bypass mode enabled")
}

// SetUser replaces the user after a profile-edit round trip. It never
// touches IsAuthenticated, Ready or Bypassed.
func (s *Session) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// HandleUnauthorized is the cross-cutting 401 hook: any authenticated call
// answered with 401 drops the token and flips the session to
// unauthenticated so the caller lands back in the login flow.
func (s *Session) HandleUnauthorized() {
	if !s.authEnabled {
		return
	}

	s.mu.Lock()
	bypassed := s.bypassed
	s.mu.Unlock()
	if bypassed {
		return
	}

	if err := s.store.RemoveToken(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to remove token")
	}
	s.enterUnauthenticated()
	s.logger.Info().Msg("session expired, token discarded")
}

func (s *Session) enterBypassed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateBypassed
	s.user = models.PlaceholderUser()
	s.ready = true
	s.bypassed = true
}

func (s *Session) enterAuthenticated(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.user = user
	s.ready = true
	s.bypassed = false
}

func (s *Session) enterUnauthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateUnauthenticated
	s.user = nil
	s.ready = true
	s.bypassed = false
}

func errMessage(err error) string {
	return api.Message(err)
}
