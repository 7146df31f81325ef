package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edufinai/edufin/internal/tokenstore"
)

// fakeGateway is a minimal EduFinAI gateway for command tests.
func fakeGateway(t *testing.T, roles []any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid username or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "jwt-" + req.Username})
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer jwt-") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		username := strings.TrimPrefix(auth, "Bearer jwt-")
		json.NewEncoder(w).Encode(map[string]any{
			"id":       "u-" + username,
			"username": username,
			"roles":    roles,
		})
	})

	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/learning/lessons", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{{"id": "l1", "title": "Budgeting basics"}})
	})

	mux.HandleFunc("GET /api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{{"id": "u1", "username": "an"}})
	})

	// Stands in for a token revoked mid-session: identity still resolves,
	// but this surface rejects the bearer.
	mux.HandleFunc("GET /api/gamification/challenges", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testGlobals(t *testing.T, srv *httptest.Server) *Globals {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return &Globals{Server: srv.URL, StateDir: t.TempDir()}
}

func TestLoginCmd(t *testing.T) {
	t.Run("persists the token on success", func(t *testing.T) {
		srv := fakeGateway(t, []any{"LEARNER"})
		globals := testGlobals(t, srv)

		cmd := &LoginCmd{Username: "an", Password: "secret"}
		require.NoError(t, cmd.Run(context.Background(), globals))

		store, err := tokenstore.NewStore(globals.StateDir)
		require.NoError(t, err)
		assert.Equal(t, "jwt-an", store.Token())
	})

	t.Run("surfaces a rejection without persisting anything", func(t *testing.T) {
		srv := fakeGateway(t, []any{"LEARNER"})
		globals := testGlobals(t, srv)

		cmd := &LoginCmd{Username: "an", Password: "wrong"}
		err := cmd.Run(context.Background(), globals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid username or password")

		store, storeErr := tokenstore.NewStore(globals.StateDir)
		require.NoError(t, storeErr)
		assert.Equal(t, "", store.Token())
	})

	t.Run("requires credentials", func(t *testing.T) {
		srv := fakeGateway(t, []any{"LEARNER"})
		globals := testGlobals(t, srv)

		err := (&LoginCmd{Username: "an"}).Run(context.Background(), globals)
		require.Error(t, err)
	})
}

func TestLogoutCmd(t *testing.T) {
	srv := fakeGateway(t, []any{"LEARNER"})
	globals := testGlobals(t, srv)

	require.NoError(t, (&LoginCmd{Username: "an", Password: "secret"}).Run(context.Background(), globals))
	require.NoError(t, (&LogoutCmd{}).Run(context.Background(), globals))

	store, err := tokenstore.NewStore(globals.StateDir)
	require.NoError(t, err)
	assert.Equal(t, "", store.Token())
	assert.False(t, store.Bypass())
}

func TestWhoamiCmd(t *testing.T) {
	t.Run("works signed out", func(t *testing.T) {
		srv := fakeGateway(t, []any{"LEARNER"})
		globals := testGlobals(t, srv)

		require.NoError(t, (&WhoamiCmd{}).Run(context.Background(), globals))
	})

	t.Run("works signed in", func(t *testing.T) {
		srv := fakeGateway(t, []any{"LEARNER"})
		globals := testGlobals(t, srv)

		require.NoError(t, (&LoginCmd{Username: "an", Password: "secret"}).Run(context.Background(), globals))
		require.NoError(t, (&WhoamiCmd{}).Run(context.Background(), globals))
	})
}

func TestBypassCmd(t *testing.T) {
	srv := fakeGateway(t, []any{"LEARNER"})
	globals := testGlobals(t, srv)

	require.NoError(t, (&BypassCmd{}).Run(context.Background(), globals))

	store, err := tokenstore.NewStore(globals.StateDir)
	require.NoError(t, err)
	assert.True(t, store.Bypass())

	// Bypass admits learner surfaces without any token.
	require.NoError(t, (&LessonsListCmd{}).Run(context.Background(), globals))

	// But never administrative ones.
	err = (&AdminUsersCmd{}).Run(context.Background(), globals)
	require.Error(t, err)
}

func TestGuardedCommands(t *testing.T) {
	t.Run("signed-out users are pointed at the login flow", func(t *testing.T) {
		srv := fakeGateway(t, []any{"LEARNER"})
		globals := testGlobals(t, srv)

		err := (&LessonsListCmd{}).Run(context.Background(), globals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "edufin login")
	})

	t.Run("admin surface denies a learner in place", func(t *testing.T) {
		srv := fakeGateway(t, []any{"LEARNER"})
		globals := testGlobals(t, srv)

		require.NoError(t, (&LoginCmd{Username: "an", Password: "secret"}).Run(context.Background(), globals))

		err := (&AdminUsersCmd{}).Run(context.Background(), globals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
		assert.Contains(t, err.Error(), "LEARNER")
	})

	t.Run("admin surface admits object-form admin roles", func(t *testing.T) {
		srv := fakeGateway(t, []any{map[string]any{"name": "ROLE_ADMIN"}})
		globals := testGlobals(t, srv)

		require.NoError(t, (&LoginCmd{Username: "root", Password: "secret"}).Run(context.Background(), globals))
		require.NoError(t, (&AdminUsersCmd{}).Run(context.Background(), globals))
	})
}

func TestSessionDroppedOnRevokedToken(t *testing.T) {
	srv := fakeGateway(t, []any{"LEARNER"})
	globals := testGlobals(t, srv)

	require.NoError(t, (&LoginCmd{Username: "an", Password: "secret"}).Run(context.Background(), globals))

	// A feature call answered with 401 fails the command and discards the
	// stored token.
	err := (&ChallengesListCmd{}).Run(context.Background(), globals)
	require.Error(t, err)

	store, storeErr := tokenstore.NewStore(globals.StateDir)
	require.NoError(t, storeErr)
	assert.Equal(t, "", store.Token())

	// The next guarded command lands back in the login flow.
	err = (&LessonsListCmd{}).Run(context.Background(), globals)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edufin login")
}

func TestAuthDisabled(t *testing.T) {
	srv := fakeGateway(t, []any{"LEARNER"})
	globals := testGlobals(t, srv)
	t.Setenv("EDUFIN_AUTH_ENABLED", "false")

	// Learner surfaces open up entirely.
	require.NoError(t, (&LessonsListCmd{}).Run(context.Background(), globals))

	// Administrative surfaces still demand an explicit login.
	err := (&AdminUsersCmd{}).Run(context.Background(), globals)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/admin/login")
}

func TestPrefsCmd(t *testing.T) {
	srv := fakeGateway(t, []any{"LEARNER"})
	globals := testGlobals(t, srv)

	require.NoError(t, (&PrefsSetCmd{Key: "theme", Value: "dark"}).Run(context.Background(), globals))
	require.NoError(t, (&PrefsShowCmd{}).Run(context.Background(), globals))

	err := (&PrefsSetCmd{Key: "font", Value: "mono"}).Run(context.Background(), globals)
	require.Error(t, err)

	store, storeErr := tokenstore.NewStore(globals.StateDir)
	require.NoError(t, storeErr)
	assert.Equal(t, "dark", store.Preference("theme"))
}
