// AngelaMos | 2026
// manager_test.go

package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skadri1601/TradeSignal-sub000/internal/api"
	"github.com/skadri1601/TradeSignal-sub000/internal/auth"
	"github.com/skadri1601/TradeSignal-sub000/internal/config"
	"github.com/skadri1601/TradeSignal-sub000/internal/core"
	"github.com/skadri1601/TradeSignal-sub000/internal/demo"
)

type managerFixture struct {
	manager *Manager
	store   *Store
	backend *demo.Server
	server  *httptest.Server
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	logger := discardLogger()

	backend, err := demo.NewServer(logger)
	require.NoError(t, err)

	server := httptest.NewServer(backend.Router())
	t.Cleanup(server.Close)

	apiClient := api.NewClient(config.APIConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, logger)

	store := NewStore(config.StorageConfig{
		Path:       filepath.Join(t.TempDir(), "tokens.bin"),
		Passphrase: "test-pass",
	})

	manager := NewManager(auth.NewClient(apiClient), store, logger)
	apiClient.SetTokenSource(manager.AccessToken)

	return &managerFixture{
		manager: manager,
		store:   store,
		backend: backend,
		server:  server,
	}
}

func TestManager_InitNoStoredTokens(t *testing.T) {
	fx := newManagerFixture(t)

	fx.manager.Init(context.Background())

	snap := fx.manager.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.IsLoading)
	assert.Equal(t, "free", snap.Tier)
}

func TestManager_LoginSuccess(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	err := fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	)
	require.NoError(t, err)

	snap := fx.manager.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.True(t, snap.IsAuthenticated)
	assert.True(t, snap.CredentialsAccepted)
	assert.True(t, snap.ProfileLoaded)
	assert.Equal(t, "pro", snap.Tier)
	require.NotNil(t, snap.User)
	assert.Equal(t, "demo@tradesignal.io", snap.User.Email)

	// The pair the backend issued is what landed on disk.
	saved, err := fx.store.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, fx.manager.AccessToken(), saved.AccessToken)
	assert.NotEmpty(t, saved.RefreshToken)
}

func TestManager_LoginWrongPassword(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	err := fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"not-the-password",
	)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, core.KindAuthInvalid, appErr.Kind)

	// A rejected login leaves no partial state behind.
	snap := fx.manager.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Empty(t, fx.manager.AccessToken())

	saved, err := fx.store.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestManager_LoginValidation(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	err := fx.manager.Login(context.Background(), "not-an-email", "x")
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, core.KindValidation, appErr.Kind)
}

func TestManager_LoginInactiveAccount(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	err := fx.manager.Login(
		context.Background(),
		"suspended@tradesignal.io",
		"suspended-pass-123",
	)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, core.KindAccountInactive, appErr.Kind)
	assert.False(t, fx.manager.Snapshot().IsAuthenticated)
}

func TestManager_LogoutClearsEverything(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	require.NoError(t, fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	fx.manager.Logout()

	snap := fx.manager.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsAuthenticated)
	assert.False(t, snap.CredentialsAccepted)
	assert.Empty(t, fx.manager.AccessToken())

	saved, err := fx.store.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)

	// Logging out again is a no-op, not an error.
	fx.manager.Logout()
}

func TestManager_RefreshWithoutSession(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	err := fx.manager.RefreshAccessToken(context.Background())
	assert.ErrorIs(t, err, core.ErrNoSession)
	assert.Equal(t, StateUnauthenticated, fx.manager.Snapshot().State)
}

func TestManager_RefreshRotatesPair(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	require.NoError(t, fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	before := fx.manager.AccessToken()

	require.NoError(t, fx.manager.RefreshAccessToken(context.Background()))

	after := fx.manager.AccessToken()
	assert.NotEmpty(t, after)
	assert.NotEqual(t, before, after)

	// The rotated pair is persisted, not just held in memory.
	saved, err := fx.store.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, after, saved.AccessToken)
}

func TestManager_RefreshFailureLogsOut(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	require.NoError(t, fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	// The demo backend rotates refresh tokens on use; burning the
	// stored one makes the next refresh fail.
	require.NoError(t, fx.manager.RefreshAccessToken(context.Background()))
	saved, err := fx.store.Load()
	require.NoError(t, err)

	// Put the already-used pair back so the manager holds a dead
	// refresh token.
	stale := &auth.TokenPair{
		AccessToken:  saved.AccessToken,
		RefreshToken: "no-such-refresh-token",
	}
	require.NoError(t, fx.store.Save(stale))
	fx.manager.mu.Lock()
	fx.manager.tokens = stale
	fx.manager.mu.Unlock()

	err = fx.manager.RefreshAccessToken(context.Background())
	require.Error(t, err)

	snap := fx.manager.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Empty(t, fx.manager.AccessToken())

	cleared, err := fx.store.Load()
	require.NoError(t, err)
	assert.Nil(t, cleared)
}

func TestManager_StartupWithValidTokens(t *testing.T) {
	fx := newManagerFixture(t)

	fx.manager.Init(context.Background())
	require.NoError(t, fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	// A second manager over the same store resolves the user at
	// startup without new credentials.
	logger := discardLogger()
	apiClient := api.NewClient(config.APIConfig{
		BaseURL: fx.server.URL,
		Timeout: 5 * time.Second,
	}, logger)
	restarted := NewManager(auth.NewClient(apiClient), fx.store, logger)
	apiClient.SetTokenSource(restarted.AccessToken)

	restarted.Init(context.Background())

	snap := restarted.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "demo@tradesignal.io", snap.User.Email)
}

func TestManager_StartupExpiredTokenRecoversViaRefresh(t *testing.T) {
	fx := newManagerFixture(t)
	fx.backend.SetAccessTokenTTL(-time.Minute)

	fx.manager.Init(context.Background())
	require.NoError(t, fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	// Login succeeded but the issued access token is already expired,
	// so the profile fetch had to go through the refresh recovery.
	fx.backend.SetAccessTokenTTL(15 * time.Minute)

	logger := discardLogger()
	apiClient := api.NewClient(config.APIConfig{
		BaseURL: fx.server.URL,
		Timeout: 5 * time.Second,
	}, logger)
	restarted := NewManager(auth.NewClient(apiClient), fx.store, logger)
	apiClient.SetTokenSource(restarted.AccessToken)

	restarted.Init(context.Background())

	snap := restarted.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
}

func TestManager_StartupDeadPairLogsOut(t *testing.T) {
	fx := newManagerFixture(t)

	// A pair the backend never issued: the profile fetch 401s and the
	// refresh recovery fails, so startup ends logged out with the
	// store cleared.
	require.NoError(t, fx.store.Save(&auth.TokenPair{
		AccessToken:  "not.a.real.token",
		RefreshToken: "not-a-real-refresh",
	}))

	fx.manager.Init(context.Background())

	snap := fx.manager.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.False(t, snap.IsAuthenticated)

	saved, err := fx.store.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestManager_StartupBackendDownKeepsTokens(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())
	require.NoError(t, fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	// Point a fresh manager at a dead address with the same store.
	logger := discardLogger()
	apiClient := api.NewClient(config.APIConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Second,
	}, logger)
	offline := NewManager(auth.NewClient(apiClient), fx.store, logger)
	apiClient.SetTokenSource(offline.AccessToken)

	offline.Init(context.Background())

	snap := offline.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	require.NotNil(t, snap.SyncError)
	assert.Equal(t, core.KindNetwork, snap.SyncError.Kind)
	assert.True(t, snap.SyncError.Retryable)

	// The stored pair survives the outage.
	saved, err := fx.store.Load()
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestManager_InitRunsOnce(t *testing.T) {
	fx := newManagerFixture(t)

	fx.manager.Init(context.Background())
	require.NoError(t, fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	// A second Init must not re-run resolution or disturb the session.
	fx.manager.Init(context.Background())

	snap := fx.manager.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.False(t, snap.IsLoading)
}

func TestManager_RegisterThenAuthenticated(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	err := fx.manager.Register(
		context.Background(),
		"newuser@example.com",
		"newuser",
		"a-long-password-1",
	)
	require.NoError(t, err)

	snap := fx.manager.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "newuser@example.com", snap.User.Email)
	assert.Equal(t, "free", snap.Tier)
}

func TestManager_RegisterDuplicateEmail(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())

	err := fx.manager.Register(
		context.Background(),
		"demo@tradesignal.io",
		"someoneelse",
		"a-long-password-1",
	)
	require.Error(t, err)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, core.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Message, "already exists")
}

func TestManager_LogoutDuringRefreshStaysLoggedOut(t *testing.T) {
	logger := discardLogger()

	backend, err := demo.NewServer(logger)
	require.NoError(t, err)

	// Stall the first refresh so a logout can land while it is in
	// flight.
	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})
	var stallOnce sync.Once

	router := backend.Router()
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/auth/refresh" {
				stallOnce.Do(func() { close(refreshStarted) })
				<-releaseRefresh
			}
			router.ServeHTTP(w, r)
		},
	))
	t.Cleanup(server.Close)

	apiClient := api.NewClient(config.APIConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, logger)
	store := NewStore(config.StorageConfig{
		Path:       filepath.Join(t.TempDir(), "tokens.bin"),
		Passphrase: "test-pass",
	})
	manager := NewManager(auth.NewClient(apiClient), store, logger)
	apiClient.SetTokenSource(manager.AccessToken)

	manager.Init(context.Background())
	require.NoError(t, manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	errCh := make(chan error, 1)
	go func() {
		errCh <- manager.RefreshAccessToken(context.Background())
	}()

	<-refreshStarted
	manager.Logout()
	close(releaseRefresh)

	err = <-errCh
	assert.ErrorIs(t, err, core.ErrNoSession)

	// The pair the backend issued after the logout never lands,
	// neither in memory nor on disk.
	snap := manager.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Empty(t, manager.AccessToken())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestManager_StartupExpiredTokenFetchesProfileOnce(t *testing.T) {
	logger := discardLogger()

	backend, err := demo.NewServer(logger)
	require.NoError(t, err)

	var meCalls atomic.Int32
	router := backend.Router()
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && r.URL.Path == "/auth/me" {
				meCalls.Add(1)
			}
			router.ServeHTTP(w, r)
		},
	))
	t.Cleanup(server.Close)

	apiClient := api.NewClient(config.APIConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, logger)
	store := NewStore(config.StorageConfig{
		Path:       filepath.Join(t.TempDir(), "tokens.bin"),
		Passphrase: "test-pass",
	})
	manager := NewManager(auth.NewClient(apiClient), store, logger)
	apiClient.SetTokenSource(manager.AccessToken)

	// Leave an already-expired access token next to a live refresh
	// token on disk.
	backend.SetAccessTokenTTL(-time.Minute)
	manager.Init(context.Background())
	require.NoError(t, manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))
	backend.SetAccessTokenTTL(15 * time.Minute)
	meCalls.Store(0)

	restarted := NewManager(auth.NewClient(apiClient), store, logger)
	apiClient.SetTokenSource(restarted.AccessToken)

	restarted.Init(context.Background())

	snap := restarted.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)

	// The exp claim already says the stored token is dead, so startup
	// refreshes first instead of spending a request on a 401.
	assert.Equal(t, int32(1), meCalls.Load())
}

func TestManager_ResyncAfterOutage(t *testing.T) {
	fx := newManagerFixture(t)
	fx.manager.Init(context.Background())
	require.NoError(t, fx.manager.Login(
		context.Background(),
		"demo@tradesignal.io",
		"demo-pass-123",
	))

	// Simulate a failed background sync, then recover through Resync.
	fx.manager.mu.Lock()
	fx.manager.syncErr = core.NetworkError(nil)
	fx.manager.mu.Unlock()

	fx.manager.Resync(context.Background())

	snap := fx.manager.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Nil(t, snap.SyncError)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
