// AngelaMos | 2026
// manager.go

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/skadri1601/TradeSignal-sub000/internal/auth"
	"github.com/skadri1601/TradeSignal-sub000/internal/core"
)

type State int

const (
	StateUnknown State = iota
	StateResolving
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is the read model consumers see. It is a value copy; the
// manager owns the only mutable session state in the process.
type Snapshot struct {
	State               State
	User                *auth.User
	IsAuthenticated     bool
	IsLoading           bool
	CredentialsAccepted bool
	ProfileLoaded       bool
	SyncError           *core.AppError
	Tier                string
}

// Manager is the single source of truth for the current user and token
// pair. It is constructed explicitly and passed by reference; there is
// no package-level session.
type Manager struct {
	client   *auth.Client
	store    *Store
	logger   *slog.Logger
	validate *validator.Validate

	mu                  sync.Mutex
	state               State
	user                *auth.User
	tokens              *auth.TokenPair
	credentialsAccepted bool
	profileLoaded       bool
	syncErr             *core.AppError
	loading             bool
	resolved            bool
	gen                 uint64
}

func NewManager(client *auth.Client, store *Store, logger *slog.Logger) *Manager {
	return &Manager{
		client:   client,
		store:    store,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		state:    StateUnknown,
	}
}

// Init runs the startup resolution sequence exactly once: read the
// persisted pair, resolve it into a user, recover through one refresh
// on 401. Transient failures leave the user unauthenticated without
// clearing storage.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	if m.resolved {
		m.mu.Unlock()
		return
	}
	m.resolved = true
	m.loading = true
	m.state = StateResolving

	tokens, err := m.store.Load()
	if err != nil {
		m.logger.Warn("token store unreadable, starting logged out", "error", err)
		m.state = StateUnauthenticated
		m.loading = false
		m.mu.Unlock()
		return
	}

	if tokens == nil {
		m.state = StateUnauthenticated
		m.loading = false
		m.mu.Unlock()
		return
	}

	m.tokens = tokens
	m.mu.Unlock()

	m.resolveUser(ctx)

	m.mu.Lock()
	m.loading = false
	m.mu.Unlock()
}

// resolveUser turns the current token pair into a user record, with one
// refresh-and-retry recovery on unauthorized.
func (m *Manager) resolveUser(ctx context.Context) {
	m.mu.Lock()
	tokens := m.tokens
	gen := m.gen
	m.mu.Unlock()

	if tokens.IsZero() {
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.mu.Unlock()
		return
	}

	var user *auth.User
	var err error

	if auth.TokenLooksExpired(tokens.AccessToken, time.Now()) {
		// The profile fetch would 401 anyway; go straight to the one
		// refresh recovery.
		m.logger.Debug("stored access token past its exp claim, refreshing first")
		if refreshErr := m.RefreshAccessToken(ctx); refreshErr != nil {
			return
		}
		user, err = m.client.Me(ctx)
	} else {
		user, err = m.client.Me(ctx)
		if err != nil && core.IsUnauthorized(err) {
			if refreshErr := m.RefreshAccessToken(ctx); refreshErr != nil {
				return
			}
			user, err = m.client.Me(ctx)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		// Logged out while the fetch was in flight; the stale result
		// must not resurrect the session.
		return
	}

	if err != nil {
		if core.IsUnauthorized(err) {
			m.logger.Info("stored credentials rejected, logging out")
			m.logoutLocked()
			return
		}

		appErr, _ := core.AsAppError(err)
		m.logger.Warn("profile sync failed, keeping stored tokens",
			"error", err,
		)
		m.syncErr = appErr
		if m.user == nil {
			// A transient fetch error does not imply bad credentials;
			// an already-resolved session stays valid in degraded mode.
			m.state = StateUnauthenticated
		}
		return
	}

	m.user = user
	m.credentialsAccepted = true
	m.profileLoaded = true
	m.syncErr = nil
	m.state = StateAuthenticated
}

// Login exchanges credentials for a token pair, persists the pair, and
// then attempts the profile fetch. A failed profile fetch does not roll
// back the login; a failed login leaves no partial state.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	req := auth.LoginRequest{Email: email, Password: password}
	if err := m.validate.Struct(req); err != nil {
		return core.NewAppError(
			core.KindValidation,
			0,
			core.FormatValidationError(err),
			err,
		)
	}

	tokens, err := m.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := m.store.Save(tokens); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}

	m.mu.Lock()
	m.tokens = tokens
	m.credentialsAccepted = true
	m.profileLoaded = false
	m.syncErr = nil
	gen := m.gen
	m.mu.Unlock()

	user, profileErr := m.client.Me(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		return nil
	}

	if profileErr != nil {
		appErr, _ := core.AsAppError(profileErr)
		m.logger.Warn("profile fetch after login failed, fetching lazily",
			"error", profileErr,
		)
		m.syncErr = appErr
		m.state = StateUnauthenticated
		return nil
	}

	m.user = user
	m.profileLoaded = true
	m.state = StateAuthenticated

	m.logger.Info("logged in", "user_id", user.ID, "tier", user.Tier)
	return nil
}

// Register creates the account and then logs in with the same
// credentials. Backend validation messages pass through verbatim.
func (m *Manager) Register(
	ctx context.Context,
	email, username, password string,
) error {
	req := auth.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	}
	if err := m.validate.Struct(req); err != nil {
		return core.NewAppError(
			core.KindValidation,
			0,
			core.FormatValidationError(err),
			err,
		)
	}

	if _, err := m.client.Register(ctx, req); err != nil {
		return err
	}

	return m.Login(ctx, email, password)
}

// Logout synchronously clears the session and the persisted pair. No
// network call, no error path, idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logoutLocked()
}

func (m *Manager) logoutLocked() {
	m.user = nil
	m.tokens = nil
	m.credentialsAccepted = false
	m.profileLoaded = false
	m.syncErr = nil
	m.state = StateUnauthenticated
	m.gen++

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to remove persisted tokens", "error", err)
	}
}

// RefreshAccessToken requests a new pair with the stored refresh token.
// No refresh token, or a collaborator failure, behaves as Logout; the
// one attempt is never retried. A logout that lands while the request
// is in flight wins: the late result is discarded, not persisted.
func (m *Manager) RefreshAccessToken(ctx context.Context) error {
	m.mu.Lock()
	tokens := m.tokens
	gen := m.gen
	m.mu.Unlock()

	if tokens.IsZero() || tokens.RefreshToken == "" {
		m.Logout()
		return core.ErrNoSession
	}

	fresh, err := m.client.Refresh(ctx, tokens.RefreshToken)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		// Logged out while the refresh was in flight; the stale pair
		// must not resurrect the cleared session.
		return core.ErrNoSession
	}

	if err != nil {
		m.logger.Info("token refresh failed, logging out", "error", err)
		m.logoutLocked()
		return err
	}

	if saveErr := m.store.Save(fresh); saveErr != nil {
		m.logger.Error("failed to persist refreshed tokens", "error", saveErr)
		m.logoutLocked()
		return saveErr
	}

	m.tokens = fresh
	return nil
}

// Resync is the guard's retry path: re-resolve the user with whatever
// tokens are current. A no-op when logged out.
func (m *Manager) Resync(ctx context.Context) {
	m.mu.Lock()
	hasTokens := !m.tokens.IsZero()
	m.mu.Unlock()

	if !hasTokens {
		return
	}

	m.resolveUser(ctx)
}

// AccessToken is the narrow accessor used to attach the bearer header
// to outgoing requests. Nothing else reads the token pair.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens.IsZero() {
		return ""
	}
	return m.tokens.AccessToken
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var userCopy *auth.User
	if m.user != nil {
		u := *m.user
		userCopy = &u
	}

	tier := "free"
	if m.user != nil && m.user.Tier != "" {
		tier = m.user.Tier
	}

	return Snapshot{
		State:               m.state,
		User:                userCopy,
		IsAuthenticated:     m.user != nil && !m.tokens.IsZero(),
		IsLoading:           m.loading,
		CredentialsAccepted: m.credentialsAccepted,
		ProfileLoaded:       m.profileLoaded,
		SyncError:           m.syncErr,
		Tier:                tier,
	}
}
