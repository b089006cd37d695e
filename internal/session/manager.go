// Package session owns the signed-in identity: bootstrap from durable
// storage, login with a demo fallback, logout, registration and expiry.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leemaz/leemaz/internal/store"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

// Default race budgets.
const (
	DefaultBootstrapTimeout = 3 * time.Second
	DefaultLoginTimeout     = 5 * time.Second
)

// ErrLoginFailed is wrapped by every Login error.
var ErrLoginFailed = errors.New("login failed")

// State is the lifecycle state of the Manager.
type State int

const (
	Bootstrapping State = iota
	LoggedOut
	LoggedIn
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case LoggedOut:
		return "logged_out"
	case LoggedIn:
		return "logged_in"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Origin records where the current session came from.
type Origin string

const (
	OriginNone    Origin = ""
	OriginRemote  Origin = "remote"
	OriginCache   Origin = "cache"
	OriginOffline Origin = "offline"
	OriginDemo    Origin = "demo"
)

// API is the part of the REST client the Manager depends on.
type API interface {
	Login(ctx context.Context, email, password string) (*client.Token, error)
	Register(ctx context.Context, req client.RegisterRequest) error
	VerifyEmail(ctx context.Context, email, code string) error
	GetMe(ctx context.Context) (*domain.User, error)
	GetMeWithToken(ctx context.Context, token string) (*domain.User, error)
	SetToken(token string)
}

// Config holds the race budgets. Zero values use the defaults.
type Config struct {
	BootstrapTimeout time.Duration
	LoginTimeout     time.Duration
}

// Manager is the single owner of the process's session.
// Every transition persists and adopts under mu; mu is never held across
// a network call.
type Manager struct {
	api   API
	store store.Store
	log   *slog.Logger
	cfg   Config

	mu      sync.Mutex
	state   State
	current *domain.Session
	origin  Origin
	token   string
	gen     uint64 // bumped on every transition
}

// NewManager returns a Manager in the Bootstrapping state.
func NewManager(api API, st store.Store, log *slog.Logger, cfg Config) *Manager {
	if cfg.BootstrapTimeout <= 0 {
		cfg.BootstrapTimeout = DefaultBootstrapTimeout
	}
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = DefaultLoginTimeout
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Manager{api: api, store: st, log: log, cfg: cfg, state: Bootstrapping}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns a copy of the active session, or nil when logged out.
func (m *Manager) Current() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// Origin returns where the active session came from.
func (m *Manager) Origin() Origin {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.origin
}

// Bootstrap restores a session from durable storage. It returns LoggedIn
// or LoggedOut and finishes within BootstrapTimeout plus storage time.
func (m *Manager) Bootstrap(ctx context.Context) State {
	m.mu.Lock()
	m.resetLocked(Bootstrapping)
	m.mu.Unlock()

	token, ok, err := m.store.Get(store.KeyAuthToken)
	if err != nil {
		m.log.Warn("read auth token", "op", "bootstrap", "err", err)
		return m.expire("bootstrap")
	}
	if !ok || token == "" {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.resetLocked(LoggedOut)
		return m.state
	}

	user, err := race(ctx, m.cfg.BootstrapTimeout, func(ctx context.Context) (*domain.User, error) {
		return m.api.GetMeWithToken(ctx, token)
	})
	if err == nil {
		s := domain.SessionFromUser(user)
		if err = s.Validate(); err == nil {
			return m.commit("bootstrap", token, false, s, OriginRemote)
		}
	}
	m.log.Info("remote identity unavailable", "op", "bootstrap", "err", err)

	cached, err := m.readCache()
	if err != nil {
		m.log.Warn("read cached identity", "op", "bootstrap", "err", err)
		return m.expire("bootstrap")
	}
	if cached != nil {
		origin := OriginCache
		if token == DemoToken && cached.UserID == DemoUserID {
			origin = OriginDemo
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		m.api.SetToken(token)
		m.adoptLocked(*cached, origin, token)
		return m.state
	}

	return m.commit("bootstrap", token, false, OfflineSession(), OriginOffline)
}

// Login authenticates and adopts the resulting session. On failure the
// demo credentials still produce the demo session; any other failure
// returns an error wrapping ErrLoginFailed and leaves the session unchanged.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	type result struct {
		token string
		user  *domain.User
	}
	res, err := race(ctx, m.cfg.LoginTimeout, func(ctx context.Context) (result, error) {
		tok, err := m.api.Login(ctx, email, password)
		if err != nil {
			return result{}, err
		}
		user, err := m.api.GetMeWithToken(ctx, tok.AccessToken)
		if err != nil {
			return result{}, err
		}
		return result{token: tok.AccessToken, user: user}, nil
	})
	if err == nil {
		s := domain.SessionFromUser(res.user)
		if err = s.Validate(); err == nil {
			m.commit("login", res.token, true, s, OriginRemote)
			m.log.Info("logged in", "op", "login", "origin", OriginRemote, "role", s.Role)
			return nil
		}
	}

	if email == DemoEmail && password == DemoPassword {
		m.log.Info("remote login unavailable, using demo session", "op", "login", "err", err)
		m.commit("login", DemoToken, true, DemoSession(), OriginDemo)
		return nil
	}

	m.log.Info("login rejected", "op", "login", "err", err)
	return fmt.Errorf("%w: %s", ErrLoginFailed, client.Message(err))
}

// Logout destroys the session in memory and in storage. It never fails
// and calling it again is a no-op.
func (m *Manager) Logout() {
	m.expire("logout")
}

// Register creates an account. It never changes the session.
func (m *Manager) Register(ctx context.Context, req client.RegisterRequest) error {
	if err := m.api.Register(ctx, req); err != nil {
		return fmt.Errorf("session.Register: %w", err)
	}
	return nil
}

// VerifyEmail confirms a registration code. It never changes the session.
func (m *Manager) VerifyEmail(ctx context.Context, email, code string) error {
	if err := m.api.VerifyEmail(ctx, email, code); err != nil {
		return fmt.Errorf("session.VerifyEmail: %w", err)
	}
	return nil
}

// RefreshUser re-reads the identity of a logged-in session from the
// backend and updates the cache. Demo sessions are not refreshed, and a
// response that arrives after the session changed is dropped.
func (m *Manager) RefreshUser(ctx context.Context) error {
	m.mu.Lock()
	state, origin, gen := m.state, m.origin, m.gen
	m.mu.Unlock()
	if state != LoggedIn {
		return fmt.Errorf("session.RefreshUser: %s", state)
	}
	if origin == OriginDemo {
		return nil
	}

	user, err := m.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("session.RefreshUser: %w", err)
	}
	s := domain.SessionFromUser(user)
	if err := s.Validate(); err != nil {
		return fmt.Errorf("session.RefreshUser: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		m.log.Info("dropping stale identity", "op", "refresh", "user", s.UserID)
		return nil
	}
	m.writeCache("refresh", s)
	m.adoptLocked(s, OriginRemote, m.token)
	return nil
}

// HandleUnauthorized expires the session whose token the backend
// rejected. Demo sessions, and sessions holding a different token, are
// left alone.
func (m *Manager) HandleUnauthorized(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != LoggedIn || m.origin == OriginDemo || token == "" || token != m.token {
		return
	}
	m.log.Info("session expired", "op", "unauthorized")
	m.expireLocked("unauthorized")
}

// Teardown drops the in-memory session without touching storage.
func (m *Manager) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked(LoggedOut)
}

// commit persists s (and token when storeToken is set), installs token on
// the client and adopts s as one transition.
func (m *Manager) commit(op, token string, storeToken bool, s domain.Session, origin Origin) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if storeToken {
		m.writeToken(op, token)
	}
	m.writeCache(op, s)
	m.api.SetToken(token)
	m.adoptLocked(s, origin, token)
	return m.state
}

// expire clears storage, the client token and the session.
func (m *Manager) expire(op string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked(op)
	return m.state
}

func (m *Manager) expireLocked(op string) {
	m.clearStorage(op)
	m.api.SetToken("")
	m.resetLocked(LoggedOut)
}

func (m *Manager) adoptLocked(s domain.Session, origin Origin, token string) {
	m.current = &s
	m.origin = origin
	m.token = token
	m.state = LoggedIn
	m.gen++
}

func (m *Manager) resetLocked(state State) {
	m.current = nil
	m.origin = OriginNone
	m.token = ""
	m.state = state
	m.gen++
}

// readCache returns the cached identity, or nil when it is absent or
// unusable. Only a storage failure is an error.
func (m *Manager) readCache() (*domain.Session, error) {
	raw, ok, err := m.store.Get(store.KeyUserInfo)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		m.log.Warn("discarding unreadable cached identity", "err", err)
		return nil, nil
	}
	if err := s.Validate(); err != nil {
		m.log.Warn("discarding incomplete cached identity", "err", err)
		return nil, nil
	}
	return &s, nil
}

func (m *Manager) writeToken(op, token string) {
	if err := m.store.Set(store.KeyAuthToken, token); err != nil {
		m.log.Warn("persist auth token", "op", op, "err", err)
	}
}

func (m *Manager) writeCache(op string, s domain.Session) {
	data, err := json.Marshal(s)
	if err != nil {
		m.log.Warn("encode identity", "op", op, "err", err)
		return
	}
	if err := m.store.Set(store.KeyUserInfo, string(data)); err != nil {
		m.log.Warn("persist identity", "op", op, "err", err)
	}
}

func (m *Manager) clearStorage(op string) {
	for _, key := range []string{store.KeyAuthToken, store.KeyUserInfo} {
		if err := m.store.Remove(key); err != nil {
			m.log.Warn("remove key", "op", op, "key", key, "err", err)
		}
	}
}
