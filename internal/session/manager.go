// Package session owns the authenticated-user identity and bearer credential:
// restore on start, login/verify/logout transitions, and the persisted copy
// of both.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/loan-compass/loan_compass/internal/api"
	"github.com/loan-compass/loan_compass/internal/storage"
)

// State is the session lifecycle position.
type State int

const (
	// StateUnknown holds until Restore has run.
	StateUnknown State = iota
	// StateAnonymous means no credential is held.
	StateAnonymous
	// StateAuthenticated means credential and identity are both present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is the immutable view published to subscribers. User is a copy
// and is nil unless State is StateAuthenticated.
type Snapshot struct {
	State State
	User  *api.Identity
}

const (
	logoutTimeout = 5 * time.Second

	msgLoginFailed  = "Login failed. Please try again."
	msgVerifyFailed = "OTP verification failed. Please try again."
)

// Manager is the single owner of session state. The credential and identity
// are set and cleared together; no operation leaves one without the other.
type Manager struct {
	store  storage.Store
	api    api.API
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	token   string
	user    *api.Identity
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewManager builds a manager in StateUnknown; call Restore before use.
func NewManager(store storage.Store, client api.API, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		api:    client,
		logger: logger,
		state:  StateUnknown,
		subs:   make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn for every published snapshot and returns an
// unsubscribe func. A consumer that has unsubscribed sees nothing, which is
// how late-arriving resolutions after a screen goes away become no-ops.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// State returns the current lifecycle position.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LoggedIn reports whether a credential is held.
func (m *Manager) LoggedIn() bool {
	return m.State() == StateAuthenticated
}

// User returns a copy of the cached identity, or nil when anonymous.
func (m *Manager) User() *api.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyIdentity(m.user)
}

// Restore loads the persisted credential and identity. Both must be present
// to enter StateAuthenticated; a partial pair (crash between the two writes)
// reads as anonymous. Restore never fails the caller and is idempotent.
func (m *Manager) Restore(ctx context.Context) {
	var token string
	var user api.Identity

	haveToken := m.store.Get(ctx, storage.KeyToken, &token) && token != ""
	haveUser := m.store.Get(ctx, storage.KeyUser, &user)

	m.mu.Lock()
	if haveToken && haveUser {
		m.state = StateAuthenticated
		m.token = token
		m.user = &user
	} else {
		m.state = StateAnonymous
		m.token = ""
		m.user = nil
		if haveToken != haveUser {
			m.logger.Warn("partial persisted session, treating as anonymous")
		}
	}
	m.mu.Unlock()

	m.publish()
}

// BeginLogin asks the service to send an OTP. Session state does not change;
// nothing has been verified yet. Transport failures are absorbed into a
// generic rejection.
func (m *Manager) BeginLogin(ctx context.Context, phone string) api.Result {
	res, err := m.api.Login(ctx, phone)
	if err != nil {
		m.logger.Error("login request failed", "error", err)
		return api.Result{Success: false, Message: msgLoginFailed}
	}
	return res
}

// CompleteLogin verifies the OTP and, on success, installs the credential and
// identity as an atomic pair: memory first, then persistence, so the UI never
// shows a session the manager does not hold. Losing the persisted copy to a
// crash in between is accepted. On any failure session state is unchanged.
func (m *Manager) CompleteLogin(ctx context.Context, phone, otp string) api.Result {
	res, sess, err := m.api.VerifyOtp(ctx, phone, otp)
	if err != nil {
		m.logger.Error("otp verification failed", "error", err)
		return api.Result{Success: false, Message: msgVerifyFailed}
	}
	if !res.Success {
		return res
	}
	if sess == nil || sess.Token == "" {
		m.logger.Error("otp verification succeeded without session payload")
		return api.Result{Success: false, Message: msgVerifyFailed}
	}

	user := sess.User
	m.mu.Lock()
	m.state = StateAuthenticated
	m.token = sess.Token
	m.user = &user
	m.mu.Unlock()

	// Persist before notifying: subscribers react by calling the API, and
	// the client reads the bearer from the store on every request.
	m.store.Set(ctx, storage.KeyToken, sess.Token)
	m.store.Set(ctx, storage.KeyUser, sess.User)

	m.publish()

	return res
}

// EndSession clears the session. The remote logout call is fire and forget:
// local clearing is authoritative and never waits on, or rolls back for, the
// network. The persisted pair is removed after the in-memory clear.
func (m *Manager) EndSession(ctx context.Context) {
	go func() {
		logoutCtx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
		defer cancel()
		if _, err := m.api.Logout(logoutCtx); err != nil {
			m.logger.Warn("remote logout failed", "error", err)
		}
	}()

	m.mu.Lock()
	m.state = StateAnonymous
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	m.publish()

	m.store.Remove(ctx, storage.KeyToken)
	m.store.Remove(ctx, storage.KeyUser)
}

// publish delivers the current snapshot to all subscribers outside the lock.
func (m *Manager) publish() {
	m.mu.Lock()
	snap := Snapshot{State: m.state, User: copyIdentity(m.user)}
	fns := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func copyIdentity(u *api.Identity) *api.Identity {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
