// Package session owns the client's identity state. A single Manager is the
// only writer; every other component reads snapshots or subscribes to
// changes. Transitions are explicit methods, never direct field writes.
package session

import (
	"context"
	"net/url"
	"sync"

	"github.com/resumeforge/resumeforge/internal/client/models"
	"github.com/resumeforge/resumeforge/internal/logging"
)

// IdentityKind enumerates the session identity variants. Exactly one is
// active at any time.
type IdentityKind int

const (
	// IdentityAnonymous means no server session exists.
	IdentityAnonymous IdentityKind = iota
	// IdentityGuest is a server-created anonymous account, upgradeable to a
	// permanent one.
	IdentityGuest
	// IdentityUnverified is a registered account whose email is not yet
	// confirmed.
	IdentityUnverified
	// IdentityVerified is a fully established account.
	IdentityVerified
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityGuest:
		return "guest"
	case IdentityUnverified:
		return "unverified"
	case IdentityVerified:
		return "verified"
	default:
		return "anonymous"
	}
}

// Identity is the resolved user identity. UserID and Email are zero for
// IdentityAnonymous.
type Identity struct {
	Kind   IdentityKind
	UserID int64
	Email  string
}

// State is the observable session value. Loading is true only between
// startup and the first probe outcome; while loading, Identity is Anonymous
// as a pre-resolution placeholder, not a real anonymous session.
type State struct {
	Identity Identity
	Loading  bool
}

// Authenticated reports whether a server session exists in any form.
func (s State) Authenticated() bool {
	return s.Identity.Kind != IdentityAnonymous
}

// Transport is the slice of the HTTP client the session manager uses.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	PostForm(ctx context.Context, path string, values url.Values, out any) error
	SetOnUnauthorized(fn func())
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Manager is the session state machine. Construct with NewManager; the zero
// value is not usable.
type Manager struct {
	api    Transport
	logger logging.Logger

	mu      sync.RWMutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewManager creates a Manager in the Resolving state (Anonymous identity,
// Loading=true) and registers itself as the transport's unauthorized
// handler, so a 401 on any request collapses the session exactly once.
func NewManager(api Transport, logger logging.Logger) *Manager {
	m := &Manager{
		api:    api,
		logger: logger,
		state:  State{Loading: true},
		subs:   make(map[int]func(State)),
	}
	api.SetOnUnauthorized(m.forceLogout)
	return m
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn to be called on every state change. fn is invoked
// immediately with the current state, then on each transition. The returned
// cancel function removes the subscription.
func (m *Manager) Subscribe(fn func(State)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	current := m.state
	m.mu.Unlock()

	fn(current)

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// setState installs the new state and notifies subscribers outside the lock.
func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func identityFromUser(u models.User) Identity {
	kind := IdentityVerified
	switch {
	case u.IsGuest:
		kind = IdentityGuest
	case !u.IsVerified:
		kind = IdentityUnverified
	}
	return Identity{Kind: kind, UserID: u.ID, Email: u.Email}
}

// probe fetches the current identity and installs it.
func (m *Manager) probe(ctx context.Context) error {
	var u models.User
	if err := m.api.Get(ctx, "/auth/me", &u); err != nil {
		return err
	}
	m.setState(State{Identity: identityFromUser(u)})
	return nil
}

// Resolve establishes the initial session state. If oauthCode is non-empty
// (already stripped from wherever it arrived, so it cannot be resubmitted),
// it is exchanged with the server before the identity probe; an exchange
// failure is logged and the probe proceeds unauthenticated. Any probe
// failure resolves to Anonymous. Loading is left exactly once, regardless of
// outcome.
func (m *Manager) Resolve(ctx context.Context, oauthCode string) {
	if oauthCode != "" {
		path := "/auth/google/exchange?code=" + url.QueryEscape(oauthCode)
		if err := m.api.Post(ctx, path, nil, nil); err != nil {
			m.logger.Warn(ctx, "oauth code exchange failed", "error", err)
		}
	}

	var u models.User
	if err := m.api.Get(ctx, "/auth/me", &u); err != nil {
		m.logger.Info(ctx, "session probe failed, starting anonymous", "error", err)
		m.setState(State{Identity: Identity{Kind: IdentityAnonymous}})
		return
	}
	m.setState(State{Identity: identityFromUser(u)})
}

// Login authenticates with email and password, then re-probes the identity.
// On failure the session state is left unchanged and the transport's error
// is returned for the caller to display.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	values := url.Values{}
	values.Set("username", email)
	values.Set("password", password)
	if err := m.api.PostForm(ctx, "/auth/login", values, nil); err != nil {
		return err
	}
	return m.probe(ctx)
}

// Register creates a new account. It never changes the session state:
// the account must verify its email before it can authenticate.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	return m.api.Post(ctx, "/auth/register", credentials{Email: email, Password: password}, nil)
}

// LoginAsGuest creates a server-side guest account and re-probes the
// identity, which lands on IdentityGuest.
func (m *Manager) LoginAsGuest(ctx context.Context) error {
	if err := m.api.Post(ctx, "/auth/guest", nil, nil); err != nil {
		return err
	}
	return m.probe(ctx)
}

// UpgradeAccount converts a guest session into a permanent account. The
// server's response carries the updated user, so no extra probe is needed.
func (m *Manager) UpgradeAccount(ctx context.Context, email, password string) error {
	var u models.User
	if err := m.api.Post(ctx, "/auth/upgrade", credentials{Email: email, Password: password}, &u); err != nil {
		return err
	}
	m.setState(State{Identity: identityFromUser(u)})
	return nil
}

// ChangeEmail updates the email/password pair of an unverified account and
// applies the server's response directly.
func (m *Manager) ChangeEmail(ctx context.Context, email, password string) error {
	var u models.User
	if err := m.api.Post(ctx, "/auth/change-email", credentials{Email: email, Password: password}, &u); err != nil {
		return err
	}
	m.setState(State{Identity: identityFromUser(u)})
	return nil
}

// Logout drops the session. The local reset happens unconditionally and
// first; the server-side invalidation is fire-and-forget and its failure is
// swallowed, because the client must end up logged out either way.
func (m *Manager) Logout(ctx context.Context) {
	m.reset()
	if err := m.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
		m.logger.Warn(ctx, "server logout failed", "error", err)
	}
}

// forceLogout is the transport's 401 hook. It behaves like Logout's local
// reset but skips the server call: the server already told us the session is
// dead. Idempotent, so a burst of concurrent 401s notifies subscribers once.
func (m *Manager) forceLogout() {
	m.reset()
}

// reset moves to Anonymous. A no-op (no notification) when the session is
// already resolved and anonymous.
func (m *Manager) reset() {
	m.mu.Lock()
	if !m.state.Loading && m.state.Identity.Kind == IdentityAnonymous {
		m.mu.Unlock()
		return
	}
	m.state = State{Identity: Identity{Kind: IdentityAnonymous}}
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	s := m.state
	m.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}
