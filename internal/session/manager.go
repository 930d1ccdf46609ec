package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

// Snapshot is an immutable view of the session taken at one instant. The
// access guard evaluates snapshots, never the live manager state.
type Snapshot struct {
	Identity      *models.Identity
	Loading       bool
	Authenticated bool
}

// Manager owns the single source of truth for "who is logged in". It
// persists the identity through a two-key KV store and rehydrates it on
// Bootstrap. Authenticated is true iff an identity is present; Loading is
// true only before Bootstrap completes and during the synchronous extent of
// Login/Register.
type Manager struct {
	store    KV
	provider Provider
	logger   *zap.Logger
	validate *validator.Validate

	mu       sync.Mutex
	identity *models.Identity
	loading  bool
	inFlight bool
}

// NewManager constructs a session manager. The session starts empty with
// the loading flag raised until Bootstrap runs.
func NewManager(store KV, provider Provider, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    store,
		provider: provider,
		logger:   logger,
		validate: validator.New(),
		loading:  true,
	}
}

// Snapshot returns a point-in-time copy of the session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{Loading: m.loading, Authenticated: m.identity != nil}
	if m.identity != nil {
		identity := *m.identity
		snap.Identity = &identity
	}
	return snap
}

// Bootstrap rehydrates the session from durable storage. A missing token or
// identity leaves the session unauthenticated; a malformed identity record
// purges both entries. The token is not validated against the backend here;
// an expired token surfaces on the first authenticated call. Loading is
// cleared in every path.
func (m *Manager) Bootstrap(ctx context.Context) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	token, err := m.store.Get(ctx, KeyToken)
	if err != nil || token == "" {
		if err != nil && err != ErrKeyNotFound {
			m.logger.Warn("session token read failed", zap.Error(err))
		}
		m.identity = nil
		return m.bootstrapResult()
	}

	raw, err := m.store.Get(ctx, KeyIdentity)
	if err != nil {
		if err != ErrKeyNotFound {
			m.logger.Warn("session identity read failed", zap.Error(err))
		}
		m.identity = nil
		return m.bootstrapResult()
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil || !identity.Role.Valid() {
		m.logger.Warn("purging malformed persisted identity", zap.Error(err))
		m.purgeLocked(ctx)
		m.identity = nil
		return m.bootstrapResult()
	}

	m.identity = &identity
	return m.bootstrapResult()
}

func (m *Manager) bootstrapResult() Snapshot {
	m.loading = false
	return m.snapshotLocked()
}

// Login authenticates through the provider and persists the result. A second
// call while one is in flight is rejected with ErrAuthInFlight rather than
// racing to overwrite the session.
func (m *Manager) Login(ctx context.Context, req models.LoginRequest) (*models.Identity, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	return m.authenticate(ctx, func(ctx context.Context) (*models.Identity, string, error) {
		return m.provider.Authenticate(ctx, req)
	})
}

// Register creates an account through the provider and persists the result.
// It shares the single-flight gate with Login.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	return m.authenticate(ctx, func(ctx context.Context) (*models.Identity, string, error) {
		return m.provider.Register(ctx, req)
	})
}

func (m *Manager) authenticate(ctx context.Context, call func(context.Context) (*models.Identity, string, error)) (*models.Identity, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return nil, appErrors.ErrAuthInFlight
	}
	m.inFlight = true
	m.loading = true
	m.mu.Unlock()

	identity, token, err := call(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	m.loading = false

	if err != nil {
		return nil, appErrors.FromError(err)
	}

	if err := m.persistLocked(ctx, token, identity); err != nil {
		return nil, err
	}
	m.identity = identity

	result := *identity
	return &result, nil
}

// Logout clears the session and the durable entries. It cannot fail:
// storage errors are logged and the in-memory session is cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked(ctx)
	m.identity = nil
}

// UpdateIdentity merges the given fields into the current identity and
// re-persists it. It is a no-op when unauthenticated.
func (m *Manager) UpdateIdentity(ctx context.Context, update models.IdentityUpdate) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.identity == nil {
		return nil, nil
	}

	merged := *m.identity
	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Department != nil {
		merged.Department = update.Department
	}
	if update.Phone != nil {
		merged.Phone = update.Phone
	}
	if update.Avatar != nil {
		merged.Avatar = update.Avatar
	}

	raw, err := json.Marshal(&merged)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode identity")
	}
	if err := m.store.Set(ctx, KeyIdentity, string(raw)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist identity")
	}

	m.identity = &merged
	result := merged
	return &result, nil
}

// Token returns the persisted bearer token, empty when absent.
func (m *Manager) Token(ctx context.Context) string {
	token, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		return ""
	}
	return token
}

func (m *Manager) persistLocked(ctx context.Context, token string, identity *models.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode identity")
	}
	if err := m.store.Set(ctx, KeyToken, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist token")
	}
	if err := m.store.Set(ctx, KeyIdentity, string(raw)); err != nil {
		// The token write already landed; purge it so the store never holds
		// a token paired with a stale identity across restarts.
		m.purgeLocked(ctx)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist identity")
	}
	return nil
}

func (m *Manager) purgeLocked(ctx context.Context) {
	if err := m.store.Delete(ctx, KeyToken); err != nil {
		m.logger.Warn("failed to clear session token", zap.Error(err))
	}
	if err := m.store.Delete(ctx, KeyIdentity); err != nil {
		m.logger.Warn("failed to clear session identity", zap.Error(err))
	}
}
