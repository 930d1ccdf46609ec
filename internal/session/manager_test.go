package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

type memoryKV struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{entries: map[string]string{}}
}

func (s *memoryKV) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.entries[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (s *memoryKV) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memoryKV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

type blockingProvider struct {
	release chan struct{}
}

func (p *blockingProvider) Authenticate(ctx context.Context, req models.LoginRequest) (*models.Identity, string, error) {
	<-p.release
	return &models.Identity{ID: "1", Email: req.Email, Role: models.RoleStudent, Status: models.StatusActive}, "token-1", nil
}

func (p *blockingProvider) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, string, error) {
	<-p.release
	return &models.Identity{ID: "2", Email: req.Email, Role: req.Role, Status: models.StatusActive}, "token-2", nil
}

type failingProvider struct{}

func (failingProvider) Authenticate(ctx context.Context, req models.LoginRequest) (*models.Identity, string, error) {
	return nil, "", errors.New("upstream unavailable")
}

func (failingProvider) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, string, error) {
	return nil, "", errors.New("upstream unavailable")
}

func newTestManager(store KV) *Manager {
	return NewManager(store, NewStubProvider(0), zap.NewNop())
}

func TestManagerStartsLoading(t *testing.T) {
	m := newTestManager(newMemoryKV())
	snap := m.Snapshot()
	assert.True(t, snap.Loading)
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.Identity)
}

func TestBootstrapEmptyStore(t *testing.T) {
	m := newTestManager(newMemoryKV())

	snap := m.Bootstrap(context.Background())

	assert.False(t, snap.Loading)
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.Identity)
}

func TestBootstrapRehydratesPersistedIdentity(t *testing.T) {
	store := newMemoryKV()
	identity := models.Identity{ID: "42", Email: "admin@college.edu", Name: "John Admin", Role: models.RoleAdmin, Status: models.StatusActive, Permissions: []string{}}
	raw, err := json.Marshal(identity)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), KeyToken, "persisted-token"))
	require.NoError(t, store.Set(context.Background(), KeyIdentity, string(raw)))

	m := newTestManager(store)
	snap := m.Bootstrap(context.Background())

	assert.False(t, snap.Loading)
	require.True(t, snap.Authenticated)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, identity, *snap.Identity)
}

func TestBootstrapCorruptedIdentityPurgesStore(t *testing.T) {
	store := newMemoryKV()
	require.NoError(t, store.Set(context.Background(), KeyToken, "persisted-token"))
	require.NoError(t, store.Set(context.Background(), KeyIdentity, "{not valid json"))

	m := newTestManager(store)
	snap := m.Bootstrap(context.Background())

	assert.False(t, snap.Loading)
	assert.False(t, snap.Authenticated)

	_, err := store.Get(context.Background(), KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = store.Get(context.Background(), KeyIdentity)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBootstrapUnknownRolePurgesStore(t *testing.T) {
	store := newMemoryKV()
	require.NoError(t, store.Set(context.Background(), KeyToken, "persisted-token"))
	require.NoError(t, store.Set(context.Background(), KeyIdentity, `{"id":"1","role":"overlord"}`))

	m := newTestManager(store)
	snap := m.Bootstrap(context.Background())

	assert.False(t, snap.Authenticated)
	_, err := store.Get(context.Background(), KeyIdentity)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestLoginPersistsAndAuthenticates(t *testing.T) {
	store := newMemoryKV()
	m := newTestManager(store)
	m.Bootstrap(context.Background())

	identity, err := m.Login(context.Background(), models.LoginRequest{Email: "trainer@college.edu", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainer, identity.Role)
	assert.Equal(t, "Sarah Trainer", identity.Name)

	snap := m.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.Authenticated)

	token, err := store.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	raw, err := store.Get(context.Background(), KeyIdentity)
	require.NoError(t, err)
	var persisted models.Identity
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, identity.Email, persisted.Email)
}

func TestLoginValidatesPayload(t *testing.T) {
	m := newTestManager(newMemoryKV())
	m.Bootstrap(context.Background())

	_, err := m.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLoginProviderFailureLeavesSessionUnauthenticated(t *testing.T) {
	m := NewManager(newMemoryKV(), failingProvider{}, zap.NewNop())
	m.Bootstrap(context.Background())

	_, err := m.Login(context.Background(), models.LoginRequest{Email: "user@college.edu", Password: "password"})
	require.Error(t, err)

	snap := m.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Authenticated)
}

type identityRejectingKV struct {
	*memoryKV
}

func (s *identityRejectingKV) Set(ctx context.Context, key, value string) error {
	if key == KeyIdentity {
		return errors.New("disk full")
	}
	return s.memoryKV.Set(ctx, key, value)
}

func TestLoginPartialPersistPurgesStore(t *testing.T) {
	store := &identityRejectingKV{memoryKV: newMemoryKV()}
	m := NewManager(store, NewStubProvider(0), zap.NewNop())
	m.Bootstrap(context.Background())

	_, err := m.Login(context.Background(), models.LoginRequest{Email: "student@college.edu", Password: "password"})
	require.Error(t, err)

	// The token write succeeded before the identity write failed; both keys
	// must be gone so a later Bootstrap cannot rehydrate a mismatched pair.
	_, err = store.Get(context.Background(), KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = store.Get(context.Background(), KeyIdentity)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	snap := m.Bootstrap(context.Background())
	assert.False(t, snap.Authenticated)
}

func TestConcurrentLoginRejected(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	m := NewManager(newMemoryKV(), provider, zap.NewNop())
	m.Bootstrap(context.Background())

	first := make(chan error, 1)
	go func() {
		_, err := m.Login(context.Background(), models.LoginRequest{Email: "a@college.edu", Password: "password"})
		first <- err
	}()

	// Wait for the first attempt to raise the in-flight flag.
	require.Eventually(t, func() bool {
		return m.Snapshot().Loading
	}, time.Second, 5*time.Millisecond)

	_, err := m.Login(context.Background(), models.LoginRequest{Email: "b@college.edu", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAuthInFlight.Code, appErrors.FromError(err).Code)

	close(provider.release)
	require.NoError(t, <-first)
	assert.True(t, m.Snapshot().Authenticated)
}

func TestRegisterAuthenticates(t *testing.T) {
	collegeID := "college-1"
	m := newTestManager(newMemoryKV())
	m.Bootstrap(context.Background())

	identity, err := m.Register(context.Background(), models.RegisterRequest{
		Name:      "New Student",
		Email:     "new@college.edu",
		Password:  "password",
		Role:      models.RoleStudent,
		CollegeID: &collegeID,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Student", identity.Name)
	assert.Equal(t, models.RoleStudent, identity.Role)
	require.NotNil(t, identity.CollegeID)
	assert.Equal(t, collegeID, *identity.CollegeID)
	assert.True(t, m.Snapshot().Authenticated)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	m := newTestManager(newMemoryKV())
	m.Bootstrap(context.Background())

	_, err := m.Register(context.Background(), models.RegisterRequest{
		Name:     "X",
		Email:    "x@college.edu",
		Password: "password",
		Role:     models.Role("overlord"),
	})
	require.Error(t, err)
}

func TestLogoutAlwaysClears(t *testing.T) {
	store := newMemoryKV()
	m := newTestManager(store)
	m.Bootstrap(context.Background())

	_, err := m.Login(context.Background(), models.LoginRequest{Email: "staff@college.edu", Password: "password"})
	require.NoError(t, err)
	require.True(t, m.Snapshot().Authenticated)

	m.Logout(context.Background())

	snap := m.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.Identity)
	_, err = store.Get(context.Background(), KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Logging out of an already-empty session stays clean.
	m.Logout(context.Background())
	assert.False(t, m.Snapshot().Authenticated)
}

func TestUpdateIdentityRoundTrip(t *testing.T) {
	store := newMemoryKV()
	m := newTestManager(store)
	m.Bootstrap(context.Background())

	original, err := m.Login(context.Background(), models.LoginRequest{Email: "student@college.edu", Password: "password"})
	require.NoError(t, err)

	newName := "X"
	updated, err := m.UpdateIdentity(context.Background(), models.IdentityUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Name)

	// Simulate a reload: a fresh manager over the same store.
	reloaded := newTestManager(store)
	snap := reloaded.Bootstrap(context.Background())
	require.True(t, snap.Authenticated)
	assert.Equal(t, "X", snap.Identity.Name)
	assert.Equal(t, original.Email, snap.Identity.Email)
	assert.Equal(t, original.Role, snap.Identity.Role)
	assert.Equal(t, original.Status, snap.Identity.Status)
}

func TestUpdateIdentityNoopWhenUnauthenticated(t *testing.T) {
	m := newTestManager(newMemoryKV())
	m.Bootstrap(context.Background())

	name := "X"
	identity, err := m.UpdateIdentity(context.Background(), models.IdentityUpdate{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestAuthenticatedIffIdentityPresent(t *testing.T) {
	m := newTestManager(newMemoryKV())

	check := func() {
		snap := m.Snapshot()
		assert.Equal(t, snap.Identity != nil, snap.Authenticated)
	}

	check()
	m.Bootstrap(context.Background())
	check()
	_, err := m.Login(context.Background(), models.LoginRequest{Email: "admin@college.edu", Password: "password"})
	require.NoError(t, err)
	check()
	m.Logout(context.Background())
	check()
}
