package authcore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]*User
	byEmail map[string]int64
	staged  []*User

	getByEmailErr error
	getByIDErr    error
	updateErr     error
	flushErr      error

	getByEmailCalls int
	getByIDCalls    int
	addCalls        int
	updateCalls     int
	flushCalls      int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		nextID:  1,
		byID:    make(map[int64]*User),
		byEmail: make(map[string]int64),
	}
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByEmailCalls++

	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *m.byID[id]
	return &copied, nil
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByIDCalls++

	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserStore) Add(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalls++
	m.staged = append(m.staged, user)
	return nil
}

func (m *mockUserStore) Update(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++

	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.byID[user.ID]; !ok {
		return fmt.Errorf("user %d not found", user.ID)
	}
	copied := *user
	m.byID[user.ID] = &copied
	return nil
}

func (m *mockUserStore) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushCalls++

	if m.flushErr != nil {
		m.staged = nil
		return m.flushErr
	}
	if len(m.staged) == 0 {
		return nil
	}

	// Each engine write stages at most one row before flushing, so a flush
	// commits one row, the way a per-request store commits one transaction.
	// Concurrent registrations then hit the uniqueness check on their own
	// flush rather than a neighbour's.
	user := m.staged[0]
	m.staged = m.staged[1:]
	if _, exists := m.byEmail[user.Email]; exists {
		return fmt.Errorf("%w: email %s", ErrDuplicateKey, user.Email)
	}
	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.byID[user.ID] = &copied
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserStore) mustGet(t *testing.T, id int64) *User {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		t.Fatalf("user %d not in store", id)
	}
	copied := *user
	return &copied
}

type mockRoleStore struct {
	mu     sync.Mutex
	nextID int64
	roles  map[string]*Role

	getByNameErr    error
	getOrCreateErr  error
	getByNameCalls  int
	getOrCreateCall int
}

func newMockRoleStore() *mockRoleStore {
	return &mockRoleStore{nextID: 1, roles: make(map[string]*Role)}
}

func (m *mockRoleStore) GetByName(_ context.Context, name string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByNameCalls++

	if m.getByNameErr != nil {
		return nil, m.getByNameErr
	}
	role, ok := m.roles[name]
	if !ok {
		return nil, nil
	}
	copied := *role
	return &copied, nil
}

func (m *mockRoleStore) GetOrCreate(_ context.Context, name, description string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getOrCreateCall++

	if m.getOrCreateErr != nil {
		return nil, m.getOrCreateErr
	}
	if role, ok := m.roles[name]; ok {
		copied := *role
		return &copied, nil
	}
	role := &Role{ID: m.nextID, Name: name, Description: description}
	m.nextID++
	m.roles[name] = role
	copied := *role
	return &copied, nil
}

func (m *mockRoleStore) put(name string) *Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	role := &Role{ID: m.nextID, Name: name}
	m.nextID++
	m.roles[name] = role
	copied := *role
	return &copied
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Cost = bcrypt.MinCost
	cfg.Metrics.Enabled = true
	return cfg
}

func newTestEngine(t *testing.T, mutate func(*Config)) (*Engine, *mockUserStore, *mockRoleStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	users := newMockUserStore()
	roles := newMockRoleStore()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserStore(users).
		WithRoleStore(roles).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, users, roles, mr
}

func seedUser(t *testing.T, engine *Engine, users *mockUserStore, email, pass string, roles ...Role) *User {
	t.Helper()

	hash, err := engine.passwordHash.Hash(pass)
	if err != nil {
		t.Fatalf("hash seed password: %v", err)
	}

	user := &User{
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
		Roles:          roles,
	}
	if err := users.Add(context.Background(), user); err != nil {
		t.Fatalf("add seed user: %v", err)
	}
	if err := users.Flush(context.Background()); err != nil {
		t.Fatalf("flush seed user: %v", err)
	}
	return user
}

func deactivate(t *testing.T, users *mockUserStore, id int64) {
	t.Helper()
	user := users.mustGet(t, id)
	user.IsActive = false
	if err := users.Update(context.Background(), user); err != nil {
		t.Fatalf("deactivate user: %v", err)
	}
}
