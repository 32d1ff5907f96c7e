package test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	authcore "github.com/MrEthical07/authcore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*authcore.User
	staged []*authcore.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: make(map[int64]*authcore.User)}
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*authcore.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*authcore.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) Add(_ context.Context, user *authcore.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, user)
	return nil
}

func (s *memUserStore) Update(_ context.Context, user *authcore.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.byID[user.ID] = &cp
	return nil
}

func (s *memUserStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.staged {
		for _, existing := range s.byID {
			if existing.Email == u.Email {
				s.staged = nil
				return fmt.Errorf("%w: email %s", authcore.ErrDuplicateKey, u.Email)
			}
		}
		s.nextID++
		u.ID = s.nextID
		cp := *u
		s.byID[u.ID] = &cp
	}
	s.staged = nil
	return nil
}

type memRoleStore struct {
	mu     sync.Mutex
	nextID int64
	roles  map[string]*authcore.Role
}

func newMemRoleStore() *memRoleStore {
	return &memRoleStore{roles: make(map[string]*authcore.Role)}
}

func (s *memRoleStore) GetByName(_ context.Context, name string) (*authcore.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[name]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memRoleStore) GetOrCreate(_ context.Context, name, description string) (*authcore.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.roles[name]; ok {
		cp := *r
		return &cp, nil
	}
	s.nextID++
	r := &authcore.Role{ID: s.nextID, Name: name, Description: description}
	s.roles[name] = r
	cp := *r
	return &cp, nil
}

func newLifecycleEngine(t *testing.T) *authcore.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := authcore.DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Cost = bcrypt.MinCost

	engine, err := authcore.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserStore(newMemUserStore()).
		WithRoleStore(newMemRoleStore()).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}
