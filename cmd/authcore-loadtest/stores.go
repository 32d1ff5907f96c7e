package main

import (
	"context"
	"fmt"
	"sync"

	authcore "github.com/MrEthical07/authcore"
)

// In-memory stores, good enough to keep the load test self-contained.

type memUserStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*authcore.User
	byEmail map[string]int64
	staged  []*authcore.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:    make(map[int64]*authcore.User),
		byEmail: make(map[string]int64),
	}
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*authcore.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*authcore.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
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
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *memUserStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.staged {
		if _, exists := s.byEmail[u.Email]; exists {
			s.staged = nil
			return fmt.Errorf("%w: email %s", authcore.ErrDuplicateKey, u.Email)
		}
		s.nextID++
		u.ID = s.nextID
		cp := *u
		s.byID[u.ID] = &cp
		s.byEmail[u.Email] = u.ID
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
