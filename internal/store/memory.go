package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

// MemoryStore is an in-memory Store used by tests and local runs.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	accounts    map[string][]domain.Account
	liabilities map[string][]domain.Liability
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]domain.User),
		accounts:    make(map[string][]domain.Account),
		liabilities: make(map[string][]domain.Liability),
	}
}

// AddUser inserts or replaces a user record.
func (s *MemoryStore) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// AddAccount appends an account under its user.
func (s *MemoryStore) AddAccount(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.UserID] = append(s.accounts[a.UserID], a)
}

// AddLiability appends liability detail for an account owned by userID.
func (s *MemoryStore) AddLiability(userID string, l domain.Liability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liabilities[userID] = append(s.liabilities[userID], l)
}

func (s *MemoryStore) GetUser(_ context.Context, userID string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) AccountsForUser(_ context.Context, userID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, len(s.accounts[userID]))
	copy(out, s.accounts[userID])
	return out, nil
}

func (s *MemoryStore) LiabilitiesForUser(_ context.Context, userID string) ([]domain.Liability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Liability, len(s.liabilities[userID]))
	copy(out, s.liabilities[userID])
	return out, nil
}

func (s *MemoryStore) SetConsent(_ context.Context, userID string, granted bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	if granted && !u.Consent.Granted {
		t := at
		u.Consent.GrantedAt = &t
	}
	if !granted && u.Consent.Granted {
		t := at
		u.Consent.RevokedAt = &t
	}
	u.Consent.Granted = granted
	if at.After(u.Consent.UpdatedAt) {
		u.Consent.UpdatedAt = at
	}
	u.UpdatedAt = at
	s.users[userID] = u
	return nil
}

func (s *MemoryStore) Close() error { return nil }
