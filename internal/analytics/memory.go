package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

// MemoryStore is an in-memory Store used for unit testing the pipeline
// without a running graph database.
type MemoryStore struct {
	mu   sync.Mutex
	txns map[string][]domain.Transaction
	err  error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{txns: make(map[string][]domain.Transaction)}
}

// WithError configures the store to return the provided error for
// subsequent calls.
func (m *MemoryStore) WithError(err error) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// AddTransactions registers transactions under a user.
func (m *MemoryStore) AddTransactions(userID string, txns ...domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[userID] = append(m.txns[userID], txns...)
}

func (m *MemoryStore) TransactionsForUser(_ context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	var out []domain.Transaction
	for _, t := range m.txns[userID] {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) Close(context.Context) error { return nil }
