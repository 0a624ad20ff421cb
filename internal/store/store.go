// Package store holds profile data: users, their accounts, and credit
// liabilities. The relational implementation sits on PostgreSQL; the
// in-memory one backs tests and single-machine runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store is the profile-side persistence contract.
type Store interface {
	// GetUser returns a user with their current consent state.
	GetUser(ctx context.Context, userID string) (domain.User, error)
	// ListUserIDs returns every known user ID, ordered for stable batch runs.
	ListUserIDs(ctx context.Context) ([]string, error)
	// AccountsForUser returns all accounts the user holds.
	AccountsForUser(ctx context.Context, userID string) ([]domain.Account, error)
	// LiabilitiesForUser returns liability detail for the user's credit
	// accounts.
	LiabilitiesForUser(ctx context.Context, userID string) ([]domain.Liability, error)
	// SetConsent records a consent grant or revocation effective at the
	// given time. Repeating the current state refreshes the timestamp only.
	SetConsent(ctx context.Context, userID string, granted bool, at time.Time) error
	// Close releases the underlying connections.
	Close() error
}
