// Package analytics reads transaction history from the graph-backed
// analytics database. Transactions live in the graph rather than the
// relational store so spend patterns can be traversed per account without
// joining wide ledger tables.
package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/mhollis/finadvisor/internal/domain"
)

// Store is the read contract for transaction history.
type Store interface {
	// TransactionsForUser returns transactions posted to any of the user's
	// accounts within [from, to], most recent last.
	TransactionsForUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)
	Close(ctx context.Context) error
}

// Options configures a graph store implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the analytics URI is not provided.
var ErrMissingURI = errors.New("analytics URI is required")
