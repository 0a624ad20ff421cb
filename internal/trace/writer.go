// Package trace persists per-user audit traces. Every pipeline run writes
// one trace document per user, including runs that end in consent denial or
// a processing failure.
package trace

import (
	"context"
	"errors"

	"github.com/mhollis/finadvisor/internal/domain"
)

// ErrTraceNotFound is returned when an override targets an unknown trace.
var ErrTraceNotFound = errors.New("trace not found")

// Writer is the audit persistence contract.
type Writer interface {
	// WriteTrace appends one trace document.
	WriteTrace(ctx context.Context, t domain.Trace) error
	// TracesForUser returns the user's traces ordered oldest first.
	TracesForUser(ctx context.Context, userID string) ([]domain.Trace, error)
	// AppendOverride attaches an operator intervention to an existing trace.
	AppendOverride(ctx context.Context, traceID string, o domain.OverrideRecord) error
	Close(ctx context.Context) error
}
