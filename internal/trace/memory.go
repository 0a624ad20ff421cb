package trace

import (
	"context"
	"sort"
	"sync"

	"github.com/mhollis/finadvisor/internal/domain"
)

// MemoryWriter is an in-memory Writer used for unit testing the pipeline.
type MemoryWriter struct {
	mu     sync.Mutex
	traces []domain.Trace
	err    error
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

// WithError configures the writer to fail subsequent writes.
func (w *MemoryWriter) WithError(err error) *MemoryWriter {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
	return w
}

func (w *MemoryWriter) WriteTrace(_ context.Context, t domain.Trace) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.traces = append(w.traces, t)
	return nil
}

func (w *MemoryWriter) TracesForUser(_ context.Context, userID string) ([]domain.Trace, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	var out []domain.Trace
	for _, t := range w.traces {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (w *MemoryWriter) AppendOverride(_ context.Context, traceID string, o domain.OverrideRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	for i := range w.traces {
		if w.traces[i].ID == traceID {
			w.traces[i].Overrides = append(w.traces[i].Overrides, o)
			return nil
		}
	}
	return ErrTraceNotFound
}

// All returns every stored trace in insertion order.
func (w *MemoryWriter) All() []domain.Trace {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.Trace, len(w.traces))
	copy(out, w.traces)
	return out
}

func (w *MemoryWriter) Close(context.Context) error { return nil }
