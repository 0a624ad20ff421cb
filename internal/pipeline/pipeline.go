// Package pipeline runs the end-to-end decision flow for one user: load
// profile data, derive signals, classify a persona, select recommendations,
// and persist an audit trace. Batch execution across users lives in the
// runner.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhollis/finadvisor/internal/domain"
	"github.com/mhollis/finadvisor/internal/persona"
	"github.com/mhollis/finadvisor/internal/recommend"
	"github.com/mhollis/finadvisor/internal/signals"
)

// UserStore is the profile-side read surface the pipeline needs.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (domain.User, error)
	AccountsForUser(ctx context.Context, userID string) ([]domain.Account, error)
	LiabilitiesForUser(ctx context.Context, userID string) ([]domain.Liability, error)
}

// TransactionStore reads transaction history for the long window.
type TransactionStore interface {
	TransactionsForUser(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error)
}

// TraceWriter persists audit traces.
type TraceWriter interface {
	WriteTrace(ctx context.Context, t domain.Trace) error
}

// Pipeline orchestrates one user's run. It is safe for concurrent use.
type Pipeline struct {
	users    UserStore
	txns     TransactionStore
	traces   TraceWriter
	selector *recommend.Selector
	logger   *zap.Logger
	nowFn    func() time.Time
}

func New(users UserStore, txns TransactionStore, traces TraceWriter, selector *recommend.Selector, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		users:    users,
		txns:     txns,
		traces:   traces,
		selector: selector,
		logger:   logger,
		nowFn:    time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (p *Pipeline) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		p.nowFn = nowFn
	}
}

// ProcessUser runs the full decision flow for one user as of the given date.
// A consent-denied run is a successful run: it produces an empty result and
// a trace, not an error. A trace write failure is an error even when the
// decision flow itself succeeded.
func (p *Pipeline) ProcessUser(ctx context.Context, runID, userID string, asOf time.Time) (domain.Result, error) {
	user, err := p.users.GetUser(ctx, userID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load user %s: %w", userID, err)
	}

	tr := domain.Trace{
		ID:        uuid.NewString(),
		RunID:     runID,
		UserID:    userID,
		AsOf:      asOf,
		CreatedAt: p.nowFn().UTC(),
	}

	// Without consent no financial data is read at all. The selector
	// produces the explanatory result and the denial event for the trace.
	if !user.Consent.Granted {
		res, events := p.selector.Select(recommend.Context{User: user})
		tr.GuardrailEvents = events
		if err := p.traces.WriteTrace(ctx, tr); err != nil {
			return domain.Result{}, fmt.Errorf("write trace for %s: %w", userID, err)
		}
		p.logger.Info("user skipped, consent not granted", zap.String("user", userID))
		return res, nil
	}

	accounts, err := p.users.AccountsForUser(ctx, userID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load accounts for %s: %w", userID, err)
	}
	liabilities, err := p.users.LiabilitiesForUser(ctx, userID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load liabilities for %s: %w", userID, err)
	}
	from := asOf.AddDate(0, 0, -signals.LongWindowDays)
	txns, err := p.txns.TransactionsForUser(ctx, userID, from, asOf)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load transactions for %s: %w", userID, err)
	}

	set := signals.Compute(userID, signals.Records{
		Accounts:     accounts,
		Transactions: txns,
		Liabilities:  liabilities,
	}, asOf)
	assignment := persona.Classify(set, p.nowFn().UTC())

	res, events := p.selector.Select(recommend.Context{
		User:       user,
		Accounts:   accounts,
		Signals:    set,
		Assignment: assignment,
	})

	tr.Signals = set.Flatten()
	tr.Persona = assignment.Persona
	tr.MatchedCriteria = assignment.MatchedCriteria
	tr.Recommendations = res.Recommendations
	tr.GuardrailEvents = events
	if err := p.traces.WriteTrace(ctx, tr); err != nil {
		return domain.Result{}, fmt.Errorf("write trace for %s: %w", userID, err)
	}

	p.logger.Info("user processed",
		zap.String("user", userID),
		zap.String("persona", string(assignment.Persona)),
		zap.Int("recommendations", len(res.Recommendations)))
	return res, nil
}

// writeFailureTrace records a marker trace for a user whose run aborted.
func (p *Pipeline) writeFailureTrace(ctx context.Context, runID, userID string, asOf time.Time, failure string) {
	tr := domain.Trace{
		ID:        uuid.NewString(),
		RunID:     runID,
		UserID:    userID,
		AsOf:      asOf,
		Failure:   failure,
		CreatedAt: p.nowFn().UTC(),
	}
	if err := p.traces.WriteTrace(ctx, tr); err != nil {
		p.logger.Error("failure trace not written",
			zap.String("user", userID), zap.Error(err))
	}
}
