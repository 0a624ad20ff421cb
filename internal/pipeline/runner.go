package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhollis/finadvisor/internal/domain"
)

// TaskError accumulates per-user errors produced during a batch run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// UserFailure records one user whose run did not complete.
type UserFailure struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// RunReport summarizes a batch run. Results are ordered by user ID so
// repeated runs over the same input produce identical output.
type RunReport struct {
	RunID    string          `json:"run_id"`
	AsOf     time.Time       `json:"as_of"`
	Results  []domain.Result `json:"results"`
	Failures []UserFailure   `json:"failures,omitempty"`
}

// Runner executes the pipeline across many users with a fixed worker pool.
// One user's failure never stops the batch; it is recorded and the run moves
// on.
type Runner struct {
	pipeline *Pipeline
	workers  int
	logger   *zap.Logger
}

func NewRunner(p *Pipeline, workers int, logger *zap.Logger) *Runner {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{pipeline: p, workers: workers, logger: logger}
}

// Run processes every user ID concurrently and returns the per-user results
// plus a TaskError aggregating individual failures. Context cancellation
// aborts the batch and is returned as-is.
func (r *Runner) Run(ctx context.Context, userIDs []string, asOf time.Time) (RunReport, error) {
	report := RunReport{
		RunID: uuid.NewString(),
		AsOf:  asOf,
	}
	if len(userIDs) == 0 {
		return report, nil
	}

	r.logger.Info("batch run started",
		zap.String("run", report.RunID),
		zap.Int("users", len(userIDs)),
		zap.Int("workers", r.workers))

	indexCh := make(chan int)
	errCh := make(chan error, len(userIDs))

	var mu sync.Mutex
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			userID := userIDs[idx]
			res, err := r.processSafely(ctx, report.RunID, userID, asOf)
			if err != nil {
				mu.Lock()
				report.Failures = append(report.Failures, UserFailure{UserID: userID, Reason: err.Error()})
				mu.Unlock()
				select {
				case errCh <- fmt.Errorf("user %s: %w", userID, err):
				case <-ctx.Done():
					return
				}
				continue
			}
			mu.Lock()
			report.Results = append(report.Results, res)
			mu.Unlock()
		}
	}

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < len(userIDs); i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].UserID < report.Results[j].UserID
	})
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].UserID < report.Failures[j].UserID
	})

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return report, err
		}
		taskErr.append(err)
	}
	return report, taskErr.asError()
}

// processSafely isolates one user's run, converting a panic into an error
// and a failure marker trace.
func (r *Runner) processSafely(ctx context.Context, runID, userID string, asOf time.Time) (res domain.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			r.logger.Error("user run panicked",
				zap.String("user", userID), zap.Any("panic", rec))
			r.pipeline.writeFailureTrace(ctx, runID, userID, asOf, err.Error())
		}
	}()

	res, err = r.pipeline.ProcessUser(ctx, runID, userID, asOf)
	if err != nil {
		r.pipeline.writeFailureTrace(ctx, runID, userID, asOf, err.Error())
	}
	return res, err
}
