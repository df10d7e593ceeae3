// Package automation is the boundary glue between the coordinator and the
// external portal-walking sessions. The walk itself (DOM lookups, clicks,
// field fills) lives outside this module behind the Session interface.
package automation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"otprelay/internal/model"
	"otprelay/internal/service"
	"otprelay/pkg/constants"
	"otprelay/pkg/logger"
	"otprelay/pkg/otp"
	"otprelay/pkg/registry"
)

// Runner executes automation runs: one worker identity, one debug port, one
// browser session each, with the verification step routed through the fair
// code queue.
type Runner struct {
	workers *service.WorkerService
	otps    *service.OTPService
	factory SessionFactory

	// runs tracks goroutines started by Launch so a shutdown can drain
	// in-flight portal walks instead of cutting them off mid-form.
	runs sync.WaitGroup
}

// NewRunner creates a new runner.
func NewRunner(workers *service.WorkerService, otps *service.OTPService, factory SessionFactory) *Runner {
	return &Runner{
		workers: workers,
		otps:    otps,
		factory: factory,
	}
}

// Launch registers a worker for the run and drives it on its own goroutine.
// The returned record lets the caller respond before the multi-minute walk
// finishes.
func (r *Runner) Launch(ctx context.Context, req model.StartRunRequest) registry.Record {
	rec := r.workers.Register(req)
	r.runs.Add(1)
	go func() {
		defer r.runs.Done()
		if err := r.Run(ctx, rec.ID); err != nil {
			logger.Errorf("[worker-%d] run failed: %v", rec.ID, err)
		}
	}()
	return rec
}

// Wait blocks until every run started by Launch has finished. Runs are
// bounded by their acquire timeouts, so this always returns.
func (r *Runner) Wait() {
	r.runs.Wait()
}

// Run drives one already-registered worker through a full session. The port
// is allocated before any browser resource exists; an acquire timeout is
// surfaced to the caller, never retried here.
func (r *Runner) Run(ctx context.Context, workerID int64) error {
	port := r.workers.AllocatePort()

	sess := r.factory()
	defer sess.Close()

	if err := sess.Open(ctx, port); err != nil {
		r.fail(workerID, err)
		return fmt.Errorf("open session on port %d: %w", port, err)
	}
	r.workers.ReportStatus(workerID, constants.RunStatusBrowserReady, "")

	challenged, err := sess.NeedsVerification(ctx)
	if err != nil {
		r.fail(workerID, err)
		return fmt.Errorf("detect verification challenge: %w", err)
	}

	if challenged {
		code, err := r.otps.RegisterAndWait(ctx, workerID, 0)
		if err != nil {
			r.fail(workerID, err)
			return fmt.Errorf("wait for code: %w", err)
		}
		if err := sess.SubmitVerification(ctx, code); err != nil {
			r.fail(workerID, err)
			return fmt.Errorf("submit code: %w", err)
		}
	}

	if err := sess.Complete(ctx); err != nil {
		r.fail(workerID, err)
		return fmt.Errorf("complete portal walk: %w", err)
	}

	r.workers.ReportStatus(workerID, constants.RunStatusCompleted, "")
	return nil
}

// fail records the terminal status matching err.
func (r *Runner) fail(workerID int64, err error) {
	r.workers.ReportStatus(workerID, statusFor(err), err.Error())
}

// statusFor maps a run error onto its terminal status.
func statusFor(err error) constants.RunStatus {
	switch {
	case errors.Is(err, otp.ErrAcquireTimeout), errors.Is(err, ErrStepTimeout):
		return constants.RunStatusTimeoutError
	case errors.Is(err, ErrElementNotFound):
		return constants.RunStatusElementNotFound
	default:
		return constants.RunStatusError
	}
}
