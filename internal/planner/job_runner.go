package planner

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Job status values for the planning_jobs state machine (C8):
//
//	queued -> running -> {completed | failed | cancelled}
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// Progress checkpoints persisted during a run. Progress only moves forward;
// a job observed at 40 never regresses to 20.
const (
	ProgressStart       = 0
	ProgressSnapshotted = 20
	ProgressDispatching = 40
	ProgressPacked      = 80
	ProgressDone        = 100
)

// JobStore is the persistence seam the runner drives. Implementations
// persist state transitions and progress to the planning_jobs row and
// append to its log, the same way the teacher's refresh_jobs row is driven
// by its job runner.
type JobStore interface {
	MarkRunning(ctx context.Context, jobID string) error
	UpdateProgress(ctx context.Context, jobID string, percent int) error
	AppendLog(ctx context.Context, jobID string, message string) error
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, reason string) error
	MarkCancelled(ctx context.Context, jobID string) error
	CancelRequested(ctx context.Context, jobID string) (bool, error)
}

// Runner drives a single planning job through its checkpoints, observing
// cooperative cancellation only at checkpoint boundaries (never mid-pack) —
// a cancel request made while the packer is running takes effect at the
// next checkpoint, not immediately.
type Runner struct {
	store    JobStore
	registry *Registry
}

// NewRunner builds a Runner against the given store and strategy registry.
func NewRunner(store JobStore, registry *Registry) *Runner {
	return &Runner{store: store, registry: registry}
}

// Run executes one planning job end to end: mark running, snapshot
// checkpoint, dispatch checkpoint, pack checkpoint, persist via the supplied
// callback, and complete. persist is called once, after packing and before
// the final 100% checkpoint, and is expected to durably store the Result as
// a Plan/PlanRake set; if it fails the job is marked failed.
//
// A panic anywhere in the run (most likely inside Dispatch/the packer) is
// trapped here, logged with its stack trace, and converted into a failed
// job rather than crashing the process — this is the job-runner boundary
// named by PlannerFailure.
func (r *Runner) Run(ctx context.Context, jobID string, snap Snapshot, cfg Config, persist func(Result) error) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("panic: %v\n%s", rec, debug.Stack())
			_ = r.store.AppendLog(ctx, jobID, msg)
			_ = r.store.MarkFailed(ctx, jobID, fmt.Sprintf("panic: %v", rec))
			result = Result{}
			err = PlannerFailureError("recovered from panic", fmt.Errorf("%v", rec))
		}
	}()

	if err := r.store.MarkRunning(ctx, jobID); err != nil {
		return Result{}, fmt.Errorf("mark job running: %w", err)
	}
	if err := r.checkpoint(ctx, jobID, ProgressStart, "job started"); err != nil {
		return Result{}, err
	}

	if cancelled, err := r.observeCancellation(ctx, jobID); err != nil {
		return Result{}, err
	} else if cancelled {
		return Result{}, PreconditionFailedError("job cancelled before snapshot")
	}
	if err := r.checkpoint(ctx, jobID, ProgressSnapshotted, fmt.Sprintf(
		"snapshot loaded: %d orders, %d stockyards, %d rakes", len(snap.Orders), len(snap.Stockyards), len(snap.Rakes))); err != nil {
		return Result{}, err
	}

	if cancelled, err := r.observeCancellation(ctx, jobID); err != nil {
		return Result{}, err
	} else if cancelled {
		return Result{}, PreconditionFailedError("job cancelled before dispatch")
	}
	if err := r.checkpoint(ctx, jobID, ProgressDispatching, fmt.Sprintf("dispatching mode %q", cfg.Mode)); err != nil {
		return Result{}, err
	}

	result, err = Dispatch(snap, cfg, r.registry)
	if err != nil {
		_ = r.store.AppendLog(ctx, jobID, "planner failed: "+err.Error())
		_ = r.store.MarkFailed(ctx, jobID, err.Error())
		return Result{}, PlannerFailureError("dispatch failed", err)
	}

	if cancelled, err := r.observeCancellation(ctx, jobID); err != nil {
		return Result{}, err
	} else if cancelled {
		return Result{}, PreconditionFailedError("job cancelled after packing")
	}
	if err := r.checkpoint(ctx, jobID, ProgressPacked, fmt.Sprintf(
		"packed %d/%d orders onto %d rakes using %s", result.OrdersFulfilled, result.TotalOrders, len(result.Rakes), result.Algorithm)); err != nil {
		return Result{}, err
	}

	if err := persist(result); err != nil {
		_ = r.store.AppendLog(ctx, jobID, "persist failed: "+err.Error())
		_ = r.store.MarkFailed(ctx, jobID, err.Error())
		return Result{}, PlannerFailureError("persist plan", err)
	}

	if err := r.checkpoint(ctx, jobID, ProgressDone, "plan persisted"); err != nil {
		return Result{}, err
	}
	if err := r.store.MarkCompleted(ctx, jobID); err != nil {
		return Result{}, fmt.Errorf("mark job completed: %w", err)
	}

	return result, nil
}

func (r *Runner) checkpoint(ctx context.Context, jobID string, percent int, message string) error {
	if err := r.store.UpdateProgress(ctx, jobID, percent); err != nil {
		return fmt.Errorf("update progress to %d: %w", percent, err)
	}
	if err := r.store.AppendLog(ctx, jobID, message); err != nil {
		return fmt.Errorf("append job log: %w", err)
	}
	return nil
}

func (r *Runner) observeCancellation(ctx context.Context, jobID string) (bool, error) {
	cancelled, err := r.store.CancelRequested(ctx, jobID)
	if err != nil {
		return false, fmt.Errorf("check cancel request: %w", err)
	}
	if !cancelled {
		return false, nil
	}
	if err := r.store.AppendLog(ctx, jobID, "cancellation observed at checkpoint"); err != nil {
		return true, fmt.Errorf("append cancellation log: %w", err)
	}
	if err := r.store.MarkCancelled(ctx, jobID); err != nil {
		return true, fmt.Errorf("mark job cancelled: %w", err)
	}
	return true, nil
}
