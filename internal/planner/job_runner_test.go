package planner

import (
	"context"
	"errors"
	"testing"
)

type fakeJobStore struct {
	status        string
	progress      []int
	logs          []string
	cancelAt      int // progress percent at which CancelRequested starts returning true
	failOnPersist bool
}

func (f *fakeJobStore) MarkRunning(ctx context.Context, jobID string) error {
	f.status = JobStatusRunning
	return nil
}

func (f *fakeJobStore) UpdateProgress(ctx context.Context, jobID string, percent int) error {
	f.progress = append(f.progress, percent)
	return nil
}

func (f *fakeJobStore) AppendLog(ctx context.Context, jobID string, message string) error {
	f.logs = append(f.logs, message)
	return nil
}

func (f *fakeJobStore) MarkCompleted(ctx context.Context, jobID string) error {
	f.status = JobStatusCompleted
	return nil
}

func (f *fakeJobStore) MarkFailed(ctx context.Context, jobID string, reason string) error {
	f.status = JobStatusFailed
	return nil
}

func (f *fakeJobStore) MarkCancelled(ctx context.Context, jobID string) error {
	f.status = JobStatusCancelled
	return nil
}

func (f *fakeJobStore) CancelRequested(ctx context.Context, jobID string) (bool, error) {
	if len(f.progress) == 0 {
		return false, nil
	}
	last := f.progress[len(f.progress)-1]
	return last >= f.cancelAt, nil
}

func TestRunner_Run_HappyPath(t *testing.T) {
	store := &fakeJobStore{cancelAt: 1000} // never cancels
	runner := NewRunner(store, NewRegistry())
	snap := sampleSnapshot()
	cfg := testConfig()
	cfg.Mode = "greedy"

	persisted := false
	_, err := runner.Run(context.Background(), "job-1", snap, cfg, func(r Result) error {
		persisted = true
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !persisted {
		t.Fatalf("persist callback was not invoked")
	}
	if store.status != JobStatusCompleted {
		t.Fatalf("status = %v, want completed", store.status)
	}
	want := []int{ProgressStart, ProgressSnapshotted, ProgressDispatching, ProgressPacked, ProgressDone}
	if len(store.progress) != len(want) {
		t.Fatalf("progress = %v, want %v", store.progress, want)
	}
	for i, p := range want {
		if store.progress[i] != p {
			t.Fatalf("progress[%d] = %d, want %d", i, store.progress[i], p)
		}
	}
}

func TestRunner_Run_CancelledAtFirstCheckpoint(t *testing.T) {
	store := &fakeJobStore{cancelAt: ProgressStart}
	runner := NewRunner(store, NewRegistry())
	_, err := runner.Run(context.Background(), "job-1", sampleSnapshot(), testConfig(), func(Result) error { return nil })
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("Run() error = %v, want ErrPreconditionFailed", err)
	}
	if store.status != JobStatusCancelled {
		t.Fatalf("status = %v, want cancelled", store.status)
	}
}

func TestRunner_Run_PersistFailure(t *testing.T) {
	store := &fakeJobStore{cancelAt: 1000}
	runner := NewRunner(store, NewRegistry())
	_, err := runner.Run(context.Background(), "job-1", sampleSnapshot(), testConfig(), func(Result) error {
		return errors.New("disk full")
	})
	if !errors.Is(err, ErrPlannerFailure) {
		t.Fatalf("Run() error = %v, want ErrPlannerFailure", err)
	}
	if store.status != JobStatusFailed {
		t.Fatalf("status = %v, want failed", store.status)
	}
}

func TestRunner_Run_RecoversPanic(t *testing.T) {
	store := &fakeJobStore{cancelAt: 1000}
	runner := NewRunner(store, NewRegistry())
	_, err := runner.Run(context.Background(), "job-1", sampleSnapshot(), testConfig(), func(Result) error {
		panic("boom")
	})
	if !errors.Is(err, ErrPlannerFailure) {
		t.Fatalf("Run() error = %v, want ErrPlannerFailure", err)
	}
	if store.status != JobStatusFailed {
		t.Fatalf("status = %v, want failed", store.status)
	}
}

func TestRunner_Run_DispatchFailure(t *testing.T) {
	store := &fakeJobStore{cancelAt: 1000}
	runner := NewRunner(store, NewRegistry())
	cfg := testConfig()
	cfg.Mode = "not-a-real-mode"
	_, err := runner.Run(context.Background(), "job-1", sampleSnapshot(), cfg, func(Result) error { return nil })
	if !errors.Is(err, ErrPlannerFailure) {
		t.Fatalf("Run() error = %v, want ErrPlannerFailure", err)
	}
	if store.status != JobStatusFailed {
		t.Fatalf("status = %v, want failed", store.status)
	}
}
