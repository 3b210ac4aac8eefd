package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PlanningJob is the persisted row backing a planning run's state machine.
type PlanningJob struct {
	ID          string
	Mode        string
	ConfigJSON  json.RawMessage
	Status      string
	ProgressPct int
	PlanID      sql.NullString
	ErrorMsg    sql.NullString
	Logs        []string
	StartedAt   sql.NullTime
	CompletedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePlanningJob inserts a new job row in the queued state.
func (q *Queries) CreatePlanningJob(ctx context.Context, jobID, mode string, configJSON json.RawMessage) error {
	query := `
		INSERT INTO planning_jobs (id, mode, config, status, progress_pct)
		VALUES ($1, $2, $3, 'queued', 0)
	`
	_, err := q.db.ExecContext(ctx, query, jobID, mode, configJSON)
	return err
}

// MarkRunning implements planner.JobStore.
func (q *Queries) MarkRunning(ctx context.Context, jobID string) error {
	query := `
		UPDATE planning_jobs
		SET status = 'running', started_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	_, err := q.db.ExecContext(ctx, query, jobID)
	return err
}

// UpdateProgress implements planner.JobStore.
func (q *Queries) UpdateProgress(ctx context.Context, jobID string, percent int) error {
	query := `
		UPDATE planning_jobs
		SET progress_pct = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := q.db.ExecContext(ctx, query, percent, jobID)
	return err
}

// AppendLog implements planner.JobStore, appending a timestamped line to
// the job's log array.
func (q *Queries) AppendLog(ctx context.Context, jobID string, message string) error {
	line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), message)
	query := `
		UPDATE planning_jobs
		SET logs = array_append(logs, $1), updated_at = NOW()
		WHERE id = $2
	`
	_, err := q.db.ExecContext(ctx, query, line, jobID)
	return err
}

// MarkCompleted implements planner.JobStore.
func (q *Queries) MarkCompleted(ctx context.Context, jobID string) error {
	query := `
		UPDATE planning_jobs
		SET status = 'completed', progress_pct = 100, completed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	_, err := q.db.ExecContext(ctx, query, jobID)
	return err
}

// MarkFailed implements planner.JobStore.
func (q *Queries) MarkFailed(ctx context.Context, jobID string, reason string) error {
	query := `
		UPDATE planning_jobs
		SET status = 'failed', error_message = $1, completed_at = NOW(), updated_at = NOW()
		WHERE id = $2
	`
	_, err := q.db.ExecContext(ctx, query, reason, jobID)
	return err
}

// MarkCancelled implements planner.JobStore.
func (q *Queries) MarkCancelled(ctx context.Context, jobID string) error {
	query := `
		UPDATE planning_jobs
		SET status = 'cancelled', completed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	_, err := q.db.ExecContext(ctx, query, jobID)
	return err
}

// RequestCancel flips a queued/running job's cancel_requested flag, observed
// cooperatively by the runner at its next checkpoint. Returns an error if
// the job is already in a terminal state.
func (q *Queries) RequestCancel(ctx context.Context, jobID string) error {
	query := `
		UPDATE planning_jobs
		SET cancel_requested = true, updated_at = NOW()
		WHERE id = $1 AND status IN ('queued', 'running')
	`
	result, err := q.db.ExecContext(ctx, query, jobID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("job not found or not in a cancellable state")
	}
	return nil
}

// CancelRequested implements planner.JobStore.
func (q *Queries) CancelRequested(ctx context.Context, jobID string) (bool, error) {
	var requested bool
	err := q.db.QueryRowContext(ctx, `SELECT cancel_requested FROM planning_jobs WHERE id = $1`, jobID).Scan(&requested)
	if err != nil {
		return false, fmt.Errorf("check cancel request: %w", err)
	}
	return requested, nil
}

// SetPlanID links the job to the plan it produced.
func (q *Queries) SetPlanID(ctx context.Context, jobID, planID string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE planning_jobs SET plan_id = $1, updated_at = NOW() WHERE id = $2`, planID, jobID)
	return err
}

// ListPlanningJobs returns the most recent jobs, newest first.
func (q *Queries) ListPlanningJobs(ctx context.Context, limit int) ([]PlanningJob, error) {
	query := `
		SELECT id, mode, config, status, progress_pct, plan_id, error_message,
		       COALESCE(logs, '{}'), started_at, completed_at, created_at, updated_at
		FROM planning_jobs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list planning jobs: %w", err)
	}
	defer rows.Close()

	var out []PlanningJob
	for rows.Next() {
		job := PlanningJob{}
		var logs pq.StringArray
		if err := rows.Scan(
			&job.ID, &job.Mode, &job.ConfigJSON, &job.Status, &job.ProgressPct,
			&job.PlanID, &job.ErrorMsg, &logs, &job.StartedAt, &job.CompletedAt,
			&job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan planning job: %w", err)
		}
		job.Logs = []string(logs)
		out = append(out, job)
	}
	return out, rows.Err()
}

// GetPlanningJob fetches a job row by id.
func (q *Queries) GetPlanningJob(ctx context.Context, jobID string) (*PlanningJob, error) {
	query := `
		SELECT id, mode, config, status, progress_pct, plan_id, error_message,
		       COALESCE(logs, '{}'), started_at, completed_at, created_at, updated_at
		FROM planning_jobs
		WHERE id = $1
	`
	job := &PlanningJob{}
	var logs pq.StringArray
	err := q.db.QueryRowContext(ctx, query, jobID).Scan(
		&job.ID, &job.Mode, &job.ConfigJSON, &job.Status, &job.ProgressPct,
		&job.PlanID, &job.ErrorMsg, &logs, &job.StartedAt, &job.CompletedAt,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("planning job not found: %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("get planning job: %w", err)
	}
	job.Logs = []string(logs)
	return job, nil
}
