package api

import (
	"context"
	"encoding/json"
	"log"

	"github.com/railops/rake-planner/internal/db"
	"github.com/railops/rake-planner/internal/queue"
)

// publishingJobStore decorates *db.Queries with a NATS broadcast after every
// durable state transition, so SSE listeners subscribed to a job's progress
// subject see updates the moment they are persisted rather than waiting for
// the next poll tick.
type publishingJobStore struct {
	queries *db.Queries
	nats    *queue.Manager
}

func newPublishingJobStore(queries *db.Queries, nats *queue.Manager) *publishingJobStore {
	return &publishingJobStore{queries: queries, nats: nats}
}

func (p *publishingJobStore) publish(ctx context.Context, jobID string, subject string) {
	job, err := p.queries.GetPlanningJob(ctx, jobID)
	if err != nil {
		log.Printf("publishingJobStore: reload job %s for broadcast: %v", jobID, err)
		return
	}
	payload, err := json.Marshal(job)
	if err != nil {
		log.Printf("publishingJobStore: marshal job %s for broadcast: %v", jobID, err)
		return
	}
	if err := p.nats.Publish(subject, payload); err != nil {
		log.Printf("publishingJobStore: publish job %s: %v", jobID, err)
	}
}

func (p *publishingJobStore) MarkRunning(ctx context.Context, jobID string) error {
	if err := p.queries.MarkRunning(ctx, jobID); err != nil {
		return err
	}
	p.publish(ctx, jobID, queue.GetProgressSubject(jobID))
	return nil
}

func (p *publishingJobStore) UpdateProgress(ctx context.Context, jobID string, percent int) error {
	if err := p.queries.UpdateProgress(ctx, jobID, percent); err != nil {
		return err
	}
	p.publish(ctx, jobID, queue.GetProgressSubject(jobID))
	return nil
}

func (p *publishingJobStore) AppendLog(ctx context.Context, jobID string, message string) error {
	return p.queries.AppendLog(ctx, jobID, message)
}

func (p *publishingJobStore) MarkCompleted(ctx context.Context, jobID string) error {
	if err := p.queries.MarkCompleted(ctx, jobID); err != nil {
		return err
	}
	p.publish(ctx, jobID, queue.GetCompleteSubject(jobID))
	return nil
}

func (p *publishingJobStore) MarkFailed(ctx context.Context, jobID string, reason string) error {
	if err := p.queries.MarkFailed(ctx, jobID, reason); err != nil {
		return err
	}
	p.publish(ctx, jobID, queue.GetErrorSubject(jobID))
	return nil
}

func (p *publishingJobStore) MarkCancelled(ctx context.Context, jobID string) error {
	if err := p.queries.MarkCancelled(ctx, jobID); err != nil {
		return err
	}
	p.publish(ctx, jobID, queue.GetCompleteSubject(jobID))
	return nil
}

func (p *publishingJobStore) CancelRequested(ctx context.Context, jobID string) (bool, error) {
	return p.queries.CancelRequested(ctx, jobID)
}
