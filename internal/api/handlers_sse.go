package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nats-io/nats.go"
	"github.com/railops/rake-planner/internal/db"
	"github.com/railops/rake-planner/internal/queue"
)

// handleJobProgressSSE streams a planning job's progress via Server-Sent
// Events: it sends the current state immediately, then forwards anything
// published to the job's NATS progress/complete/error subjects until the
// client disconnects or the job reaches a terminal state.
func (s *Server) handleJobProgressSSE(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	rc := http.NewResponseController(w)
	ctx := r.Context()

	job, err := s.db.GetPlanningJob(ctx, jobID)
	if err != nil {
		log.Printf("sse: get job %s: %v", jobID, err)
	} else {
		sendSSEEvent(w, flusher, rc, "progress", jobToResponse(job))
		if isTerminal(job.Status) {
			return
		}
	}

	msgChan := make(chan *nats.Msg, 10)
	forward := func(msg *nats.Msg) {
		select {
		case msgChan <- msg:
		case <-ctx.Done():
		}
	}

	subs := make([]*nats.Subscription, 0, 3)
	for _, subject := range []string{
		queue.GetProgressSubject(jobID),
		queue.GetCompleteSubject(jobID),
		queue.GetErrorSubject(jobID),
	} {
		sub, err := s.natsManager.Subscribe(subject, forward)
		if err != nil {
			log.Printf("sse: subscribe %s: %v", subject, err)
			continue
		}
		subs = append(subs, sub)
	}
	defer func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}()

	heartbeat := time.NewTicker(5 * time.Second)
	defer heartbeat.Stop()
	poll := time.NewTicker(2 * time.Second)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-msgChan:
			var job db.PlanningJob
			if err := json.Unmarshal(msg.Data, &job); err != nil {
				continue
			}
			sendSSEEvent(w, flusher, rc, "progress", jobToResponse(&job))
			if isTerminal(job.Status) {
				return
			}

		case <-poll.C:
			job, err := s.db.GetPlanningJob(ctx, jobID)
			if err != nil {
				continue
			}
			sendSSEEvent(w, flusher, rc, "progress", jobToResponse(job))
			if isTerminal(job.Status) {
				return
			}

		case <-heartbeat.C:
			rc.SetWriteDeadline(time.Now().Add(30 * time.Second))
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

func isTerminal(status string) bool {
	switch status {
	case "completed", "failed", "cancelled":
		return true
	default:
		return false
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, rc *http.ResponseController, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("sse: marshal event: %v", err)
		return
	}
	rc.SetWriteDeadline(time.Now().Add(30 * time.Second))
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
	flusher.Flush()
}
