package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/railops/rake-planner/internal/db"
	"github.com/railops/rake-planner/internal/planner"
	"github.com/railops/rake-planner/internal/services"
	"github.com/shopspring/decimal"
)

// createJobRequest is the payload accepted to start a planning run. Omitted
// fields fall back to planner.DefaultConfig().
type createJobRequest struct {
	Mode                  string  `json:"mode" validate:"omitempty,oneof=greedy optimal hybrid"`
	AllowMultiDestination bool    `json:"allowMultiDestination"`
	MinRakeSize           float64 `json:"minRakeSize" validate:"omitempty,gte=0"`
	FreightRate           float64 `json:"freightRate" validate:"omitempty,gt=0"`
	DemurrageRate         float64 `json:"demurrageRate" validate:"omitempty,gte=0"`
	IdleCost              float64 `json:"idleCost" validate:"omitempty,gte=0"`
	CostWeights           *struct {
		Freight   float64 `json:"freight" validate:"gte=0"`
		Demurrage float64 `json:"demurrage" validate:"gte=0"`
		Idle      float64 `json:"idle" validate:"gte=0"`
	} `json:"costWeights"`
}

func (req createJobRequest) toConfig() planner.Config {
	cfg := planner.DefaultConfig()
	if req.Mode != "" {
		cfg.Mode = req.Mode
	}
	cfg.AllowMultiDestination = req.AllowMultiDestination
	if req.MinRakeSize > 0 {
		cfg.MinRakeSize = decimal.NewFromFloat(req.MinRakeSize)
	}
	if req.FreightRate > 0 {
		cfg.FreightRate = req.FreightRate
	}
	if req.DemurrageRate > 0 {
		cfg.DemurrageRate = req.DemurrageRate
	}
	if req.IdleCost > 0 {
		cfg.IdleCost = req.IdleCost
	}
	if req.CostWeights != nil {
		cfg.CostWeights = planner.CostWeights{
			Freight:   req.CostWeights.Freight,
			Demurrage: req.CostWeights.Demurrage,
			Idle:      req.CostWeights.Idle,
		}
	}
	return cfg
}

// handleCreateJob queues a planning run and starts it on a background
// goroutine bounded by the server's job-slot semaphore.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if !s.rateLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many planning requests, try again shortly")
		return
	}

	var req createJobRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.validator.Validate(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	cfg := req.toConfig()
	jobID := uuid.New().String()
	configJSON, err := json.Marshal(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode job config")
		return
	}

	if err := s.db.CreatePlanningJob(r.Context(), jobID, cfg.Mode, configJSON); err != nil {
		log.Printf("create planning job: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	go s.runJob(jobID, cfg)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"jobId":  jobID,
		"status": planner.JobStatusQueued,
	})
}

// runJob executes one job end to end. It runs detached from the request
// context since the HTTP response has already been sent, so nothing else
// recovers a panic here the way middleware.go's recoveryMiddleware does for
// synchronous handlers; runner.Run guards the pack itself, but snapshot
// loading happens outside that boundary, so this is a second recover barrier.
func (s *Server) runJob(jobID string, cfg planner.Config) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in planning job %s: %v\n%s", jobID, rec, debug.Stack())
			_ = s.db.MarkFailed(context.Background(), jobID, fmt.Sprintf("panic: %v", rec))
		}
	}()

	select {
	case s.jobSlots <- struct{}{}:
		defer func() { <-s.jobSlots }()
	case <-time.After(s.config.JobSolverTimeout):
		_ = s.db.MarkFailed(context.Background(), jobID, "no job slot available within solver timeout")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.JobSolverTimeout+30*time.Second)
	defer cancel()

	snap, err := LoadSnapshot(ctx, s.db)
	if err != nil {
		log.Printf("load snapshot for job %s: %v", jobID, err)
		_ = s.db.MarkFailed(ctx, jobID, err.Error())
		return
	}

	runner := planner.NewRunner(newPublishingJobStore(s.db, s.natsManager), s.registry)
	planID := uuid.New().String()

	result, err := runner.Run(ctx, jobID, snap, cfg, func(res planner.Result) error {
		if err := PersistResult(ctx, s.db, planID, jobID, res); err != nil {
			return err
		}
		return s.db.SetPlanID(ctx, jobID, planID)
	})
	if err != nil {
		log.Printf("run planning job %s: %v", jobID, err)
		return
	}

	if err := s.auditService.Log(ctx, services.AuditParams{
		EntityType: "plan",
		EntityID:   planID,
		Operation:  "generated",
		Metadata: map[string]interface{}{
			"algorithm":        result.Algorithm,
			"orders_fulfilled": result.OrdersFulfilled,
			"total_orders":     result.TotalOrders,
		},
	}); err != nil {
		log.Printf("audit log plan %s: %v", planID, err)
	}
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	job, err := s.db.GetPlanningJob(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, jobToResponse(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.db.ListPlanningJobs(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, jobToResponse(&jobs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": out})
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["id"]

	if err := s.db.RequestCancel(r.Context(), jobID); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancellation requested"})
}

type jobResponse struct {
	ID          string   `json:"id"`
	Mode        string   `json:"mode"`
	Status      string   `json:"status"`
	ProgressPct int      `json:"progressPct"`
	PlanID      string   `json:"planId,omitempty"`
	Error       string   `json:"error,omitempty"`
	Logs        []string `json:"logs"`
}

func jobToResponse(job *db.PlanningJob) jobResponse {
	resp := jobResponse{
		ID:          job.ID,
		Mode:        job.Mode,
		Status:      job.Status,
		ProgressPct: job.ProgressPct,
		Logs:        job.Logs,
	}
	if job.PlanID.Valid {
		resp.PlanID = job.PlanID.String
	}
	if job.ErrorMsg.Valid {
		resp.Error = job.ErrorMsg.String
	}
	return resp
}
