package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/railops/rake-planner/internal/planner"
	"github.com/railops/rake-planner/internal/services"
)

type planRakeResponse struct {
	RakeNumber     string          `json:"rakeNumber"`
	OriginCode     string          `json:"originCode"`
	Destinations   []string        `json:"destinations"`
	Orders         json.RawMessage `json:"orders"`
	TotalWeight    string          `json:"totalWeight"`
	Capacity       string          `json:"capacity"`
	UtilizationPct float64         `json:"utilizationPct"`
	FreightCost    string          `json:"freightCost"`
	DemurrageCost  string          `json:"demurrageCost"`
	IdleCost       string          `json:"idleCost"`
}

type planResponse struct {
	ID             string             `json:"id"`
	JobID          string             `json:"jobId"`
	Algorithm      string             `json:"algorithm"`
	TotalCost      string             `json:"totalCost"`
	FreightCost    string             `json:"freightCost"`
	DemurrageCost  string             `json:"demurrageCost"`
	IdleCost       string             `json:"idleCost"`
	UtilizationPct float64            `json:"utilizationPct"`
	Committed      bool               `json:"committed"`
	Rakes          []planRakeResponse `json:"rakes"`
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["id"]
	ctx := r.Context()

	plan, err := s.db.GetPlan(ctx, planID)
	if err != nil {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}

	rakes, err := s.db.GetPlanRakes(ctx, planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load plan rakes")
		return
	}

	resp := planResponse{
		ID:             plan.ID,
		JobID:          plan.JobID,
		Algorithm:      plan.Algorithm,
		TotalCost:      plan.TotalCost,
		FreightCost:    plan.FreightCost,
		DemurrageCost:  plan.DemurrageCost,
		IdleCost:       plan.IdleCost,
		UtilizationPct: plan.UtilizationPct,
		Committed:      plan.Committed,
		Rakes:          make([]planRakeResponse, 0, len(rakes)),
	}
	for _, pr := range rakes {
		resp.Rakes = append(resp.Rakes, planRakeResponse{
			RakeNumber:     pr.RakeNumber,
			OriginCode:     pr.OriginCode,
			Destinations:   pr.Destinations,
			Orders:         pr.OrdersJSON,
			TotalWeight:    pr.TotalWeight,
			Capacity:       pr.Capacity,
			UtilizationPct: pr.UtilizationPct,
			FreightCost:    pr.FreightCost,
			DemurrageCost:  pr.DemurrageCost,
			IdleCost:       pr.IdleCost,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCommitPlan executes the terminal commit (C9): it re-derives the
// planning Result from the persisted plan rows rather than trusting a
// client-supplied body, so a commit always acts on exactly what was
// generated and stored.
func (s *Server) handleCommitPlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["id"]
	ctx := r.Context()

	anomalyMessages, err := CommitPlan(ctx, s.db, planID)
	if err != nil {
		if errors.Is(err, planner.ErrPreconditionFailed) {
			writeError(w, http.StatusConflict, "plan already committed")
			return
		}
		if errors.Is(err, planner.ErrNotFound) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.auditService.Log(ctx, services.AuditParams{
		EntityType: "plan",
		EntityID:   planID,
		Operation:  "committed",
		Metadata:   map[string]interface{}{"anomaly_count": len(anomalyMessages)},
	}); err != nil {
		log.Printf("audit log commit %s: %v", planID, err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"planId":    planID,
		"committed": true,
		"anomalies": anomalyMessages,
	})
}
