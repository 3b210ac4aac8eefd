package api

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
)

// handleExplainPlan produces a deterministic natural-language summary of a
// plan. This is a template-based stand-in, not a live model call — a plan
// summarizer is an external collaborator, not part of the planning engine.
func (s *Server) handleExplainPlan(w http.ResponseWriter, r *http.Request) {
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

	destinations := make(map[string]struct{})
	for _, r := range rakes {
		for _, d := range r.Destinations {
			destinations[d] = struct{}{}
		}
	}
	destList := make([]string, 0, len(destinations))
	for d := range destinations {
		destList = append(destList, d)
	}
	sort.Strings(destList)

	status := "pending"
	if plan.Committed {
		status = "committed"
	}

	summary := fmt.Sprintf(
		"This plan uses the %s algorithm to form %d rake(s) covering %d destination(s) (%s), "+
			"at %.1f%% average capacity utilization. Total estimated cost is %s, split into freight "+
			"(%s), demurrage (%s), and idle (%s) components. The plan is currently %s.",
		plan.Algorithm, len(rakes), len(destList), strings.Join(destList, ", "),
		plan.UtilizationPct, plan.TotalCost, plan.FreightCost, plan.DemurrageCost, plan.IdleCost, status,
	)

	writeJSON(w, http.StatusOK, map[string]string{"planId": planID, "summary": summary})
}
