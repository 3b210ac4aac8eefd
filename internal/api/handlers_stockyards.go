package api

import "net/http"

func (s *Server) handleListStockyards(w http.ResponseWriter, r *http.Request) {
	stockyards, err := s.db.ListStockyards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stockyards")
		return
	}

	inventory, err := s.db.ListInventory(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}

	byStockyard := make(map[string][]interface{})
	for _, inv := range inventory {
		byStockyard[inv.StockyardID] = append(byStockyard[inv.StockyardID], inv)
	}

	out := make([]map[string]interface{}, 0, len(stockyards))
	for _, sy := range stockyards {
		out = append(out, map[string]interface{}{
			"id":             sy.ID,
			"code":           sy.Code,
			"name":           sy.Name,
			"location":       sy.Location,
			"latitude":       sy.Latitude,
			"longitude":      sy.Longitude,
			"capacityTonnes": sy.CapacityTonnes,
			"inventory":      byStockyard[sy.ID],
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"stockyards": out})
}

func (s *Server) handleListRakes(w http.ResponseWriter, r *http.Request) {
	rakes, err := s.db.ListAvailableRakes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rakes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rakes": rakes})
}
