package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settingsService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

type upsertSettingRequest struct {
	Value       string `json:"value" validate:"required"`
	Description string `json:"description"`
}

func (s *Server) handleUpsertSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req upsertSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	modifiedBy := r.Header.Get("X-User-ID")
	if err := s.settingsService.Upsert(r.Context(), key, req.Value, req.Description, modifiedBy); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}

	setting, err := s.settingsService.Get(r.Context(), key)
	if err != nil || setting == nil {
		writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
		return
	}
	writeJSON(w, http.StatusOK, setting)
}
