package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/railops/rake-planner/internal/db"
)

type upsertProductRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.db.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

func (s *Server) handleUpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req upsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := db.Product{
		Code: req.Code,
		Name: req.Name,
		Description: sql.NullString{
			String: req.Description,
			Valid:  req.Description != "",
		},
	}
	if err := s.db.UpsertProduct(r.Context(), product); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := s.db.DeleteProduct(r.Context(), code); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"code": code, "deleted": "true"})
}

type upsertWagonTypeRequest struct {
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name" validate:"required"`
	CapacityTonnes string `json:"capacityTonnes" validate:"required,numeric"`
}

func (s *Server) handleListWagonTypes(w http.ResponseWriter, r *http.Request) {
	wagonTypes, err := s.db.ListWagonTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list wagon types")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"wagonTypes": wagonTypes})
}

func (s *Server) handleUpsertWagonType(w http.ResponseWriter, r *http.Request) {
	var req upsertWagonTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	wagonType := db.WagonType{
		Code:           req.Code,
		Name:           req.Name,
		CapacityTonnes: req.CapacityTonnes,
	}
	if err := s.db.UpsertWagonType(r.Context(), wagonType); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save wagon type")
		return
	}
	writeJSON(w, http.StatusOK, wagonType)
}

func (s *Server) handleListLoadingPoints(w http.ResponseWriter, r *http.Request) {
	stockyardID := r.URL.Query().Get("stockyardId")
	if stockyardID == "" {
		writeError(w, http.StatusBadRequest, "stockyardId query parameter is required")
		return
	}
	points, err := s.db.ListLoadingPoints(r.Context(), stockyardID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list loading points")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"loadingPoints": points})
}

func (s *Server) handleListCompatibility(w http.ResponseWriter, r *http.Request) {
	compat, err := s.db.ListCompatibility(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list compatibility")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"compatibility": compat})
}
