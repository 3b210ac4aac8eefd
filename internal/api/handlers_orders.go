package api

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/railops/rake-planner/internal/db"
)

type upsertOrderRequest struct {
	OrderNumber          string  `json:"orderNumber" validate:"required"`
	ProductCode          string  `json:"productCode" validate:"required"`
	QuantityTonnes       string  `json:"quantityTonnes" validate:"required,numeric"`
	SourceStockyardID    string  `json:"sourceStockyardId"`
	Destination          string  `json:"destination" validate:"required"`
	DestinationLatitude  *float64 `json:"destinationLatitude" validate:"omitempty,latitude"`
	DestinationLongitude *float64 `json:"destinationLongitude" validate:"omitempty,longitude"`
	Priority             int     `json:"priority" validate:"omitempty,gte=1,lte=5"`
	DueDate              string  `json:"dueDate" validate:"required"`
	SLAHours             *float64 `json:"slaHours" validate:"omitempty,gt=0"`
}

func (s *Server) handleUpsertOrder(w http.ResponseWriter, r *http.Request) {
	var req upsertOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "dueDate must be YYYY-MM-DD")
		return
	}

	params := orderRequestToParams(req, dueDate)
	id, err := s.db.UpsertOrder(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "orderNumber": req.OrderNumber})
}

func orderRequestToParams(req upsertOrderRequest, dueDate time.Time) db.UpsertOrderParams {
	params := db.UpsertOrderParams{
		OrderNumber: req.OrderNumber,
		ProductCode: req.ProductCode,
		QuantityTonnes: req.QuantityTonnes,
		Destination: req.Destination,
		Priority:    req.Priority,
		DueDate:     dueDate,
		SourceStockyardID: sql.NullString{
			String: req.SourceStockyardID,
			Valid:  req.SourceStockyardID != "",
		},
	}
	if req.DestinationLatitude != nil {
		params.DestinationLatitude = sql.NullFloat64{Float64: *req.DestinationLatitude, Valid: true}
	}
	if req.DestinationLongitude != nil {
		params.DestinationLongitude = sql.NullFloat64{Float64: *req.DestinationLongitude, Valid: true}
	}
	if req.SLAHours != nil {
		params.SLAHours = sql.NullFloat64{Float64: *req.SLAHours, Valid: true}
	}
	if params.Priority == 0 {
		params.Priority = 3
	}
	return params
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.db.ListPendingOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

var ordersCSVHeader = []string{
	"order_number", "product_code", "quantity_tonnes", "source_stockyard_id",
	"destination", "destination_latitude", "destination_longitude",
	"priority", "due_date", "sla_hours",
}

// handleImportOrdersCSV bulk-loads orders from an uploaded CSV. Each row is
// upserted independently; a row failure is reported without aborting the
// rows already imported.
func (s *Server) handleImportOrdersCSV(w http.ResponseWriter, r *http.Request) {
	reader := csv.NewReader(r.Body)
	records, err := reader.ReadAll()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse CSV")
		return
	}
	if len(records) < 2 {
		writeError(w, http.StatusBadRequest, "CSV must have a header and at least one data row")
		return
	}
	if !validateOrdersHeader(records[0]) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("CSV header mismatch, expected: %v", ordersCSVHeader))
		return
	}

	var imported int
	var rowErrors []string
	for i, record := range records[1:] {
		if len(record) != len(ordersCSVHeader) {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: expected %d columns, got %d", i+2, len(ordersCSVHeader), len(record)))
			continue
		}
		params, err := parseOrderCSVRow(record)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if _, err := s.db.UpsertOrder(r.Context(), params); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		imported++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported": imported,
		"errors":   rowErrors,
	})
}

func validateOrdersHeader(actual []string) bool {
	if len(actual) != len(ordersCSVHeader) {
		return false
	}
	for i, col := range ordersCSVHeader {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseOrderCSVRow(record []string) (db.UpsertOrderParams, error) {
	dueDate, err := time.Parse("2006-01-02", record[8])
	if err != nil {
		return db.UpsertOrderParams{}, fmt.Errorf("invalid due_date: %s", record[8])
	}

	priority, err := strconv.Atoi(record[7])
	if err != nil {
		return db.UpsertOrderParams{}, fmt.Errorf("invalid priority: %s", record[7])
	}

	params := db.UpsertOrderParams{
		OrderNumber:    record[0],
		ProductCode:    record[1],
		QuantityTonnes: record[2],
		Destination:    record[4],
		Priority:       priority,
		DueDate:        dueDate,
		SourceStockyardID: sql.NullString{
			String: record[3],
			Valid:  record[3] != "",
		},
	}

	if record[5] != "" {
		lat, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return db.UpsertOrderParams{}, fmt.Errorf("invalid destination_latitude: %s", record[5])
		}
		params.DestinationLatitude = sql.NullFloat64{Float64: lat, Valid: true}
	}
	if record[6] != "" {
		lon, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return db.UpsertOrderParams{}, fmt.Errorf("invalid destination_longitude: %s", record[6])
		}
		params.DestinationLongitude = sql.NullFloat64{Float64: lon, Valid: true}
	}
	if record[9] != "" {
		sla, err := strconv.ParseFloat(record[9], 64)
		if err != nil {
			return db.UpsertOrderParams{}, fmt.Errorf("invalid sla_hours: %s", record[9])
		}
		params.SLAHours = sql.NullFloat64{Float64: sla, Valid: true}
	}

	return params, nil
}
