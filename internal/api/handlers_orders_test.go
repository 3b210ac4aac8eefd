package api

import "testing"

func TestValidateOrdersHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   bool
	}{
		{
			name:   "exact match",
			header: ordersCSVHeader,
			want:   true,
		},
		{
			name: "case and whitespace insensitive",
			header: []string{
				" Order_Number", "PRODUCT_CODE", "quantity_tonnes", "source_stockyard_id",
				"destination", "destination_latitude", "destination_longitude",
				"priority", "due_date", "sla_hours",
			},
			want: true,
		},
		{
			name:   "wrong column count",
			header: []string{"order_number", "product_code"},
			want:   false,
		},
		{
			name: "wrong column name",
			header: []string{
				"order_id", "product_code", "quantity_tonnes", "source_stockyard_id",
				"destination", "destination_latitude", "destination_longitude",
				"priority", "due_date", "sla_hours",
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateOrdersHeader(tt.header); got != tt.want {
				t.Errorf("validateOrdersHeader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOrderCSVRow(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		record := []string{
			"ORD-1", "COAL", "1500.50", "yard-1",
			"Chennai", "13.0827", "80.2707", "2", "2026-08-15", "48",
		}
		params, err := parseOrderCSVRow(record)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.OrderNumber != "ORD-1" || params.ProductCode != "COAL" {
			t.Errorf("unexpected identity fields: %+v", params)
		}
		if !params.SourceStockyardID.Valid || params.SourceStockyardID.String != "yard-1" {
			t.Errorf("expected source stockyard to be set, got %+v", params.SourceStockyardID)
		}
		if !params.DestinationLatitude.Valid || !params.SLAHours.Valid {
			t.Errorf("expected optional numeric fields to be set: %+v", params)
		}
		if params.Priority != 2 {
			t.Errorf("expected priority 2, got %d", params.Priority)
		}
	})

	t.Run("optional fields blank", func(t *testing.T) {
		record := []string{
			"ORD-2", "IRON_ORE", "800", "",
			"Mumbai", "", "", "3", "2026-09-01", "",
		}
		params, err := parseOrderCSVRow(record)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if params.SourceStockyardID.Valid {
			t.Errorf("expected source stockyard unset, got %+v", params.SourceStockyardID)
		}
		if params.DestinationLatitude.Valid || params.DestinationLongitude.Valid || params.SLAHours.Valid {
			t.Errorf("expected optional numeric fields unset: %+v", params)
		}
	})

	t.Run("invalid due date", func(t *testing.T) {
		record := []string{
			"ORD-3", "COAL", "1000", "", "Delhi", "", "", "1", "not-a-date", "",
		}
		if _, err := parseOrderCSVRow(record); err == nil {
			t.Fatal("expected error for invalid due_date")
		}
	})

	t.Run("invalid priority", func(t *testing.T) {
		record := []string{
			"ORD-4", "COAL", "1000", "", "Delhi", "", "", "high", "2026-08-15", "",
		}
		if _, err := parseOrderCSVRow(record); err == nil {
			t.Fatal("expected error for invalid priority")
		}
	})

	t.Run("invalid latitude", func(t *testing.T) {
		record := []string{
			"ORD-5", "COAL", "1000", "", "Delhi", "not-a-number", "", "1", "2026-08-15", "",
		}
		if _, err := parseOrderCSVRow(record); err == nil {
			t.Fatal("expected error for invalid destination_latitude")
		}
	})
}
