package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/railops/rake-planner/internal/db"
)

// handleListAuditLogs queries the audit trail with optional entityType,
// operation, userId, start, and end filters, all supplied as query
// parameters.
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := db.GetAuditLogsParams{
		EntityType: nullableQueryParam(q.Get("entityType")),
		Operation:  nullableQueryParam(q.Get("operation")),
		UserID:     nullableQueryParam(q.Get("userId")),
		Limit:      100,
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			params.Limit = int32(limit)
		}
	}
	if startStr := q.Get("start"); startStr != "" {
		if t, err := time.Parse(time.RFC3339, startStr); err == nil {
			params.StartTime = sql.NullTime{Time: t, Valid: true}
		}
	}
	if endStr := q.Get("end"); endStr != "" {
		if t, err := time.Parse(time.RFC3339, endStr); err == nil {
			params.EndTime = sql.NullTime{Time: t, Valid: true}
		}
	}

	logs, err := s.db.GetAuditLogs(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit logs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"auditLogs": logs})
}

func nullableQueryParam(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
