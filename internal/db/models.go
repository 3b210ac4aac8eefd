package db

import (
	"database/sql"
	"encoding/json"
	"time"
)

// ========================================
// AUDIT LOG MODELS
// ========================================

// AuditLog represents an audit log entry. Rows are written when the HTTP API
// generates a plan or commits one (C9) and when a setting is changed; job
// state transitions (running, failed, cancelled) are not recorded here.
type AuditLog struct {
	ID         int64           `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	UserID     sql.NullString  `json:"user_id,omitempty"`
	EntityType string          `json:"entity_type"`
	EntityID   sql.NullString  `json:"entity_id,omitempty"`
	Operation  string          `json:"operation"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	IPAddress  sql.NullString  `json:"ip_address,omitempty"`
	UserAgent  sql.NullString  `json:"user_agent,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CreateAuditLogParams contains parameters for creating an audit log.
type CreateAuditLogParams struct {
	EntityType string
	EntityID   sql.NullString
	Operation  string
	UserID     sql.NullString
	Metadata   json.RawMessage
	IPAddress  sql.NullString
	UserAgent  sql.NullString
}

// GetAuditLogsParams contains parameters for querying audit logs.
type GetAuditLogsParams struct {
	EntityType sql.NullString
	Operation  sql.NullString
	UserID     sql.NullString
	StartTime  sql.NullTime
	EndTime    sql.NullTime
	Limit      int32
}
