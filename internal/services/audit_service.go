package services

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/railops/rake-planner/internal/db"
)

// AuditService records the audit trail for plan generation, plan commits
// and settings changes.
type AuditService struct {
	queries *db.Queries
}

// NewAuditService creates a new audit service.
func NewAuditService(queries *db.Queries) *AuditService {
	return &AuditService{queries: queries}
}

// AuditParams contains the fields recorded in one audit log entry.
type AuditParams struct {
	EntityType string
	EntityID   string
	Operation  string
	UserID     string
	Metadata   map[string]interface{}
	IPAddress  string
	UserAgent  string
}

// Log creates an audit log entry.
func (s *AuditService) Log(ctx context.Context, params AuditParams) error {
	var metadataJSON []byte
	if params.Metadata != nil {
		b, err := json.Marshal(params.Metadata)
		if err != nil {
			return err
		}
		metadataJSON = b
	}

	return s.queries.CreateAuditLog(ctx, db.CreateAuditLogParams{
		EntityType: params.EntityType,
		EntityID:   sql.NullString{String: params.EntityID, Valid: params.EntityID != ""},
		Operation:  params.Operation,
		UserID:     sql.NullString{String: params.UserID, Valid: params.UserID != ""},
		Metadata:   metadataJSON,
		IPAddress:  sql.NullString{String: params.IPAddress, Valid: params.IPAddress != ""},
		UserAgent:  sql.NullString{String: params.UserAgent, Valid: params.UserAgent != ""},
	})
}
