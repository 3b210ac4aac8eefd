package services

import (
	"context"
	"database/sql"

	"github.com/railops/rake-planner/internal/db"
)

// SettingsService manages the system-wide key/value entries backing the
// settings table. Of these, only the API throttle keys are read by the
// server; planning job config does not come from here.
type SettingsService struct {
	queries      *db.Queries
	auditService *AuditService
}

// NewSettingsService creates a new settings service.
func NewSettingsService(queries *db.Queries, auditService *AuditService) *SettingsService {
	return &SettingsService{queries: queries, auditService: auditService}
}

// List retrieves all settings.
func (s *SettingsService) List(ctx context.Context) ([]db.Setting, error) {
	return s.queries.GetSettings(ctx)
}

// Get retrieves one setting, returning nil if unset.
func (s *SettingsService) Get(ctx context.Context, key string) (*db.Setting, error) {
	return s.queries.GetSetting(ctx, key)
}

// Upsert creates or updates a setting and records the change in the audit
// trail.
func (s *SettingsService) Upsert(ctx context.Context, key, value, description, modifiedBy string) error {
	if err := s.queries.UpsertSetting(ctx, db.UpsertSettingParams{
		SettingKey:   key,
		SettingValue: value,
		Description:  sql.NullString{String: description, Valid: description != ""},
	}); err != nil {
		return err
	}

	return s.auditService.Log(ctx, AuditParams{
		EntityType: "setting",
		EntityID:   key,
		Operation:  "upsert",
		UserID:     modifiedBy,
		Metadata:   map[string]interface{}{"value": value},
	})
}
