package db

import (
	"context"
	"database/sql"
	"time"
)

// Setting is a system-wide key/value entry. The API throttle keys are read
// at server start; planning jobs take their config from the request and
// planner.DefaultConfig, not from this table.
type Setting struct {
	ID             int32
	SettingKey     string
	SettingValue   string
	Description    sql.NullString
	LastModifiedAt time.Time
	CreatedAt      time.Time
}

// GetSettings retrieves all planner settings.
func (q *Queries) GetSettings(ctx context.Context) ([]Setting, error) {
	query := `
		SELECT id, setting_key, setting_value, description, last_modified_at, created_at
		FROM settings
		ORDER BY setting_key
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.LastModifiedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetSetting retrieves a single setting by key, returning nil if unset so
// callers can fall back to the compiled-in default.
func (q *Queries) GetSetting(ctx context.Context, key string) (*Setting, error) {
	query := `
		SELECT id, setting_key, setting_value, description, last_modified_at, created_at
		FROM settings WHERE setting_key = $1
	`
	var s Setting
	err := q.db.QueryRowContext(ctx, query, key).Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.Description, &s.LastModifiedAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSettingParams contains parameters for upserting a setting.
type UpsertSettingParams struct {
	SettingKey   string
	SettingValue string
	Description  sql.NullString
}

// UpsertSetting creates or updates a single setting.
func (q *Queries) UpsertSetting(ctx context.Context, params UpsertSettingParams) error {
	query := `
		INSERT INTO settings (setting_key, setting_value, description, last_modified_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (setting_key) DO UPDATE SET
			setting_value = EXCLUDED.setting_value,
			description = EXCLUDED.description,
			last_modified_at = NOW()
	`
	_, err := q.db.ExecContext(ctx, query, params.SettingKey, params.SettingValue, params.Description)
	return err
}
