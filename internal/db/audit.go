package db

import (
	"context"
	"fmt"
)

// CreateAuditLog inserts a new audit log entry.
func (q *Queries) CreateAuditLog(ctx context.Context, params CreateAuditLogParams) error {
	query := `
		INSERT INTO audit_log (
			entity_type, entity_id, operation, user_id, metadata, ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.db.ExecContext(ctx, query,
		params.EntityType,
		params.EntityID,
		params.Operation,
		params.UserID,
		params.Metadata,
		params.IPAddress,
		params.UserAgent,
	)
	return err
}

// GetAuditLogs queries audit logs with filters.
func (q *Queries) GetAuditLogs(ctx context.Context, params GetAuditLogsParams) ([]AuditLog, error) {
	query := `
		SELECT id, timestamp, user_id, entity_type, entity_id, operation,
		       metadata, ip_address, user_agent, created_at
		FROM audit_log
		WHERE 1=1
	`

	var args []interface{}
	argNum := 1

	if params.EntityType.Valid {
		query += fmt.Sprintf(" AND entity_type = $%d", argNum)
		args = append(args, params.EntityType.String)
		argNum++
	}
	if params.Operation.Valid {
		query += fmt.Sprintf(" AND operation = $%d", argNum)
		args = append(args, params.Operation.String)
		argNum++
	}
	if params.UserID.Valid {
		query += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, params.UserID.String)
		argNum++
	}
	if params.StartTime.Valid {
		query += fmt.Sprintf(" AND timestamp >= $%d", argNum)
		args = append(args, params.StartTime.Time)
		argNum++
	}
	if params.EndTime.Valid {
		query += fmt.Sprintf(" AND timestamp <= $%d", argNum)
		args = append(args, params.EndTime.Time)
		argNum++
	}

	query += " ORDER BY timestamp DESC"
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, params.Limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var entry AuditLog
		if err := rows.Scan(
			&entry.ID, &entry.Timestamp, &entry.UserID, &entry.EntityType, &entry.EntityID,
			&entry.Operation, &entry.Metadata, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}

// GetAuditLogsByEntity retrieves all audit entries for a specific entity.
func (q *Queries) GetAuditLogsByEntity(ctx context.Context, entityType, entityID string, limit int) ([]AuditLog, error) {
	query := `
		SELECT id, timestamp, user_id, entity_type, entity_id, operation,
		       metadata, ip_address, user_agent, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY timestamp DESC
		LIMIT $3
	`
	rows, err := q.db.QueryContext(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var entry AuditLog
		if err := rows.Scan(
			&entry.ID, &entry.Timestamp, &entry.UserID, &entry.EntityType, &entry.EntityID,
			&entry.Operation, &entry.Metadata, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}
