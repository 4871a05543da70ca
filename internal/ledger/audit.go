package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// appendAuditTx inserts an audit event inside the caller's transaction so
// the trail entry commits or rolls back with the operation it records.
func appendAuditTx(ctx context.Context, tx *sql.Tx, ev AuditEvent) error {
	var userInput any
	if ev.UserInput != "" {
		userInput = ev.UserInput
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_events
		(date_ref, task_id, config_id, op_token, event_type, severity_level, user_input_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		ev.Day,
		ev.TaskID,
		ev.ConfigID,
		ev.OpToken,
		ev.EventType,
		ev.Severity,
		userInput,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", classify(err))
	}
	return nil
}

// AuditTrail returns a day's audit events in insertion order.
func (s *Store) AuditTrail(ctx context.Context, day string) ([]AuditEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, date_ref, task_id, config_id, op_token,
		       event_type, severity_level, COALESCE(user_input_text, '')
		FROM audit_events
		WHERE date_ref = ?
		ORDER BY id ASC
	`, day)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var ev AuditEvent
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.Day, &ev.TaskID, &ev.ConfigID,
			&ev.OpToken, &ev.EventType, &ev.Severity, &ev.UserInput); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	if events == nil {
		events = []AuditEvent{}
	}
	return events, nil
}
