package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// AddToPlan commits a task to a day's plan. Requires both the day (routed)
// and the task to exist; fails with ReferentialError otherwise.
func (s *Store) AddToPlan(ctx context.Context, day string, taskID int64, keystone bool) error {
	if _, err := ParseDay(day); err != nil {
		return &Error{Code: ErrCodeConstraintViolation, Message: "invalid day key", Field: "date", Day: day}
	}

	ks := 0
	if keystone {
		ks = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_plan (date, task_id, is_keystone) VALUES (?, ?, ?)
	`, day, taskID, ks)
	if err != nil {
		return fmt.Errorf("add to plan: %w", classify(err))
	}
	return nil
}

// SetPlanStatus updates a plan entry's completion status and notes. Plan
// entries are the one freely mutable entity in the model. Fails with
// NotFound when the (day, task) pair does not exist.
func (s *Store) SetPlanStatus(ctx context.Context, day string, taskID int64, status CompletionStatus, notes *string) error {
	if !status.Valid() {
		return &Error{Code: ErrCodeConstraintViolation, Message: "unknown completion status", Field: "completion_status"}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE daily_plan SET completion_status = ?, completion_notes = ?
		WHERE date = ? AND task_id = ?
	`, status, notes, day, taskID)
	if err != nil {
		return fmt.Errorf("set plan status: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set plan status: rows affected: %w", err)
	}
	if n == 0 {
		return &Error{Code: ErrCodeNotFound, Message: "plan entry not found", Entity: "daily_plan", Day: day}
	}
	return nil
}

// GetPlan returns a day's plan entries joined with task metadata.
// Keystone entries sort first; ties break by task id for deterministic
// output.
func (s *Store) GetPlan(ctx context.Context, day string) ([]PlanEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dp.date, dp.task_id, dp.planned_at, dp.is_keystone,
		       dp.completion_status, dp.completion_notes, t.title, t.domain
		FROM daily_plan dp
		JOIN tasks t ON dp.task_id = t.id
		WHERE dp.date = ?
		ORDER BY dp.is_keystone DESC, dp.task_id ASC
	`, day)
	if err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	defer rows.Close()

	var entries []PlanEntry
	for rows.Next() {
		var e PlanEntry
		var keystone int
		var notes sql.NullString
		if err := rows.Scan(&e.Day, &e.TaskID, &e.PlannedAt, &keystone,
			&e.Status, &notes, &e.Title, &e.Domain); err != nil {
			return nil, fmt.Errorf("scan plan entry: %w", err)
		}
		e.Keystone = keystone != 0
		if notes.Valid {
			e.Notes = &notes.String
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan entries: %w", err)
	}

	if entries == nil {
		entries = []PlanEntry{}
	}
	return entries, nil
}

// PlanStatsFor summarizes a day's plan completion.
func (s *Store) PlanStatsFor(ctx context.Context, day string) (PlanStats, error) {
	var stats PlanStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN completion_status = 'COMPLETE' THEN 1 ELSE 0 END), 0)
		FROM daily_plan WHERE date = ?
	`, day).Scan(&stats.Total, &stats.Complete)
	if err != nil {
		return PlanStats{}, fmt.Errorf("query plan stats: %w", err)
	}
	return stats, nil
}
