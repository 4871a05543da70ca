package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateTask adds a task to the inventory and returns its id. A shipping
// type is permitted only on ENGINE tasks.
func (s *Store) CreateTask(ctx context.Context, domain Domain, title string, shipping *ShippingType) (int64, error) {
	if !domain.Valid() {
		return 0, &Error{Code: ErrCodeConstraintViolation, Message: "unknown task domain", Field: "domain"}
	}
	if title == "" {
		return 0, &Error{Code: ErrCodeConstraintViolation, Message: "task title must not be empty", Field: "title"}
	}
	if shipping != nil {
		if !shipping.Valid() {
			return 0, &Error{Code: ErrCodeConstraintViolation, Message: "unknown shipping type", Field: "shipping_type"}
		}
		if domain != DomainEngine {
			return 0, &Error{Code: ErrCodeConstraintViolation, Message: "shipping type allowed only for ENGINE tasks", Field: "shipping_type"}
		}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (domain, title, shipping_type) VALUES (?, ?, ?)
	`, domain, title, shipping)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create task: last insert id: %w", err)
	}
	return id, nil
}

// GetTask retrieves a task by id. Fails with NotFound.
func (s *Store) GetTask(ctx context.Context, id int64) (*Task, error) {
	var t Task
	var shipping sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, domain, title, shipping_type, status
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.CreatedAt, &t.Domain, &t.Title, &shipping, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &Error{Code: ErrCodeNotFound, Message: "task not found", Entity: "tasks"}
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	if shipping.Valid {
		st := ShippingType(shipping.String)
		t.ShippingType = &st
	}
	return &t, nil
}

// ListTasks returns the task inventory in creation order. Archived tasks
// are included only when requested.
func (s *Store) ListTasks(ctx context.Context, includeArchived bool) ([]Task, error) {
	query := `
		SELECT id, created_at, domain, title, shipping_type, status
		FROM tasks WHERE status = 'OPEN' ORDER BY id ASC
	`
	if includeArchived {
		query = `
			SELECT id, created_at, domain, title, shipping_type, status
			FROM tasks ORDER BY id ASC
		`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var shipping sql.NullString
		if err := rows.Scan(&t.ID, &t.CreatedAt, &t.Domain, &t.Title, &shipping, &t.Status); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if shipping.Valid {
			st := ShippingType(shipping.String)
			t.ShippingType = &st
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// ArchiveTask retires a task from the inventory. Tasks are never deleted;
// archiving is the only lifecycle transition. Fails with NotFound for an
// unknown id.
func (s *Store) ArchiveTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = 'ARCHIVED' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archive task: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive task: rows affected: %w", err)
	}
	if n == 0 {
		return &Error{Code: ErrCodeNotFound, Message: "task not found", Entity: "tasks"}
	}
	return nil
}
