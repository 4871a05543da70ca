package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// StartSessionParams describe a new focus session.
type StartSessionParams struct {
	TaskID  *int64
	Type    SessionType
	StartTS int64
}

// StartSession opens a new work session and returns its id. The focus lock
// (at most one open session system-wide) is enforced by the insert trigger,
// inside the same transaction as the insert - a concurrent caller cannot
// slip past it. Fails with FocusLockActive when a session is already open.
func (s *Store) StartSession(ctx context.Context, p StartSessionParams) (int64, error) {
	if !p.Type.Valid() {
		return 0, &Error{Code: ErrCodeConstraintViolation, Message: "unknown session type", Field: "session_type"}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO work_sessions (task_id, start_ts, session_type)
		VALUES (?, ?, ?)
	`, p.TaskID, p.StartTS, p.Type)
	if err != nil {
		return 0, fmt.Errorf("start session: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("start session: last insert id: %w", err)
	}
	return id, nil
}

// CloseSession performs the only permitted mutation on a work session: the
// open->closed transition. End time, duration and evidence are persisted
// atomically in one statement; the validate_session_close trigger rejects
// everything else. Duration is whole minutes, floor-divided from elapsed
// seconds.
//
// Fails with SessionNotFound for an unknown id and SessionAlreadyClosed
// when the end time is already set.
func (s *Store) CloseSession(ctx context.Context, id, endTS int64, evidenceURL *string) (int64, error) {
	var duration int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var startTS int64
		var closedEnd *int64
		err := tx.QueryRowContext(ctx,
			`SELECT start_ts, end_ts FROM work_sessions WHERE id = ?`, id,
		).Scan(&startTS, &closedEnd)
		if errors.Is(err, sql.ErrNoRows) {
			return &Error{Code: ErrCodeSessionNotFound, Message: "session not found", Entity: "work_sessions"}
		}
		if err != nil {
			return fmt.Errorf("lookup session: %w", err)
		}
		if closedEnd != nil {
			return &Error{Code: ErrCodeSessionAlreadyClosed, Message: "session is already closed", Entity: "work_sessions"}
		}
		if endTS < startTS {
			return &Error{Code: ErrCodeConstraintViolation, Message: "end time precedes start time", Field: "end_ts"}
		}

		duration = (endTS - startTS) / 60

		if _, err := tx.ExecContext(ctx, `
			UPDATE work_sessions
			SET end_ts = ?, duration_minutes = ?, evidence_url = ?
			WHERE id = ?
		`, endTS, duration, evidenceURL, id); err != nil {
			return fmt.Errorf("close session: %w", classify(err))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return duration, nil
}

// ActiveSession returns the single open session, or nil when none is open.
func (s *Store) ActiveSession(ctx context.Context) (*WorkSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, start_ts, end_ts, duration_minutes, session_type, evidence_url
		FROM work_sessions WHERE end_ts IS NULL LIMIT 1
	`)
	sess, err := scanSession(row)
	if err != nil {
		var le *Error
		if errors.As(err, &le) && le.Code == ErrCodeSessionNotFound {
			return nil, nil
		}
		return nil, err
	}
	return sess, nil
}

// GetSession retrieves a session by id. Fails with SessionNotFound.
func (s *Store) GetSession(ctx context.Context, id int64) (*WorkSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, start_ts, end_ts, duration_minutes, session_type, evidence_url
		FROM work_sessions WHERE id = ?
	`, id)
	return scanSession(row)
}

// RecentSessions returns the last n sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, n int) ([]WorkSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, start_ts, end_ts, duration_minutes, session_type, evidence_url
		FROM work_sessions ORDER BY id DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []WorkSession
	for rows.Next() {
		var sess WorkSession
		var evidence sql.NullString
		if err := rows.Scan(&sess.ID, &sess.TaskID, &sess.StartTS, &sess.EndTS,
			&sess.DurationMinutes, &sess.Type, &evidence); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if evidence.Valid {
			sess.EvidenceURL = &evidence.String
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	if sessions == nil {
		sessions = []WorkSession{}
	}
	return sessions, nil
}

func scanSession(row *sql.Row) (*WorkSession, error) {
	var sess WorkSession
	var evidence sql.NullString
	err := row.Scan(&sess.ID, &sess.TaskID, &sess.StartTS, &sess.EndTS,
		&sess.DurationMinutes, &sess.Type, &evidence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &Error{Code: ErrCodeSessionNotFound, Message: "session not found", Entity: "work_sessions"}
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if evidence.Valid {
		sess.EvidenceURL = &evidence.String
	}
	return &sess, nil
}
