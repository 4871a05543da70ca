package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AppendLog writes the single immutable daily log for a day. A second
// submission fails with DuplicateLog, distinct from validation failures.
// Requires the day to be initialized (routed) first.
func (s *Store) AppendLog(ctx context.Context, log DailyLog, opToken string) error {
	if err := validateLog(log); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM daily_logs WHERE date = ?`, log.Day,
		).Scan(&exists)
		if err == nil {
			return &Error{Code: ErrCodeDuplicateLog, Message: "daily log already submitted; logs are immutable", Day: log.Day}
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check existing log: %w", err)
		}

		var configID int64
		err = tx.QueryRowContext(ctx,
			`SELECT config_id FROM daily_config_routing WHERE date = ?`, log.Day,
		).Scan(&configID)
		if errors.Is(err, sql.ErrNoRows) {
			return &Error{Code: ErrCodeReferentialError, Message: "day not initialized", Day: log.Day}
		}
		if err != nil {
			return fmt.Errorf("lookup routing: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_logs
			(date, morning_weight, sleep_score, alcohol_units, total_spend, screen_time_mins, manual_notes)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			log.Day,
			log.MorningWeight,
			log.SleepScore,
			log.AlcoholUnits,
			log.TotalSpend,
			log.ScreenTimeMins,
			log.ManualNotes,
		); err != nil {
			return fmt.Errorf("append daily log: %w", classify(err))
		}

		return appendAuditTx(ctx, tx, AuditEvent{
			Day:       log.Day,
			ConfigID:  configID,
			OpToken:   opToken,
			EventType: EventLogSubmitted,
			Severity:  2,
		})
	})
}

// validateLog runs field-level checks before insert so constraint errors
// carry the offending field name. The schema CHECKs remain the backstop.
func validateLog(log DailyLog) error {
	if _, err := ParseDay(log.Day); err != nil {
		return &Error{Code: ErrCodeConstraintViolation, Message: "invalid day key", Field: "date", Day: log.Day}
	}
	if log.SleepScore < 0 || log.SleepScore > 100 {
		return &Error{Code: ErrCodeConstraintViolation, Message: "sleep score must be in 0-100", Field: "sleep_score", Day: log.Day}
	}
	if log.AlcoholUnits < 0 {
		return &Error{Code: ErrCodeConstraintViolation, Message: "alcohol units must be >= 0", Field: "alcohol_units", Day: log.Day}
	}
	if log.TotalSpend < 0 {
		return &Error{Code: ErrCodeConstraintViolation, Message: "total spend must be >= 0", Field: "total_spend", Day: log.Day}
	}
	if log.ScreenTimeMins < 0 {
		return &Error{Code: ErrCodeConstraintViolation, Message: "screen time must be >= 0", Field: "screen_time_mins", Day: log.Day}
	}
	if log.MorningWeight != nil && *log.MorningWeight <= 0 {
		return &Error{Code: ErrCodeConstraintViolation, Message: "morning weight must be > 0", Field: "morning_weight", Day: log.Day}
	}
	return nil
}

// GetLog returns the day's log, or nil when none has been submitted.
func (s *Store) GetLog(ctx context.Context, day string) (*DailyLog, error) {
	var log DailyLog
	err := s.db.QueryRowContext(ctx, `
		SELECT date, morning_weight, sleep_score, alcohol_units, total_spend,
		       screen_time_mins, COALESCE(manual_notes, ''), created_at
		FROM daily_logs WHERE date = ?
	`, day).Scan(
		&log.Day,
		&log.MorningWeight,
		&log.SleepScore,
		&log.AlcoholUnits,
		&log.TotalSpend,
		&log.ScreenTimeMins,
		&log.ManualNotes,
		&log.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query daily log: %w", err)
	}
	return &log, nil
}

// LogExists reports whether a log has been submitted for the day.
func (s *Store) LogExists(ctx context.Context, day string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM daily_logs WHERE date = ?`, day).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check log: %w", err)
	}
	return true, nil
}
