package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lifeos/internal/config"
)

// PublishConfig validates and appends a new scoring config version and
// returns its id. Versions are never overwritten; a published config is
// permanent.
func (s *Store) PublishConfig(ctx context.Context, doc config.Document) (int64, error) {
	if err := doc.Validate(); err != nil {
		return 0, &Error{Code: ErrCodeConstraintViolation, Message: err.Error(), Entity: "system_config"}
	}

	weights, vetoes, locks, err := doc.Payloads()
	if err != nil {
		return 0, fmt.Errorf("publish config: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO system_config
		(version_name, season_mode_default, nps_weights, veto_thresholds, lock_settings, change_log_note)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		doc.VersionName,
		doc.SeasonMode,
		weights,
		vetoes,
		locks,
		doc.ChangeLogNote,
	)
	if err != nil {
		return 0, fmt.Errorf("publish config: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("publish config: last insert id: %w", err)
	}
	return id, nil
}

// RouteResult reports what RouteDay did.
type RouteResult struct {
	ConfigID int64

	// InheritedFrom is the prior day whose routing was carried forward.
	// Empty when the day was already routed.
	InheritedFrom string

	// Routed is true when a new routing pin was written, false when the
	// day already had one (no-op).
	Routed bool
}

// RouteDay pins day to the config version governing it. If the day is
// already routed this is a no-op: the pin can never change retroactively.
// Otherwise the most recent routing strictly before day is carried forward,
// a daily_state row is created, and the initialization is audited - all in
// one transaction.
//
// Returns NoConfigHistory when no prior routing exists at all; the registry
// must be seeded once (see SeedDay) before first use.
func (s *Store) RouteDay(ctx context.Context, day, opToken string) (RouteResult, error) {
	if _, err := ParseDay(day); err != nil {
		return RouteResult{}, &Error{Code: ErrCodeConstraintViolation, Message: "invalid day key", Field: "date", Day: day}
	}

	var result RouteResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRowContext(ctx,
			`SELECT config_id FROM daily_config_routing WHERE date = ?`, day,
		).Scan(&existing)
		if err == nil {
			result = RouteResult{ConfigID: existing, Routed: false}
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lookup routing: %w", err)
		}

		var prevConfig int64
		var prevDay string
		err = tx.QueryRowContext(ctx, `
			SELECT config_id, date FROM daily_config_routing
			WHERE date < ? ORDER BY date DESC LIMIT 1
		`, day).Scan(&prevConfig, &prevDay)
		if errors.Is(err, sql.ErrNoRows) {
			return &Error{Code: ErrCodeNoConfigHistory, Message: "no config history before day; seed the registry first", Day: day}
		}
		if err != nil {
			return fmt.Errorf("lookup prior routing: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO daily_state (date, active_mode, trigger_reason, override_note)
			VALUES (?, 'WIN', 'NONE', 'Auto-initialized')
		`, day); err != nil {
			return fmt.Errorf("insert daily state: %w", classify(err))
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_config_routing (date, config_id) VALUES (?, ?)
		`, day, prevConfig); err != nil {
			return fmt.Errorf("insert routing: %w", classify(err))
		}

		if err := appendAuditTx(ctx, tx, AuditEvent{
			Day:       day,
			ConfigID:  prevConfig,
			OpToken:   opToken,
			EventType: EventDayInitialized,
			Severity:  1,
			UserInput: "inherited from " + prevDay,
		}); err != nil {
			return err
		}

		result = RouteResult{ConfigID: prevConfig, InheritedFrom: prevDay, Routed: true}
		return nil
	})
	if err != nil {
		return RouteResult{}, err
	}
	return result, nil
}

// SeedDay pins the very first day to an explicitly chosen config version.
// Used once at bootstrap, when no routing history exists to carry forward.
func (s *Store) SeedDay(ctx context.Context, day string, configID int64, opToken string) error {
	if _, err := ParseDay(day); err != nil {
		return &Error{Code: ErrCodeConstraintViolation, Message: "invalid day key", Field: "date", Day: day}
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO daily_state (date, active_mode, trigger_reason, override_note)
			VALUES (?, 'WIN', 'NONE', 'Day 1')
		`, day); err != nil {
			return fmt.Errorf("insert daily state: %w", classify(err))
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO daily_config_routing (date, config_id) VALUES (?, ?)
		`, day, configID); err != nil {
			return fmt.Errorf("seed routing: %w", classify(err))
		}

		return appendAuditTx(ctx, tx, AuditEvent{
			Day:       day,
			ConfigID:  configID,
			OpToken:   opToken,
			EventType: EventDayInitialized,
			Severity:  1,
			UserInput: "seeded",
		})
	})
}

// RoutingFor returns the routing pin for a day, or nil when the day has
// not been initialized.
func (s *Store) RoutingFor(ctx context.Context, day string) (*Routing, error) {
	var r Routing
	err := s.db.QueryRowContext(ctx,
		`SELECT date, config_id FROM daily_config_routing WHERE date = ?`, day,
	).Scan(&r.Day, &r.ConfigID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query routing: %w", err)
	}
	return &r, nil
}

// GetConfig retrieves a stored config version by id.
func (s *Store) GetConfig(ctx context.Context, id int64) (*ConfigRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, version_name, season_mode_default,
		       nps_weights, veto_thresholds, lock_settings, COALESCE(change_log_note, '')
		FROM system_config WHERE id = ?
	`, id)
	return scanConfig(row)
}

// ConfigForDay returns the config version routed to a day. Returns a
// ReferentialError when the day has no routing pin.
func (s *Store) ConfigForDay(ctx context.Context, day string) (*ConfigRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT sc.id, sc.created_at, sc.version_name, sc.season_mode_default,
		       sc.nps_weights, sc.veto_thresholds, sc.lock_settings, COALESCE(sc.change_log_note, '')
		FROM daily_config_routing dcr
		JOIN system_config sc ON dcr.config_id = sc.id
		WHERE dcr.date = ?
	`, day)
	cfg, err := scanConfig(row)
	if err != nil {
		var le *Error
		if errors.As(err, &le) && le.Code == ErrCodeNotFound {
			return nil, &Error{Code: ErrCodeReferentialError, Message: "day has no config routing", Day: day}
		}
		return nil, err
	}
	return cfg, nil
}

func scanConfig(row *sql.Row) (*ConfigRecord, error) {
	var c ConfigRecord
	err := row.Scan(&c.ID, &c.CreatedAt, &c.VersionName, &c.SeasonMode,
		&c.WeightsJSON, &c.VetoesJSON, &c.LocksJSON, &c.ChangeLogNote)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &Error{Code: ErrCodeNotFound, Message: "config version not found", Entity: "system_config"}
	}
	if err != nil {
		return nil, fmt.Errorf("scan config: %w", err)
	}
	return &c, nil
}
