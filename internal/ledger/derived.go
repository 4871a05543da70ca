package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lifeos/internal/config"
	"github.com/roach88/lifeos/internal/scoring"
)

// ScoreDay runs the Judge for a day and appends the result. Everything
// happens in one transaction: the log, routed config and plan stats are
// read, the score is computed, and exactly one derived row plus its audit
// entry are inserted - or nothing is.
//
// Fails with NoLogYet when the day has no log, and ReferentialError when
// the day was never routed. Re-invocation appends a new row; the highest
// id stays authoritative.
func (s *Store) ScoreDay(ctx context.Context, day, opToken string) (*DerivedScore, error) {
	var score *DerivedScore
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var facts scoring.Facts
		var weight sql.NullFloat64
		err := tx.QueryRowContext(ctx, `
			SELECT morning_weight, sleep_score, alcohol_units, total_spend, screen_time_mins
			FROM daily_logs WHERE date = ?
		`, day).Scan(&weight, &facts.SleepScore, &facts.AlcoholUnits, &facts.TotalSpend, &facts.ScreenTimeMins)
		if errors.Is(err, sql.ErrNoRows) {
			return &Error{Code: ErrCodeNoLogYet, Message: "no daily log submitted yet; cannot score an un-debriefed day", Day: day}
		}
		if err != nil {
			return fmt.Errorf("read daily log: %w", err)
		}

		var configID int64
		var weightsJSON, vetoesJSON string
		err = tx.QueryRowContext(ctx, `
			SELECT sc.id, sc.nps_weights, sc.veto_thresholds
			FROM daily_config_routing dcr
			JOIN system_config sc ON dcr.config_id = sc.id
			WHERE dcr.date = ?
		`, day).Scan(&configID, &weightsJSON, &vetoesJSON)
		if errors.Is(err, sql.ErrNoRows) {
			return &Error{Code: ErrCodeReferentialError, Message: "day has no config routing", Day: day}
		}
		if err != nil {
			return fmt.Errorf("read routed config: %w", err)
		}

		weights, vetoes, err := config.ParsePayloads(weightsJSON, vetoesJSON)
		if err != nil {
			return fmt.Errorf("parse config payloads: %w", err)
		}

		var plan scoring.PlanFacts
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*),
			       COALESCE(SUM(CASE WHEN completion_status = 'COMPLETE' THEN 1 ELSE 0 END), 0)
			FROM daily_plan WHERE date = ?
		`, day).Scan(&plan.Total, &plan.Complete)
		if err != nil {
			return fmt.Errorf("read plan stats: %w", err)
		}

		result := scoring.Compute(facts, plan, weights, vetoes)

		res, err := tx.ExecContext(ctx, `
			INSERT INTO daily_derived_log
			(date, config_id, score_engine, score_vessel, score_resources, score_system, nps_score, safety_multiplier)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			day,
			configID,
			clampScore(result.Engine),
			clampScore(result.Vessel),
			clampScore(result.Resources),
			clampScore(result.System),
			result.Final,
			result.Multiplier,
		)
		if err != nil {
			return fmt.Errorf("append derived score: %w", classify(err))
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("append derived score: last insert id: %w", err)
		}

		score = &DerivedScore{}
		err = tx.QueryRowContext(ctx, `
			SELECT id, date, config_id, computed_at, score_engine, score_vessel,
			       score_resources, score_system, nps_score, safety_multiplier
			FROM daily_derived_log WHERE id = ?
		`, id).Scan(&score.ID, &score.Day, &score.ConfigID, &score.ComputedAt,
			&score.ScoreEngine, &score.ScoreVessel, &score.ScoreResources,
			&score.ScoreSystem, &score.NPS, &score.SafetyMultiplier)
		if err != nil {
			return fmt.Errorf("read back derived score: %w", err)
		}

		return appendAuditTx(ctx, tx, AuditEvent{
			Day:       day,
			ConfigID:  configID,
			OpToken:   opToken,
			EventType: EventScoreComputed,
			Severity:  1,
		})
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

// clampScore keeps a domain sub-score inside the stored [0,100] range.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// LatestScore returns the authoritative derived score for a day - the row
// with the highest insertion id - or nil when the day has never been
// scored.
func (s *Store) LatestScore(ctx context.Context, day string) (*DerivedScore, error) {
	var score DerivedScore
	err := s.db.QueryRowContext(ctx, `
		SELECT id, date, config_id, computed_at, score_engine, score_vessel,
		       score_resources, score_system, nps_score, safety_multiplier
		FROM daily_derived_latest WHERE date = ?
	`, day).Scan(&score.ID, &score.Day, &score.ConfigID, &score.ComputedAt,
		&score.ScoreEngine, &score.ScoreVessel, &score.ScoreResources,
		&score.ScoreSystem, &score.NPS, &score.SafetyMultiplier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest score: %w", err)
	}
	return &score, nil
}

// ScoreHistory returns every derived score recorded for a day in insertion
// order - the full recomputation audit trail.
func (s *Store) ScoreHistory(ctx context.Context, day string) ([]DerivedScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, config_id, computed_at, score_engine, score_vessel,
		       score_resources, score_system, nps_score, safety_multiplier
		FROM daily_derived_log WHERE date = ?
		ORDER BY id ASC
	`, day)
	if err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()

	var scores []DerivedScore
	for rows.Next() {
		var sc DerivedScore
		if err := rows.Scan(&sc.ID, &sc.Day, &sc.ConfigID, &sc.ComputedAt,
			&sc.ScoreEngine, &sc.ScoreVessel, &sc.ScoreResources,
			&sc.ScoreSystem, &sc.NPS, &sc.SafetyMultiplier); err != nil {
			return nil, fmt.Errorf("scan derived score: %w", err)
		}
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate derived scores: %w", err)
	}

	if scores == nil {
		scores = []DerivedScore{}
	}
	return scores, nil
}
