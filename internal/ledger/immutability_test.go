package ledger

import (
	"context"
	"testing"
)

// The schema triggers are the actual enforcement for append-only tables;
// these tests hit them with raw SQL to prove no code path can slip past.

func TestImmutability_DailyLogs(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, "2026-01-05")
	submitTestLog(t, s, "2026-01-05")

	_, err := s.db.Exec(`UPDATE daily_logs SET sleep_score = 10 WHERE date = '2026-01-05'`)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("UPDATE daily_logs: got %v, want immutability violation", err)
	}

	_, err = s.db.Exec(`DELETE FROM daily_logs WHERE date = '2026-01-05'`)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("DELETE daily_logs: got %v, want immutability violation", err)
	}

	// Row must be untouched
	log, err := s.GetLog(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("GetLog() failed: %v", err)
	}
	if log == nil || log.SleepScore != 80 {
		t.Errorf("log mutated despite rejection: %+v", log)
	}
}

func TestImmutability_SystemConfig(t *testing.T) {
	s := createTestStore(t)
	configID := seedStore(t, s, "2026-01-05")

	_, err := s.db.Exec(`UPDATE system_config SET version_name = 'hacked' WHERE id = ?`, configID)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("UPDATE system_config: got %v, want immutability violation", err)
	}

	_, err = s.db.Exec(`DELETE FROM system_config WHERE id = ?`, configID)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("DELETE system_config: got %v, want immutability violation", err)
	}

	cfg, err := s.GetConfig(context.Background(), configID)
	if err != nil {
		t.Fatalf("GetConfig() failed: %v", err)
	}
	if cfg.VersionName != "v1.0 Genesis" {
		t.Errorf("config mutated despite rejection: %q", cfg.VersionName)
	}
}

func TestImmutability_ConfigRouting(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, "2026-01-05")

	_, err := s.db.Exec(`UPDATE daily_config_routing SET config_id = 999 WHERE date = '2026-01-05'`)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("UPDATE daily_config_routing: got %v, want immutability violation", err)
	}

	_, err = s.db.Exec(`DELETE FROM daily_config_routing WHERE date = '2026-01-05'`)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("DELETE daily_config_routing: got %v, want immutability violation", err)
	}
}

func TestImmutability_AuditEvents(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, "2026-01-05")

	// SeedDay wrote one audit event
	_, err := s.db.Exec(`UPDATE audit_events SET event_type = 'FORGED'`)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("UPDATE audit_events: got %v, want immutability violation", err)
	}

	_, err = s.db.Exec(`DELETE FROM audit_events`)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("DELETE audit_events: got %v, want immutability violation", err)
	}
}

func TestImmutability_DerivedLog(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, "2026-01-05")
	submitTestLog(t, s, "2026-01-05")

	if _, err := s.ScoreDay(context.Background(), "2026-01-05", "op-score"); err != nil {
		t.Fatalf("ScoreDay() failed: %v", err)
	}

	_, err := s.db.Exec(`UPDATE daily_derived_log SET nps_score = 100.0`)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("UPDATE daily_derived_log: got %v, want immutability violation", err)
	}

	_, err = s.db.Exec(`DELETE FROM daily_derived_log`)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("DELETE daily_derived_log: got %v, want immutability violation", err)
	}
}

func TestImmutability_WorkSessionDelete(t *testing.T) {
	s := createTestStore(t)

	id, err := s.StartSession(context.Background(), StartSessionParams{Type: SessionDeep, StartTS: 1000})
	if err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	_, err = s.db.Exec(`DELETE FROM work_sessions WHERE id = ?`, id)
	if !IsImmutabilityViolation(classify(err)) {
		t.Errorf("DELETE work_sessions: got %v, want immutability violation", err)
	}
}
