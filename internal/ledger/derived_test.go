package ledger

import (
	"context"
	"testing"
)

func TestScoreDay_NoLogYet(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, "2026-01-05")

	_, err := s.ScoreDay(context.Background(), "2026-01-05", "op-1")
	if !IsNoLogYet(err) {
		t.Errorf("ScoreDay() before log: got %v, want NO_LOG_YET", err)
	}
}

func TestScoreDay_ComputesWeightedScore(t *testing.T) {
	s := createTestStore(t)
	configID := seedStore(t, s, "2026-01-05")
	ctx := context.Background()

	// 3 of 4 planned tasks complete
	var tasks []int64
	for _, title := range []string{"a", "b", "c", "d"} {
		id := createTestTask(t, s, title)
		if err := s.AddToPlan(ctx, "2026-01-05", id, false); err != nil {
			t.Fatalf("AddToPlan() failed: %v", err)
		}
		tasks = append(tasks, id)
	}
	for _, id := range tasks[:3] {
		if err := s.SetPlanStatus(ctx, "2026-01-05", id, CompletionComplete, nil); err != nil {
			t.Fatalf("SetPlanStatus() failed: %v", err)
		}
	}

	submitTestLog(t, s, "2026-01-05") // sleep 80, everything else clean

	score, err := s.ScoreDay(ctx, "2026-01-05", "op-score")
	if err != nil {
		t.Fatalf("ScoreDay() failed: %v", err)
	}

	// Genesis weights: .4/.3/.2/.1. 75*.4 + 100*.3 + 100*.2 + 100*.1 = 90.
	if score.ScoreEngine != 75.0 {
		t.Errorf("ScoreEngine = %v, want 75.0", score.ScoreEngine)
	}
	if score.ScoreVessel != 100.0 || score.ScoreResources != 100.0 || score.ScoreSystem != 100.0 {
		t.Errorf("clean day sub-scores = %v/%v/%v, want 100 each",
			score.ScoreVessel, score.ScoreResources, score.ScoreSystem)
	}
	if score.SafetyMultiplier != 1.0 {
		t.Errorf("SafetyMultiplier = %v, want 1.0", score.SafetyMultiplier)
	}
	if score.NPS != 90.0 {
		t.Errorf("NPS = %v, want 90.0", score.NPS)
	}
	if score.ConfigID != configID {
		t.Errorf("ConfigID = %d, want %d", score.ConfigID, configID)
	}
}

func TestScoreDay_AlcoholVetoZeroesScore(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, "2026-01-05")
	ctx := context.Background()

	log := DailyLog{Day: "2026-01-05", SleepScore: 95, AlcoholUnits: 2}
	if err := s.AppendLog(ctx, log, "op-log"); err != nil {
		t.Fatalf("AppendLog() failed: %v", err)
	}

	score, err := s.ScoreDay(ctx, "2026-01-05", "op-score")
	if err != nil {
		t.Fatalf("ScoreDay() failed: %v", err)
	}
	if score.SafetyMultiplier != 0.0 {
		t.Errorf("SafetyMultiplier = %v, want 0.0", score.SafetyMultiplier)
	}
	if score.NPS != 0.0 {
		t.Errorf("NPS = %v, want 0.0 under alcohol veto", score.NPS)
	}
}

func TestScoreDay_RecomputationAppends(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, "2026-01-05")
	ctx := context.Background()

	submitTestLog(t, s, "2026-01-05")

	first, err := s.ScoreDay(ctx, "2026-01-05", "op-1")
	if err != nil {
		t.Fatalf("first ScoreDay() failed: %v", err)
	}

	// Plan changes after the first computation; re-scoring reflects it
	taskID := createTestTask(t, s, "late addition")
	if err := s.AddToPlan(ctx, "2026-01-05", taskID, false); err != nil {
		t.Fatalf("AddToPlan() failed: %v", err)
	}
	if err := s.SetPlanStatus(ctx, "2026-01-05", taskID, CompletionComplete, nil); err != nil {
		t.Fatalf("SetPlanStatus() failed: %v", err)
	}

	second, err := s.ScoreDay(ctx, "2026-01-05", "op-2")
	if err != nil {
		t.Fatalf("second ScoreDay() failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("recomputation id %d not after %d", second.ID, first.ID)
	}

	// Latest follows the highest id
	latest, err := s.LatestScore(ctx, "2026-01-05")
	if err != nil {
		t.Fatalf("LatestScore() failed: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Errorf("latest = %+v, want id %d", latest, second.ID)
	}

	history, err := s.ScoreHistory(ctx, "2026-01-05")
	if err != nil {
		t.Fatalf("ScoreHistory() failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d rows, want 2", len(history))
	}
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Errorf("history order = [%d %d], want [%d %d]",
			history[0].ID, history[1].ID, first.ID, second.ID)
	}
}

func TestLatestScore_UnscoredDay(t *testing.T) {
	s := createTestStore(t)

	score, err := s.LatestScore(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("LatestScore() failed: %v", err)
	}
	if score != nil {
		t.Errorf("expected nil for unscored day, got %+v", score)
	}
}

func TestScoreDay_WritesAuditEvent(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, "2026-01-05")
	ctx := context.Background()

	submitTestLog(t, s, "2026-01-05")
	if _, err := s.ScoreDay(ctx, "2026-01-05", "op-judge"); err != nil {
		t.Fatalf("ScoreDay() failed: %v", err)
	}

	events, err := s.AuditTrail(ctx, "2026-01-05")
	if err != nil {
		t.Fatalf("AuditTrail() failed: %v", err)
	}

	// seed + log + score
	var found bool
	for _, ev := range events {
		if ev.EventType == EventScoreComputed && ev.OpToken == "op-judge" {
			found = true
		}
	}
	if !found {
		t.Errorf("no SCORE_COMPUTED event with the op token; trail = %+v", events)
	}
}
