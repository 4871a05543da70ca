package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/lifeos/internal/config"
)

// createTestStore creates a fresh on-disk store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedStore publishes the genesis config and pins day to it, returning the
// config id. Most operations require an initialized day.
func seedStore(t *testing.T, s *Store, day string) int64 {
	t.Helper()
	ctx := context.Background()

	configID, err := s.PublishConfig(ctx, config.Genesis())
	if err != nil {
		t.Fatalf("PublishConfig() failed: %v", err)
	}
	if err := s.SeedDay(ctx, day, configID, "op-seed"); err != nil {
		t.Fatalf("SeedDay() failed: %v", err)
	}
	return configID
}

// submitTestLog writes a minimal valid log for day.
func submitTestLog(t *testing.T, s *Store, day string) {
	t.Helper()
	log := DailyLog{
		Day:        day,
		SleepScore: 80,
	}
	if err := s.AppendLog(context.Background(), log, "op-log"); err != nil {
		t.Fatalf("AppendLog() failed: %v", err)
	}
}

// createTestTask adds a bare ENGINE task and returns its id.
func createTestTask(t *testing.T, s *Store, title string) int64 {
	t.Helper()
	id, err := s.CreateTask(context.Background(), DomainEngine, title, nil)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return id
}
