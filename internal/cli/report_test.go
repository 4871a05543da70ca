package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/lifeos/internal/dayops"
)

func goldenTester(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderScorecard_Win(t *testing.T) {
	card := &dayops.Scorecard{
		Day:        "2026-01-05",
		Scored:     true,
		Status:     dayops.StatusWin,
		NPS:        90.0,
		Engine:     75.0,
		Vessel:     100.0,
		Resources:  100.0,
		System:     100.0,
		Multiplier: 1.0,
		ConfigID:   1,
		HitRate:    75.0,
	}

	goldenTester(t).Assert(t, "scorecard_win", []byte(renderScorecard(card)))
}

func TestRenderScorecard_VetoedDay(t *testing.T) {
	card := &dayops.Scorecard{
		Day:        "2026-01-09",
		Scored:     true,
		Status:     dayops.StatusFail,
		NPS:        0.0,
		Engine:     100.0,
		Vessel:     45.0,
		Resources:  100.0,
		System:     50.0,
		Multiplier: 0.0,
		ConfigID:   3,
		HitRate:    100.0,
	}

	goldenTester(t).Assert(t, "scorecard_vetoed", []byte(renderScorecard(card)))
}

func TestRenderScorecard_Unscored(t *testing.T) {
	card := &dayops.Scorecard{
		Day:    "2026-01-06",
		Status: dayops.StatusFail,
	}

	goldenTester(t).Assert(t, "scorecard_unscored", []byte(renderScorecard(card)))
}
