package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// standardWeights are the genesis weight split used across scenarios.
var standardWeights = Weights{Engine: 0.4, Vessel: 0.3, Resources: 0.2, System: 0.1}

// standardVetoes: zero tolerance on alcohol, sleep floor at 50 (5 on the
// 0-10 scale).
var standardVetoes = Vetoes{AlcoholUnits: 0, SleepMin: 5, MissedLogs: 1}

// TestCompute_PartialPlan covers a clean day with 3 of 4 tasks complete.
func TestCompute_PartialPlan(t *testing.T) {
	facts := Facts{SleepScore: 80}
	plan := PlanFacts{Total: 4, Complete: 3}

	r := Compute(facts, plan, standardWeights, standardVetoes)

	assert.Equal(t, 75.0, r.Engine)
	assert.Equal(t, 100.0, r.Vessel)
	assert.Equal(t, 100.0, r.Resources)
	assert.Equal(t, 100.0, r.System)
	assert.Equal(t, 1.0, r.Multiplier)
	assert.InDelta(t, 90.0, r.Final, 1e-9)
}

// TestCompute_DegradedDay covers sleep decay, overspend and excess screen
// time without tripping any veto.
func TestCompute_DegradedDay(t *testing.T) {
	facts := Facts{
		SleepScore:     60, // 20-point vessel decay
		TotalSpend:     80, // over the spend ceiling
		ScreenTimeMins: 200,
	}
	plan := PlanFacts{Total: 2, Complete: 2}

	r := Compute(facts, plan, standardWeights, standardVetoes)

	assert.Equal(t, 100.0, r.Engine)
	assert.Equal(t, 80.0, r.Vessel)
	assert.Equal(t, 50.0, r.Resources)
	assert.Equal(t, 50.0, r.System)
	assert.Equal(t, 1.0, r.Multiplier)
	// 100*.4 + 80*.3 + 50*.2 + 50*.1 = 84
	assert.InDelta(t, 84.0, r.Raw, 1e-9)
	assert.InDelta(t, 84.0, r.Final, 1e-9)
}

// TestCompute_AlcoholVeto proves a single unit zeroes the day regardless of
// every other score.
func TestCompute_AlcoholVeto(t *testing.T) {
	facts := Facts{SleepScore: 95, AlcoholUnits: 1}
	plan := PlanFacts{Total: 3, Complete: 3}

	r := Compute(facts, plan, standardWeights, standardVetoes)

	assert.Equal(t, 0.0, r.Multiplier)
	assert.Equal(t, 0.0, r.Final)
	assert.Greater(t, r.Raw, 0.0, "raw score survives for the audit trail")
}

func TestCompute_SleepVetoHalves(t *testing.T) {
	facts := Facts{SleepScore: 40} // below 5*10
	plan := PlanFacts{Total: 1, Complete: 1}

	r := Compute(facts, plan, standardWeights, standardVetoes)

	assert.Equal(t, 0.5, r.Multiplier)
	assert.InDelta(t, r.Raw*0.5, r.Final, 1e-9)
}

// TestCompute_BothVetoes: when alcohol and sleep both trigger, the stricter
// multiplier wins.
func TestCompute_BothVetoes(t *testing.T) {
	facts := Facts{SleepScore: 30, AlcoholUnits: 3}

	r := Compute(facts, PlanFacts{}, standardWeights, standardVetoes)

	assert.Equal(t, 0.0, r.Multiplier)
	assert.Equal(t, 0.0, r.Final)
}

func TestCompute_EmptyPlanScoresZeroEngine(t *testing.T) {
	facts := Facts{SleepScore: 90}

	r := Compute(facts, PlanFacts{}, standardWeights, standardVetoes)

	assert.Equal(t, 0.0, r.Engine)
	// 0*.4 + 100*.3 + 100*.2 + 100*.1 = 60
	assert.InDelta(t, 60.0, r.Final, 1e-9)
}

func TestVesselScore_ClampsAtZero(t *testing.T) {
	// Sleep 5 -> 130-point decay, plus the 50-point alcohol penalty
	facts := Facts{SleepScore: 5, AlcoholUnits: 1}

	r := Compute(facts, PlanFacts{}, standardWeights, Vetoes{AlcoholUnits: 5, SleepMin: 0})

	assert.Equal(t, 0.0, r.Vessel)
}

func TestVesselScore_DecayBoundary(t *testing.T) {
	// Exactly at the threshold: no decay
	r := Compute(Facts{SleepScore: 70}, PlanFacts{}, standardWeights, standardVetoes)
	assert.Equal(t, 100.0, r.Vessel)

	// One below: 2-point decay
	r = Compute(Facts{SleepScore: 69}, PlanFacts{}, standardWeights, standardVetoes)
	assert.Equal(t, 98.0, r.Vessel)
}

func TestBinaryThresholds_Boundaries(t *testing.T) {
	// Exactly at the ceiling is fine; one over is not
	r := Compute(Facts{SleepScore: 80, TotalSpend: 50.0, ScreenTimeMins: 120}, PlanFacts{}, standardWeights, standardVetoes)
	assert.Equal(t, 100.0, r.Resources)
	assert.Equal(t, 100.0, r.System)

	r = Compute(Facts{SleepScore: 80, TotalSpend: 50.01, ScreenTimeMins: 121}, PlanFacts{}, standardWeights, standardVetoes)
	assert.Equal(t, 50.0, r.Resources)
	assert.Equal(t, 50.0, r.System)
}

// TestCompute_Deterministic: identical inputs always produce identical
// results - the recomputation guarantee the ledger depends on.
func TestCompute_Deterministic(t *testing.T) {
	facts := Facts{SleepScore: 64, AlcoholUnits: 0, TotalSpend: 49.99, ScreenTimeMins: 119}
	plan := PlanFacts{Total: 5, Complete: 2}

	first := Compute(facts, plan, standardWeights, standardVetoes)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(facts, plan, standardWeights, standardVetoes))
	}
}
