package scoring

// Weights assigns a non-negative weight to each scoring domain. Weights are
// expected to sum to 1.0; the registry warns when they do not, but nothing
// enforces it mechanically.
type Weights struct {
	Engine    float64 `json:"engine" yaml:"engine"`
	Vessel    float64 `json:"vessel" yaml:"vessel"`
	Resources float64 `json:"resources" yaml:"resources"`
	System    float64 `json:"system" yaml:"system"`
}

// Vetoes holds the hard safety limits. SleepMin is on a 0-10 scale and is
// compared against the 0-100 sleep score via a x10 reconciliation.
type Vetoes struct {
	AlcoholUnits int `json:"alcohol_units" yaml:"alcohol_units"`
	SleepMin     int `json:"sleep_min" yaml:"sleep_min"`
	MissedLogs   int `json:"missed_logs" yaml:"missed_logs"`
}

// Facts are the raw metrics from the day's immutable log.
type Facts struct {
	SleepScore     int
	AlcoholUnits   int
	TotalSpend     float64
	ScreenTimeMins int
}

// PlanFacts summarize the day's plan completion.
type PlanFacts struct {
	Total    int
	Complete int
}

// Result is one scoring computation. Domain scores are in [0,100]; the
// safety multiplier is exactly one of 0.0, 0.5 or 1.0.
type Result struct {
	Engine     float64
	Vessel     float64
	Resources  float64
	System     float64
	Raw        float64
	Multiplier float64
	Final      float64
}

// Spend and screen-time scoring are deliberately coarse binary thresholds
// (v0.1 policy).
const (
	spendCeiling      = 50.0
	screenCeilingMins = 120
)

// Compute derives a day's score from its facts and the rules that governed
// it. Pure function: no I/O, no clock.
func Compute(f Facts, p PlanFacts, w Weights, v Vetoes) Result {
	r := Result{
		Engine:    engineScore(p),
		Vessel:    vesselScore(f),
		Resources: resourcesScore(f),
		System:    systemScore(f),
	}

	r.Raw = r.Engine*w.Engine + r.Vessel*w.Vessel + r.Resources*w.Resources + r.System*w.System
	r.Multiplier = safetyMultiplier(f, v)
	r.Final = r.Raw * r.Multiplier
	return r
}

// engineScore is the plan hit rate: percentage of entries COMPLETE,
// 0 when no entries exist.
func engineScore(p PlanFacts) float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Complete) / float64(p.Total) * 100.0
}

// vesselScore starts at 100, decays 2 points per sleep-score point below
// 70, takes a flat 50-point penalty for any alcohol, and clamps at 0.
func vesselScore(f Facts) float64 {
	score := 100.0
	if f.SleepScore < 70 {
		score -= float64(70-f.SleepScore) * 2
	}
	if f.AlcoholUnits > 0 {
		score -= 50
	}
	if score < 0 {
		score = 0
	}
	return score
}

func resourcesScore(f Facts) float64 {
	if f.TotalSpend > spendCeiling {
		return 50.0
	}
	return 100.0
}

func systemScore(f Facts) float64 {
	if f.ScreenTimeMins > screenCeilingMins {
		return 50.0
	}
	return 100.0
}

// safetyMultiplier evaluates both veto checks unconditionally and keeps
// the minimum triggered multiplier: an alcohol veto (0.0) is never
// weakened by a concurrent sleep veto (0.5).
func safetyMultiplier(f Facts, v Vetoes) float64 {
	mult := 1.0
	if f.AlcoholUnits > v.AlcoholUnits {
		mult = min(mult, 0.0)
	}
	if f.SleepScore < v.SleepMin*10 {
		mult = min(mult, 0.5)
	}
	return mult
}
