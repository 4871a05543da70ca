package ledger

import "time"

// Domain classifies tasks and scoring sub-scores.
type Domain string

const (
	DomainEngine    Domain = "ENGINE"
	DomainVessel    Domain = "VESSEL"
	DomainResources Domain = "RESOURCES"
	DomainSystem    Domain = "SYSTEM"
)

// Domains lists all task domains in scoring order.
var Domains = []Domain{DomainEngine, DomainVessel, DomainResources, DomainSystem}

// Valid reports whether d is one of the four fixed domains.
func (d Domain) Valid() bool {
	switch d {
	case DomainEngine, DomainVessel, DomainResources, DomainSystem:
		return true
	}
	return false
}

// ShippingType classifies how an ENGINE task ships. Only valid on ENGINE tasks.
type ShippingType string

const (
	ShippingInternal ShippingType = "INTERNAL"
	ShippingStaged   ShippingType = "STAGED"
	ShippingLive     ShippingType = "LIVE"
)

// Valid reports whether t is a known shipping type.
func (t ShippingType) Valid() bool {
	switch t {
	case ShippingInternal, ShippingStaged, ShippingLive:
		return true
	}
	return false
}

// TaskStatus is the task lifecycle state. Tasks are archived, never deleted.
type TaskStatus string

const (
	TaskOpen     TaskStatus = "OPEN"
	TaskArchived TaskStatus = "ARCHIVED"
)

// CompletionStatus tracks a plan entry's outcome. Plan entries are the one
// freely mutable entity in the model: they record intent, not facts.
type CompletionStatus string

const (
	CompletionPending  CompletionStatus = "PENDING"
	CompletionComplete CompletionStatus = "COMPLETE"
	CompletionFailed   CompletionStatus = "FAILED"
	CompletionDeferred CompletionStatus = "DEFERRED"
)

// Valid reports whether s is a known completion status.
func (s CompletionStatus) Valid() bool {
	switch s {
	case CompletionPending, CompletionComplete, CompletionFailed, CompletionDeferred:
		return true
	}
	return false
}

// SessionType distinguishes deep from shallow focus sessions.
type SessionType string

const (
	SessionDeep    SessionType = "DEEP"
	SessionShallow SessionType = "SHALLOW"
)

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	return t == SessionDeep || t == SessionShallow
}

// Mode is the per-day operating mode.
type Mode string

const (
	ModeWin       Mode = "WIN"
	ModeHold      Mode = "HOLD"
	ModeStabilize Mode = "STABILIZE"
)

// TriggerReason explains a non-WIN operating mode.
type TriggerReason string

const (
	TriggerNone            TriggerReason = "NONE"
	TriggerIllness         TriggerReason = "ILLNESS"
	TriggerTravel          TriggerReason = "TRAVEL"
	TriggerFamilyEmergency TriggerReason = "FAMILY_EMERGENCY"
	TriggerFailSlide       TriggerReason = "FAIL_SLIDE"
)

// DayFormat is the canonical calendar-day key format used by every
// date-keyed table.
const DayFormat = "2006-01-02"

// FormatDay renders t as a canonical day key.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// ParseDay parses a canonical day key.
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DayFormat, day)
}

// Task is mutable metadata, not a fact: created once, may be archived,
// never deleted.
type Task struct {
	ID           int64
	CreatedAt    int64
	Domain       Domain
	Title        string
	ShippingType *ShippingType
	Status       TaskStatus
}

// PlanEntry records commitment to work a task on a given day.
type PlanEntry struct {
	Day       string
	TaskID    int64
	PlannedAt int64
	Keystone  bool
	Status    CompletionStatus
	Notes     *string

	// Joined from tasks for display.
	Title  string
	Domain Domain
}

// PlanStats summarizes a day's plan completion.
type PlanStats struct {
	Total    int
	Complete int
}

// HitRate returns the percentage of plan entries completed, 0 when the
// plan is empty.
func (p PlanStats) HitRate() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Complete) / float64(p.Total) * 100.0
}

// WorkSession is a timed focus interval. An open session has a nil EndTS;
// once closed it is immutable.
type WorkSession struct {
	ID              int64
	TaskID          *int64
	StartTS         int64
	EndTS           *int64
	DurationMinutes *int64
	Type            SessionType
	EvidenceURL     *string
}

// Open reports whether the session has not been closed yet.
func (s WorkSession) Open() bool {
	return s.EndTS == nil
}

// DailyLog is the single immutable end-of-day metrics submission.
type DailyLog struct {
	Day            string
	MorningWeight  *float64
	SleepScore     int
	AlcoholUnits   int
	TotalSpend     float64
	ScreenTimeMins int
	ManualNotes    string
	CreatedAt      int64
}

// DayState is the per-day operating mode, created when a day is first
// initialized and read but never mutated by the core.
type DayState struct {
	Day          string
	Mode         Mode
	Trigger      TriggerReason
	OverrideNote string
}

// Routing pins a day to the config version that governs it. Set once,
// permanent.
type Routing struct {
	Day      string
	ConfigID int64
}

// ConfigRecord is a stored scoring configuration version. Payload columns
// hold the JSON documents validated at publish time.
type ConfigRecord struct {
	ID            int64
	CreatedAt     int64
	VersionName   string
	SeasonMode    string
	WeightsJSON   string
	VetoesJSON    string
	LocksJSON     string
	ChangeLogNote string
}

// DerivedScore is one immutable scoring computation. Multiple rows may
// exist per day; the highest id is authoritative.
type DerivedScore struct {
	ID               int64
	Day              string
	ConfigID         int64
	ComputedAt       int64
	ScoreEngine      float64
	ScoreVessel      float64
	ScoreResources   float64
	ScoreSystem      float64
	NPS              float64
	SafetyMultiplier float64
}

// AuditEvent is one append-only trail entry. OpToken correlates every row
// written by a single logical operation.
type AuditEvent struct {
	ID        int64
	Timestamp int64
	Day       string
	TaskID    *int64
	ConfigID  int64
	OpToken   string
	EventType string
	Severity  int
	UserInput string
}

// Audit event types recorded by the core operations.
const (
	EventDayInitialized = "DAY_INITIALIZED"
	EventLogSubmitted   = "LOG_SUBMITTED"
	EventScoreComputed  = "SCORE_COMPUTED"
)
