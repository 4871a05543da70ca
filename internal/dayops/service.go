package dayops

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/lifeos/internal/config"
	"github.com/roach88/lifeos/internal/ledger"
)

// StaleRoutingDays is the inheritance age beyond which day initialization
// emits a staleness warning: the day is still routed, but the operator
// should probably publish a fresh config.
const StaleRoutingDays = 30

// Service is the single entry point for core operations.
type Service struct {
	store  *ledger.Store
	tokens TokenGenerator
	clock  Clock
	log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTokenGenerator overrides the op token generator (for testing).
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Service) { s.tokens = g }
}

// WithClock overrides the wall clock (for testing).
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service over an open ledger store.
func New(store *ledger.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tokens: UUIDv7Generator{},
		clock:  SystemClock{},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap publishes the given config as the first version and pins it to
// day. Run once against an empty store; afterwards EnsureDayInitialized
// carries the routing forward.
func (s *Service) Bootstrap(ctx context.Context, doc config.Document, day string) (int64, error) {
	s.warnUnbalanced(doc)

	configID, err := s.store.PublishConfig(ctx, doc)
	if err != nil {
		return 0, err
	}

	if err := s.store.SeedDay(ctx, day, configID, s.tokens.Generate()); err != nil {
		return 0, err
	}

	s.log.Info("registry seeded", "day", day, "config_id", configID, "version", doc.VersionName)
	return configID, nil
}

// PublishConfig validates and appends a new scoring config version. The
// new version governs only days initialized after this call; existing
// routing pins never move.
func (s *Service) PublishConfig(ctx context.Context, doc config.Document) (int64, error) {
	s.warnUnbalanced(doc)

	id, err := s.store.PublishConfig(ctx, doc)
	if err != nil {
		return 0, err
	}
	s.log.Info("config published", "config_id", id, "version", doc.VersionName)
	return id, nil
}

func (s *Service) warnUnbalanced(doc config.Document) {
	if !doc.WeightsBalanced() {
		s.log.Warn("config weights do not sum to 1.0", "version", doc.VersionName, "sum", doc.WeightSum())
	}
}

// EnsureDayInitialized routes a day to its governing config version. A
// no-op for already-routed days; otherwise the most recent prior routing
// is carried forward. Emits a warning (not an error) when the inherited
// routing is more than StaleRoutingDays old.
func (s *Service) EnsureDayInitialized(ctx context.Context, day string) (ledger.RouteResult, error) {
	res, err := s.store.RouteDay(ctx, day, s.tokens.Generate())
	if err != nil {
		return ledger.RouteResult{}, err
	}

	if res.Routed {
		s.log.Info("day initialized", "day", day, "config_id", res.ConfigID, "inherited_from", res.InheritedFrom)
		if age, ok := routingAge(day, res.InheritedFrom); ok && age > StaleRoutingDays {
			s.log.Warn("inheriting stale config routing",
				"day", day, "inherited_from", res.InheritedFrom, "age_days", age)
		}
	}
	return res, nil
}

// routingAge returns the whole-day gap between day and the inherited
// routing's day.
func routingAge(day, inheritedFrom string) (int, bool) {
	d, err := ledger.ParseDay(day)
	if err != nil {
		return 0, false
	}
	prev, err := ledger.ParseDay(inheritedFrom)
	if err != nil {
		return 0, false
	}
	return int(d.Sub(prev).Hours() / 24), true
}

// EnsureWeekAhead initializes today plus the next seven days, so planning
// can reference future days without tripping referential checks.
func (s *Service) EnsureWeekAhead(ctx context.Context) error {
	today := s.clock.Now()
	for i := 0; i < 8; i++ {
		day := ledger.FormatDay(today.AddDate(0, 0, i))
		if _, err := s.EnsureDayInitialized(ctx, day); err != nil {
			return fmt.Errorf("initialize %s: %w", day, err)
		}
	}
	return nil
}

// SubmitLog records the day's single immutable metrics submission.
func (s *Service) SubmitLog(ctx context.Context, log ledger.DailyLog) error {
	if err := s.store.AppendLog(ctx, log, s.tokens.Generate()); err != nil {
		return err
	}
	s.log.Info("daily log submitted", "day", log.Day)
	return nil
}

// ComputeScore runs the Judge for a day and returns the appended derived
// score. Recomputation appends a new row; the latest id stays
// authoritative.
func (s *Service) ComputeScore(ctx context.Context, day string) (*ledger.DerivedScore, error) {
	score, err := s.store.ScoreDay(ctx, day, s.tokens.Generate())
	if err != nil {
		return nil, err
	}
	s.log.Info("score computed", "day", day,
		"nps", score.NPS, "multiplier", score.SafetyMultiplier, "config_id", score.ConfigID)
	return score, nil
}

// GetLatestScore returns the authoritative derived score for a day, or nil
// when the day has never been scored.
func (s *Service) GetLatestScore(ctx context.Context, day string) (*ledger.DerivedScore, error) {
	return s.store.LatestScore(ctx, day)
}

// ScoreHistory returns every derived score recorded for a day, oldest
// first.
func (s *Service) ScoreHistory(ctx context.Context, day string) ([]ledger.DerivedScore, error) {
	return s.store.ScoreHistory(ctx, day)
}

// StartSession opens a focus session. Fails with FocusLockActive while
// another session is open.
func (s *Service) StartSession(ctx context.Context, taskID *int64, kind ledger.SessionType) (int64, error) {
	id, err := s.store.StartSession(ctx, ledger.StartSessionParams{
		TaskID:  taskID,
		Type:    kind,
		StartTS: s.clock.Now().Unix(),
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("session started", "session_id", id, "type", kind)
	return id, nil
}

// StopSession closes a session and returns its duration in whole minutes.
func (s *Service) StopSession(ctx context.Context, id int64, evidenceURL *string) (int64, error) {
	duration, err := s.store.CloseSession(ctx, id, s.clock.Now().Unix(), evidenceURL)
	if err != nil {
		return 0, err
	}
	s.log.Info("session closed", "session_id", id, "duration_minutes", duration)
	return duration, nil
}

// ActiveSession returns the single open session, or nil when none is open.
func (s *Service) ActiveSession(ctx context.Context) (*ledger.WorkSession, error) {
	return s.store.ActiveSession(ctx)
}

// RecentSessions returns the last n sessions, newest first.
func (s *Service) RecentSessions(ctx context.Context, n int) ([]ledger.WorkSession, error) {
	return s.store.RecentSessions(ctx, n)
}

// CreateTask adds a task to the inventory.
func (s *Service) CreateTask(ctx context.Context, domain ledger.Domain, title string, shipping *ledger.ShippingType) (int64, error) {
	return s.store.CreateTask(ctx, domain, title, shipping)
}

// ListTasks returns the task inventory.
func (s *Service) ListTasks(ctx context.Context, includeArchived bool) ([]ledger.Task, error) {
	return s.store.ListTasks(ctx, includeArchived)
}

// ArchiveTask retires a task.
func (s *Service) ArchiveTask(ctx context.Context, id int64) error {
	return s.store.ArchiveTask(ctx, id)
}

// AddToPlan commits a task to a day's plan.
func (s *Service) AddToPlan(ctx context.Context, day string, taskID int64, keystone bool) error {
	return s.store.AddToPlan(ctx, day, taskID, keystone)
}

// SetCompletion updates a plan entry's completion status.
func (s *Service) SetCompletion(ctx context.Context, day string, taskID int64, status ledger.CompletionStatus, notes *string) error {
	return s.store.SetPlanStatus(ctx, day, taskID, status, notes)
}

// GetPlan returns a day's plan entries.
func (s *Service) GetPlan(ctx context.Context, day string) ([]ledger.PlanEntry, error) {
	return s.store.GetPlan(ctx, day)
}

// GetPlanHitRate returns the percentage of a day's plan entries completed.
func (s *Service) GetPlanHitRate(ctx context.Context, day string) (float64, error) {
	stats, err := s.store.PlanStatsFor(ctx, day)
	if err != nil {
		return 0, err
	}
	return stats.HitRate(), nil
}

// ConfigForDay returns the config version governing a day.
func (s *Service) ConfigForDay(ctx context.Context, day string) (*ledger.ConfigRecord, error) {
	return s.store.ConfigForDay(ctx, day)
}

// AuditTrail returns a day's audit events in insertion order.
func (s *Service) AuditTrail(ctx context.Context, day string) ([]ledger.AuditEvent, error) {
	return s.store.AuditTrail(ctx, day)
}

// Scorecard is the read model behind the report view.
type Scorecard struct {
	Day        string
	Scored     bool
	Status     string
	NPS        float64
	Engine     float64
	Vessel     float64
	Resources  float64
	System     float64
	Multiplier float64
	ConfigID   int64
	HitRate    float64
}

// Scorecard status banners, thresholded on the final NPS.
const (
	StatusWin  = "WIN"
	StatusHold = "HOLD"
	StatusFail = "FAIL"
)

// BuildScorecard assembles the report view for a day from the latest
// derived score and the plan hit rate.
func (s *Service) BuildScorecard(ctx context.Context, day string) (*Scorecard, error) {
	card := &Scorecard{Day: day, Status: StatusFail}

	hitRate, err := s.GetPlanHitRate(ctx, day)
	if err != nil {
		return nil, err
	}
	card.HitRate = hitRate

	score, err := s.store.LatestScore(ctx, day)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return card, nil
	}

	card.Scored = true
	card.NPS = score.NPS
	card.Engine = score.ScoreEngine
	card.Vessel = score.ScoreVessel
	card.Resources = score.ScoreResources
	card.System = score.ScoreSystem
	card.Multiplier = score.SafetyMultiplier
	card.ConfigID = score.ConfigID
	card.Status = statusFor(score.NPS)
	return card, nil
}

func statusFor(nps float64) string {
	switch {
	case nps > 85:
		return StatusWin
	case nps > 50:
		return StatusHold
	default:
		return StatusFail
	}
}

// Today returns the current day key from the service clock.
func (s *Service) Today() string {
	return ledger.FormatDay(s.clock.Now())
}
