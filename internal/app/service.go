// Package app hosts the prediction service: the session state, the
// pipeline components, and the orchestration cycle run per edit.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/crewcast/internal/adapters/audit"
	"github.com/okian/crewcast/internal/adapters/mq/queue"
	"github.com/okian/crewcast/internal/adapters/mq/runner"
	"github.com/okian/crewcast/internal/adapters/repository"
	"github.com/okian/crewcast/internal/domain/baseline"
	"github.com/okian/crewcast/internal/domain/kpi"
	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/internal/domain/projectweight"
	"github.com/okian/crewcast/internal/domain/synergy"
	"github.com/okian/crewcast/internal/domain/team"
	"github.com/okian/crewcast/internal/domain/whatif"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/okian/crewcast/pkg/metrics"
)

// Service owns the session state exclusively and recomputes predictions
// per edit. All edits flow through a bounded queue consumed by a single
// sequential runner, so no locking is needed around the working copy; the
// state mutex only guards concurrent snapshot reads.
type Service struct {
	mu sync.RWMutex

	// Source of truth, read-only after Start.
	money []model.MoneyEvent
	burns []model.BurnEvent

	// Pipeline components.
	baselines *baseline.Calculator
	weights   *projectweight.Calculator
	kpis      *kpi.Calculator
	pairs     *synergy.PairAggregator
	groups    *synergy.GroupAggregator
	search    *team.Search
	projector *whatif.Projector

	// Collaborators.
	store repository.Store
	sink  audit.Sink

	// Session state. Valid only when initialized is true.
	record       model.SessionRecord
	initialized  bool
	editsApplied uint64

	// Edit intake.
	queue  *queue.InMemoryQueue
	runner *runner.Runner

	// Configuration.
	minBaselineEvents int
	weightWindowWeeks int
	kpiWindowDays     int
	groupSizeMin      int
	groupSizeMax      int
	poolSize          int
	teamSize          int
	queueCapacity     int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEvents sets the event collections read at session start.
func WithEvents(money []model.MoneyEvent, burns []model.BurnEvent) Option {
	return func(s *Service) {
		s.money = money
		s.burns = burns
	}
}

// WithStore sets the session record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithAuditSink sets the audit record sink.
func WithAuditSink(sink audit.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMinBaselineEvents sets the baseline event-count filter.
func WithMinBaselineEvents(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minBaselineEvents = n
		}
	}
}

// WithWeightWindowWeeks sets the project weight trailing window.
func WithWeightWindowWeeks(weeks int) Option {
	return func(s *Service) {
		if weeks > 0 {
			s.weightWindowWeeks = weeks
		}
	}
}

// WithKPIWindowDays sets the rolling KPI trailing window.
func WithKPIWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.kpiWindowDays = days
		}
	}
}

// WithGroupSizeBounds sets the inclusive group synergy size bounds.
func WithGroupSizeBounds(minSize, maxSize int) Option {
	return func(s *Service) {
		if minSize >= 2 && maxSize >= minSize {
			s.groupSizeMin = minSize
			s.groupSizeMax = maxSize
		}
	}
}

// WithCandidatePool caps the best-team search pool.
func WithCandidatePool(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.poolSize = k
		}
	}
}

// WithTeamSize fixes the searched team size.
func WithTeamSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.teamSize = n
		}
	}
}

// WithQueueCapacity bounds the pending edit queue.
func WithQueueCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueCapacity = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:             repository.NewMemoryStore(),
		sink:              audit.NewNopSink(),
		minBaselineEvents: 3,
		weightWindowWeeks: 12,
		kpiWindowDays:     30,
		groupSizeMin:      3,
		groupSizeMax:      5,
		poolSize:          12,
		teamSize:          4,
		queueCapacity:     256,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the pipeline components, loads the persisted session
// record, and launches the sequential runner. A missing record is not an
// error: the service starts uninitialized and reports that condition per
// request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	s.baselines = baseline.New(baseline.WithMinEvents(s.minBaselineEvents))
	s.weights = projectweight.New(projectweight.WithWindowWeeks(s.weightWindowWeeks))
	s.kpis = kpi.New(kpi.WithWindowDays(s.kpiWindowDays))
	s.pairs = synergy.NewPairAggregator()
	s.groups = synergy.NewGroupAggregator(synergy.WithSizeBounds(s.groupSizeMin, s.groupSizeMax))
	s.search = team.NewSearch(team.WithPoolSize(s.poolSize), team.WithTeamSize(s.teamSize))
	s.projector = whatif.New()

	record, err := s.store.Load(ctx)
	switch {
	case err == nil:
		s.record = record
		s.initialized = true
		metrics.UpdateRosterSize(len(record.Team))
	case errors.Is(err, repository.ErrNotInitialized):
		s.logger.Warn(ctx, "no persisted session; waiting for bootstrap")
	default:
		return err
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueCapacity))
	s.runner = runner.New(s.queue, s, runner.WithLogger(s.logger.Named("runner")))
	go s.runner.Run(ctx)

	metrics.UpdateEventsLoaded("money", len(s.money))
	metrics.UpdateEventsLoaded("burn", len(s.burns))

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.Int("moneyEvents", len(s.money)),
		logger.Int("burnEvents", len(s.burns)),
		logger.Int("teamSize", s.teamSize),
		logger.Int("candidatePool", s.poolSize),
		logger.Bool("initialized", s.initialized),
	)
	return nil
}

// Stop drains the runner and closes the queue. The mutex is not held
// while waiting: the in-flight edit needs it to commit.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	q, r := s.queue, s.runner
	s.mu.Unlock()

	_ = q.Close()
	if err := r.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "runner shutdown incomplete", logger.Error(err))
	}
	s.logger.Info(ctx, "prediction service stopped")
}

// Submit queues one edit for sequential processing and returns the reply
// channel. Unknown edit kinds are rejected before queueing; transports
// translate that into silence per the session protocol.
func (s *Service) Submit(ctx context.Context, cmd model.EditCommand) (<-chan queue.Result, error) {
	s.mu.RLock()
	started, initialized := s.started, s.initialized
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotRunning
	}
	if !initialized {
		return nil, repository.ErrNotInitialized
	}
	switch cmd.Kind {
	case model.EditSwap, model.EditAlloc, model.EditNone:
	default:
		return nil, ErrUnknownEditKind
	}

	env := queue.NewEnvelope(cmd)
	if !s.queue.Enqueue(ctx, env) {
		return nil, ErrBackpressure
	}
	return env.Reply, nil
}

// Snapshot returns a copy of the current session record.
func (s *Service) Snapshot(_ context.Context) (model.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.SessionRecord{}, repository.ErrNotInitialized
	}
	return s.record.Clone(), nil
}

// AuditSession forwards a session lifecycle record to the audit sink.
// Failures are logged, never surfaced to the transport.
func (s *Service) AuditSession(ctx context.Context, kind, sessionID string) {
	if err := s.sink.RecordSession(ctx, kind, sessionID); err != nil {
		s.logger.Warn(ctx, "session audit failed",
			logger.String("kind", kind),
			logger.Error(err),
		)
	}
}

// Stats is a point-in-time view of the service for monitoring.
type Stats struct {
	Started      bool   `json:"started"`
	Initialized  bool   `json:"initialized"`
	MoneyEvents  int    `json:"money_events"`
	BurnEvents   int    `json:"burn_events"`
	TeamSize     int    `json:"team_size"`
	PoolSize     int    `json:"pool_size"`
	QueueDepth   int    `json:"queue_depth"`
	RosterSize   int    `json:"roster_size"`
	EditsApplied uint64 `json:"edits_applied"`
}

// GetStats returns service statistics for monitoring. QueueDepth is zero
// when the service is not running, RosterSize before bootstrap.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Started:      s.started,
		Initialized:  s.initialized,
		MoneyEvents:  len(s.money),
		BurnEvents:   len(s.burns),
		TeamSize:     s.teamSize,
		PoolSize:     s.poolSize,
		EditsApplied: s.editsApplied,
	}
	if s.started {
		stats.QueueDepth = s.queue.Len(context.Background())
	}
	if s.initialized {
		stats.RosterSize = len(s.record.Team)
	}
	return stats
}
