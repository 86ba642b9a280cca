package services

import (
	"scd/internal/models"
	"scd/internal/providers"
	"sync"
	"time"
)

// CounterStoreInterface is the durable codec between one day's counters
// and its on-disk files. Implemented by statistic.CounterStore.
type CounterStoreInterface interface {
	PersistSummary(date string, group, private int) error
	PersistChannelTable(date string, byChannel map[int64]int) error
	LoadSummary(date string) (group, private int, err error)
	LoadChannelTable(date string) (map[int64]int, error)
	AppendDetail(date string, category models.Category, ts time.Time, target int64, rendered string) error
	ReadSummaryText(date string) (string, error)
}

type CounterServiceInterface interface {
	// RecordSend counts one send and returns the post-increment totals
	// for its category (and channel, for group sends with a target).
	// The increment and totals capture are one critical section.
	RecordSend(category models.Category, target int64, hasTarget bool) models.SendTotals
	// LogDetail appends one line to the current day's per-category
	// detail log. Best effort.
	LogDetail(category models.Category, target int64, rendered string)
	// Snapshot returns a detached copy of today's counters, rolled over
	// and recovery-seeded if the day has changed.
	Snapshot() models.CounterSnapshot
	// EnsureCurrentDay forces the lazy rollover check.
	EnsureCurrentDay()
	// PersistNow writes the full current snapshot, used on shutdown.
	PersistNow() error
}

// CounterService owns the live DailyCounters for "today". Rollover is
// lazy: the first access after UTC midnight swaps in a fresh day and
// seeds it from whatever a previous process left on disk.
type CounterService struct {
	mu      sync.Mutex
	current *models.DailyCounters
	store   CounterStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time
}

func NewCounterService(store CounterStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) CounterServiceInterface {
	return &CounterService{
		store:   store,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

func (s *CounterService) RecordSend(category models.Category, target int64, hasTarget bool) models.SendTotals {
	withChannel := category == models.CategoryGroup && hasTarget

	s.mu.Lock()
	s.ensureCurrentDayLocked()
	totals := s.current.Inc(category, target, withChannel)
	snap := s.current.Snapshot()
	s.mu.Unlock()

	s.metrics.IncSendsTotal(string(category))
	s.persistSnapshot(snap, category == models.CategoryGroup)
	return totals
}

func (s *CounterService) LogDetail(category models.Category, target int64, rendered string) {
	s.mu.Lock()
	s.ensureCurrentDayLocked()
	date := s.current.Date()
	s.mu.Unlock()

	if err := s.store.AppendDetail(date, category, s.now(), target, rendered); err != nil {
		s.logger.Warnf(providers.TypeStats, "detail log append failed for %s/%s: %s", date, category, err)
	}
}

func (s *CounterService) Snapshot() models.CounterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureCurrentDayLocked()
	return s.current.Snapshot()
}

func (s *CounterService) EnsureCurrentDay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureCurrentDayLocked()
}

func (s *CounterService) PersistNow() error {
	s.mu.Lock()
	s.ensureCurrentDayLocked()
	snap := s.current.Snapshot()
	s.mu.Unlock()

	if err := s.store.PersistSummary(snap.Date, snap.ByCategory[models.CategoryGroup], snap.ByCategory[models.CategoryPrivate]); err != nil {
		return err
	}
	return s.store.PersistChannelTable(snap.Date, snap.ByChannel)
}

// ensureCurrentDayLocked performs the lazy UTC rollover: when the wall
// clock has moved to a new calendar day, the held counters are replaced
// with a fresh instance seeded from that day's persisted snapshot, if
// any. Callers must hold s.mu.
func (s *CounterService) ensureCurrentDayLocked() {
	today := models.DateKey(s.now())
	if s.current != nil && s.current.Date() == today {
		return
	}

	fresh := models.NewDailyCounters(today)

	group, private, err := s.store.LoadSummary(today)
	if err != nil {
		s.logger.Warnf(providers.TypeStats, "summary recovery failed for %s: %s", today, err)
		group, private = 0, 0
	}
	byChannel, err := s.store.LoadChannelTable(today)
	if err != nil {
		s.logger.Warnf(providers.TypeStats, "channel table recovery failed for %s: %s", today, err)
		byChannel = nil
	}

	if group > 0 || private > 0 || len(byChannel) > 0 {
		fresh.Seed(map[models.Category]int{
			models.CategoryGroup:   group,
			models.CategoryPrivate: private,
		}, byChannel)
		s.logger.Infof(providers.TypeStats, "recovered counters for %s: group=%d private=%d channels=%d", today, group, private, len(byChannel))
	}

	s.current = fresh
}

// persistSnapshot writes the authoritative in-memory state to disk.
// Failures are logged and swallowed: counting must never block message
// delivery.
func (s *CounterService) persistSnapshot(snap models.CounterSnapshot, withChannels bool) {
	start := time.Now()
	if err := s.store.PersistSummary(snap.Date, snap.ByCategory[models.CategoryGroup], snap.ByCategory[models.CategoryPrivate]); err != nil {
		s.logger.Warnf(providers.TypeStats, "summary persist failed for %s: %s", snap.Date, err)
	}
	if withChannels {
		if err := s.store.PersistChannelTable(snap.Date, snap.ByChannel); err != nil {
			s.logger.Warnf(providers.TypeStats, "channel table persist failed for %s: %s", snap.Date, err)
		}
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
}
