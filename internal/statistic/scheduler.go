package statistic

import (
	"scd/internal/providers"
	"scd/internal/services"
	"scd/internal/statistic/interfaces"
	"scd/internal/structures"
	"sync"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	counters services.CounterServiceInterface
	archiver interfaces.ArchiverInterface
	metrics  providers.MetricsProviderInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Statistic.ArchiveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.archiver.Sweep(); err != nil {
			s.logger.Errorf(providers.TypeStats, "archive sweep failed: %s", err)
			return
		}
	})

	s.cron.AddFunc(gron.Every(s.config.Statistic.GaugeInterval), func() {
		snap := s.counters.Snapshot()
		s.metrics.SetChannelsToday(len(snap.ByChannel))
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore triggers the lazy rollover once at startup so today's
// counters are recovered from disk before the first intercepted send.
func (s *Scheduler) Restore() error {
	s.counters.EnsureCurrentDay()
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStats, "Persisting counters to disk...")
	if err := s.counters.PersistNow(); err != nil {
		s.logger.Errorf(providers.TypeStats, "Error while persisting counters: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, counters services.CounterServiceInterface, archiver interfaces.ArchiverInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		counters: counters,
		archiver: archiver,
		metrics:  metrics,
	}
}
