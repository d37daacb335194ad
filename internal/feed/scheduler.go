package feed

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"

	"sprintd/internal/feed/interfaces"
	"sprintd/internal/providers"
	"sprintd/internal/services"
	"sprintd/internal/structures"
)

// Scheduler drives the feed lifecycle: periodic refresh pulls from the
// upstream API, periodic persistence of the computed snapshot, and
// archive rotation. Each fetch carries a generation token; a response
// that comes back after a newer fetch has started is dropped instead of
// overwriting fresher data.
type Scheduler struct {
	config     *structures.Config
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	service    services.TimelineServiceInterface
	client     interfaces.ClientInterface
	snapshots  *SnapshotManager
	archive    *SnapshotArchive
	cron       *gron.Cron
	opsMu      sync.Mutex
	generation atomic.Int64
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(atLeastSecond(s.config.Feed.PollInterval)), func() {
		if err := s.Refresh(); err != nil {
			s.logger.Errorf(providers.TypeFeed, "Refresh failed: %s", err)
		}
	})

	s.cron.AddFunc(gron.Every(atLeastSecond(s.config.Persistence.SaveInterval)), func() {
		if err := s.Persist(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted snapshot to file %s", s.config.Persistence.FilePath)

		if s.archive.Enabled() {
			if err := s.archive.Archive(s.config.Persistence.FilePath); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while archiving snapshot: %s", err)
			}
			if err := s.archive.Prune(); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while pruning snapshot archive: %s", err)
			}
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Refresh pulls one snapshot from the upstream API and rebuilds the
// timeline from it. The generation token guarantees that out-of-order
// responses never replace data from a newer fetch.
func (s *Scheduler) Refresh() error {
	gen := s.generation.Inc()
	started := time.Now()

	timeout := s.config.Feed.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := s.client.FetchAll(ctx)
	if err != nil {
		s.metrics.IncFetchErrors()
		return err
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	if s.generation.Load() != gen {
		s.metrics.IncStaleResponsesDropped()
		s.logger.Warnf(providers.TypeFeed, "Dropping stale fetch response (generation %d superseded)", gen)
		return nil
	}

	s.service.Rebuild(res)
	s.metrics.ObserveRefreshDuration(time.Since(started))
	return nil
}

// Restore loads the persisted snapshot so the daemon serves data before
// the first upstream fetch completes.
func (s *Scheduler) Restore() error {
	data, builtAt, err := s.snapshots.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	s.service.Restore(data, builtAt)
	s.logger.Infof(providers.TypeApp, "Restored snapshot built at %s", builtAt.Format(time.RFC3339))
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	data, builtAt := s.service.Snapshot()
	if data == nil {
		return nil
	}

	started := time.Now()
	err := s.snapshots.SaveToFile(s.config.Persistence.FilePath, data, builtAt)
	if err != nil {
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(started))
	return nil
}

func atLeastSecond(d time.Duration) time.Duration {
	if d < time.Second {
		return time.Second
	}
	return d
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, service services.TimelineServiceInterface, client interfaces.ClientInterface, snapshots *SnapshotManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		service:   service,
		client:    client,
		snapshots: snapshots,
		archive:   NewSnapshotArchive(config.Persistence.ArchiveDir, config.Persistence.ArchiveTTL, logger),
	}
}
