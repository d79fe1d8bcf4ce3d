package statedump

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "statedump")

// Scheduler periodically collects and logs a StateDump, mirroring
// Sweeper's ticker loop. Feature-flag gated: Run is a no-op unless
// the scheduler is constructed enabled, since a full dump (especially with
// EAVIndex included) is diagnostic overhead a production node doesn't
// pay for by default.
type Scheduler struct {
	collector *Collector
	interval  time.Duration
	options   DumpOptions
	enabled   bool
}

// NewScheduler builds a Scheduler over collector, ticking every
// interval while enabled is true.
func NewScheduler(collector *Collector, interval time.Duration, options DumpOptions, enabled bool) *Scheduler {
	return &Scheduler{collector: collector, interval: interval, options: options, enabled: enabled}
}

// Run blocks, ticking the scheduler until ctx is canceled. A disabled
// scheduler returns immediately.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.enabled {
		log.Debug("state dump scheduler disabled, not starting")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	dump, err := s.collector.Collect(s.options)
	if err != nil {
		log.WithError(err).Warn("failed to collect state dump")
		return
	}
	log.Info("debug/state_dump:\n" + Render(dump))
}
