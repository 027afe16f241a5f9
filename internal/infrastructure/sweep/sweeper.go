package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dbu-council/council-system/internal/core/ports"
)

const defaultInterval = time.Minute

// Sweeper periodically reconciles stored election statuses against the
// clock, so an election whose window closed while nobody was reading it
// still completes. Reads remain self-healing; the sweeper only shortens
// the window in which a stored status is stale.
type Sweeper struct {
	elections ports.ElectionService
	interval  time.Duration
	log       zerolog.Logger

	// onSweep is called after every pass with the number of elections
	// moved; the metrics hook lives here so the service stays clean.
	onSweep func(updated int64)
}

func NewSweeper(elections ports.ElectionService, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{elections: elections, interval: interval, log: log}
}

// OnSweep registers a callback invoked after each pass.
func (s *Sweeper) OnSweep(fn func(updated int64)) {
	s.onSweep = fn
}

// Run blocks until ctx is cancelled, sweeping once per interval. An initial
// pass runs immediately so a restart catches up without waiting a tick.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	updated, err := s.elections.RefreshStatuses(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("election status sweep failed")
		return
	}
	if updated > 0 {
		s.log.Info().Int64("updated", updated).Msg("election statuses refreshed")
	}
	if s.onSweep != nil {
		s.onSweep(updated)
	}
}
