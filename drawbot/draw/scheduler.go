package draw

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the expiry scheduler scans for campaigns
// past their end time.
const DefaultSweepInterval = 30 * time.Second

const announceTimeout = 30 * time.Second

// Announcer receives the result of every resolved campaign. Delivery is
// at-least-once: the scheduler does not retry, but a campaign that could not
// be announced may be handed over again by a later force-end racing the sweep
// losing side, so implementations should tolerate duplicates.
type Announcer interface {
	AnnounceResult(ctx context.Context, ended Campaign) error
}

// Scheduler periodically sweeps the registry for expired campaigns, resolves
// them through the shared end transition and emits one announcement per ended
// campaign.
type Scheduler struct {
	registry  *Registry
	announcer Announcer
	interval  time.Duration
	shutdown  chan struct{}
	wg        sync.WaitGroup
}

func NewScheduler(registry *Registry, announcer Announcer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Scheduler{
		registry:  registry,
		announcer: announcer,
		interval:  interval,
		shutdown:  make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(context.Background())
			case <-s.shutdown:
				return
			}
		}
	}()
}

// Sweep runs one expiry pass. A failure while processing one campaign never
// aborts the loop, and a panic is contained so the next cycle still runs.
func (s *Scheduler) Sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Expiry sweep panicked",
				slog.String("type", "sweep"),
				slog.Any("panic", r))
		}
	}()

	now := time.Now()
	for _, id := range s.registry.Expired(now) {
		ended, err := s.registry.End(id)
		if err != nil {
			// A concurrent force-end won the transition; nothing to do.
			if errors.Is(err, ErrAlreadyEnded) {
				continue
			}
			slog.Error("Failed to end expired draw",
				slog.String("type", "sweep"),
				slog.Int64("draw_id", id),
				slog.Any("error", err))
			continue
		}

		slog.Info("Draw expired",
			slog.String("type", "sweep"),
			slog.Int64("draw_id", ended.ID),
			slog.String("prize", ended.Prize),
			slog.Int("participants", len(ended.Participants)),
			slog.Int("winners", len(ended.WinnerIDs)))

		if s.announcer == nil {
			continue
		}
		announceCtx, cancel := context.WithTimeout(ctx, announceTimeout)
		if err := s.announcer.AnnounceResult(announceCtx, ended); err != nil {
			slog.Error("Failed to announce draw result",
				slog.String("type", "sweep"),
				slog.Int64("draw_id", ended.ID),
				slog.Any("error", err))
		}
		cancel()
	}
}

// Shutdown stops the loop and waits for the in-flight sweep to finish.
func (s *Scheduler) Shutdown() {
	close(s.shutdown)
	s.wg.Wait()
}
