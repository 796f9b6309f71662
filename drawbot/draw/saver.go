package draw

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultSaveInterval bounds how often a full-state write can happen under
// bursty join traffic.
const DefaultSaveInterval = 60 * time.Second

// Saver flushes dirty registry state to the store at most once per interval.
// Mutations only arm the registry's dirty signal; the actual write happens
// here, off the mutation path.
type Saver struct {
	registry *Registry
	store    *FileStore
	interval time.Duration
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func NewSaver(registry *Registry, store *FileStore, interval time.Duration) *Saver {
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	return &Saver{
		registry: registry,
		store:    store,
		interval: interval,
		shutdown: make(chan struct{}),
	}
}

// Start launches the flush loop.
func (s *Saver) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case <-s.registry.Dirty():
					s.Flush()
				default:
				}
			case <-s.shutdown:
				return
			}
		}
	}()
}

// Flush writes one full snapshot. A failed write re-arms the dirty signal so
// the next cycle retries; persistence problems degrade to lagging data, never
// to a crash.
func (s *Saver) Flush() {
	st := s.registry.Snapshot()
	if err := s.store.Save(st); err != nil {
		slog.Error("Failed to save draw state",
			slog.String("type", "save"),
			slog.Any("error", err))
		s.registry.MarkDirty()
		return
	}
	slog.Info("Draw state saved",
		slog.String("type", "save"),
		slog.Int("draws", len(st.Draws)))
}

// Close stops the loop and performs one final unconditional flush so no
// committed mutation is lost on shutdown.
func (s *Saver) Close() {
	close(s.shutdown)
	s.wg.Wait()
	s.Flush()
}
