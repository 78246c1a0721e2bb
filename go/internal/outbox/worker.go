package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// EventPublisher publishes an event to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type Config struct {
	PollInterval time.Duration
	BatchSize    int32
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
	}
}

// Worker is the outbox relay: it polls unsent rows and publishes them to
// the bus. Publishing is at-least-once; consumers deduplicate by event id.
type Worker struct {
	repo      *Repository
	publisher EventPublisher
	config    Config
	logger    *slog.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(repo *Repository, publisher EventPublisher, cfg Config, logger *slog.Logger) *Worker {
	return &Worker{
		repo:      repo,
		publisher: publisher,
		config:    cfg,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info("outbox worker started",
		slog.Duration("poll_interval", w.config.PollInterval),
		slog.Int("batch_size", int(w.config.BatchSize)))

	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	w.logger.Info("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.processOutbox(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processOutbox(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	events, err := w.repo.FetchUnsent(ctx, w.config.BatchSize)
	if err != nil {
		w.logger.Error("failed to fetch unsent events", slog.String("error", err.Error()))
		return
	}
	if len(events) == 0 {
		return
	}

	sent := 0
	for _, event := range events {
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.logger.Error("failed to publish event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()))
			// Leave unsent; next poll retries in order.
			break
		}
		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			w.logger.Error("failed to mark event sent",
				slog.String("event_id", event.ID.String()),
				slog.String("error", err.Error()))
			break
		}
		sent++
	}

	if sent > 0 {
		w.logger.Info("published outbox events", slog.Int("count", sent))
	}
}
