package waiver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ProcessorConfig controls the waiver processor loop.
type ProcessorConfig struct {
	PollInterval time.Duration
	BatchSize    int32
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval: 30 * time.Second,
		BatchSize:    50,
	}
}

// Processor resolves waiver claim windows once their process date passes.
// Resolution is idempotent so overlapping runs are harmless.
type Processor struct {
	app    *App
	config ProcessorConfig
	clock  clockwork.Clock
	logger *slog.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewProcessor(app *App, cfg ProcessorConfig, clock clockwork.Clock, logger *slog.Logger) *Processor {
	return &Processor{
		app:      app,
		config:   cfg,
		clock:    clock,
		stopChan: make(chan struct{}),
		logger:   logger,
	}
}

func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("waiver processor already running")
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("waiver processor started",
		slog.Duration("poll_interval", p.config.PollInterval),
		slog.Int("batch_size", int(p.config.BatchSize)))

	return nil
}

func (p *Processor) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return fmt.Errorf("waiver processor not running")
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopChan)
	p.wg.Wait()

	p.logger.Info("waiver processor stopped")
	return nil
}

func (p *Processor) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := p.clock.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	p.processDue(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case <-ticker.Chan():
			p.processDue(ctx)
		}
	}
}

func (p *Processor) processDue(ctx context.Context) {
	processed, err := p.app.ProcessDueClaims(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to process due waiver claims",
			slog.Int("processed", processed),
			slog.String("error", err.Error()))
		return
	}
	if processed > 0 {
		p.logger.Info("processed waiver claims", slog.Int("count", processed))
	}
}
