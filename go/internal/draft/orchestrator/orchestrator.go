package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/rinkhq/faceoff/go/internal/apperrors"
	"github.com/rinkhq/faceoff/go/internal/draft"
)

// DraftApp defines what the orchestrator needs from the draft app
type DraftApp interface {
	FetchNextDeadline(ctx context.Context) (*draft.NextDeadline, error)
	FetchDraftsDueForPick(ctx context.Context, limit int32) ([]uuid.UUID, error)
	SkipCurrentPick(ctx context.Context, draftID uuid.UUID) (*draft.SkipOutcome, error)
}

// Orchestrator watches pick deadlines across all in-progress drafts and
// skips the slot on the clock when a deadline expires. It sleeps until the
// soonest deadline and can be woken early when a pick resets the clock.
type Orchestrator struct {
	drafts     DraftApp
	batchSize  int32
	clock      clockwork.Clock
	wakeCh     chan struct{}
	instanceID string

	// Worker pool configuration
	numWorkers int
	workCh     chan uuid.UUID

	// Track in-flight work to prevent duplicate processing
	inFlight   map[uuid.UUID]bool
	inFlightMu sync.Mutex
}

// NewOrchestrator creates a new draft orchestrator with worker pool
func NewOrchestrator(drafts DraftApp, clock clockwork.Clock, batchSize int32) *Orchestrator {
	numWorkers := 10
	return &Orchestrator{
		drafts:     drafts,
		batchSize:  batchSize,
		clock:      clock,
		wakeCh:     make(chan struct{}, 1),
		instanceID: uuid.New().String()[:8], // short ID for logging

		numWorkers: numWorkers,
		workCh:     make(chan uuid.UUID, numWorkers*2), // Buffer to prevent blocking
		inFlight:   make(map[uuid.UUID]bool),
	}
}

// Wake nudges the scheduler to re-read the next deadline. Called after any
// operation that arms or moves a pick clock so a sooner deadline is not
// slept through.
func (o *Orchestrator) Wake() {
	select {
	case o.wakeCh <- struct{}{}:
	default:
	}
}

// RunScheduler loops forever, sleeping until the next deadline and firing timeouts.
func (o *Orchestrator) RunScheduler(ctx context.Context) error {
	log.Info().Str("instance", o.instanceID).Int("workers", o.numWorkers).Msg("scheduler started")

	// Start worker pool
	var wg sync.WaitGroup
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	for i := 0; i < o.numWorkers; i++ {
		wg.Add(1)
		go o.worker(workerCtx, &wg, i)
	}

	defer func() {
		log.Info().Str("instance", o.instanceID).Msg("shutting down workers")
		cancelWorkers()
		close(o.workCh)
		wg.Wait()
		log.Info().Str("instance", o.instanceID).Msg("all workers shut down")
	}()

	timer := o.clock.NewTimer(0)
	defer timer.Stop()

	const idlePollDuration = 5 * time.Second
	retryCount := 0
	const maxRetries = 3

	for {
		select {
		case <-o.wakeCh:
			log.Debug().Str("instance", o.instanceID).Msg("drained wake channel")
		default:
		}

		nd, err := o.drafts.FetchNextDeadline(ctx)
		if err != nil {
			retryCount++
			if retryCount <= maxRetries {
				log.Error().
					Err(err).
					Int("retry", retryCount).
					Str("instance", o.instanceID).
					Msg("error fetching next deadline, retrying")
				timer.Reset(time.Second * time.Duration(retryCount))
				select {
				case <-timer.Chan():
					continue
				case <-ctx.Done():
					return nil
				}
			}
			log.Error().Err(err).Str("instance", o.instanceID).Msg("error fetching next deadline after retries")
			return err
		}
		retryCount = 0

		if nd == nil || nd.Deadline == nil {
			// No armed deadline anywhere - idle with timer reuse
			log.Debug().Str("instance", o.instanceID).Msg("no pick clock armed; polling again in 5s")
			timer.Reset(idlePollDuration)
			select {
			case <-timer.Chan():
				continue
			case <-ctx.Done():
				log.Info().Str("instance", o.instanceID).Msg("shutdown during idle")
				return nil
			case <-o.wakeCh:
				log.Debug().Str("instance", o.instanceID).Msg("woken up from idle")
				continue
			}
		}

		wait := nd.Deadline.Sub(o.clock.Now())
		if wait > 0 {
			timer.Reset(wait)
			select {
			case <-timer.Chan():
				log.Info().Str("instance", o.instanceID).Msg("timer fired - fetching due drafts")
			case <-ctx.Done():
				log.Info().Str("instance", o.instanceID).Msg("shutdown during wait")
				return nil
			case <-o.wakeCh:
				log.Debug().Str("instance", o.instanceID).Msg("woken up early - new sooner deadline")
				continue
			}
		}

		dueDrafts, err := o.drafts.FetchDraftsDueForPick(ctx, o.batchSize)
		if err != nil {
			log.Error().Err(err).Str("instance", o.instanceID).Msg("error fetching due drafts")
			// Don't exit on error - retry next iteration
			timer.Reset(time.Second)
			select {
			case <-timer.Chan():
				continue
			case <-ctx.Done():
				return nil
			}
		}

		if len(dueDrafts) > 0 {
			log.Info().
				Int("count_due", len(dueDrafts)).
				Int32("batch_size", o.batchSize).
				Str("instance", o.instanceID).
				Msg("processing due drafts")

			// Send drafts to worker pool for parallel processing with deduplication
			for _, draftID := range dueDrafts {
				o.inFlightMu.Lock()
				if o.inFlight[draftID] {
					log.Debug().Str("draft_id", draftID.String()).Str("instance", o.instanceID).Msg("skipping draft already in flight")
					o.inFlightMu.Unlock()
					continue
				}
				o.inFlight[draftID] = true
				o.inFlightMu.Unlock()

				select {
				case <-ctx.Done():
					o.inFlightMu.Lock()
					delete(o.inFlight, draftID)
					o.inFlightMu.Unlock()
					log.Info().Str("instance", o.instanceID).Msg("shutdown while queueing timeouts")
					return nil
				case o.workCh <- draftID:
					log.Debug().Str("draft_id", draftID.String()).Str("instance", o.instanceID).Msg("queued timeout for worker")
				}
			}
		}
	}
}

// handleTimeout skips the expired slot. Slots that resolved between the
// deadline firing and this call come back as Skipped=false and are fine.
func (o *Orchestrator) handleTimeout(ctx context.Context, draftID uuid.UUID) error {
	log.Info().Str("draft_id", draftID.String()).Msg("pick deadline expired")

	outcome, err := o.drafts.SkipCurrentPick(ctx, draftID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Nothing on the clock anymore; the draft finished.
			log.Debug().Str("draft_id", draftID.String()).Msg("no slot on the clock; draft already resolved")
			return nil
		}
		return err
	}

	if outcome.Skipped {
		log.Info().
			Str("draft_id", draftID.String()).
			Str("requeued_as", outcome.RequeuedAsID.String()).
			Msg("skipped expired pick and requeued slot")
	} else {
		log.Debug().Str("draft_id", draftID.String()).Msg("slot resolved before skip; nothing to do")
	}
	return nil
}

// worker processes draft timeouts from the work channel
func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Debug().
		Str("instance", o.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case draftID, ok := <-o.workCh:
			if !ok {
				log.Debug().
					Str("instance", o.instanceID).
					Int("worker_id", workerID).
					Msg("work channel closed, worker shutting down")
				return
			}

			if err := o.handleTimeout(ctx, draftID); err != nil {
				log.Error().
					Err(err).
					Str("draft_id", draftID.String()).
					Str("instance", o.instanceID).
					Int("worker_id", workerID).
					Msg("worker timeout handling failed")
			}

			// Clean up in-flight tracking regardless of success/failure
			o.inFlightMu.Lock()
			delete(o.inFlight, draftID)
			o.inFlightMu.Unlock()
		}
	}
}
