package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

type JetStreamConfig struct {
	URL             string
	StreamName      string
	SubjectPrefix   string
	MaxReconnects   int
	ReconnectWait   time.Duration
	MaxAge          time.Duration
	DuplicateWindow time.Duration
}

func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		StreamName:      "LEAGUE_EVENTS",
		SubjectPrefix:   "league.events",
		MaxReconnects:   -1, // Infinite
		ReconnectWait:   2 * time.Second,
		MaxAge:          7 * 24 * time.Hour,
		DuplicateWindow: 2 * time.Hour,
	}
}

// JetStreamPublisher publishes outbox events to a NATS JetStream stream.
// Message IDs carry the outbox row id so JetStream deduplicates redelivery
// within the duplicate window.
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

func NewJetStreamPublisher(cfg JetStreamConfig) (*JetStreamPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := &JetStreamPublisher{nc: nc, js: js, config: cfg}

	if err := p.ensureStream(context.Background()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return p, nil
}

func (p *JetStreamPublisher) ensureStream(ctx context.Context) error {
	sc := jetstream.StreamConfig{
		Name:        p.config.StreamName,
		Description: "League event stream for outbox pattern",
		Subjects:    []string{fmt.Sprintf("%s.>", p.config.SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      p.config.MaxAge,
		Storage:     jetstream.FileStorage,
		Duplicates:  p.config.DuplicateWindow,
	}

	_, err := p.js.Stream(ctx, p.config.StreamName)
	if err != nil {
		if _, err := p.js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		log.Info().Str("stream", p.config.StreamName).Msg("created JetStream stream")
		return nil
	}

	if _, err := p.js.UpdateStream(ctx, sc); err != nil {
		return fmt.Errorf("update stream: %w", err)
	}
	return nil
}

// busEnvelope is the wire shape consumed by the gateway and orchestrator.
type busEnvelope struct {
	EventID     string          `json:"event_id"`
	AggregateID string          `json:"aggregate_id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p *JetStreamPublisher) Publish(ctx context.Context, event Event) error {
	envelope := busEnvelope{
		EventID:     event.ID.String(),
		AggregateID: event.AggregateID.String(),
		EventType:   event.EventType,
		Payload:     event.Payload,
		CreatedAt:   event.CreatedAt,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.config.SubjectPrefix, event.EventType)
	_, err = p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.ID.String()))
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("event_id", event.ID.String()).
		Msg("published event")
	return nil
}

// Close drains the NATS connection.
func (p *JetStreamPublisher) Close() {
	p.nc.Close()
}
