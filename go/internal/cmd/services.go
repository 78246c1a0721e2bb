package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"

	"github.com/rinkhq/faceoff/go/clients/contentgen"
	"github.com/rinkhq/faceoff/go/internal/api"
	"github.com/rinkhq/faceoff/go/internal/draft"
	"github.com/rinkhq/faceoff/go/internal/draft/orchestrator"
	"github.com/rinkhq/faceoff/go/internal/gateway"
	"github.com/rinkhq/faceoff/go/internal/outbox"
	"github.com/rinkhq/faceoff/go/internal/player"
	"github.com/rinkhq/faceoff/go/internal/prospect"
	"github.com/rinkhq/faceoff/go/internal/roster"
	"github.com/rinkhq/faceoff/go/internal/teams"
	"github.com/rinkhq/faceoff/go/internal/trade"
	"github.com/rinkhq/faceoff/go/internal/txlog"
	"github.com/rinkhq/faceoff/go/internal/waiver"
)

// Services holds every wired component: the app layers behind the API,
// plus the background loops main keeps running.
type Services struct {
	API *api.Handler

	Orchestrator    *orchestrator.Orchestrator
	OutboxWorker    *outbox.Worker
	WaiverProcessor *waiver.Processor

	Connections *gateway.ConnectionManager
	Consumer    *gateway.EventConsumer
	WebSocket   *gateway.WebSocketHandler

	Publisher *outbox.JetStreamPublisher
}

func setupServices(database *sql.DB, config *Config) (*Services, error) {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → HTTP layer
	clock := clockwork.NewRealClock()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Roster store and supporting domains
	rosterRepo := roster.NewRepository(database)
	rosterApp := roster.NewApp(rosterRepo)

	playerRepo := player.NewRepository(database)
	playerApp := player.NewApp(playerRepo)

	teamsRepo := teams.NewRepository(database)
	teamsApp := teams.NewApp(teamsRepo)

	prospectRepo := prospect.NewRepository(database)
	prospectApp := prospect.NewApp(prospectRepo)

	txlogRepo := txlog.NewRepository(database)
	txlogApp := txlog.NewApp(txlogRepo)

	// Engines
	draftRepo := draft.NewRepository(database)
	draftApp := draft.NewApp(draftRepo, prospectApp, clock)

	tradeRepo := trade.NewRepository(database)
	tradeApp := trade.NewApp(tradeRepo, rosterApp)

	waiverConfig := waiver.Config{
		CutoffHour:   config.Waivers.CutoffHour,
		CutoffMinute: config.Waivers.CutoffMinute,
	}
	waiverRepo := waiver.NewRepository(database)
	waiverApp := waiver.NewApp(waiverRepo, rosterApp, teamsApp, clock, waiverConfig)

	// Event pipeline: outbox relay → JetStream → websocket gateway
	jsConfig := outbox.DefaultJetStreamConfig()
	if config.NATS.URL != "" {
		jsConfig.URL = config.NATS.URL
	}
	publisher, err := outbox.NewJetStreamPublisher(jsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to set up event publisher: %w", err)
	}

	outboxRepo := outbox.NewRepository(database)
	outboxWorker := outbox.NewWorker(outboxRepo, publisher, outbox.DefaultConfig(), logger)

	connections := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	consumerConfig := gateway.DefaultConsumerConfig()
	if config.NATS.URL != "" {
		consumerConfig.URL = config.NATS.URL
	}
	consumer, err := gateway.NewEventConsumer(connections, consumerConfig)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("failed to set up event consumer: %w", err)
	}

	// Background loops
	orch := orchestrator.NewOrchestrator(draftApp, clock, config.Draft.SchedulerBatchSize)
	processor := waiver.NewProcessor(waiverApp, waiver.DefaultProcessorConfig(), clock, logger)

	// HTTP surface
	var contentHandler *api.ContentHandler
	if config.Content.BaseURL != "" {
		generator := contentgen.NewClient(config.Content.BaseURL, os.Getenv("CONTENT_API_KEY"))
		contentHandler = api.NewContentHandler(generator)
	}

	handler := api.NewHandler(
		api.NewDraftHandler(draftApp, orch),
		api.NewTradeHandler(tradeApp),
		api.NewWaiverHandler(waiverApp),
		api.NewLeagueHandler(teamsApp, playerApp, rosterApp, prospectApp, txlogApp),
		contentHandler,
	)

	return &Services{
		API:             handler,
		Orchestrator:    orch,
		OutboxWorker:    outboxWorker,
		WaiverProcessor: processor,
		Connections:     connections,
		Consumer:        consumer,
		WebSocket:       gateway.NewWebSocketHandler(connections),
		Publisher:       publisher,
	}, nil
}
