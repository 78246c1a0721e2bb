package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// LeagueFeed is the pool key for clients that watch every event rather
// than a single draft.
var LeagueFeed = uuid.Nil

// ConnectionManager manages websocket connections for live league events.
// Connections are pooled by the draft they watch; the LeagueFeed pool
// receives everything, including trade and waiver events.
type ConnectionManager struct {
	pools map[uuid.UUID]map[*Connection]bool
	mu    sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan BroadcastMessage
}

// Connection represents a websocket connection to a client
type Connection struct {
	ID      string
	UserID  string
	Topic   uuid.UUID // draft ID, or LeagueFeed
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
	LastPing    time.Time
}

// ConnectionConfig holds configuration for websocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// BroadcastMessage represents a message to broadcast to a pool
type BroadcastMessage struct {
	Topic uuid.UUID
	Event *LiveEvent
}

// DefaultConnectionConfig returns default websocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a new websocket connection manager
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		pools: make(map[uuid.UUID]map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan BroadcastMessage, 1000), // Buffer for high throughput
	}
}

// Start begins processing broadcast messages
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			return
		case message := <-cm.broadcastCh:
			cm.handleBroadcast(message)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection to a websocket and joins
// it to the topic pool.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, userID string, topic uuid.UUID) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		UserID:      userID,
		Topic:       topic,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("user_id", userID).
		Str("topic", topic.String()).
		Msg("websocket connection established")

	return nil
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.pools[conn.Topic] == nil {
		cm.pools[conn.Topic] = make(map[*Connection]bool)
	}
	cm.pools[conn.Topic][conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Str("topic", conn.Topic.String()).
		Int("pool_size", len(cm.pools[conn.Topic])).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if pool, exists := cm.pools[conn.Topic]; exists {
		if _, exists := pool[conn]; exists {
			delete(pool, conn)
			close(conn.Send)

			if len(pool) == 0 {
				delete(cm.pools, conn.Topic)
			}

			log.Info().
				Str("connection_id", conn.ID).
				Str("user_id", conn.UserID).
				Str("topic", conn.Topic.String()).
				Msg("connection unregistered")
		}
	}
}

// Broadcast fans an event out to the topic's pool and to the league feed.
func (cm *ConnectionManager) Broadcast(topic uuid.UUID, event *LiveEvent) {
	cm.enqueue(BroadcastMessage{Topic: topic, Event: event})
	if topic != LeagueFeed {
		cm.enqueue(BroadcastMessage{Topic: LeagueFeed, Event: event})
	}
}

func (cm *ConnectionManager) enqueue(message BroadcastMessage) {
	select {
	case cm.broadcastCh <- message:
	default:
		log.Warn().Str("topic", message.Topic.String()).Msg("broadcast channel full, dropping message")
	}
}

func (cm *ConnectionManager) handleBroadcast(message BroadcastMessage) {
	cm.mu.RLock()
	pool, exists := cm.pools[message.Topic]
	if !exists {
		cm.mu.RUnlock()
		return
	}

	// Snapshot the pool so the lock is not held during writes.
	targets := make([]*Connection, 0, len(pool))
	for conn := range pool {
		targets = append(targets, conn)
	}
	cm.mu.RUnlock()

	eventData, err := json.Marshal(message.Event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	for _, conn := range targets {
		select {
		case conn.Send <- eventData:
		default:
			// Connection is slow/dead, close it
			log.Warn().
				Str("connection_id", conn.ID).
				Str("user_id", conn.UserID).
				Msg("connection send buffer full, closing connection")
			cm.unregisterConnection(conn)
			conn.Conn.Close()
		}
	}

	log.Debug().
		Str("event_type", message.Event.Type).
		Str("topic", message.Topic.String()).
		Int("connections", len(targets)).
		Msg("event broadcasted")
}

// Stats reports active connection counts per topic.
func (cm *ConnectionManager) Stats() (total int, topics map[string]int) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	topics = make(map[string]int, len(cm.pools))
	for topic, pool := range cm.pools {
		topics[topic.String()] = len(pool)
		total += len(pool)
	}
	return total, topics
}

// writePump handles sending messages to the websocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump handles reading messages from the websocket connection
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close error")
			}
			break
		}

		// Clients only send keepalive chatter today.
		log.Debug().
			Str("connection_id", c.ID).
			Str("user_id", c.UserID).
			RawJSON("message", message).
			Msg("received client message")
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
