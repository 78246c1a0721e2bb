package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConnection(cm *ConnectionManager, topic uuid.UUID) *Connection {
	conn := &Connection{
		ID:      uuid.New().String(),
		UserID:  "user-" + uuid.New().String()[:8],
		Topic:   topic,
		Send:    make(chan []byte, 4),
		Manager: cm,
	}
	cm.registerConnection(conn)
	return conn
}

func drainBroadcasts(cm *ConnectionManager) {
	for {
		select {
		case msg := <-cm.broadcastCh:
			cm.handleBroadcast(msg)
		default:
			return
		}
	}
}

func testEvent(aggregateID uuid.UUID, eventType string) *LiveEvent {
	return &LiveEvent{
		ID:          uuid.New().String(),
		AggregateID: aggregateID.String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		Data:        json.RawMessage(`{"round":1}`),
	}
}

func TestBroadcast_ReachesTopicAndLeagueFeed(t *testing.T) {
	t.Parallel()

	cm := NewConnectionManager(DefaultConnectionConfig())
	draftID := uuid.New()
	watcher := newTestConnection(cm, draftID)
	feed := newTestConnection(cm, LeagueFeed)
	other := newTestConnection(cm, uuid.New())

	cm.Broadcast(draftID, testEvent(draftID, "draft.pick_made"))
	drainBroadcasts(cm)

	require.Len(t, watcher.Send, 1)
	require.Len(t, feed.Send, 1)
	assert.Len(t, other.Send, 0)

	var frame LiveEvent
	require.NoError(t, json.Unmarshal(<-watcher.Send, &frame))
	assert.Equal(t, "draft.pick_made", frame.Type)
	assert.Equal(t, draftID.String(), frame.AggregateID)
}

func TestBroadcast_LeagueFeedEventNotDoubled(t *testing.T) {
	t.Parallel()

	cm := NewConnectionManager(DefaultConnectionConfig())
	feed := newTestConnection(cm, LeagueFeed)

	cm.Broadcast(LeagueFeed, testEvent(uuid.New(), "trade.accepted"))
	drainBroadcasts(cm)

	assert.Len(t, feed.Send, 1)
}

func TestUnregister_RemovesEmptyPool(t *testing.T) {
	t.Parallel()

	cm := NewConnectionManager(DefaultConnectionConfig())
	draftID := uuid.New()
	conn := newTestConnection(cm, draftID)

	total, topics := cm.Stats()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, topics[draftID.String()])

	cm.unregisterConnection(conn)

	total, topics = cm.Stats()
	assert.Equal(t, 0, total)
	assert.NotContains(t, topics, draftID.String())
}

func TestBroadcast_NoSubscribersIsNoop(t *testing.T) {
	t.Parallel()

	cm := NewConnectionManager(DefaultConnectionConfig())
	cm.Broadcast(uuid.New(), testEvent(uuid.New(), "waiver.awarded"))
	drainBroadcasts(cm)

	total, _ := cm.Stats()
	assert.Equal(t, 0, total)
}
