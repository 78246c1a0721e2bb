package gateway

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMsg struct {
	data    []byte
	subject string
}

func (m *stubMsg) Metadata() (*jetstream.MsgMetadata, error) { return &jetstream.MsgMetadata{}, nil }
func (m *stubMsg) Data() []byte { return m.data }
func (m *stubMsg) Headers() nats.Header { return nil }
func (m *stubMsg) Subject() string { return m.subject }
func (m *stubMsg) Reply() string { return "" }
func (m *stubMsg) Ack() error { return nil }
func (m *stubMsg) DoubleAck(ctx context.Context) error { return nil }
func (m *stubMsg) Nak() error { return nil }
func (m *stubMsg) NakWithDelay(delay time.Duration) error { return nil }
func (m *stubMsg) InProgress() error { return nil }
func (m *stubMsg) Term() error { return nil }
func (m *stubMsg) TermWithReason(reason string) error { return nil }

func TestProcessMessage_BroadcastsEnvelope(t *testing.T) {
	t.Parallel()

	cm := NewConnectionManager(DefaultConnectionConfig())
	draftID := uuid.New()
	watcher := newTestConnection(cm, draftID)

	ec := &EventConsumer{connectionManager: cm, config: DefaultConsumerConfig()}

	envelope := map[string]any{
		"event_id":     uuid.New().String(),
		"aggregate_id": draftID.String(),
		"event_type":   "draft.pick_made",
		"payload":      json.RawMessage(`{"overall_pick":7}`),
		"created_at":   time.Now().UTC(),
	}
	data, err := json.Marshal(envelope)
	require.NoError(t, err)

	err = ec.processMessage(&stubMsg{data: data, subject: "league.events.draft.pick_made"})
	require.NoError(t, err)
	drainBroadcasts(cm)

	require.Len(t, watcher.Send, 1)
	var frame LiveEvent
	require.NoError(t, json.Unmarshal(<-watcher.Send, &frame))
	assert.Equal(t, "draft.pick_made", frame.Type)
	assert.Equal(t, draftID.String(), frame.AggregateID)
	assert.JSONEq(t, `{"overall_pick":7}`, string(frame.Data))
}

func TestProcessMessage_RejectsBadEnvelope(t *testing.T) {
	t.Parallel()

	ec := &EventConsumer{connectionManager: NewConnectionManager(DefaultConnectionConfig())}

	err := ec.processMessage(&stubMsg{data: []byte(`not json`)})
	assert.Error(t, err)

	err = ec.processMessage(&stubMsg{data: []byte(`{"aggregate_id":"not-a-uuid"}`)})
	assert.Error(t, err)
}
