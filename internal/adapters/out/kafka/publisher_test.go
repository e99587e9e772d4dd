package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

type unmappedEvent struct{}

func (unmappedEvent) EventName() string        { return "vehicle.serviced" }
func (unmappedEvent) AggregateID() kernel.UUID { return kernel.NewUUID() }
func (unmappedEvent) OccurredAt() time.Time    { return time.Now() }

func TestPublishRoutesEventsByAggregate(t *testing.T) {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	cylinderID := kernel.NewUUID()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	location, err := kernel.NewGeoPoint(-1.2921, 36.8219)
	require.NoError(t, err)

	w := &MockWriter{}
	var written []kafka.Message
	w.On("WriteMessages", ctx, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).([]kafka.Message)
	}).Return(nil)

	p := newPublisher(w, "orders.events", "cylinders.events", nil)
	err = p.Publish(ctx,
		order.StatusChangedEvent{OrderID: orderID, CustomerID: kernel.NewUUID(), From: order.Pending, To: order.Assigned, At: at},
		cylinder.ScanFlaggedEvent{CylinderID: cylinderID, ScannedBy: kernel.NewUUID(), Result: "TAMPERED", Location: location, At: at},
		unmappedEvent{},
	)
	require.NoError(t, err)
	require.Len(t, written, 2)

	assert.Equal(t, "orders.events", written[0].Topic)
	assert.Equal(t, orderID.String(), string(written[0].Key))
	var env Envelope
	require.NoError(t, json.Unmarshal(written[0].Value, &env))
	assert.Equal(t, order.StatusChangedEventName, env.Event)
	assert.Equal(t, "PENDING", env.Payload["from"])
	assert.Equal(t, "ASSIGNED", env.Payload["to"])
	assert.True(t, at.Equal(env.OccurredAt))

	assert.Equal(t, "cylinders.events", written[1].Topic)
	assert.Equal(t, cylinderID.String(), string(written[1].Key))
	assert.Equal(t, cylinder.ScanFlaggedEventName, header(written[1], "event"))
	w.AssertExpectations(t)
}

func TestPublishWrapsWriterError(t *testing.T) {
	ctx := context.Background()
	w := &MockWriter{}
	w.On("WriteMessages", ctx, mock.Anything).Return(errors.New("broker down"))

	p := newPublisher(w, "orders.events", "cylinders.events", nil)
	err := p.Publish(ctx, cylinder.StatusChangedEvent{
		CylinderID: kernel.NewUUID(), From: cylinder.Active, To: cylinder.Filled, At: time.Now(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestPublishWithNothingMappedSkipsWriter(t *testing.T) {
	w := &MockWriter{}
	p := newPublisher(w, "orders.events", "cylinders.events", nil)

	require.NoError(t, p.Publish(context.Background(), unmappedEvent{}))
	w.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestNewPublisherRequiresBrokersAndTopics(t *testing.T) {
	_, err := NewPublisher(Config{OrderTopic: "o", CylinderTopic: "c"}, nil)
	require.Error(t, err)

	_, err = NewPublisher(Config{Brokers: []string{"localhost:9092"}, OrderTopic: "o"}, nil)
	require.Error(t, err)

	p, err := NewPublisher(Config{Brokers: []string{"localhost:9092"}, OrderTopic: "o", CylinderTopic: "c"}, nil)
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
