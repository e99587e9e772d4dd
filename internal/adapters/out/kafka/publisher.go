// Package kafka publishes committed domain events to Kafka. Order events go
// to one topic and cylinder events to another; the message key is the
// aggregate id so that events of one aggregate stay ordered within a partition.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// Config describes the brokers and topics.
type Config struct {
	Brokers       []string
	ClientID      string
	OrderTopic    string
	CylinderTopic string
	MaxAttempts   int
	BatchTimeout  time.Duration
}

// Envelope is the JSON value of every message.
type Envelope struct {
	Event       string         `json:"event"`
	AggregateID string         `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Payload     map[string]any `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.EventPublisher on top of kafka.Writer.
type Publisher struct {
	writer        messageWriter
	orderTopic    string
	cylinderTopic string
	logger        *slog.Logger
}

func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.OrderTopic == "" || cfg.CylinderTopic == "" {
		return nil, errors.New("kafka order and cylinder topics are required")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  max(cfg.MaxAttempts, 1),
		BatchTimeout: cfg.BatchTimeout,
		Transport: &kafka.Transport{
			ClientID: cfg.ClientID,
		},
	}
	return newPublisher(w, cfg.OrderTopic, cfg.CylinderTopic, logger), nil
}

func newPublisher(w messageWriter, orderTopic, cylinderTopic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		writer:        w,
		orderTopic:    orderTopic,
		cylinderTopic: cylinderTopic,
		logger:        logger.With("component", "kafka_publisher"),
	}
}

// Publish writes all events in one batch. Events of unknown kinds are skipped.
func (p *Publisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := p.buildMessage(e)
		if err != nil {
			p.logger.WarnContext(ctx, "Skipping event", "event", e.EventName(), "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	err := p.writer.WriteMessages(ctx, msgs...)
	for _, m := range msgs {
		metrics.ObservePublish(header(m, "event"), err)
	}
	if err != nil {
		return fmt.Errorf("publish %d events: %w", len(msgs), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) buildMessage(e kernel.DomainEvent) (kafka.Message, error) {
	payload, err := payloadOf(e)
	if err != nil {
		return kafka.Message{}, err
	}

	topic := p.orderTopic
	if strings.HasPrefix(e.EventName(), "cylinder.") {
		topic = p.cylinderTopic
	}

	value, err := json.Marshal(Envelope{
		Event:       e.EventName(),
		AggregateID: e.AggregateID().String(),
		OccurredAt:  e.OccurredAt().UTC(),
		Payload:     payload,
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Topic: topic,
		Key:   []byte(e.AggregateID().String()),
		Value: value,
		Time:  e.OccurredAt(),
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(e.EventName())},
		},
	}, nil
}

func payloadOf(e kernel.DomainEvent) (map[string]any, error) {
	switch ev := e.(type) {
	case order.StatusChangedEvent:
		return map[string]any{
			"order_id":    ev.OrderID.String(),
			"customer_id": ev.CustomerID.String(),
			"from":        ev.From.String(),
			"to":          ev.To.String(),
		}, nil
	case cylinder.StatusChangedEvent:
		return map[string]any{
			"cylinder_id": ev.CylinderID.String(),
			"from":        ev.From.String(),
			"to":          ev.To.String(),
		}, nil
	case cylinder.ScanFlaggedEvent:
		return map[string]any{
			"cylinder_id": ev.CylinderID.String(),
			"scanned_by":  ev.ScannedBy.String(),
			"result":      ev.Result,
			"message":     ev.Message,
			"latitude":    ev.Location.Latitude(),
			"longitude":   ev.Location.Longitude(),
		}, nil
	default:
		return nil, fmt.Errorf("no payload mapping for %T", e)
	}
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
