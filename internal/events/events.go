package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
)

// Типы событий
const (
	TypeReservationCreated = "reservation.created"
	TypeReservationDeleted = "reservation.deleted"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ReservationEvent полезная нагрузка события о бронировании
type ReservationEvent struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	OccurredAt time.Time `json:"occurredAt"`
	Actor      string    `json:"actor,omitempty"` // user | admin

	ReservationID string `json:"reservationId"`
	SessionID     int64  `json:"sessionId"`
	Plate         string `json:"plate"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
}

// NewReservationEvent собирает событие из бронирования
func NewReservationEvent(eventType, actor string, r *domain.Reservation) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		Actor:         actor,
		ReservationID: r.ID,
		SessionID:     r.SessionID,
		Plate:         r.PlateNormalized,
		Date:          r.Date.Format(domain.DateFormat),
		StartTime:     r.StartTime.String(),
		EndTime:       r.EndTime.String(),
	}
}

// messageWriter часть *kafka.Writer, которая нужна издателю
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher публикует события бронирований в Kafka.
// Ошибки публикации логируются и не влияют на основной сценарий
type KafkaPublisher struct {
	writer messageWriter
	logger Logger
}

// NewKafkaPublisher создает издателя; brokers через запятую
func NewKafkaPublisher(brokers, topic string, logger Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(SplitBrokers(brokers)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("events: failed to deliver %d messages: %v", len(messages), err)
			}
		},
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish отправляет событие; ключ сообщения = ID бронирования
func (p *KafkaPublisher) Publish(ctx context.Context, event ReservationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("events: failed to marshal %s: %v", event.EventType, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.ReservationID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	msg.Headers = InjectTraceHeaders(ctx, msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("events: failed to publish %s for reservation=%s: %v", event.EventType, event.ReservationID, err)
	}
}

// Close сбрасывает буфер и закрывает соединения
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("events: close writer: %w", err)
	}
	return nil
}

// NoopPublisher используется, когда Kafka выключена
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ReservationEvent) {}

func (NoopPublisher) Close() error { return nil }

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// InjectTraceHeaders добавляет W3C trace context в заголовки сообщения
func InjectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)
