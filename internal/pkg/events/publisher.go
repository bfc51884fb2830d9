package events

import (
	"context"
	"encoding/json"
	"time"

	"shop_engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	OrderPlaced            = "order.placed"
	OrderStatusChanged     = "order.status_changed"
	OrderItemStatusChanged = "order.item_status_changed"
)

// OrderEvent 订单领域事件，以订单 ID 作为分区键
type OrderEvent struct {
	EventID     string    `json:"eventId"`
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	OrderItemID string    `json:"orderItemId,omitempty"`
	UserID      string    `json:"userId"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Publisher 事件投递，在事务提交之后调用，一次变更的事件一起投递
type Publisher interface {
	Publish(ctx context.Context, events ...OrderEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish 同步写入，整批事件只调用一次 WriteMessages
func (p *KafkaPublisher) Publish(ctx context.Context, events ...OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs, err := toMessages(events)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		logger.Log.Error("failed to publish order events",
			zap.String("order_id", events[0].OrderID),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessages(events []OrderEvent) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		event = stamp(event)
		data, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.OrderID),
			Value: data,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(event.Type)},
			},
		})
	}
	return msgs, nil
}

// NopPublisher 未配置 broker 时使用，只打日志
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, events ...OrderEvent) error {
	for _, event := range events {
		event = stamp(event)
		logger.Log.Debug("order event",
			zap.String("type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.String("to", event.To),
		)
	}
	return nil
}

func (NopPublisher) Close() error { return nil }

// New 按配置选择实现
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}

func stamp(event OrderEvent) OrderEvent {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return event
}
