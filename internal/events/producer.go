package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"medirural/internal/domain"
)

const (
	OrderCreatedTopic       = "pharmacy.order.created"
	OrderStatusChangedTopic = "pharmacy.order.status_changed"
)

type OrderCreatedEvent struct {
	OrderID        string    `json:"orderId"`
	UserID         string    `json:"userId"`
	TotalAmount    float64   `json:"totalAmount"`
	ItemCount      int       `json:"itemCount"`
	Pincode        string    `json:"pincode"`
	IsSubscription bool      `json:"isSubscription"`
	SourceOrderID  string    `json:"sourceOrder,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	EventTime      time.Time `json:"eventTime"`
}

type OrderStatusChangedEvent struct {
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	From      domain.OrderStatus `json:"from"`
	To        domain.OrderStatus `json:"to"`
	Pincode   string             `json:"pincode"`
	UpdatedAt time.Time          `json:"updatedAt"`
	EventTime time.Time          `json:"eventTime"`
}

// KafkaProducer публикует события жизненного цикла заказа
type KafkaProducer struct {
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

func NewKafkaProducer(brokers []string, logger *logrus.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return NewKafkaProducerWith(producer, logger), nil
}

// NewKafkaProducerWith оборачивает готовый SyncProducer (в тестах mocks.SyncProducer)
func NewKafkaProducerWith(producer sarama.SyncProducer, logger *logrus.Logger) *KafkaProducer {
	return &KafkaProducer{producer: producer, logger: logger}
}

func (p *KafkaProducer) PublishOrderCreated(_ context.Context, o domain.Order) error {
	event := OrderCreatedEvent{
		OrderID:        o.ID,
		UserID:         o.UserID,
		TotalAmount:    o.TotalAmount,
		ItemCount:      len(o.Items),
		Pincode:        o.Shipping.Pincode,
		IsSubscription: o.IsSubscription,
		SourceOrderID:  o.SourceOrderID,
		CreatedAt:      o.CreatedAt,
		EventTime:      time.Now().UTC(),
	}
	return p.send(OrderCreatedTopic, o.ID, event)
}

func (p *KafkaProducer) PublishOrderStatusChanged(_ context.Context, o domain.Order, from domain.OrderStatus) error {
	event := OrderStatusChangedEvent{
		OrderID:   o.ID,
		UserID:    o.UserID,
		From:      from,
		To:        o.Status,
		Pincode:   o.Shipping.Pincode,
		UpdatedAt: o.UpdatedAt,
		EventTime: time.Now().UTC(),
	}
	return p.send(OrderStatusChangedTopic, o.ID, event)
}

func (p *KafkaProducer) send(topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithField("topic", topic).Error("Failed to send message to Kafka")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic":     topic,
		"partition": partition,
		"offset":    offset,
		"order_id":  key,
	}).Debug("Event published to Kafka")
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
