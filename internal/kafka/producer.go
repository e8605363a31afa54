package kafka

import (
	"context"
	"encoding/json"

	"omnia-tickets/internal/models"

	"github.com/segmentio/kafka-go"
)

// Purchase lifecycle topics.
const (
	TopicPurchaseCreated   = "omnia.purchase.created"
	TopicPurchaseConfirmed = "omnia.purchase.confirmed"
	TopicPurchaseRejected  = "omnia.purchase.rejected"
	TopicPurchaseRedeemed  = "omnia.purchase.redeemed"
)

func Topics() []string {
	return []string{
		TopicPurchaseCreated,
		TopicPurchaseConfirmed,
		TopicPurchaseRejected,
		TopicPurchaseRedeemed,
	}
}

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Producer) publish(topic string, purchase models.Purchase) error {
	value, err := json.Marshal(purchase)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(purchase.ID),
		Value: value,
	})
}

func (p *Producer) PublishPurchaseCreated(purchase models.Purchase) error {
	return p.publish(TopicPurchaseCreated, purchase)
}

func (p *Producer) PublishPurchaseConfirmed(purchase models.Purchase) error {
	return p.publish(TopicPurchaseConfirmed, purchase)
}

func (p *Producer) PublishPurchaseRejected(purchase models.Purchase) error {
	return p.publish(TopicPurchaseRejected, purchase)
}

func (p *Producer) PublishPurchaseRedeemed(purchase models.Purchase) error {
	return p.publish(TopicPurchaseRedeemed, purchase)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
