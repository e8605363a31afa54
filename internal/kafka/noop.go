package kafka

import "omnia-tickets/internal/models"

// Publisher is the full set of purchase lifecycle events.
type Publisher interface {
	PublishPurchaseCreated(p models.Purchase) error
	PublishPurchaseConfirmed(p models.Purchase) error
	PublishPurchaseRejected(p models.Purchase) error
	PublishPurchaseRedeemed(p models.Purchase) error
}

// NoopPublisher satisfies the workflow publisher interfaces when Kafka is
// disabled (local development without a broker).
type NoopPublisher struct{}

func (NoopPublisher) PublishPurchaseCreated(models.Purchase) error   { return nil }
func (NoopPublisher) PublishPurchaseConfirmed(models.Purchase) error { return nil }
func (NoopPublisher) PublishPurchaseRejected(models.Purchase) error  { return nil }
func (NoopPublisher) PublishPurchaseRedeemed(models.Purchase) error  { return nil }
