package security

import (
	"context"
	"fmt"
	"time"

	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"
	"omnia-tickets/internal/purchase"
)

type PurchaseDB interface {
	GetPurchaseByCode(ctx context.Context, code string) (*models.Purchase, error)
	UpdatePurchaseStatus(ctx context.Context, p *models.Purchase) error
}

type EventPublisher interface {
	PublishPurchaseRedeemed(p models.Purchase) error
}

// Service is the door-side verification flow. It operates purely on the
// confirmation code and never touches stock.
type Service struct {
	DB     PurchaseDB
	Events EventPublisher
	Logger *logger.Logger
}

func NewService(db PurchaseDB, events EventPublisher, log *logger.Logger) *Service {
	return &Service{DB: db, Events: events, Logger: log}
}

// Verify looks a purchase up by its confirmation code without changing it.
func (s *Service) Verify(ctx context.Context, code string) (*models.Purchase, error) {
	return s.DB.GetPurchaseByCode(ctx, code)
}

// Redeem marks a confirmed purchase as used, stamping the redemption time.
// Only confirmed purchases can be redeemed, and only once.
func (s *Service) Redeem(ctx context.Context, code string) (*models.Purchase, error) {
	p, err := s.DB.GetPurchaseByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	next, _, err := purchase.Transition(p.Status, purchase.ActionRedeem)
	if err != nil {
		return nil, err
	}

	p.Status = next
	p.UsedAt = time.Now()
	if err := s.DB.UpdatePurchaseStatus(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to redeem purchase %s: %w", p.ID, err)
	}
	s.Logger.LogPurchase("REDEEM", p.ID, fmt.Sprintf("code %s used at the door", p.ConfirmationCode))

	if err := s.Events.PublishPurchaseRedeemed(*p); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("publish purchase redeemed: %v", err))
	}

	return p, nil
}
