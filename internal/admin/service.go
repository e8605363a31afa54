package admin

import (
	"context"
	"fmt"
	"time"

	"omnia-tickets/internal/inventory"
	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"
	"omnia-tickets/internal/purchase"
)

type PurchaseDB interface {
	GetPurchaseByID(ctx context.Context, id string) (*models.Purchase, error)
	UpdatePurchaseStatus(ctx context.Context, p *models.Purchase) error
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
	DeleteAllPurchases(ctx context.Context) (int64, error)
}

// Stock is the slice of the inventory manager the admin workflow drives.
type Stock interface {
	Reserve(ctx context.Context, quantity int) (*models.TicketOffering, error)
	Restore(ctx context.Context, quantity int) error
	UpdateSettings(ctx context.Context, update inventory.SettingsUpdate) (*models.TicketOffering, error)
	ResetStock(ctx context.Context) (*models.TicketOffering, error)
}

type Mailer interface {
	SendConfirmation(p models.Purchase) error
}

type EventPublisher interface {
	PublishPurchaseConfirmed(p models.Purchase) error
	PublishPurchaseRejected(p models.Purchase) error
}

type Service struct {
	DB     PurchaseDB
	Stock  Stock
	Mailer Mailer
	Events EventPublisher
	Logger *logger.Logger
}

func NewService(db PurchaseDB, stock Stock, mailer Mailer, events EventPublisher, log *logger.Logger) *Service {
	return &Service{DB: db, Stock: stock, Mailer: mailer, Events: events, Logger: log}
}

// Confirm moves a purchase to confirmed and emails the buyer their code.
// Confirming an already-confirmed purchase is harmless; confirming a
// rejected one re-reserves its quantity, and fails if stock has since run
// out. The bool result reports whether the notification was delivered —
// email failure never rolls back the confirmation.
func (s *Service) Confirm(ctx context.Context, id string) (*models.Purchase, bool, error) {
	p, err := s.DB.GetPurchaseByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	next, effect, err := purchase.Transition(p.Status, purchase.ActionConfirm)
	if err != nil {
		return nil, false, err
	}

	if effect == purchase.StockReserve {
		if _, err := s.Stock.Reserve(ctx, p.TicketQuantity); err != nil {
			return nil, false, err
		}
	}

	prev := p.Status
	p.Status = next
	if err := s.DB.UpdatePurchaseStatus(ctx, p); err != nil {
		if effect == purchase.StockReserve {
			if restoreErr := s.Stock.Restore(ctx, p.TicketQuantity); restoreErr != nil {
				s.Logger.Error("STOCK", fmt.Sprintf("failed to restore stock after confirm failure: %v", restoreErr))
			}
		}
		return nil, false, fmt.Errorf("failed to confirm purchase %s: %w", id, err)
	}
	s.Logger.LogPurchase("CONFIRM", p.ID, fmt.Sprintf("%s -> %s", prev, p.Status))

	emailSent := true
	if err := s.Mailer.SendConfirmation(*p); err != nil {
		emailSent = false
		s.Logger.Error("EMAIL", fmt.Sprintf("confirmation email for %s failed: %v", p.ID, err))
	}

	if err := s.Events.PublishPurchaseConfirmed(*p); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("publish purchase confirmed: %v", err))
	}

	return p, emailSent, nil
}

// Reject moves a purchase to rejected, returning its quantity to stock.
// Rejecting an already-rejected purchase changes nothing.
func (s *Service) Reject(ctx context.Context, id string) (*models.Purchase, error) {
	p, err := s.DB.GetPurchaseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, effect, err := purchase.Transition(p.Status, purchase.ActionReject)
	if err != nil {
		return nil, err
	}

	prev := p.Status
	p.Status = next
	if err := s.DB.UpdatePurchaseStatus(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to reject purchase %s: %w", id, err)
	}

	if effect == purchase.StockRestore {
		if err := s.Stock.Restore(ctx, p.TicketQuantity); err != nil {
			s.Logger.Error("STOCK", fmt.Sprintf("failed to restore stock for rejected purchase %s: %v", p.ID, err))
		}
	}
	s.Logger.LogPurchase("REJECT", p.ID, fmt.Sprintf("%s -> %s", prev, p.Status))

	if err := s.Events.PublishPurchaseRejected(*p); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("publish purchase rejected: %v", err))
	}

	return p, nil
}

func (s *Service) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	return s.DB.ListPurchases(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, update inventory.SettingsUpdate) (*models.TicketOffering, error) {
	return s.Stock.UpdateSettings(ctx, update)
}

// Reset bulk-deletes every purchase request and puts stock back to full
// capacity. Maintenance procedure, not part of the normal flow.
func (s *Service) Reset(ctx context.Context) (int64, *models.TicketOffering, error) {
	deleted, err := s.DB.DeleteAllPurchases(ctx)
	if err != nil {
		return 0, nil, err
	}
	offering, err := s.Stock.ResetStock(ctx)
	if err != nil {
		return deleted, nil, err
	}
	s.Logger.Warn("ADMIN", fmt.Sprintf("reset: deleted %d purchase(s), stock back to %d at %s",
		deleted, offering.AvailableTickets, time.Now().Format(time.RFC3339)))
	return deleted, offering, nil
}
