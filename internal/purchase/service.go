package purchase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"
	"omnia-tickets/internal/utils"

	"github.com/google/uuid"
)

// ValidationError marks a malformed submission field. Handlers report the
// field and message to the caller; everything else stays server-side.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type DBLayer interface {
	InsertPurchase(ctx context.Context, p *models.Purchase) error
	GetPurchaseByID(ctx context.Context, id string) (*models.Purchase, error)
	GetPurchaseByCode(ctx context.Context, code string) (*models.Purchase, error)
	ListPurchases(ctx context.Context) ([]models.Purchase, error)
}

// Stock is the slice of the inventory manager the submission flow needs.
type Stock interface {
	Reserve(ctx context.Context, quantity int) (*models.TicketOffering, error)
	Restore(ctx context.Context, quantity int) error
}

type EventPublisher interface {
	PublishPurchaseCreated(p models.Purchase) error
}

// SubmitRequest is the boundary shape of a public purchase submission. The
// receipt has already been stored; Receipt is its serving path.
type SubmitRequest struct {
	FullName       string
	PersonalID     string
	Email          string
	TicketQuantity int
	PaymentMethod  string
	Receipt        string
}

type Service struct {
	DB     DBLayer
	Stock  Stock
	Events EventPublisher
	Logger *logger.Logger
}

func NewService(db DBLayer, stock Stock, events EventPublisher, log *logger.Logger) *Service {
	return &Service{DB: db, Stock: stock, Events: events, Logger: log}
}

func validateSubmit(req SubmitRequest) error {
	if strings.TrimSpace(req.FullName) == "" {
		return &ValidationError{Field: "fullName", Message: "required"}
	}
	if strings.TrimSpace(req.PersonalID) == "" {
		return &ValidationError{Field: "personalId", Message: "required"}
	}
	if !strings.Contains(req.Email, "@") {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if req.TicketQuantity < 1 {
		return &ValidationError{Field: "ticketQuantity", Message: "must be at least 1"}
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return &ValidationError{Field: "paymentMethod", Message: "must be BOG or TBC"}
	}
	if req.Receipt == "" {
		return &ValidationError{Field: "receipt", Message: "a payment receipt is required"}
	}
	return nil
}

// Submit reserves stock and creates the pending purchase request. The price
// is snapshotted from the offering the stock came from; it is never
// recomputed later. If the insert fails after the reservation, the reserved
// units are put back.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Purchase, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	offering, err := s.Stock.Reserve(ctx, req.TicketQuantity)
	if err != nil {
		return nil, err
	}

	p := &models.Purchase{
		ID:               uuid.New().String(),
		FullName:         req.FullName,
		PersonalID:       req.PersonalID,
		Email:            req.Email,
		TicketQuantity:   req.TicketQuantity,
		TotalPrice:       offering.Price * float64(req.TicketQuantity),
		PaymentMethod:    req.PaymentMethod,
		ConfirmationCode: utils.GenerateConfirmationCode(),
		Receipt:          req.Receipt,
		Status:           models.StatusPending,
		CreatedAt:        time.Now(),
	}

	if err := s.DB.InsertPurchase(ctx, p); err != nil {
		s.Logger.Error("PURCHASE", fmt.Sprintf("insert failed, restoring %d ticket(s): %v", req.TicketQuantity, err))
		if restoreErr := s.Stock.Restore(ctx, req.TicketQuantity); restoreErr != nil {
			s.Logger.Error("STOCK", fmt.Sprintf("failed to restore stock after insert failure: %v", restoreErr))
		}
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	s.Logger.LogPurchase("SUBMIT", p.ID, fmt.Sprintf("%d ticket(s) for %s, code %s", p.TicketQuantity, p.Email, p.ConfirmationCode))

	if err := s.Events.PublishPurchaseCreated(*p); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("publish purchase created: %v", err))
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Purchase, error) {
	return s.DB.GetPurchaseByID(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*models.Purchase, error) {
	return s.DB.GetPurchaseByCode(ctx, code)
}

// List returns every purchase request, newest first.
func (s *Service) List(ctx context.Context) ([]models.Purchase, error) {
	return s.DB.ListPurchases(ctx)
}
