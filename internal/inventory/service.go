package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNoOffering        = errors.New("no ticket offering exists")
	ErrInsufficientStock = errors.New("not enough tickets available")
)

type DBLayer interface {
	ActiveOffering(ctx context.Context) (*models.TicketOffering, error)
	ReserveStock(ctx context.Context, offeringID string, quantity int) error
	RestoreStock(ctx context.Context, offeringID string, quantity int) error
	InsertOffering(ctx context.Context, offering *models.TicketOffering) error
	UpdateOffering(ctx context.Context, offering *models.TicketOffering) error
}

// OfferingLock serializes the read-modify-write sequences that cannot be a
// single store statement (capacity resize, stock reset).
type OfferingLock interface {
	Lock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// SettingsUpdate carries the admin settings form. Capacity and price arrive
// already coerced: blank or non-numeric inputs become zero at the boundary.
type SettingsUpdate struct {
	TotalTickets  int
	Price         float64
	EventName     *string
	LocationTitle *string
	LocationText  *string
	LineupTitle   *string
	LineupText    *string
	PromoText     *string
}

type Service struct {
	DB     DBLayer
	Lock   OfferingLock
	Logger *logger.Logger
}

func NewService(db DBLayer, lock OfferingLock, log *logger.Logger) *Service {
	return &Service{DB: db, Lock: lock, Logger: log}
}

// ActiveOffering returns the current offering, or ErrNoOffering when the
// store holds none. Read paths substitute their own default payload.
func (s *Service) ActiveOffering(ctx context.Context) (*models.TicketOffering, error) {
	return s.DB.ActiveOffering(ctx)
}

// Reserve takes quantity units of stock from the current offering and
// returns the offering the units were taken from, so callers can snapshot
// its price. A missing offering counts as insufficient stock.
func (s *Service) Reserve(ctx context.Context, quantity int) (*models.TicketOffering, error) {
	offering, err := s.DB.ActiveOffering(ctx)
	if errors.Is(err, ErrNoOffering) {
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}

	if err := s.DB.ReserveStock(ctx, offering.ID, quantity); err != nil {
		return nil, err
	}
	s.Logger.LogStock("RESERVE", fmt.Sprintf("reserved %d ticket(s) from offering %s", quantity, offering.ID))
	return offering, nil
}

// Restore puts quantity units back on the current offering. When no
// offering exists there is nothing to restore to; the call is a no-op,
// matching the reject path's tolerance for a deleted offering.
func (s *Service) Restore(ctx context.Context, quantity int) error {
	offering, err := s.DB.ActiveOffering(ctx)
	if errors.Is(err, ErrNoOffering) {
		s.Logger.Warn("STOCK", "restore skipped: no offering record")
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.DB.RestoreStock(ctx, offering.ID, quantity); err != nil {
		return err
	}
	s.Logger.LogStock("RESTORE", fmt.Sprintf("restored %d ticket(s) to offering %s", quantity, offering.ID))
	return nil
}

// clampResize computes the new available count when capacity changes from
// total to newTotal: available tracks the delta, then is clamped into
// [0, newTotal].
func clampResize(available, total, newTotal int) int {
	available += newTotal - total
	if available > newTotal {
		available = newTotal
	}
	if available < 0 {
		available = 0
	}
	return available
}

const settingsLockKey = "offering_settings"

// UpdateSettings resizes capacity and rewrites the descriptive fields,
// creating the offering on first use. The whole read-modify-write runs
// under the settings lock so two concurrent updates cannot clobber each
// other's stock arithmetic.
func (s *Service) UpdateSettings(ctx context.Context, update SettingsUpdate) (*models.TicketOffering, error) {
	ok, err := s.Lock.Lock(ctx, settingsLockKey)
	if err != nil {
		return nil, fmt.Errorf("settings lock: %w", err)
	}
	if !ok {
		return nil, errors.New("settings update already in progress")
	}
	defer s.Lock.Unlock(ctx, settingsLockKey)

	offering, err := s.DB.ActiveOffering(ctx)
	if err != nil && !errors.Is(err, ErrNoOffering) {
		return nil, err
	}

	if offering == nil {
		offering = &models.TicketOffering{
			ID:               uuid.New().String(),
			EventName:        models.DefaultEventName,
			TotalTickets:     update.TotalTickets,
			AvailableTickets: update.TotalTickets,
			Price:            update.Price,
			LocationTitle:    models.DefaultLocationTitle,
			LocationText:     models.DefaultLocationText,
			LineupTitle:      models.DefaultLineupTitle,
			LineupText:       models.DefaultLineupText,
			PromoText:        models.DefaultPromoText,
			IsActive:         true,
			CreatedAt:        time.Now(),
		}
		applyText(offering, update)
		if err := s.DB.InsertOffering(ctx, offering); err != nil {
			return nil, err
		}
		s.Logger.LogStock("CREATE", fmt.Sprintf("created offering %s with capacity %d", offering.ID, offering.TotalTickets))
		return offering, nil
	}

	offering.AvailableTickets = clampResize(offering.AvailableTickets, offering.TotalTickets, update.TotalTickets)
	offering.TotalTickets = update.TotalTickets
	offering.Price = update.Price
	offering.IsActive = true
	applyText(offering, update)

	if err := s.DB.UpdateOffering(ctx, offering); err != nil {
		return nil, err
	}
	s.Logger.LogStock("RESIZE", fmt.Sprintf("offering %s resized to %d (available %d)", offering.ID, offering.TotalTickets, offering.AvailableTickets))
	return offering, nil
}

func applyText(offering *models.TicketOffering, update SettingsUpdate) {
	if update.EventName != nil {
		offering.EventName = *update.EventName
	}
	if update.LocationTitle != nil {
		offering.LocationTitle = *update.LocationTitle
	}
	if update.LocationText != nil {
		offering.LocationText = *update.LocationText
	}
	if update.LineupTitle != nil {
		offering.LineupTitle = *update.LineupTitle
	}
	if update.LineupText != nil {
		offering.LineupText = *update.LineupText
	}
	if update.PromoText != nil {
		offering.PromoText = *update.PromoText
	}
}

// ResetStock sets available back to total on the current offering,
// re-activating a fallback record if none is flagged. Runs under the
// settings lock; used by the bulk purchase reset.
func (s *Service) ResetStock(ctx context.Context) (*models.TicketOffering, error) {
	ok, err := s.Lock.Lock(ctx, settingsLockKey)
	if err != nil {
		return nil, fmt.Errorf("settings lock: %w", err)
	}
	if !ok {
		return nil, errors.New("settings update already in progress")
	}
	defer s.Lock.Unlock(ctx, settingsLockKey)

	offering, err := s.DB.ActiveOffering(ctx)
	if err != nil {
		return nil, err
	}

	offering.AvailableTickets = offering.TotalTickets
	offering.IsActive = true
	if err := s.DB.UpdateOffering(ctx, offering); err != nil {
		return nil, err
	}
	s.Logger.LogStock("RESET", fmt.Sprintf("offering %s stock reset to %d", offering.ID, offering.AvailableTickets))
	return offering, nil
}
