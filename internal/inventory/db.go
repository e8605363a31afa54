package inventory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"omnia-tickets/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ActiveOffering returns the offering flagged active, falling back to any
// existing offering. Both lookups order by created_at descending so the
// result is deterministic when the flag is ambiguous.
func (d *DB) ActiveOffering(ctx context.Context) (*models.TicketOffering, error) {
	var offering models.TicketOffering
	err := d.Bun.NewSelect().
		Model(&offering).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		err = d.Bun.NewSelect().
			Model(&offering).
			Order("created_at DESC").
			Limit(1).
			Scan(ctx)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoOffering
	}
	if err != nil {
		return nil, err
	}
	return &offering, nil
}

// ReserveStock decrements available_tickets by quantity in a single
// conditional update. Two concurrent reservations cannot both pass the
// stock check: the check and the decrement are one store-level statement.
func (d *DB) ReserveStock(ctx context.Context, offeringID string, quantity int) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.TicketOffering)(nil)).
		Set("available_tickets = available_tickets - ?", quantity).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", offeringID).
		Where("available_tickets >= ?", quantity).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock adds quantity back to available_tickets. The add is not
// capped against total_tickets; capping happens only when the admin
// resizes capacity.
func (d *DB) RestoreStock(ctx context.Context, offeringID string, quantity int) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.TicketOffering)(nil)).
		Set("available_tickets = available_tickets + ?", quantity).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", offeringID).
		Exec(ctx)
	return err
}

func (d *DB) InsertOffering(ctx context.Context, offering *models.TicketOffering) error {
	_, err := d.Bun.NewInsert().Model(offering).Exec(ctx)
	return err
}

func (d *DB) UpdateOffering(ctx context.Context, offering *models.TicketOffering) error {
	offering.UpdatedAt = time.Now()
	_, err := d.Bun.NewUpdate().
		Model(offering).
		WherePK().
		Exec(ctx)
	return err
}
