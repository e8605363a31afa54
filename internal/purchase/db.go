package purchase

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"omnia-tickets/internal/models"

	"github.com/uptrace/bun"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

type DB struct {
	Bun *bun.DB
}

func (d *DB) InsertPurchase(ctx context.Context, p *models.Purchase) error {
	_, err := d.Bun.NewInsert().Model(p).Exec(ctx)
	return err
}

func (d *DB) GetPurchaseByID(ctx context.Context, id string) (*models.Purchase, error) {
	var p models.Purchase
	err := d.Bun.NewSelect().
		Model(&p).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPurchaseByCode looks a purchase up by its confirmation code, the only
// key the door-side verification flow has.
func (d *DB) GetPurchaseByCode(ctx context.Context, code string) (*models.Purchase, error) {
	var p models.Purchase
	err := d.Bun.NewSelect().
		Model(&p).
		Where("confirmation_code = ?", code).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePurchaseStatus writes the lifecycle fields only; identity fields
// and the quantity are fixed at creation.
func (d *DB) UpdatePurchaseStatus(ctx context.Context, p *models.Purchase) error {
	p.UpdatedAt = time.Now()
	_, err := d.Bun.NewUpdate().
		Model(p).
		Column("status", "used_at", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

func (d *DB) ListPurchases(ctx context.Context) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := d.Bun.NewSelect().
		Model(&purchases).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// DeleteAllPurchases empties the purchases table. Maintenance only; normal
// operation never deletes a purchase.
func (d *DB) DeleteAllPurchases(ctx context.Context) (int64, error) {
	res, err := d.Bun.NewDelete().
		Model((*models.Purchase)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
