package purchase_test

import (
	"testing"

	"omnia-tickets/internal/models"
	"omnia-tickets/internal/purchase"

	"github.com/stretchr/testify/assert"
)

func TestTransitionConfirm(t *testing.T) {
	tests := []struct {
		name       string
		from       string
		wantStatus string
		wantEffect purchase.StockEffect
		wantErr    error
	}{
		{"pending confirms without stock change", models.StatusPending, models.StatusConfirmed, purchase.StockNone, nil},
		{"confirmed re-confirm is a no-op", models.StatusConfirmed, models.StatusConfirmed, purchase.StockNone, nil},
		{"rejected re-confirm reserves again", models.StatusRejected, models.StatusConfirmed, purchase.StockReserve, nil},
		{"used cannot be confirmed", models.StatusUsed, "", purchase.StockNone, purchase.ErrAlreadyUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, effect, err := purchase.Transition(tt.from, purchase.ActionConfirm)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestTransitionReject(t *testing.T) {
	tests := []struct {
		name       string
		from       string
		wantEffect purchase.StockEffect
		wantErr    error
	}{
		{"pending rejection restores stock", models.StatusPending, purchase.StockRestore, nil},
		{"confirmed rejection restores stock", models.StatusConfirmed, purchase.StockRestore, nil},
		{"double rejection leaves stock alone", models.StatusRejected, purchase.StockNone, nil},
		{"used cannot be rejected", models.StatusUsed, purchase.StockNone, purchase.ErrAlreadyUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, effect, err := purchase.Transition(tt.from, purchase.ActionReject)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, models.StatusRejected, status)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestTransitionRedeem(t *testing.T) {
	status, effect, err := purchase.Transition(models.StatusConfirmed, purchase.ActionRedeem)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusUsed, status)
	assert.Equal(t, purchase.StockNone, effect)

	_, _, err = purchase.Transition(models.StatusPending, purchase.ActionRedeem)
	assert.ErrorIs(t, err, purchase.ErrNotYetConfirmed)

	_, _, err = purchase.Transition(models.StatusRejected, purchase.ActionRedeem)
	assert.ErrorIs(t, err, purchase.ErrNotYetConfirmed)

	_, _, err = purchase.Transition(models.StatusUsed, purchase.ActionRedeem)
	assert.ErrorIs(t, err, purchase.ErrAlreadyUsed)
}

func TestTransitionUnknownStatus(t *testing.T) {
	_, _, err := purchase.Transition("cancelled", purchase.ActionConfirm)
	assert.ErrorIs(t, err, purchase.ErrInvalidTransition)
}

// Redeem errors must stay distinguishable: the door shows different
// messages for "not yet confirmed" and "already used".
func TestRedeemErrorsAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, purchase.ErrNotYetConfirmed, purchase.ErrAlreadyUsed)
	assert.ErrorIs(t, purchase.ErrNotYetConfirmed, purchase.ErrInvalidTransition)
	assert.ErrorIs(t, purchase.ErrAlreadyUsed, purchase.ErrInvalidTransition)
}
