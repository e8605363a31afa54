package purchase

import (
	"errors"
	"fmt"

	"omnia-tickets/internal/models"
)

// Action is something an operator does to a purchase after submission.
type Action int

const (
	ActionConfirm Action = iota
	ActionReject
	ActionRedeem
)

func (a Action) String() string {
	switch a {
	case ActionConfirm:
		return "confirm"
	case ActionReject:
		return "reject"
	case ActionRedeem:
		return "redeem"
	}
	return "unknown"
}

// StockEffect tells the caller what the transition does to offering stock.
type StockEffect int

const (
	StockNone StockEffect = iota
	StockReserve
	StockRestore
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotYetConfirmed   = fmt.Errorf("%w: ticket not yet confirmed", ErrInvalidTransition)
	ErrAlreadyUsed       = fmt.Errorf("%w: ticket already used", ErrInvalidTransition)
)

// Transition maps (current status, action) to (next status, stock effect).
// It is the single place that knows which statuses hold stock: a purchase
// holds its quantity in every status except rejected, so moving out of
// rejected re-reserves and moving into it restores. Re-applying an action
// the purchase already went through is a no-op on stock.
func Transition(status string, action Action) (string, StockEffect, error) {
	switch action {
	case ActionConfirm:
		switch status {
		case models.StatusPending, models.StatusConfirmed:
			return models.StatusConfirmed, StockNone, nil
		case models.StatusRejected:
			return models.StatusConfirmed, StockReserve, nil
		case models.StatusUsed:
			return "", StockNone, ErrAlreadyUsed
		}
	case ActionReject:
		switch status {
		case models.StatusPending, models.StatusConfirmed:
			return models.StatusRejected, StockRestore, nil
		case models.StatusRejected:
			return models.StatusRejected, StockNone, nil
		case models.StatusUsed:
			return "", StockNone, ErrAlreadyUsed
		}
	case ActionRedeem:
		switch status {
		case models.StatusConfirmed:
			return models.StatusUsed, StockNone, nil
		case models.StatusPending, models.StatusRejected:
			return "", StockNone, ErrNotYetConfirmed
		case models.StatusUsed:
			return "", StockNone, ErrAlreadyUsed
		}
	}
	return "", StockNone, fmt.Errorf("%w: cannot %s a %q purchase", ErrInvalidTransition, action, status)
}
