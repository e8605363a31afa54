package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Purchase lifecycle statuses. Every status except rejected holds the stock
// the purchase reserved at submission time.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusUsed      = "used"
	StatusRejected  = "rejected"
)

// Accepted bank-transfer payment methods.
const (
	PaymentBOG = "BOG"
	PaymentTBC = "TBC"
)

func ValidPaymentMethod(m string) bool {
	return m == PaymentBOG || m == PaymentTBC
}

type Purchase struct {
	bun.BaseModel `bun:"table:purchases"`

	ID               string    `bun:"id,pk" json:"id"`
	FullName         string    `bun:"full_name" json:"fullName"`
	PersonalID       string    `bun:"personal_id" json:"personalId"`
	Email            string    `bun:"email" json:"email"`
	TicketQuantity   int       `bun:"ticket_quantity" json:"ticketQuantity"`
	TotalPrice       float64   `bun:"total_price" json:"totalPrice"`
	PaymentMethod    string    `bun:"payment_method" json:"paymentMethod"`
	ConfirmationCode string    `bun:"confirmation_code,unique" json:"confirmationCode"`
	Receipt          string    `bun:"receipt" json:"receipt"`
	Status           string    `bun:"status" json:"status"`
	UsedAt           time.Time `bun:"used_at,nullzero" json:"usedAt,omitempty"`
	CreatedAt        time.Time `bun:"created_at,nullzero" json:"createdAt"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero" json:"updatedAt"`
}
