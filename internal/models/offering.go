package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Georgian copy shown on the public landing page when the admin has not
// customised the offering yet. Mirrored by DefaultOffering for the case
// where no record exists at all.
const (
	DefaultEventName     = "Omnia After Lecture"
	DefaultLocationTitle = "ლოკაცია და დრო"
	DefaultLocationText  = "თბილისი, ექსკლუზიური ტერიტორია. 24 მაისი, 22:00-დან გვიანობამდე."
	DefaultLineupTitle   = "ლაინაფი"
	DefaultLineupText    = "საუკეთესო DJ-ები და დაუვიწყარი ვიზუალური ეფექტები."
	DefaultPromoText     = "ბილეთების რაოდენობა მკაცრად შეზღუდულია. იჩქარე და დაიკავე ადგილი წლის მთავარ მოვლენაზე."
)

type TicketOffering struct {
	bun.BaseModel `bun:"table:ticket_offerings"`

	ID               string    `bun:"id,pk" json:"id"`
	EventName        string    `bun:"event_name" json:"eventName"`
	TotalTickets     int       `bun:"total_tickets" json:"totalTickets"`
	AvailableTickets int       `bun:"available_tickets" json:"availableTickets"`
	Price            float64   `bun:"price" json:"price"`
	EventDate        time.Time `bun:"event_date,nullzero" json:"eventDate"`
	LocationTitle    string    `bun:"location_title" json:"locationTitle"`
	LocationText     string    `bun:"location_text" json:"locationText"`
	LineupTitle      string    `bun:"lineup_title" json:"lineupTitle"`
	LineupText       string    `bun:"lineup_text" json:"lineupText"`
	PromoText        string    `bun:"promo_text" json:"promoText"`
	IsActive         bool      `bun:"is_active" json:"isActive"`
	CreatedAt        time.Time `bun:"created_at,nullzero" json:"createdAt"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero" json:"updatedAt"`
}

// DefaultOffering is the presentation payload public read paths return when
// the store holds no offering record. It is never persisted.
func DefaultOffering() TicketOffering {
	return TicketOffering{
		EventName:        DefaultEventName,
		TotalTickets:     500,
		AvailableTickets: 500,
		Price:            30,
		LocationTitle:    DefaultLocationTitle,
		LocationText:     DefaultLocationText,
		LineupTitle:      DefaultLineupTitle,
		LineupText:       DefaultLineupText,
		PromoText:        DefaultPromoText,
	}
}
