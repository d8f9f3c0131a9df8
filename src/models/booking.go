package models

import (
	"time"

	"jetset/src/types"

	"github.com/google/uuid"
)

// Booking is the persisted record of one ride commitment. PriceCents is set
// at creation and never mutated once a payment intent is attached; rows are
// soft-deleted only, cancelled and completed bookings stay around for audit.
type Booking struct {
	ID               uuid.UUID           `gorm:"primarykey;type:uuid" json:"id"`
	UserID           uint                `json:"user_id,omitempty"`
	PickupAddress    string              `json:"pickup_address,omitempty"`
	DropoffAddress   string              `json:"dropoff_address,omitempty"`
	ScheduledAt      *time.Time          `json:"scheduled_at,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	PriceCents       int64               `json:"price_cents,omitempty"`
	Status           types.BookingStatus `json:"status,omitempty"`
	PaymentKind      *types.PaymentKind  `json:"payment_kind,omitempty"`
	PaymentIntentRef *string             `gorm:"column:payment_intent_ref" json:"payment_intent_ref,omitempty"`
	HostedURL        *string             `gorm:"column:hosted_url" json:"hosted_url,omitempty"`

	User *User `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
