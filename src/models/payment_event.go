package models

import (
	"jetset/src/types"

	"github.com/google/uuid"
)

// PaymentEvent records every provider webhook event that reached the
// reconciler. The unique EventID is the idempotency key: the provider
// delivers at-least-once, so the second insert of the same id is a no-op and
// the delivery is acknowledged without reapplying. Events that could not be
// matched to a booking are kept with Anomaly set instead of being dropped.
type PaymentEvent struct {
	ID          uint                      `gorm:"primarykey" json:"id"`
	EventID     string                    `gorm:"uniqueIndex;not null" json:"event_id"`
	Type        string                    `json:"type,omitempty"`
	Outcome     types.PaymentEventOutcome `json:"outcome,omitempty"`
	BookingID   *uuid.UUID                `gorm:"index;type:uuid" json:"booking_id,omitempty"`
	AmountCents int64                     `json:"amount_cents,omitempty"`
	Anomaly     bool                      `json:"anomaly,omitempty"`
	Note        string                    `json:"note,omitempty"`

	types.Timestamps
}
