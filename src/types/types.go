package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Env string

const (
	Local      Env = "local"
	Test       Env = "test"
	Production Env = "production"
)

// BookingStatus values only move forward along the transition table in
// common.CanTransition. CANCELLED is reachable from any non-PAID,
// non-terminal state.
type BookingStatus string

const (
	BOOKING_PENDING          BookingStatus = "PENDING"
	BOOKING_AWAITING_PAYMENT BookingStatus = "AWAITING_PAYMENT"
	BOOKING_PAID             BookingStatus = "PAID"
	BOOKING_PAYMENT_FAILED   BookingStatus = "PAYMENT_FAILED"
	BOOKING_CANCELLED        BookingStatus = "CANCELLED"
	BOOKING_COMPLETED        BookingStatus = "COMPLETED"
)

type PaymentKind string

const (
	PAYMENT_IMMEDIATE PaymentKind = "immediate"
	PAYMENT_DEFERRED  PaymentKind = "deferred"
)

type PaymentEventOutcome string

const (
	OUTCOME_SUCCESS PaymentEventOutcome = "success"
	OUTCOME_FAILURE PaymentEventOutcome = "failure"
)

type QuoteRequestBody struct {
	DistanceMiles   *float64 `json:"distanceMiles" binding:"required,gte=0"`
	DurationMinutes *float64 `json:"durationMinutes" binding:"required,gte=0"`
}

type CreateBookingRequestBody struct {
	Pickup      string `json:"pickup" binding:"required"`
	Dropoff     string `json:"dropoff" binding:"required"`
	ScheduledAt string `json:"scheduledAt" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	PriceCents  *int64 `json:"priceCents" binding:"required,gt=0"`
	Notes       string `json:"notes,omitempty"`
}

type InitiatePaymentRequestBody struct {
	Strategy     string `json:"strategy" binding:"required,oneof=immediate deferred"`
	ContactEmail string `json:"contactEmail,omitempty" binding:"omitempty,email"`
}

type InitiatePaymentResult struct {
	RedirectURL string `json:"redirectUrl"`
	PaymentRef  string `json:"paymentRef"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type RegisterStartRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

type SetPasswordRequestBody struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
