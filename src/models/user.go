package models

import "jetset/src/types"

type User struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	Email            string  `gorm:"uniqueIndex;not null" json:"email"`
	Name             string  `json:"name,omitempty"`
	PasswordHash     *string `gorm:"column:password_hash" json:"-"`
	Role             string  `gorm:"default:customer" json:"role,omitempty"`
	StripeCustomerId *string `json:"customer_id,omitempty"`

	Bookings []*Booking `json:"bookings,omitempty"`

	types.Timestamps
}
