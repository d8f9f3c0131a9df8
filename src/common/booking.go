package common

import "jetset/src/types"

var validNext = map[types.BookingStatus]map[types.BookingStatus]bool{
	types.BOOKING_PENDING: {
		types.BOOKING_AWAITING_PAYMENT: true,
		types.BOOKING_CANCELLED:        true,
	},
	types.BOOKING_AWAITING_PAYMENT: {
		types.BOOKING_PAID:           true,
		types.BOOKING_PAYMENT_FAILED: true,
		types.BOOKING_CANCELLED:      true,
	},
	types.BOOKING_PAYMENT_FAILED: {
		types.BOOKING_AWAITING_PAYMENT: true,
		types.BOOKING_CANCELLED:        true,
	},
	types.BOOKING_PAID: {
		types.BOOKING_COMPLETED: true,
	},
	types.BOOKING_CANCELLED: {},
	types.BOOKING_COMPLETED: {},
}

// CanTransition reports whether a booking may move from one status to
// another. Illegal moves are rejected by callers, never silently applied.
// Once PAID, no failure event may revert the booking.
func CanTransition(from, to types.BookingStatus) bool {
	return validNext[from][to]
}

// Payable reports whether a new payment intent may be created for a booking
// in the given status.
func Payable(s types.BookingStatus) bool {
	return s == types.BOOKING_PENDING || s == types.BOOKING_PAYMENT_FAILED
}
