package common

import (
	"testing"

	"jetset/src/types"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to types.BookingStatus }{
		{types.BOOKING_PENDING, types.BOOKING_AWAITING_PAYMENT},
		{types.BOOKING_PENDING, types.BOOKING_CANCELLED},
		{types.BOOKING_AWAITING_PAYMENT, types.BOOKING_PAID},
		{types.BOOKING_AWAITING_PAYMENT, types.BOOKING_PAYMENT_FAILED},
		{types.BOOKING_AWAITING_PAYMENT, types.BOOKING_CANCELLED},
		{types.BOOKING_PAYMENT_FAILED, types.BOOKING_AWAITING_PAYMENT},
		{types.BOOKING_PAYMENT_FAILED, types.BOOKING_CANCELLED},
		{types.BOOKING_PAID, types.BOOKING_COMPLETED},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to types.BookingStatus }{
		{types.BOOKING_PENDING, types.BOOKING_PAID},
		{types.BOOKING_PENDING, types.BOOKING_COMPLETED},
		{types.BOOKING_PAID, types.BOOKING_PAYMENT_FAILED},
		{types.BOOKING_PAID, types.BOOKING_CANCELLED},
		{types.BOOKING_CANCELLED, types.BOOKING_AWAITING_PAYMENT},
		{types.BOOKING_CANCELLED, types.BOOKING_PAID},
		{types.BOOKING_COMPLETED, types.BOOKING_CANCELLED},
		{types.BOOKING_COMPLETED, types.BOOKING_PAID},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestPayable(t *testing.T) {
	assert.True(t, Payable(types.BOOKING_PENDING))
	assert.True(t, Payable(types.BOOKING_PAYMENT_FAILED))

	assert.False(t, Payable(types.BOOKING_AWAITING_PAYMENT))
	assert.False(t, Payable(types.BOOKING_PAID))
	assert.False(t, Payable(types.BOOKING_CANCELLED))
	assert.False(t, Payable(types.BOOKING_COMPLETED))
}
