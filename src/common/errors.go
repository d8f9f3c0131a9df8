package common

import "errors"

// Payment initiation errors. ErrUpstreamUnavailable always leaves the
// booking unmodified, so a retry of initiatePayment is safe.
var (
	ErrInvalidAmount       = errors.New("amount is below the provider minimum chargeable amount")
	ErrMissingContact      = errors.New("a contact email is required for deferred payment")
	ErrNotPayable          = errors.New("booking is not in a payable state")
	ErrUpstreamUnavailable = errors.New("payment provider is unavailable")
	ErrConflictingIntent   = errors.New("a live payment intent already exists for this booking")
)

// Reconciler classifications. None of these request a provider retry: the
// delivery is acknowledged and the event is either already applied, kept as
// an anomaly, or discarded as out-of-order.
var (
	ErrDuplicateEvent = errors.New("event was already applied")
	ErrUnknownBooking = errors.New("event does not match any booking")
	ErrOutOfOrder     = errors.New("event arrived out of order for the booking's current state")
)

// State machine errors.
var (
	ErrIllegalTransition = errors.New("transition not permitted from the booking's current state")
	ErrConcurrentUpdate  = errors.New("booking was modified concurrently")
)
