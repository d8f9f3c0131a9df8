package common

import (
	"errors"
	"fmt"
	"log"

	"jetset/src/db"
	"jetset/src/models"
	"jetset/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProviderEvent is the distilled form of one provider webhook delivery after
// signature verification. Only the event id set is persisted for dedup; the
// raw payload is not stored verbatim.
type ProviderEvent struct {
	EventID     string
	Type        string
	Outcome     types.PaymentEventOutcome
	BookingRef  string
	AmountCents int64
}

var eventOutcomes = map[string]types.PaymentEventOutcome{
	"checkout.session.completed":   types.OUTCOME_SUCCESS,
	"checkout.session.expired":     types.OUTCOME_FAILURE,
	"invoice.paid":                 types.OUTCOME_SUCCESS,
	"invoice.payment_succeeded":    types.OUTCOME_SUCCESS,
	"invoice.payment_failed":       types.OUTCOME_FAILURE,
	"invoice.marked_uncollectible": types.OUTCOME_FAILURE,
}

// OutcomeForEventType maps a provider event type to a payment outcome.
// Unknown types return ok=false and are accepted and ignored upstream,
// keeping the endpoint forward compatible with the provider's catalog.
func OutcomeForEventType(t string) (types.PaymentEventOutcome, bool) {
	o, ok := eventOutcomes[t]
	return o, ok
}

// TransitionFor resolves the target status for an outcome against the
// booking's current status. ok=false means the event is stale for this
// booking: a late failure after PAID, or any payment event after CANCELLED.
func TransitionFor(current types.BookingStatus, outcome types.PaymentEventOutcome) (types.BookingStatus, bool) {
	target := types.BOOKING_PAID
	if outcome == types.OUTCOME_FAILURE {
		target = types.BOOKING_PAYMENT_FAILED
	}
	if !CanTransition(current, target) {
		return current, false
	}
	return target, true
}

// ApplyPaymentEvent applies one verified provider event to its booking
// inside a single database transaction: the event id insert, the anomaly
// bookkeeping and the conditional status update commit or roll back
// together.
//
// The returned error is nil on a clean application, one of
// ErrDuplicateEvent / ErrUnknownBooking / ErrOutOfOrder when the delivery
// must still be acknowledged as success, and anything else when the write
// was not durable and the provider should redeliver.
func ApplyPaymentEvent(evt *ProviderEvent) error {
	var ack error
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		rec := models.PaymentEvent{
			EventID:     evt.EventID,
			Type:        evt.Type,
			Outcome:     evt.Outcome,
			AmountCents: evt.AmountCents,
		}
		res := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "event_id"}},
				DoNothing: true,
			}).
			Create(&rec)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// At-least-once delivery: already applied, acknowledge without
			// reapplying.
			ack = ErrDuplicateEvent
			return nil
		}

		bookingId, err := uuid.Parse(evt.BookingRef)
		if err != nil {
			log.Printf("[%s] Event carries no usable booking reference: %q\n", evt.EventID, evt.BookingRef)
			ack = ErrUnknownBooking
			return markAnomaly(tx, &rec, "missing or malformed booking reference")
		}

		var booking models.Booking
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", bookingId).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[%s] No booking matches reference %s\n", evt.EventID, bookingId)
				ack = ErrUnknownBooking
				return markAnomaly(tx, &rec, fmt.Sprintf("no booking %s", bookingId))
			}
			return err
		}
		rec.BookingID = &booking.ID

		next, ok := TransitionFor(booking.Status, evt.Outcome)
		if !ok {
			log.Printf("[%s] Discarding out-of-order %s event for booking %s in status %s\n",
				evt.EventID, evt.Type, booking.ID, booking.Status)
			ack = ErrOutOfOrder
			return tx.
				Model(&rec).
				Updates(&models.PaymentEvent{BookingID: &booking.ID, Note: "discarded: out of order"}).
				Error
		}

		res = tx.
			Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(map[string]any{"status": next})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent delivery won the conditional update; abort so the
			// provider redelivers against the new state.
			return ErrConcurrentUpdate
		}
		if err := tx.
			Model(&rec).
			Updates(&models.PaymentEvent{BookingID: &booking.ID}).
			Error; err != nil {
			return err
		}
		log.Printf("[%s] Booking %s: %s -> %s\n", evt.EventID, booking.ID, booking.Status, next)
		return nil
	})
	if err != nil {
		return err
	}
	return ack
}

func markAnomaly(tx *gorm.DB, rec *models.PaymentEvent, note string) error {
	return tx.
		Model(rec).
		Updates(&models.PaymentEvent{Anomaly: true, Note: note}).
		Error
}
