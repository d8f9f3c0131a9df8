package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"jetset/src/common"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tidwall/gjson"
)

// paymentWebhookRoute is the reconciliation entrypoint. Stripe delivers
// at-least-once and out of order; every classified receipt is acknowledged
// with a 200 so Stripe stops retrying, and only infrastructure failures
// surface as 5xx to trigger redelivery.
func paymentWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhooks/payment", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)

		eventType := string(event.Type)
		outcome, ok := common.OutcomeForEventType(eventType)
		if !ok {
			// Not a payment lifecycle event we track.
			ctx.Status(http.StatusOK)
			return
		}
		if eventType == "checkout.session.completed" {
			// Completed sessions with async payment methods settle later;
			// only a paid session is a success receipt.
			status := gjson.GetBytes(event.Data.Raw, "payment_status").String()
			if status != "paid" {
				log.Printf("[StripeEvent] session %s completed with payment_status=%s, skipping\n", event.ID, status)
				ctx.Status(http.StatusOK)
				return
			}
		}

		bookingRef := gjson.GetBytes(event.Data.Raw, "metadata.bookingId").String()
		amount := gjson.GetBytes(event.Data.Raw, "amount_total").Int()
		if strings.HasPrefix(eventType, "invoice.") {
			amount = gjson.GetBytes(event.Data.Raw, "amount_paid").Int()
		}

		evt := &common.ProviderEvent{
			EventID:     event.ID,
			Type:        eventType,
			Outcome:     outcome,
			BookingRef:  bookingRef,
			AmountCents: amount,
		}
		if err := common.ApplyPaymentEvent(evt); err != nil {
			if errors.Is(err, common.ErrDuplicateEvent) ||
				errors.Is(err, common.ErrUnknownBooking) ||
				errors.Is(err, common.ErrOutOfOrder) {
				log.Printf("[StripeEvent] %s acknowledged: %s\n", event.ID, err.Error())
				ctx.Status(http.StatusOK)
				return
			}
			log.Printf("[StripeEvent] error applying event %s: %s\n", event.ID, err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}
