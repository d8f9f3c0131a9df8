package lib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"jetset/src/config"
	"jetset/src/models"

	"github.com/gosimple/slug"
	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// PaymentIntentResult carries the external reference and hosted payment
// page for a freshly minted intent.
type PaymentIntentResult struct {
	Ref        string
	HostedURL  string
	CustomerID string
}

// PaymentGateway is the port to the payment processor's checkout-session
// and invoice APIs. Handlers never talk to the Stripe SDK directly; tests
// swap in a double via NewPaymentGateway.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, booking *models.Booking, email string) (*PaymentIntentResult, error)
	CreateInvoice(ctx context.Context, booking *models.Booking, email string, daysUntilDue int64) (*PaymentIntentResult, error)
}

var paymentGateway PaymentGateway

func GetPaymentGateway() PaymentGateway {
	if paymentGateway != nil {
		return paymentGateway
	}
	paymentGateway = &stripeGateway{}
	return paymentGateway
}

// NewPaymentGateway replaces the gateway instance, e.g. with a test double.
func NewPaymentGateway(g PaymentGateway) {
	paymentGateway = g
}

type stripeGateway struct{}

const (
	rideProductName        = "JetSet Direct Ride"
	rideProductDescription = "Point-to-point ground service"
)

func routeTag(booking *models.Booking) string {
	return slug.Make(fmt.Sprintf("%s to %s", booking.PickupAddress, booking.DropoffAddress))
}

func intentMetadata(booking *models.Booking) map[string]string {
	return map[string]string{
		"bookingId": booking.ID.String(),
		"route":     routeTag(booking),
		"amount":    strconv.FormatInt(booking.PriceCents, 10),
	}
}

// findOrCreateCustomer reuses an existing Stripe customer by email before
// creating a new one, so deferred invoices and repeat checkouts share one
// ledger entry per rider.
func (s *stripeGateway) findOrCreateCustomer(ctx context.Context, email string) (string, error) {
	sc := GetStripeClient()
	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Limit = stripe.Int64(1)
	for cus, err := range sc.V1Customers.List(ctx, listParams) {
		if err != nil {
			return "", err
		}
		return cus.ID, nil
	}
	cus, err := sc.V1Customers.Create(ctx, &stripe.CustomerCreateParams{
		Email: stripe.String(email),
	})
	if err != nil {
		return "", err
	}
	return cus.ID, nil
}

func (s *stripeGateway) CreateCheckoutSession(ctx context.Context, booking *models.Booking, email string) (*PaymentIntentResult, error) {
	sc := GetStripeClient()
	appHost := os.Getenv("APP_HOST")
	metadata := intentMetadata(booking)

	var customerId string
	if email != "" {
		id, err := s.findOrCreateCustomer(ctx, email)
		if err != nil {
			return nil, err
		}
		customerId = id
	}

	createParams := stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String("payment"),
		UIMode:     stripe.String("hosted"),
		SuccessURL: stripe.String(fmt.Sprintf("%s/account?paid=1&session_id={CHECKOUT_SESSION_ID}", appHost)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/quote?canceled=1", appHost)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(booking.PriceCents),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        stripe.String(rideProductName),
						Description: stripe.String(rideProductDescription),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		AllowPromotionCodes: stripe.Bool(true),
		Metadata:            metadata,
	}
	if customerId != "" {
		createParams.Customer = stripe.String(customerId)
	}

	checkoutSession, err := sc.V1CheckoutSessions.Create(ctx, &createParams)
	if err != nil {
		return nil, err
	}
	if checkoutSession.URL == "" {
		return nil, errors.New("provider did not return a checkout URL")
	}
	return &PaymentIntentResult{
		Ref:        checkoutSession.ID,
		HostedURL:  checkoutSession.URL,
		CustomerID: customerId,
	}, nil
}

func (s *stripeGateway) CreateInvoice(ctx context.Context, booking *models.Booking, email string, daysUntilDue int64) (*PaymentIntentResult, error) {
	sc := GetStripeClient()
	metadata := intentMetadata(booking)

	customerId, err := s.findOrCreateCustomer(ctx, email)
	if err != nil {
		return nil, err
	}

	if daysUntilDue < 1 {
		daysUntilDue = config.INVOICE_DAYS_UNTIL_DUE
	}
	if daysUntilDue > 60 {
		daysUntilDue = 60
	}

	_, err = sc.V1InvoiceItems.Create(ctx, &stripe.InvoiceItemCreateParams{
		Customer:    stripe.String(customerId),
		Currency:    stripe.String("usd"),
		Amount:      stripe.Int64(booking.PriceCents),
		Description: stripe.String(rideProductDescription),
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}

	invoice, err := sc.V1Invoices.Create(ctx, &stripe.InvoiceCreateParams{
		Customer:                    stripe.String(customerId),
		CollectionMethod:            stripe.String("send_invoice"),
		DaysUntilDue:                stripe.Int64(daysUntilDue),
		PendingInvoiceItemsBehavior: stripe.String("include"),
		Metadata:                    metadata,
	})
	if err != nil {
		return nil, err
	}
	finalized, err := sc.V1Invoices.FinalizeInvoice(ctx, invoice.ID, &stripe.InvoiceFinalizeInvoiceParams{})
	if err != nil {
		return nil, err
	}
	if _, err := sc.V1Invoices.SendInvoice(ctx, finalized.ID, &stripe.InvoiceSendInvoiceParams{}); err != nil {
		return nil, err
	}
	if finalized.HostedInvoiceURL == "" {
		return nil, errors.New("provider did not return a hosted invoice URL")
	}
	return &PaymentIntentResult{
		Ref:        finalized.ID,
		HostedURL:  finalized.HostedInvoiceURL,
		CustomerID: customerId,
	}, nil
}
