package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"jetset/src/common"
	"jetset/src/config"
	"jetset/src/db"
	"jetset/src/lib"
	"jetset/src/lib/mailer"
	"jetset/src/models"
	"jetset/src/types"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func IsProd() bool {
	return config.GetAPIEnv() == string(types.Production)
}

func GenerateJWT(email string, id uint, role string) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))
	claims := &types.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(id)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

const registrationTokenTTL = 48 * time.Hour

func NewRegistrationToken(ctx context.Context, email string) (string, error) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return "", errors.New("token store unavailable")
	}
	token := uuid.NewString()
	if err := rd.SetEx(ctx, fmt.Sprintf("register:%s", token), email, registrationTokenTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func ConsumeRegistrationToken(ctx context.Context, token string) (string, error) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return "", errors.New("token store unavailable")
	}
	email, err := rd.GetDel(ctx, fmt.Sprintf("register:%s", token)).Result()
	if err == redis.Nil {
		return "", errors.New("invalid or expired token")
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

func CreateNewBooking(params *types.CreateBookingRequestBody, userId uint) (uuid.UUID, error) {
	scheduledAt, err := time.Parse(config.TIME_PARSE_FORMAT, params.ScheduledAt)
	if err != nil {
		log.Printf("Error parsing scheduledAt: %s\n", err.Error())
		return uuid.Nil, err
	}
	booking := models.Booking{
		ID:             uuid.New(),
		UserID:         userId,
		PickupAddress:  params.Pickup,
		DropoffAddress: params.Dropoff,
		ScheduledAt:    &scheduledAt,
		Notes:          params.Notes,
		PriceCents:     *params.PriceCents,
		Status:         types.BOOKING_PENDING,
	}
	d := db.GetDb()
	err = d.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&booking).Error
	})
	if err != nil {
		return uuid.Nil, err
	}
	return booking.ID, nil
}

const gatewayCallTimeout = 15 * time.Second

// InitiatePayment creates exactly one live payment intent for a booking. A
// booking that already carries a live intent gets that intent back instead
// of a second one, so retries and double-clicks never double-charge. The
// external call and the booking update are not atomic: on a gateway failure
// the booking is left untouched and the caller retries; on a lost
// conditional update the concurrent winner's intent is returned.
func InitiatePayment(ctx context.Context, bookingId uuid.UUID, userId uint, kind types.PaymentKind, contactEmail string) (*types.InitiatePaymentResult, error) {
	d := db.GetDb()
	var booking models.Booking
	if err := d.
		Model(&models.Booking{}).
		Where("id = ? AND user_id = ?", bookingId, userId).
		First(&booking).
		Error; err != nil {
		return nil, err
	}

	if booking.Status == types.BOOKING_AWAITING_PAYMENT && booking.PaymentIntentRef != nil {
		return existingIntent(&booking), nil
	}
	if !common.Payable(booking.Status) {
		return nil, common.ErrNotPayable
	}
	if booking.PriceCents < config.MINIMUM_CHARGE_CENTS {
		return nil, common.ErrInvalidAmount
	}

	var user models.User
	if err := d.
		Model(&models.User{}).
		Where(&models.User{ID: userId}).
		First(&user).
		Error; err != nil {
		return nil, err
	}
	email := contactEmail
	if email == "" {
		email = user.Email
	}
	if kind == types.PAYMENT_DEFERRED && email == "" {
		return nil, common.ErrMissingContact
	}

	gw := lib.GetPaymentGateway()
	callCtx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()
	var res *lib.PaymentIntentResult
	var err error
	if kind == types.PAYMENT_DEFERRED {
		res, err = gw.CreateInvoice(callCtx, &booking, email, config.INVOICE_DAYS_UNTIL_DUE)
	} else {
		res, err = gw.CreateCheckoutSession(callCtx, &booking, email)
	}
	if err != nil {
		log.Printf("Payment intent creation failed for booking %s: %s\n", booking.ID, err.Error())
		return nil, fmt.Errorf("%w: %s", common.ErrUpstreamUnavailable, err.Error())
	}

	err = d.Transaction(func(tx *gorm.DB) error {
		upd := tx.
			Model(&models.Booking{}).
			Where("id = ? AND status IN ?", booking.ID, []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_PAYMENT_FAILED}).
			Updates(map[string]any{
				"status":             types.BOOKING_AWAITING_PAYMENT,
				"payment_intent_ref": res.Ref,
				"payment_kind":       kind,
				"hosted_url":         res.HostedURL,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return common.ErrConflictingIntent
		}
		if res.CustomerID != "" && (user.StripeCustomerId == nil || *user.StripeCustomerId != res.CustomerID) {
			if err := tx.
				Model(&models.User{}).
				Where("id = ?", user.ID).
				Updates(&models.User{StripeCustomerId: &res.CustomerID}).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, common.ErrConflictingIntent) {
		// A concurrent call attached an intent first; hand back the winner's.
		var current models.Booking
		if err := d.Where("id = ?", booking.ID).First(&current).Error; err != nil {
			return nil, err
		}
		if current.Status == types.BOOKING_AWAITING_PAYMENT && current.PaymentIntentRef != nil {
			return existingIntent(&current), nil
		}
		return nil, common.ErrNotPayable
	}
	if err != nil {
		return nil, err
	}

	cacheIntentRef(booking.ID, res.Ref)
	if kind == types.PAYMENT_DEFERRED {
		go sendInvoiceEmail(&booking, email, res.HostedURL)
	}
	return &types.InitiatePaymentResult{RedirectURL: res.HostedURL, PaymentRef: res.Ref}, nil
}

func existingIntent(booking *models.Booking) *types.InitiatePaymentResult {
	result := types.InitiatePaymentResult{PaymentRef: *booking.PaymentIntentRef}
	if booking.HostedURL != nil {
		result.RedirectURL = *booking.HostedURL
	}
	return &result
}

func cacheIntentRef(bookingId uuid.UUID, ref string) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	key := fmt.Sprintf("booking:%s:intent", bookingId)
	if err := rd.SetEx(context.Background(), key, ref, 24*time.Hour).Err(); err != nil {
		log.Printf("Error caching value [%s]: %s\n", ref, err.Error())
	}
}

func sendInvoiceEmail(booking *models.Booking, email string, hostedUrl string) {
	body := fmt.Sprintf(
		"Thanks for booking with JetSet Direct.\n\nBooking ID: %s\nQuoted Fare: $%.2f\nPickup: %s\nDropoff: %s\n\nPay your invoice securely here: %s\n\nIf you have questions, just reply to this email.",
		booking.ID,
		float64(booking.PriceCents)/100,
		booking.PickupAddress,
		booking.DropoffAddress,
		hostedUrl,
	)
	input := &lib.SendMailInput{
		To:      email,
		Subject: "Your JetSet Direct invoice",
		Body:    body,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("Error sending invoice email for booking %s: %s\n", booking.ID, err.Error())
	}
}

// CancelBooking is a customer-initiated conditional transition: rejected
// once the booking reached PAID or another terminal state.
func CancelBooking(bookingId uuid.UUID, userId uint) error {
	d := db.GetDb()
	var booking models.Booking
	if err := d.
		Model(&models.Booking{}).
		Where("id = ? AND user_id = ?", bookingId, userId).
		First(&booking).
		Error; err != nil {
		return err
	}
	if !common.CanTransition(booking.Status, types.BOOKING_CANCELLED) {
		return common.ErrIllegalTransition
	}
	return d.Transaction(func(tx *gorm.DB) error {
		upd := tx.
			Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(map[string]any{"status": types.BOOKING_CANCELLED})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return common.ErrConcurrentUpdate
		}
		return nil
	})
}

// MarkCompleted records service delivery, the transition reserved for the
// scheduling/dispatch collaborator. Only PAID bookings complete.
func MarkCompleted(bookingId uuid.UUID) error {
	d := db.GetDb()
	var booking models.Booking
	if err := d.
		Model(&models.Booking{}).
		Where("id = ?", bookingId).
		First(&booking).
		Error; err != nil {
		return err
	}
	if !common.CanTransition(booking.Status, types.BOOKING_COMPLETED) {
		return common.ErrIllegalTransition
	}
	return d.Transaction(func(tx *gorm.DB) error {
		upd := tx.
			Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(map[string]any{"status": types.BOOKING_COMPLETED})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return common.ErrConcurrentUpdate
		}
		return nil
	})
}

type AccountSummary struct {
	Counts         map[string]int64 `json:"counts"`
	OwedCents      int64            `json:"owedCents"`
	CollectedCents int64            `json:"collectedCents"`
}

// GetAccountSummary tallies the caller's bookings per status and the money
// still owed against the money already collected.
func GetAccountSummary(userId uint) (*AccountSummary, error) {
	var rows []struct {
		Status types.BookingStatus
		Count  int64
		Cents  int64
	}
	d := db.GetDb()
	if err := d.
		Model(&models.Booking{}).
		Select("status, count(*) as count, coalesce(sum(price_cents), 0) as cents").
		Where("user_id = ?", userId).
		Group("status").
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}
	summary := AccountSummary{Counts: make(map[string]int64)}
	for _, r := range rows {
		summary.Counts[string(r.Status)] = r.Count
		switch r.Status {
		case types.BOOKING_PENDING, types.BOOKING_AWAITING_PAYMENT, types.BOOKING_PAYMENT_FAILED:
			summary.OwedCents += r.Cents
		case types.BOOKING_PAID, types.BOOKING_COMPLETED:
			summary.CollectedCents += r.Cents
		}
	}
	return &summary, nil
}
