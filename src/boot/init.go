package boot

import (
	"log"
	"time"

	"jetset/src/db"
	"jetset/src/lib"
	"jetset/src/models"
)

func InitDb() {
	d := db.GetDb()
	if err := d.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.PaymentEvent{},
	); err != nil {
		log.Fatalf("Error during migration: %s\n", err.Error())
	}
}

// Webhook receipts are kept 90 days for reconciliation audits, then pruned.
const paymentEventRetention = 90 * 24 * time.Hour

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Printf("Error initializing scheduler: %s\n", err.Error())
		return
	}
	if _, err := lib.CreateCronJob(prunePaymentEvents, 24*time.Hour); err != nil {
		log.Printf("Error registering prune job: %s\n", err.Error())
		return
	}
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error shutting down scheduler: %s\n", err.Error())
	}
}

func prunePaymentEvents() {
	cutoff := time.Now().Add(-paymentEventRetention)
	d := db.GetDb()
	res := d.
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.PaymentEvent{})
	if res.Error != nil {
		log.Printf("Error pruning payment events: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Pruned %d payment events older than %s\n", res.RowsAffected, cutoff.Format(time.RFC3339))
	}
}
