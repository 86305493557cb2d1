package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"classtrack/internal/database"
	"classtrack/internal/ledger"
	"classtrack/internal/models"

	"gorm.io/gorm"
)

// DeliveryWorker polls the ledger for due reminders and hands them to the
// delivery channels. A record is marked sent once at least one channel
// delivered; a fully failed cycle leaves it unsent for the next poll, with
// the failures written to its delivery log. Nothing here retries in place or
// crashes the poller.
type DeliveryWorker struct {
	db       *gorm.DB
	ledger   *ledger.Ledger
	push     *PushService
	email    *EmailService
	interval time.Duration
}

func NewDeliveryWorker(l *ledger.Ledger) *DeliveryWorker {
	return &DeliveryWorker{
		db:       database.GetDB(),
		ledger:   l,
		push:     NewPushService(),
		email:    NewEmailService(),
		interval: 30 * time.Second,
	}
}

func (w *DeliveryWorker) Start() {
	go w.run()
}

func (w *DeliveryWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		w.processDue(time.Now())
	}
}

func (w *DeliveryWorker) processDue(now time.Time) {
	records, err := w.ledger.DueUnsent(now)
	if err != nil {
		log.Printf("Error: Failed to poll due reminders: %v", err)
		return
	}

	for _, record := range records {
		if err := w.deliver(record); err != nil {
			log.Printf("Error: Failed to deliver reminder %d: %v", record.ID, err)
		}
	}
}

func (w *DeliveryWorker) deliver(record models.ReminderRecord) error {
	var account models.Account
	if err := w.db.Where("username = ?", record.Username).First(&account).Error; err != nil {
		return fmt.Errorf("owner %s not found: %w", record.Username, err)
	}

	var tokens []models.DeviceToken
	if err := w.db.Where("username = ?", record.Username).Find(&tokens).Error; err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}

	title := fmt.Sprintf("Class Reminder: %s", record.CourseName)
	body := fmt.Sprintf("%s starts at %s in %s", record.CourseCode, record.StartTime, record.Location)

	delivered := false
	ctx := context.Background()

	for _, token := range tokens {
		result := w.push.Send(ctx, token.Token, title, body)
		w.logAttempt(record.ID, models.DeliveryAttempt{
			At:      time.Now(),
			Channel: "push",
			Success: result.Success,
			Error:   result.Error,
		})
		if result.Success {
			delivered = true
		} else {
			log.Printf("Error: Push delivery failed for reminder %d: %s", record.ID, result.Error)
		}
	}

	if account.EmailReminders {
		err := w.email.SendClassReminder(account, record)
		attempt := models.DeliveryAttempt{At: time.Now(), Channel: "email", Success: err == nil}
		if err != nil {
			attempt.Error = err.Error()
			log.Printf("Error: Email delivery failed for reminder %d: %v", record.ID, err)
		} else {
			delivered = true
		}
		w.logAttempt(record.ID, attempt)
	}

	if !delivered {
		// Leave sent=false; the next poll picks the record up again
		return nil
	}

	if err := w.ledger.MarkSent(record.ID); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	log.Printf("Delivered reminder %d to %s (%s)", record.ID, record.Username, record.CourseName)
	return nil
}

func (w *DeliveryWorker) logAttempt(id uint, attempt models.DeliveryAttempt) {
	if err := w.ledger.RecordAttempt(id, attempt); err != nil {
		log.Printf("Warning: Failed to record delivery attempt for reminder %d: %v", id, err)
	}
}
