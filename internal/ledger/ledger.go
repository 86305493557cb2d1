package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"classtrack/internal/models"

	"gorm.io/gorm"
)

// Ledger is the durable log of scheduled reminders. The unique index on
// (username, course_code, fires_at) makes Schedule idempotent without any
// application-level locking: concurrent attempts for the same key resolve to
// the single stored row.
type Ledger struct {
	db *gorm.DB
}

// New creates a ledger backed by the given database
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Schedule stores a reminder record unless one already exists for the same
// (owner, course, fire time). It returns the stored record and whether this
// call created it. A duplicate request is a no-op, not an error.
func (l *Ledger) Schedule(record *models.ReminderRecord) (*models.ReminderRecord, bool, error) {
	record.FiresAt = record.FiresAt.Truncate(time.Minute)

	existing, err := l.find(record.Username, record.CourseCode, record.FiresAt)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to check for existing reminder: %w", err)
	}

	record.Sent = false
	if err := l.db.Create(record).Error; err != nil {
		// Lost a race against a concurrent insert for the same key; the
		// unique index held, so return the winner's row.
		if isDuplicateKey(err) {
			existing, ferr := l.find(record.Username, record.CourseCode, record.FiresAt)
			if ferr != nil {
				return nil, false, fmt.Errorf("failed to load reminder after duplicate insert: %w", ferr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create reminder: %w", err)
	}

	return record, true, nil
}

// DueUnsent returns all reminders that should have fired by now and have not
// been delivered, earliest first so a backlog is processed in order.
func (l *Ledger) DueUnsent(now time.Time) ([]models.ReminderRecord, error) {
	var records []models.ReminderRecord
	err := l.db.
		Where("fires_at <= ? AND sent = ?", now, false).
		Order("fires_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	return records, nil
}

// DueUnsentFor is DueUnsent scoped to a single owner, used by the API
func (l *Ledger) DueUnsentFor(username string, now time.Time) ([]models.ReminderRecord, error) {
	var records []models.ReminderRecord
	err := l.db.
		Where("username = ? AND fires_at <= ? AND sent = ?", username, now, false).
		Order("fires_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	return records, nil
}

// MarkSent records that a reminder was delivered. The only legal transition
// is unsent to sent; marking an already-sent record again is a no-op.
func (l *Ledger) MarkSent(id uint) error {
	result := l.db.Model(&models.ReminderRecord{}).
		Where("id = ?", id).
		Update("sent", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark reminder %d sent: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reminder %d not found", id)
	}
	return nil
}

// RecordAttempt appends a delivery attempt to the record's audit log. Failed
// attempts accumulate here while sent stays false, so the next poll retries
// naturally without a separate retry queue.
func (l *Ledger) RecordAttempt(id uint, attempt models.DeliveryAttempt) error {
	var record models.ReminderRecord
	if err := l.db.First(&record, id).Error; err != nil {
		return fmt.Errorf("failed to load reminder %d: %w", id, err)
	}

	var attempts []models.DeliveryAttempt
	if len(record.DeliveryLog) > 0 {
		if err := json.Unmarshal(record.DeliveryLog, &attempts); err != nil {
			return fmt.Errorf("failed to decode delivery log for reminder %d: %w", id, err)
		}
	}
	attempts = append(attempts, attempt)

	data, err := json.Marshal(attempts)
	if err != nil {
		return fmt.Errorf("failed to encode delivery log for reminder %d: %w", id, err)
	}

	if err := l.db.Model(&record).Update("delivery_log", data).Error; err != nil {
		return fmt.Errorf("failed to store delivery log for reminder %d: %w", id, err)
	}
	return nil
}

func (l *Ledger) find(username, courseCode string, firesAt time.Time) (*models.ReminderRecord, error) {
	var record models.ReminderRecord
	err := l.db.
		Where("username = ? AND course_code = ? AND fires_at = ?", username, courseCode, firesAt).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
