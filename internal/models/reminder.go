package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReminderRecord is one scheduled class reminder. Records act as an audit and
// dedup log: the unique index on (username, course_code, fires_at) is what
// makes scheduling idempotent, and rows are never deleted. The only mutation
// after creation is flipping Sent to true once delivery succeeds.
type ReminderRecord struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string         `gorm:"size:30;not null;uniqueIndex:idx_reminder_dedup" json:"username"`
	CourseCode  string         `gorm:"size:20;not null;uniqueIndex:idx_reminder_dedup" json:"course_code"`
	CourseName  string         `gorm:"size:255;not null" json:"course_name"`
	StartTime   string         `gorm:"size:5;not null" json:"start_time"` // "HH:MM", for display
	Location    string         `gorm:"size:100" json:"location"`
	FiresAt     time.Time      `gorm:"not null;uniqueIndex:idx_reminder_dedup;index" json:"fires_at"`
	Sent        bool           `gorm:"not null;default:false" json:"sent"`
	DeliveryLog datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"delivery_log"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook is called before creating a new reminder record
func (r *ReminderRecord) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	// Seconds below the minute would split what is logically the same
	// reminder into distinct dedup keys across planner runs.
	r.FiresAt = r.FiresAt.Truncate(time.Minute)
	return nil
}

// TableName specifies the table name for the ReminderRecord model
func (ReminderRecord) TableName() string {
	return "reminder_record"
}

// DeliveryAttempt is one entry in a record's delivery log
type DeliveryAttempt struct {
	At      time.Time `json:"at"`
	Channel string    `json:"channel"` // "push" or "email"
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

// ScheduleReminderRequest represents the data needed to schedule a reminder
type ScheduleReminderRequest struct {
	CourseCode string    `json:"course_code" binding:"required,max=20"`
	CourseName string    `json:"course_name" binding:"required,max=255"`
	StartTime  string    `json:"start_time" binding:"required"`
	Location   string    `json:"location" binding:"max=100"`
	FiresAt    time.Time `json:"fires_at" binding:"required"`
}
