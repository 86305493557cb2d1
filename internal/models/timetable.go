package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TimetableSlot represents one class occurrence in the weekly timetable.
// Weekday follows time.Weekday numbering (0=Sunday..6=Saturday); only
// Monday through Friday are ever populated.
type TimetableSlot struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string    `gorm:"size:30;not null;index:idx_slot_owner_day" json:"username"`
	Weekday    int       `gorm:"not null;index:idx_slot_owner_day" json:"weekday"`
	StartTime  string    `gorm:"size:5;not null" json:"start_time"` // "HH:MM"
	EndTime    string    `gorm:"size:5;not null" json:"end_time"`   // "HH:MM"
	CourseCode string    `gorm:"size:20;not null" json:"course_code"`
	Location   string    `gorm:"size:100" json:"location"`
	Note       *string   `gorm:"size:255" json:"note,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook is called before creating a new timetable slot
func (s *TimetableSlot) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	return nil
}

// Validate checks the slot invariants: a work-week weekday and start < end.
// Time strings are compared lexically, which is exact for "HH:MM".
func (s *TimetableSlot) Validate() error {
	if s.Weekday < int(time.Monday) || s.Weekday > int(time.Friday) {
		return fmt.Errorf("weekday %d is outside the Monday-Friday work week", s.Weekday)
	}
	if len(s.StartTime) != 5 || len(s.EndTime) != 5 {
		return fmt.Errorf("times must be in HH:MM format, got start=%q end=%q", s.StartTime, s.EndTime)
	}
	if s.StartTime >= s.EndTime {
		return fmt.Errorf("slot start %s must be before end %s", s.StartTime, s.EndTime)
	}
	return nil
}

// TableName specifies the table name for the TimetableSlot model
func (TimetableSlot) TableName() string {
	return "timetable_slot"
}

// CreateSlotRequest represents the data needed to add a timetable slot
type CreateSlotRequest struct {
	Weekday    int     `json:"weekday" binding:"min=1,max=5"`
	StartTime  string  `json:"start_time" binding:"required"`
	EndTime    string  `json:"end_time" binding:"required"`
	CourseCode string  `json:"course_code" binding:"required,max=20"`
	Location   string  `json:"location" binding:"max=100"`
	Note       *string `json:"note"`
}
