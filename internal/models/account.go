package models

import (
	"time"

	"gorm.io/gorm"
)

// Account represents a user account in the system. Identity comes from Google
// OAuth; the username is chosen once during profile creation and then owns
// all courses, timetable slots, reminders and device tokens.
type Account struct {
	Username              string         `gorm:"primaryKey;size:30;not null" json:"username"`
	GoogleID              string         `gorm:"uniqueIndex;size:128;not null" json:"-"`
	Email                 string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	EmailVerified         bool           `gorm:"not null;default:false" json:"email_verified"`
	FullName              string         `gorm:"size:255" json:"full_name"`
	AvatarURL             string         `gorm:"size:512" json:"avatar_url"`
	EmailReminders        bool           `gorm:"not null;default:false" json:"email_reminders"`
	EncryptedRefreshToken string         `gorm:"type:text" json:"-"`
	TokenExpiry           time.Time      `json:"-"`
	DateJoined            time.Time      `gorm:"not null" json:"date_joined"`
	LastLogin             time.Time      `gorm:"not null" json:"last_login"`
	CreatedAt             time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook is called before creating a new account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	if a.DateJoined.IsZero() {
		a.DateJoined = now
	}
	if a.LastLogin.IsZero() {
		a.LastLogin = now
	}
	return nil
}

// BeforeSave hook is called before saving the account
func (a *Account) BeforeSave(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "account"
}

// LoginLog records a successful login for audit purposes
type LoginLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GoogleID  string    `gorm:"size:128;not null;index" json:"-"`
	Username  string    `gorm:"size:30;index" json:"username"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:512" json:"user_agent"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for the LoginLog model
func (LoginLog) TableName() string {
	return "login_log"
}

// CreateProfileRequest represents the data needed to finish registration
// after the OAuth callback
type CreateProfileRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=30"`
}

// UpdateAccountRequest represents the mutable account settings
type UpdateAccountRequest struct {
	FullName       *string `json:"full_name" binding:"omitempty,max=255"`
	EmailReminders *bool   `json:"email_reminders"`
}
