package models

import (
	"time"

	"gorm.io/gorm"
)

// DeviceToken is an opaque FCM push-delivery address registered by a user's
// browser or device. Tokens are append-only and deduplicated by value.
type DeviceToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:30;not null;index" json:"username"`
	Token     string    `gorm:"size:512;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook is called before creating a new device token
func (d *DeviceToken) BeforeCreate(tx *gorm.DB) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the DeviceToken model
func (DeviceToken) TableName() string {
	return "device_token"
}

// RegisterTokenRequest represents the data needed to register a device token
type RegisterTokenRequest struct {
	Token string `json:"token" binding:"required,max=512"`
}
