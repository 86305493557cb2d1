package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"classtrack/internal/database"
	"classtrack/internal/ledger"
	"classtrack/internal/models"
	"classtrack/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScheduleNotification creates a reminder record through the ledger. The UI
// may call this redundantly on every refresh; the dedup key makes repeats
// return the existing record instead of erroring.
func ScheduleNotification(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	var request models.ScheduleReminderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	record := models.ReminderRecord{
		Username:   username,
		CourseCode: request.CourseCode,
		CourseName: request.CourseName,
		StartTime:  request.StartTime,
		Location:   request.Location,
		FiresAt:    request.FiresAt,
	}

	stored, created, err := ledger.New(database.GetDB()).Schedule(&record)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to schedule notification", err)
		return
	}

	if !created {
		log.Printf("Reminder already scheduled for %s/%s at %v", username, stored.CourseCode, stored.FiresAt)
		c.JSON(http.StatusOK, stored)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// GetPendingNotifications returns the owner's due, undelivered reminders,
// earliest first
func GetPendingNotifications(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	records, err := ledger.New(database.GetDB()).DueUnsentFor(username, time.Now())
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch pending notifications", err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// MarkNotificationSent flips a reminder to delivered. Marking twice is a
// no-op, not an error.
func MarkNotificationSent(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		handleError(c, http.StatusBadRequest, "Invalid notification id", err)
		return
	}

	db := database.GetDB()

	// Owners can only touch their own records
	var record models.ReminderRecord
	if err := db.Where("id = ? AND username = ?", uint(id), username).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Notification not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch notification", err)
		return
	}

	if err := ledger.New(db).MarkSent(record.ID); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to mark notification sent", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked sent"})
}

// TestPushRequest represents a direct push-delivery request
type TestPushRequest struct {
	Token string `json:"token" binding:"required"`
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// SendPushNotification attempts one delivery to a device token and returns
// the structured result. Failures come back in the body, not as an HTTP
// error: the delivery boundary reports, it does not throw.
func SendPushNotification(c *gin.Context) {
	if _, ok := requireUsername(c); !ok {
		return
	}

	var request TestPushRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	result := services.NewPushService().Send(context.Background(), request.Token, request.Title, request.Body)
	if !result.Success {
		log.Printf("Error: Test push failed: %s", result.Error)
	}
	c.JSON(http.StatusOK, result)
}

// SaveToken registers a device token for push delivery. Registering the same
// token again returns the existing row.
func SaveToken(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	var request models.RegisterTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	db := database.GetDB()

	var existing models.DeviceToken
	if err := db.Where("token = ?", request.Token).First(&existing).Error; err == nil {
		log.Printf("Device token already registered, skipping insertion")
		c.JSON(http.StatusOK, existing)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		handleError(c, http.StatusInternalServerError, "Failed to check device token", err)
		return
	}

	token := models.DeviceToken{
		Username: username,
		Token:    request.Token,
	}
	if err := db.Create(&token).Error; err != nil {
		// Concurrent registration of the same token; absorb and return the winner
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			if ferr := db.Where("token = ?", request.Token).First(&existing).Error; ferr == nil {
				c.JSON(http.StatusOK, existing)
				return
			}
		}
		handleError(c, http.StatusInternalServerError, "Failed to register device token", err)
		return
	}

	c.JSON(http.StatusCreated, token)
}
