package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"classtrack/internal/auth"
	"classtrack/internal/database"
	"classtrack/internal/models"
	"classtrack/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5MB

// CreateProfile finishes registration after the OAuth callback by choosing a
// username and creating the account record
func CreateProfile(c *gin.Context) {
	if c.GetString("username") != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "profile already exists"})
		return
	}

	var request models.CreateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	googleID := c.GetString("sub")
	if googleID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	now := time.Now()
	account := models.Account{
		Username:      request.Username,
		GoogleID:      googleID,
		Email:         c.GetString("email"),
		EmailVerified: true,
		FullName:      c.GetString("name"),
		AvatarURL:     c.GetString("picture"),
		DateJoined:    now,
		LastLogin:     now,
	}

	db := database.GetDB()
	if err := db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			handleError(c, http.StatusConflict, "Username or account already exists", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	// Attach the username to the live session so this request's cookie works
	// for protected routes immediately
	if sessionID := c.GetString("session_id"); sessionID != "" {
		if err := auth.LinkSessionToUser(sessionID, account.Username); err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to link session", err)
			return
		}
	}

	c.JSON(http.StatusCreated, account)
}

// GetCurrentUser returns the currently authenticated user
func GetCurrentUser(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		// Authenticated with Google but no profile yet
		c.JSON(http.StatusOK, gin.H{
			"username": nil,
			"email":    c.GetString("email"),
			"name":     c.GetString("name"),
			"picture":  c.GetString("picture"),
		})
		return
	}

	db := database.GetDB()
	var account models.Account
	if err := db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Account not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve account", err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// UpdateMyAccount updates mutable account settings
func UpdateMyAccount(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	var request models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	updates := map[string]interface{}{}
	if request.FullName != nil {
		updates["full_name"] = *request.FullName
	}
	if request.EmailReminders != nil {
		updates["email_reminders"] = *request.EmailReminders
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
		return
	}

	db := database.GetDB()
	if err := db.Model(&models.Account{}).Where("username = ?", username).Updates(updates).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update account", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account updated"})
}

// UploadAvatar replaces the account's avatar image
func UploadAvatar(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		handleError(c, http.StatusBadRequest, "Avatar file required", err)
		return
	}
	defer file.Close()

	imageService, err := services.NewImageService()
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Image service unavailable", err)
		return
	}

	if err := imageService.ValidateImageFile(file, maxAvatarSize); err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	url, err := imageService.UploadAvatar(file, header.Filename, username)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to upload avatar", err)
		return
	}

	db := database.GetDB()
	if err := db.Model(&models.Account{}).Where("username = ?", username).Update("avatar_url", url).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save avatar", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
