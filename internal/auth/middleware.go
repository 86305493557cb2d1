package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"classtrack/internal/database"
	"classtrack/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

var (
	googleOAuthConfig *oauth2.Config
)

// InitOAuth initializes the Google OAuth configuration
func InitOAuth() error {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	redirectURL := os.Getenv("GOOGLE_REDIRECT_URL")

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, and GOOGLE_REDIRECT_URL must be set")
	}

	googleOAuthConfig = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile", "openid"},
		Endpoint:     google.Endpoint,
	}

	return nil
}

// GetLoginURL returns the Google OAuth login URL with a secure state parameter
func GetLoginURL(c *gin.Context) (string, error) {
	// Generate and store a secure random state
	state, err := SetOAuthState(c)
	if err != nil {
		return "", err
	}

	// Generate the authorization URL with the state parameter
	return googleOAuthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	), nil
}

// HandleGoogleCallback processes the OAuth callback from Google
func HandleGoogleCallback(c *gin.Context) {
	// Verify state parameter (CSRF protection)
	state := c.Query("state")
	if !VerifyOAuthState(c, state) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state, possible CSRF attack"})
		c.Abort()
		return
	}

	// Exchange auth code for token
	code := c.Query("code")
	token, err := googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code exchange failed"})
		c.Abort()
		return
	}

	// Extract ID token from the token response
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get id_token"})
		c.Abort()
		return
	}

	// Verify the ID token
	payload, err := verifyIDToken(rawIDToken, googleOAuthConfig.ClientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to verify id_token: %v", err)})
		c.Abort()
		return
	}

	// Extract user info from the verified payload
	userInfo, err := extractUserInfoFromPayload(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract user info from token"})
		c.Abort()
		return
	}

	db := database.GetDB()

	// Check if user already exists
	username := ""
	var existingAccount models.Account
	if err := db.Where("google_id = ?", userInfo.Sub).First(&existingAccount).Error; err == nil {
		username = existingAccount.Username
		db.Model(&existingAccount).Update("last_login", time.Now())
		saveRefreshToken(db, userInfo.Sub, token)
	}

	// Create session; username stays empty until the profile exists, and the
	// profile endpoint links it afterwards
	if err := CreateSession(c, token, userInfo, username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		c.Abort()
		return
	}

	logLogin(db, c, userInfo.Sub, username)

	if username == "" {
		c.Redirect(http.StatusTemporaryRedirect, "/create-profile")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, "/")
}

// saveRefreshToken encrypts and stores the OAuth refresh token on the account
// so the server can mint access tokens after the session one expires
func saveRefreshToken(db *gorm.DB, googleID string, token *oauth2.Token) {
	if token == nil || token.RefreshToken == "" {
		return // No refresh token to save
	}

	encrypted, err := EncryptRefreshToken(token.RefreshToken)
	if err != nil {
		log.Printf("Warning: Failed to encrypt refresh token: %v", err)
		return
	}

	err = db.Model(&models.Account{}).
		Where("google_id = ?", googleID).
		Updates(map[string]interface{}{
			"encrypted_refresh_token": encrypted,
			"token_expiry":            token.Expiry,
		}).Error
	if err != nil {
		log.Printf("Warning: Failed to save refresh token: %v", err)
	}
}

// refreshSessionToken exchanges the account's stored refresh token for a new
// access token and writes it back to the session. Accounts created before a
// refresh token was captured simply keep their current token.
func refreshSessionToken(db *gorm.DB, session *models.Session) {
	var account models.Account
	if err := db.Where("google_id = ?", session.UserID).First(&account).Error; err != nil {
		return
	}
	if account.EncryptedRefreshToken == "" {
		return
	}

	refreshToken, err := DecryptRefreshToken(account.EncryptedRefreshToken)
	if err != nil {
		log.Printf("Warning: Failed to decrypt refresh token for %s: %v", session.UserID, err)
		return
	}

	token, err := googleOAuthConfig.TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		log.Printf("Warning: Failed to refresh access token for %s: %v", session.UserID, err)
		return
	}

	err = db.Model(&models.Session{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"access_token": token.AccessToken,
			"token_expiry": token.Expiry,
		}).Error
	if err != nil {
		log.Printf("Warning: Failed to store refreshed access token: %v", err)
		return
	}
	session.AccessToken = token.AccessToken
	session.TokenExpiry = token.Expiry

	// Google occasionally rotates the refresh token on use
	saveRefreshToken(db, session.UserID, token)
}

// logLogin records a successful login with the real client address
func logLogin(db *gorm.DB, c *gin.Context, googleID, username string) {
	entry := models.LoginLog{
		GoogleID:  googleID,
		Username:  username,
		IPAddress: realClientIP(c),
		UserAgent: c.Request.UserAgent(),
		CreatedAt: time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("Warning: Failed to record login: %v", err)
	}
}

// verifyIDToken verifies the ID token using Google's official library
func verifyIDToken(idToken string, audience string) (*idtoken.Payload, error) {
	payload, err := idtoken.Validate(context.Background(), idToken, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to validate ID token: %w", err)
	}
	return payload, nil
}

// extractUserInfoFromPayload extracts user info from the verified token payload
func extractUserInfoFromPayload(payload *idtoken.Payload) (*UserInfo, error) {
	email, ok := payload.Claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("email claim missing from token")
	}

	userInfo := &UserInfo{
		Sub:   payload.Subject,
		Email: email,
	}

	// Extract other fields if they exist
	if name, ok := payload.Claims["name"].(string); ok {
		userInfo.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		userInfo.Picture = picture
	}
	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok {
		userInfo.EmailVerified = emailVerified
	}

	return userInfo, nil
}

// AuthMiddleware validates the session
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the session from the request
		session, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		// Verify the session hasn't expired
		if session.IsExpired() {
			DeleteSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			c.Abort()
			return
		}

		// Mint a fresh access token when the current one is close to expiry.
		// Best effort; a failed refresh leaves the session usable until the
		// old token actually lapses.
		if session.NeedsTokenRefresh() {
			refreshSessionToken(database.GetDB(), session)
		}

		// Store user info in context for handlers to use
		if session.Username != "" {
			c.Set("username", session.Username)
		}
		c.Set("session_id", session.ID)
		c.Set("sub", session.UserID)
		c.Set("email", session.Email)
		c.Set("name", session.Name)
		c.Set("picture", session.Picture)

		c.Next()
	}
}

// LogoutHandler handles user logout
func LogoutHandler(c *gin.Context) {
	DeleteSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}
