package main

import (
	"fmt"
	"log"
	"os"

	"classtrack/internal/auth"
	"classtrack/internal/database"
	"classtrack/internal/handlers"
	"classtrack/internal/ledger"
	"classtrack/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// This is our main function - the entry point of our application
func main() {
	// Load .env in development; in production everything comes from the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Initialize Google OAuth
	if err := auth.InitOAuth(); err != nil {
		log.Fatal("Failed to initialize OAuth:", err)
	}

	// Initialize refresh token encryption
	if err := auth.InitCrypto(); err != nil {
		log.Fatal("Failed to initialize crypto:", err)
	}

	// Start background workers: one plans reminders from timetables, the
	// other delivers due ones. They share the ledger's dedup guarantees, so
	// the two timers never need to coordinate.
	reminderLedger := ledger.New(database.GetDB())
	services.NewPlannerWorker(reminderLedger).Start()
	services.NewDeliveryWorker(reminderLedger).Start()

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})

	// The frontend is served separately and talks to us cross-origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{frontendOrigin()}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Auth routes (no auth required)
	router.GET("/auth/login", handlers.LoginHandler)
	router.GET("/auth/google/callback", handlers.GoogleCallbackHandler)

	// Protected routes (auth required)
	protected := router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/auth/logout", handlers.LogoutHandler)
		protected.GET("/auth/me", handlers.GetCurrentUser)
		protected.POST("/auth/profile", handlers.CreateProfile)

		api := protected.Group("/api")
		{
			api.GET("/schedule/today", handlers.GetTodaysSchedule)
			api.GET("/schedule/tomorrow", handlers.GetTomorrowsSchedule)
			api.POST("/schedule/initialize", handlers.InitializeSchedule)

			api.GET("/courses", handlers.GetCourses)
			api.POST("/courses", handlers.CreateCourse)
			api.POST("/timetable", handlers.CreateSlot)

			api.POST("/notifications/schedule", handlers.ScheduleNotification)
			api.GET("/notifications/pending", handlers.GetPendingNotifications)
			api.POST("/notifications/:id/sent", handlers.MarkNotificationSent)
			api.POST("/notifications/test", handlers.SendPushNotification)

			api.POST("/devices", handlers.SaveToken)

			api.GET("/accounts/me", handlers.GetCurrentUser)
			api.PUT("/accounts/me", handlers.UpdateMyAccount)
			api.POST("/accounts/me/avatar", handlers.UploadAvatar)
		}
	}

	// Start the server
	fmt.Println("Server starting on port 8080...")
	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

func frontendOrigin() string {
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:5173"
}
