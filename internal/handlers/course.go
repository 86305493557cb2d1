package handlers

import (
	"errors"
	"net/http"
	"strings"

	"classtrack/internal/database"
	"classtrack/internal/models"
	"classtrack/internal/schedule"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetCourses lists the owner's course catalog
func GetCourses(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	db := database.GetDB()
	var courses []models.Course
	if err := db.Where("username = ?", username).Order("code ASC").Find(&courses).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch courses", err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// CreateCourse registers a course in the owner's catalog
func CreateCourse(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	var request models.CreateCourseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	course := models.Course{
		Username:   username,
		Code:       request.Code,
		Name:       request.Name,
		Kind:       models.CourseKind(request.Kind),
		Instructor: request.Instructor,
	}

	db := database.GetDB()
	if err := db.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			handleError(c, http.StatusConflict, "Course code already registered", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to create course", err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// CreateSlot adds a timetable slot to the owner's weekly schedule
func CreateSlot(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	var request models.CreateSlotRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	// Reject malformed times here so the engine never sees them
	if _, err := schedule.ParseClock(request.StartTime); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid start time", err)
		return
	}
	if _, err := schedule.ParseClock(request.EndTime); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid end time", err)
		return
	}

	slot := models.TimetableSlot{
		Username:   username,
		Weekday:    request.Weekday,
		StartTime:  request.StartTime,
		EndTime:    request.EndTime,
		CourseCode: request.CourseCode,
		Location:   request.Location,
		Note:       request.Note,
	}
	if err := slot.Validate(); err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	db := database.GetDB()

	// The slot must reference a course the owner actually has
	var course models.Course
	if err := db.Where("username = ? AND code = ?", username, request.CourseCode).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusBadRequest, "Course not found in catalog", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to check course", err)
		return
	}

	if err := db.Create(&slot).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create slot", err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}
