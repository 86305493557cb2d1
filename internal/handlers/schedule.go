package handlers

import (
	"fmt"
	"net/http"
	"time"

	"classtrack/internal/database"
	"classtrack/internal/models"
	"classtrack/internal/schedule"
	"classtrack/internal/seed"

	"github.com/gin-gonic/gin"
)

// ClassView is one class as shown on the today/tomorrow screens. Status is
// only present on today's view; tomorrow's classes have no live status.
type ClassView struct {
	CourseCode string                `json:"course_code"`
	CourseName string                `json:"course_name"`
	Kind       models.CourseKind     `json:"kind"`
	Instructor string                `json:"instructor"`
	StartTime  string                `json:"start_time"`
	EndTime    string                `json:"end_time"`
	Location   string                `json:"location"`
	Note       *string               `json:"note,omitempty"`
	Status     *schedule.ClassStatus `json:"status,omitempty"`
}

// GetTodaysSchedule returns the current working day's classes with live
// status. On weekends the class list is empty and working_day is null; that
// is a normal response, not an error.
func GetTodaysSchedule(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	now := time.Now()
	weekday, working := schedule.CurrentWorkingDay(now)
	if !working {
		c.JSON(http.StatusOK, gin.H{
			"academic_year": seed.AcademicYear,
			"working_day":   nil,
			"classes":       []ClassView{},
		})
		return
	}

	classes, err := loadDaySlice(username, weekday, &now)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"academic_year": seed.AcademicYear,
		"working_day":   weekday.String(),
		"classes":       classes,
	})
}

// GetTomorrowsSchedule returns the next working day's classes. Friday through
// Sunday all roll forward to Monday.
func GetTomorrowsSchedule(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	weekday := schedule.NextWorkingDay(time.Now())
	classes, err := loadDaySlice(username, weekday, nil)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"academic_year": seed.AcademicYear,
		"working_day":   weekday.String(),
		"classes":       classes,
	})
}

// InitializeSchedule seeds the default catalog and timetable for the owner.
// Explicitly initialize-once: a second call reports the existing data instead
// of duplicating it.
func InitializeSchedule(c *gin.Context) {
	username, ok := requireUsername(c)
	if !ok {
		return
	}

	created, err := seed.Apply(database.GetDB(), username)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to initialize schedule", err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Schedule already initialized"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Schedule initialized"})
}

// loadDaySlice assembles the weekday slice for one owner, joining slots with
// catalog data. When now is non-nil each class also gets its live status.
func loadDaySlice(username string, weekday time.Weekday, now *time.Time) ([]ClassView, error) {
	db := database.GetDB()

	var slots []models.TimetableSlot
	if err := db.Where("username = ? AND weekday = ?", username, int(weekday)).
		Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := db.Where("username = ?", username).Find(&courses).Error; err != nil {
		return nil, err
	}
	catalog := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		catalog[course.Code] = course
	}

	classes := make([]ClassView, 0, len(slots))
	for _, slot := range slots {
		view := ClassView{
			CourseCode: slot.CourseCode,
			CourseName: slot.CourseCode,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			Location:   slot.Location,
			Note:       slot.Note,
		}
		if course, found := catalog[slot.CourseCode]; found {
			view.CourseName = course.Name
			view.Kind = course.Kind
			view.Instructor = course.Instructor
		}

		if now != nil {
			start, err := schedule.ParseClock(slot.StartTime)
			if err != nil {
				return nil, fmt.Errorf("stored slot %d has invalid start time: %w", slot.ID, err)
			}
			end, err := schedule.ParseClock(slot.EndTime)
			if err != nil {
				return nil, fmt.Errorf("stored slot %d has invalid end time: %w", slot.ID, err)
			}
			status := schedule.EvaluateStatus(start, end, *now)
			view.Status = &status
		}

		classes = append(classes, view)
	}
	return classes, nil
}
