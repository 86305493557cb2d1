// Package seed holds the default course catalog and weekly timetable and
// copies them into a new owner's rows with initialize-once semantics.
package seed

import (
	"fmt"
	"time"

	"classtrack/internal/models"

	"gorm.io/gorm"
)

// AcademicYear labels the semester the default timetable belongs to
const AcademicYear = "2025-26/Autumn"

type slot struct {
	weekday    time.Weekday
	start, end string
	code       string
	location   string
	note       string
}

var defaultCourses = []models.Course{
	{Code: "CS3009", Name: "Operating Systems", Kind: models.TheoryCourse, Instructor: "Manmath Narayan Sahoo"},
	{Code: "CS3001", Name: "Data Communication", Kind: models.TheoryCourse, Instructor: "Pabitra Mohan Khilar"},
	{Code: "CS3011", Name: "Formal Language and Automata Theory", Kind: models.TheoryCourse, Instructor: "Ramesh Kumar Mohapatra"},
	{Code: "CS3014", Name: "IoT and Embedded Systems", Kind: models.TheoryCourse, Instructor: "Suchismita Chinara"},
	{Code: "ER4231", Name: "Science of Climate and Climate Change", Kind: models.TheoryCourse, Instructor: "Krishna Kishore Osari"},
	{Code: "CS3065", Name: "IoT Prototyping Laboratory", Kind: models.PracticalCourse, Instructor: "Suchismita Chinara"},
	{Code: "CS3071", Name: "Operating Systems Laboratory", Kind: models.PracticalCourse, Instructor: "Bibhudatta Sahoo"},
	{Code: "CS3077", Name: "Web and Mobile Application Development", Kind: models.PracticalCourse, Instructor: "Puneet Kumar Jain"},
}

var defaultSlots = []slot{
	{time.Monday, "08:00", "10:55", "CS3065", "(# HW LAB)", "3-Hour Lab Session"},
	{time.Monday, "11:05", "12:00", "ER4231", "(#)", ""},
	{time.Monday, "14:15", "15:10", "CS3011", "(# CS325)", ""},
	{time.Monday, "15:15", "16:10", "CS3014", "(# CS325)", ""},
	{time.Monday, "17:20", "18:15", "CS3001", "(# CS231)", ""},

	{time.Tuesday, "11:05", "12:00", "ER4231", "(#)", ""},
	{time.Tuesday, "13:15", "14:10", "CS3011", "(# CS325)", ""},
	{time.Tuesday, "14:15", "15:10", "CS3014", "(# CS325)", ""},

	{time.Wednesday, "09:00", "11:55", "CS3071", "(# SL-II)", "3-Hour Lab Session"},
	{time.Wednesday, "13:15", "14:10", "CS3009", "(# CS325)", ""},
	{time.Wednesday, "17:20", "18:15", "CS3001", "(# CS231)", ""},

	{time.Thursday, "11:05", "12:00", "CS3009", "(# CS325)", ""},
	{time.Thursday, "13:15", "14:10", "CS3014", "(# CS325)", ""},

	{time.Friday, "11:05", "12:00", "ER4231", "(#)", ""},
	{time.Friday, "15:15", "16:10", "CS3011", "(# CS325)", ""},
	{time.Friday, "16:20", "17:15", "CS3009", "(# CS325)", ""},
	{time.Friday, "17:20", "18:15", "CS3001", "(# CS231)", ""},
}

// DefaultCourses returns the default catalog owned by username
func DefaultCourses(username string) []models.Course {
	courses := make([]models.Course, len(defaultCourses))
	copy(courses, defaultCourses)
	for i := range courses {
		courses[i].Username = username
	}
	return courses
}

// DefaultTimetable returns the default weekly timetable owned by username
func DefaultTimetable(username string) []models.TimetableSlot {
	slots := make([]models.TimetableSlot, 0, len(defaultSlots))
	for _, s := range defaultSlots {
		ts := models.TimetableSlot{
			Username:   username,
			Weekday:    int(s.weekday),
			StartTime:  s.start,
			EndTime:    s.end,
			CourseCode: s.code,
			Location:   s.location,
		}
		if s.note != "" {
			note := s.note
			ts.Note = &note
		}
		slots = append(slots, ts)
	}
	return slots
}

// Apply copies the default catalog and timetable into the owner's rows.
// It is explicitly initialize-once: if the owner already has any courses the
// call is a no-op and returns false.
func Apply(db *gorm.DB, username string) (bool, error) {
	var count int64
	if err := db.Model(&models.Course{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existing catalog: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		courses := DefaultCourses(username)
		for i := range courses {
			if err := tx.Create(&courses[i]).Error; err != nil {
				return fmt.Errorf("failed to create course %s: %w", courses[i].Code, err)
			}
		}
		slots := DefaultTimetable(username)
		for i := range slots {
			if err := slots[i].Validate(); err != nil {
				return fmt.Errorf("invalid default slot: %w", err)
			}
			if err := tx.Create(&slots[i]).Error; err != nil {
				return fmt.Errorf("failed to create slot for %s: %w", slots[i].CourseCode, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
