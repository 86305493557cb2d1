package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseKind distinguishes lecture courses from lab courses
type CourseKind string

const (
	TheoryCourse    CourseKind = "Theory"
	PracticalCourse CourseKind = "Practical"
)

// Course represents a registered course in a user's catalog.
// Reference data: created at initialization, rarely mutated, never deleted.
type Course struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string     `gorm:"size:30;not null;uniqueIndex:idx_course_owner_code" json:"username"`
	Code       string     `gorm:"size:20;not null;uniqueIndex:idx_course_owner_code" json:"code"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Kind       CourseKind `gorm:"size:10;not null" json:"kind"`
	Instructor string     `gorm:"size:255" json:"instructor"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook is called before creating a new course
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	return nil
}

// TableName specifies the table name for the Course model
func (Course) TableName() string {
	return "course"
}

// CreateCourseRequest represents the data needed to register a course
type CreateCourseRequest struct {
	Code       string `json:"code" binding:"required,max=20"`
	Name       string `json:"name" binding:"required,max=255"`
	Kind       string `json:"kind" binding:"required,oneof=Theory Practical"`
	Instructor string `json:"instructor" binding:"max=255"`
}
