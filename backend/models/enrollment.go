package models

import "gorm.io/gorm"

// Enrollment links a student to a course. The composite unique index is
// what rejects a concurrent double enroll; handlers never check-then-act.
type Enrollment struct {
	gorm.Model
	UserID   uint    `gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID uint    `gorm:"uniqueIndex:idx_user_course;not null"`
	Progress float64 `gorm:"default:0"` // percent in [0,100]
}

// ClampProgress bounds a progress value to [0,100].
func ClampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
