package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title       string
	Description string
	Category    string
	Price       float64
	Thumbnail   string
	CreatorID   uint
	Lessons     []Lesson
	Quizzes     []Quiz
	Assignments []Assignment
}

type Lesson struct {
	gorm.Model
	CourseID      uint
	Title         string
	Type          string // video, pdf, text
	Content       string // URL for video/pdf, body for text
	Duration      int
	IsFree        bool
	SequenceOrder int
}

type Assignment struct {
	gorm.Model
	CourseID      uint
	Title         string
	Description   string
	DueDate       string
	SequenceOrder int
}

// ValidLessonType reports whether t is one of the supported lesson types.
func ValidLessonType(t string) bool {
	switch t {
	case "video", "pdf", "text":
		return true
	}
	return false
}
