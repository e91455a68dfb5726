package models

import (
	"math"

	"gorm.io/gorm"
)

type Quiz struct {
	gorm.Model
	CourseID      uint
	Title         string
	Questions     []Question
	SequenceOrder int
}

type Question struct {
	gorm.Model
	QuizID        uint
	Text          string
	Choices       string // JSON array of choices
	CorrectChoice int
	SequenceOrder int
}

// QuizSubmission is a graded attempt kept for audit. Retakes append new
// rows; no attempt limit is enforced.
type QuizSubmission struct {
	gorm.Model
	UserID   uint
	CourseID uint
	QuizID   uint
	Answers  string // JSON array of chosen indexes
	Score    float64
}

// ScoreQuiz grades answers against the quiz's questions by position.
// A missing or extra answer is never correct. An empty quiz scores 0.
func ScoreQuiz(questions []Question, answers []int) float64 {
	if len(questions) == 0 {
		return 0
	}

	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectChoice {
			correct++
		}
	}

	score := float64(correct) / float64(len(questions)) * 100
	return math.Round(score*100) / 100
}
