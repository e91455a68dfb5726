package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"edulms/backend/config"
	"edulms/backend/models"
	"edulms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizzesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuizzesController(db *gorm.DB, cfg *config.Config) *QuizzesController {
	return &QuizzesController{DB: db, Cfg: cfg}
}

func (qc *QuizzesController) loadCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid course ID")
	}

	var course models.Course
	if err := qc.DB.Preload("Quizzes").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not query database")
	}

	return &course, nil
}

// AddQuiz godoc
// @Summary Append a quiz with its questions to a course
// @Description Returns the updated course with its nested content
// @Tags quizzes
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/quizzes [post]
func (qc *QuizzesController) AddQuiz(c *fiber.Ctx) error {
	actor, err := currentUser(c, qc.DB, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	course, err := qc.loadCourse(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	if !models.CanModify(actor, course) {
		return utils.Forbidden(c, "Only the course owner or an admin may add quizzes")
	}

	var input struct {
		Title     string `json:"title"`
		Questions []struct {
			Text          string   `json:"text"`
			Choices       []string `json:"choices"`
			CorrectChoice int      `json:"correct_choice"`
		} `json:"questions"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" {
		return utils.BadRequest(c, "Quiz title is required")
	}
	for _, q := range input.Questions {
		if q.Text == "" || len(q.Choices) == 0 {
			return utils.BadRequest(c, "Each question needs text and choices")
		}
		if q.CorrectChoice < 0 || q.CorrectChoice >= len(q.Choices) {
			return utils.BadRequest(c, "Correct choice index out of range")
		}
	}

	quiz := models.Quiz{
		CourseID:      course.ID,
		Title:         input.Title,
		SequenceOrder: len(course.Quizzes) + 1,
	}
	for i, q := range input.Questions {
		choices, _ := json.Marshal(q.Choices)
		quiz.Questions = append(quiz.Questions, models.Question{
			Text:          q.Text,
			Choices:       string(choices),
			CorrectChoice: q.CorrectChoice,
			SequenceOrder: i + 1,
		})
	}

	if err := qc.DB.Create(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not add quiz")
	}

	// The client replaces its course state with the response
	course, err = loadCourseDetail(qc.DB, course.ID)
	if err != nil {
		return replyFiberError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(courseDetailMap(qc.DB, actor, course))
}

// SubmitQuiz godoc
// @Summary Grade a quiz submission
// @Description Grades answers positionally against the quiz's questions
// @Tags quizzes
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/quizzes/{qid}/submit [post]
func (qc *QuizzesController) SubmitQuiz(c *fiber.Ctx) error {
	actor, err := currentUser(c, qc.DB, qc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	course, err := qc.loadCourse(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	quizID, err := strconv.Atoi(c.Params("qid"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	err = qc.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_order") }).
		Where("course_id = ?", course.ID).
		First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var enrolled int64
	qc.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", actor.ID, course.ID).
		Count(&enrolled)
	// Owners and admins may submit while authoring
	if enrolled == 0 && !models.CanModify(actor, course) {
		return utils.Forbidden(c, "Enroll in the course to take its quizzes")
	}

	var input struct {
		Answers []int `json:"answers"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	score := models.ScoreQuiz(quiz.Questions, input.Answers)

	// Submissions are kept for audit; retakes just append rows
	answers, _ := json.Marshal(input.Answers)
	submission := models.QuizSubmission{
		UserID:   actor.ID,
		CourseID: course.ID,
		QuizID:   quiz.ID,
		Answers:  string(answers),
		Score:    score,
	}
	if err := qc.DB.Create(&submission).Error; err != nil {
		return utils.InternalServerError(c, "Could not record submission")
	}

	return c.JSON(fiber.Map{"score": score})
}
