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

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

func countEnrollments(db *gorm.DB, courseID uint) int64 {
	var count int64
	db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&count)
	return count
}

func isEnrolled(db *gorm.DB, userID, courseID uint) bool {
	var count int64
	db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count)
	return count > 0
}

// loadCourseDetail fetches a course with its nested content preloaded in
// sequence order.
func loadCourseDetail(db *gorm.DB, courseID uint) (*models.Course, error) {
	var course models.Course
	err := db.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_order") }).
		Preload("Quizzes", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_order") }).
		Preload("Quizzes.Questions", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_order") }).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_order") }).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not query database")
	}

	return &course, nil
}

// loadCourse resolves the :id route param to a fully preloaded course.
func (cc *CoursesController) loadCourse(c *fiber.Ctx) (*models.Course, error) {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid course ID")
	}

	return loadCourseDetail(cc.DB, uint(courseID))
}

func replyFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.Error(c, fe.Code, fe.Message)
	}
	return utils.InternalServerError(c, "Internal error")
}

func courseSummary(course *models.Course, enrollmentCount int64) fiber.Map {
	return fiber.Map{
		"id":               course.ID,
		"title":            course.Title,
		"description":      course.Description,
		"category":         course.Category,
		"price":            course.Price,
		"thumbnail":        course.Thumbnail,
		"creator_id":       course.CreatorID,
		"lessons":          len(course.Lessons),
		"enrollment_count": enrollmentCount,
	}
}

// courseDetailMap serializes a preloaded course with its nested sequences,
// applying the actor's visibility rules. This is the shape course detail
// and the append operations return.
func courseDetailMap(db *gorm.DB, actor *models.User, course *models.Course) fiber.Map {
	enrolled := actor != nil && isEnrolled(db, actor.ID, course.ID)

	lessons := []fiber.Map{}
	for i := range course.Lessons {
		lessons = append(lessons, lessonMap(actor, course, &course.Lessons[i], enrolled))
	}

	quizzes := []fiber.Map{}
	for i := range course.Quizzes {
		quizzes = append(quizzes, quizMap(actor, course, &course.Quizzes[i]))
	}

	return fiber.Map{
		"id":               course.ID,
		"title":            course.Title,
		"description":      course.Description,
		"category":         course.Category,
		"price":            course.Price,
		"thumbnail":        course.Thumbnail,
		"creator_id":       course.CreatorID,
		"lessons":          lessons,
		"quizzes":          quizzes,
		"assignments":      course.Assignments,
		"enrollment_count": countEnrollments(db, course.ID),
	}
}

// lessonMap blanks paid lesson content for viewers without access. The
// lesson itself stays listed so the client can render a locked entry.
func lessonMap(actor *models.User, course *models.Course, lesson *models.Lesson, enrolled bool) fiber.Map {
	content := lesson.Content
	if !models.CanViewLesson(actor, course, lesson, enrolled) {
		content = ""
	}

	return fiber.Map{
		"id":       lesson.ID,
		"title":    lesson.Title,
		"type":     lesson.Type,
		"content":  content,
		"duration": lesson.Duration,
		"is_free":  lesson.IsFree,
		"order":    lesson.SequenceOrder,
	}
}

// quizMap hides correct answer indexes from anyone who cannot modify
// the course.
func quizMap(actor *models.User, course *models.Course, quiz *models.Quiz) fiber.Map {
	var questions []fiber.Map
	for _, q := range quiz.Questions {
		choices := []string{}
		if err := json.Unmarshal([]byte(q.Choices), &choices); err != nil {
			// Malformed stored choices render as an empty list
			choices = []string{}
		}

		question := fiber.Map{
			"id":      q.ID,
			"text":    q.Text,
			"choices": choices,
			"order":   q.SequenceOrder,
		}
		if models.CanModify(actor, course) {
			question["correct_choice"] = q.CorrectChoice
		}
		questions = append(questions, question)
	}

	return fiber.Map{
		"id":        quiz.ID,
		"title":     quiz.Title,
		"order":     quiz.SequenceOrder,
		"questions": questions,
	}
}

// ListCourses godoc
// @Summary Browse courses
// @Tags courses
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := cc.DB.Preload("Lessons").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for i := range courses {
		result = append(result, courseSummary(&courses[i], countEnrollments(cc.DB, courses[i].ID)))
	}

	return c.JSON(result)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	actor, err := currentUser(c, cc.DB, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Price       float64 `json:"price"`
		Thumbnail   string  `json:"thumbnail"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" || input.Category == "" {
		return utils.BadRequest(c, "Title and category are required")
	}
	if input.Price < 0 {
		return utils.BadRequest(c, "Price cannot be negative")
	}

	course := models.Course{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Thumbnail:   input.Thumbnail,
		CreatorID:   actor.ID,
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return c.Status(fiber.StatusCreated).JSON(courseSummary(&course, 0))
}

// GetCourseDetails godoc
// @Summary Course detail with nested content
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	course, err := cc.loadCourse(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	actor := optionalUser(c, cc.DB, cc.Cfg)
	return c.JSON(courseDetailMap(cc.DB, actor, course))
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [put]
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	actor, err := currentUser(c, cc.DB, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	course, err := cc.loadCourse(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	if !models.CanModify(actor, course) {
		return utils.Forbidden(c, "Only the course owner or an admin may modify it")
	}

	var input struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Thumbnail   *string  `json:"thumbnail"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return utils.BadRequest(c, "Title cannot be empty")
		}
		course.Title = *input.Title
	}
	if input.Category != nil {
		if *input.Category == "" {
			return utils.BadRequest(c, "Category cannot be empty")
		}
		course.Category = *input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return utils.BadRequest(c, "Price cannot be negative")
		}
		course.Price = *input.Price
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Thumbnail != nil {
		course.Thumbnail = *input.Thumbnail
	}

	if err := cc.DB.Save(course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return c.JSON(courseSummary(course, countEnrollments(cc.DB, course.ID)))
}

// DeleteCourse godoc
// @Summary Delete a course and its owned content
// @Tags courses
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [delete]
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	actor, err := currentUser(c, cc.DB, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	course, err := cc.loadCourse(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	if !models.CanModify(actor, course) {
		return utils.Forbidden(c, "Only the course owner or an admin may delete it")
	}

	// Lessons, quizzes, assignments and enrollments have no lifecycle
	// of their own; they go with the course.
	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		var quizIDs []uint
		if err := tx.Model(&models.Quiz{}).Where("course_id = ?", course.ID).
			Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}

	return c.JSON(fiber.Map{"message": "Course deleted"})
}

// MyCreatedCourses godoc
// @Summary Courses owned by the current instructor
// @Tags courses
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/my-created-courses [get]
func (cc *CoursesController) MyCreatedCourses(c *fiber.Ctx) error {
	actor, err := currentUser(c, cc.DB, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var courses []models.Course
	if err := cc.DB.Preload("Lessons").
		Where("creator_id = ?", actor.ID).
		Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for i := range courses {
		result = append(result, courseSummary(&courses[i], countEnrollments(cc.DB, courses[i].ID)))
	}

	return c.JSON(result)
}

// MyEnrolledCourses godoc
// @Summary Enrollments of the current student joined with their courses
// @Tags courses
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/my-enrolled-courses [get]
func (cc *CoursesController) MyEnrolledCourses(c *fiber.Ctx) error {
	actor, err := currentUser(c, cc.DB, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var enrollments []models.Enrollment
	if err := cc.DB.Where("user_id = ?", actor.ID).Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := []fiber.Map{}
	for _, enrollment := range enrollments {
		var course models.Course
		if err := cc.DB.Preload("Lessons").First(&course, enrollment.CourseID).Error; err != nil {
			// A dangling enrollment is skipped; anything else is a
			// real persistence failure
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return utils.InternalServerError(c, "Could not query database")
		}
		entry := courseSummary(&course, countEnrollments(cc.DB, course.ID))
		entry["progress"] = enrollment.Progress
		entry["enrollment_id"] = enrollment.ID
		result = append(result, entry)
	}

	return c.JSON(result)
}

// AddLesson godoc
// @Summary Append a lesson to a course
// @Description Returns the updated course with its nested content
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons [post]
func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	actor, err := currentUser(c, cc.DB, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	course, err := cc.loadCourse(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	if !models.CanModify(actor, course) {
		return utils.Forbidden(c, "Only the course owner or an admin may add lessons")
	}

	var input struct {
		Title    string `json:"title"`
		Type     string `json:"type"`
		Content  string `json:"content"`
		Duration int    `json:"duration"`
		IsFree   bool   `json:"is_free"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" {
		return utils.BadRequest(c, "Lesson title is required")
	}
	if !models.ValidLessonType(input.Type) {
		return utils.BadRequest(c, "Lesson type must be video, pdf or text")
	}

	lesson := models.Lesson{
		CourseID:      course.ID,
		Title:         input.Title,
		Type:          input.Type,
		Content:       input.Content,
		Duration:      input.Duration,
		IsFree:        input.IsFree,
		SequenceOrder: len(course.Lessons) + 1,
	}

	if err := cc.DB.Create(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not add lesson")
	}

	// The client replaces its course state with the response
	course, err = loadCourseDetail(cc.DB, course.ID)
	if err != nil {
		return replyFiberError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(courseDetailMap(cc.DB, actor, course))
}

// AddAssignment godoc
// @Summary Append an assignment to a course
// @Description Returns the updated course with its nested content
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/assignments [post]
func (cc *CoursesController) AddAssignment(c *fiber.Ctx) error {
	actor, err := currentUser(c, cc.DB, cc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	course, err := cc.loadCourse(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	if !models.CanModify(actor, course) {
		return utils.Forbidden(c, "Only the course owner or an admin may add assignments")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" {
		return utils.BadRequest(c, "Assignment title is required")
	}

	assignment := models.Assignment{
		CourseID:      course.ID,
		Title:         input.Title,
		Description:   input.Description,
		DueDate:       input.DueDate,
		SequenceOrder: len(course.Assignments) + 1,
	}

	if err := cc.DB.Create(&assignment).Error; err != nil {
		return utils.InternalServerError(c, "Could not add assignment")
	}

	course, err = loadCourseDetail(cc.DB, course.ID)
	if err != nil {
		return replyFiberError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(courseDetailMap(cc.DB, actor, course))
}
