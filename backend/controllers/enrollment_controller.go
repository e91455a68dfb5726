package controllers

import (
	"errors"
	"strconv"

	"edulms/backend/config"
	"edulms/backend/models"
	"edulms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentController(db *gorm.DB, cfg *config.Config) *EnrollmentController {
	return &EnrollmentController{DB: db, Cfg: cfg}
}

func (ec *EnrollmentController) courseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid course ID")
	}

	var count int64
	ec.DB.Model(&models.Course{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Course not found")
	}

	return uint(id), nil
}

// CheckEnrollment godoc
// @Summary Whether the current student is enrolled in the course
// @Tags enrollments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enrollment [get]
func (ec *EnrollmentController) CheckEnrollment(c *fiber.Ctx) error {
	actor, err := currentUser(c, ec.DB, ec.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := ec.courseID(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	var count int64
	ec.DB.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", actor.ID, courseID).
		Count(&count)

	return c.JSON(fiber.Map{"enrolled": count > 0})
}

// Enroll godoc
// @Summary Enroll the current student in a course
// @Tags enrollments
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (ec *EnrollmentController) Enroll(c *fiber.Ctx) error {
	actor, err := currentUser(c, ec.DB, ec.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := ec.courseID(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	enrollment := models.Enrollment{
		UserID:   actor.ID,
		CourseID: courseID,
		Progress: 0,
	}

	// No existence pre-check: the unique index decides, so two
	// concurrent enrolls cannot both succeed.
	if err := ec.DB.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Conflict(c, "Already enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not create enrollment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Enrolled",
		"enrollment": fiber.Map{
			"id":        enrollment.ID,
			"course_id": enrollment.CourseID,
			"progress":  enrollment.Progress,
		},
	})
}

// UpdateProgress godoc
// @Summary Set the current student's progress in a course
// @Tags enrollments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/progress [put]
func (ec *EnrollmentController) UpdateProgress(c *fiber.Ctx) error {
	actor, err := currentUser(c, ec.DB, ec.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := ec.courseID(c)
	if err != nil {
		return replyFiberError(c, err)
	}

	var input struct {
		Progress float64 `json:"progress"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var enrollment models.Enrollment
	err = ec.DB.Where("user_id = ? AND course_id = ?", actor.ID, courseID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Not enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment.Progress = models.ClampProgress(input.Progress)
	if err := ec.DB.Save(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not update progress")
	}

	return c.JSON(fiber.Map{
		"message":  "Progress updated",
		"progress": enrollment.Progress,
	})
}
