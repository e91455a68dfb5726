package routes

import (
	"edulms/backend/config"
	"edulms/backend/controllers"
	"edulms/backend/middleware"
	"edulms/backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	instructorMiddleware := middleware.RequireRoles(db, cfg, models.RoleInstructor, models.RoleAdmin)
	studentMiddleware := middleware.RequireRoles(db, cfg, models.RoleStudent)

	app.Get("/api/auth/me", authMiddleware, authController.Me)

	// Courses routes. Literal paths go first so they are not swallowed
	// by the :id routes.
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Get("/my-created-courses", instructorMiddleware, coursesController.MyCreatedCourses)
	courses.Get("/my-enrolled-courses", studentMiddleware, coursesController.MyEnrolledCourses)
	courses.Get("/", coursesController.ListCourses)
	courses.Post("/", instructorMiddleware, coursesController.CreateCourse)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Put("/:id", authMiddleware, coursesController.UpdateCourse)
	courses.Delete("/:id", authMiddleware, coursesController.DeleteCourse)
	courses.Post("/:id/lessons", authMiddleware, coursesController.AddLesson)
	courses.Post("/:id/assignments", authMiddleware, coursesController.AddAssignment)

	// Enrollment routes
	enrollmentController := controllers.NewEnrollmentController(db, cfg)
	courses.Get("/:id/enrollment", studentMiddleware, enrollmentController.CheckEnrollment)
	courses.Post("/:id/enroll", studentMiddleware, enrollmentController.Enroll)
	courses.Put("/:id/progress", studentMiddleware, enrollmentController.UpdateProgress)

	// Quiz routes
	quizzesController := controllers.NewQuizzesController(db, cfg)
	courses.Post("/:id/quizzes", authMiddleware, quizzesController.AddQuiz)
	courses.Post("/:id/quizzes/:qid/submit", authMiddleware, quizzesController.SubmitQuiz)

	// Upload routes
	uploadController := controllers.NewUploadController(cfg)
	app.Post("/api/upload", authMiddleware, uploadController.Upload)
}
