package examRoutes

import (
	controllers "schoolms/controllers/exam"
	"schoolms/middleware"
	"schoolms/models"
	validators "schoolms/validators/exam"

	"github.com/gofiber/fiber/v2"
)

// SetupExamRoutes sets up all student-facing exam routes
func SetupExamRoutes(app *fiber.App) {
	studentOnly := middleware.RequireRole(models.RoleStudent)

	examGroup := app.Group("/exam")

	// Catalog: exams open to the student's trade and level
	examGroup.Get("/list", middleware.JWTMiddleware, studentOnly, controllers.ListAvailableExams)
	examGroup.Get("/code/:code", middleware.JWTMiddleware, studentOnly, validators.JoinCode(), controllers.GetExamByCode)

	// Metadata shown before the explicit start gate
	examGroup.Get("/:id/meta", middleware.JWTMiddleware, studentOnly, validators.ExamID(), controllers.GetExamMeta)

	// Question feed (no correct answers)
	examGroup.Get("/:id/questions", middleware.JWTMiddleware, studentOnly, validators.ExamID(), controllers.GetExamQuestions)

	// Submission and grading
	examGroup.Post("/:id/submit", middleware.JWTMiddleware, studentOnly, validators.SubmitExam(), controllers.SubmitExam)

	// Result history
	studentGroup := app.Group("/student")
	studentGroup.Get("/results", middleware.JWTMiddleware, studentOnly, controllers.GetMyResults)
	studentGroup.Get("/results/:id", middleware.JWTMiddleware, studentOnly, validators.ExamID(), controllers.GetMyResultDetail)
}
