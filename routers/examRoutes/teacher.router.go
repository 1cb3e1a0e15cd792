package examRoutes

import (
	controllers "schoolms/controllers/exam"
	"schoolms/middleware"
	"schoolms/models"
	validators "schoolms/validators/exam"

	"github.com/gofiber/fiber/v2"
)

// SetupTeacherExamRoutes sets up all teacher exam management routes
func SetupTeacherExamRoutes(app *fiber.App) {
	teacherOnly := middleware.RequireRole(models.RoleTeacher, models.RoleAdmin)

	teacherGroup := app.Group("/teacher/exam")

	// Exam CRUD
	teacherGroup.Post("/create", middleware.JWTMiddleware, teacherOnly, validators.CreateExam(), controllers.CreateExam)
	teacherGroup.Get("/list", middleware.JWTMiddleware, teacherOnly, controllers.ListMyExams)
	teacherGroup.Put("/:id", middleware.JWTMiddleware, teacherOnly, validators.UpdateExam(), controllers.UpdateExam)
	teacherGroup.Delete("/:id", middleware.JWTMiddleware, teacherOnly, validators.ExamID(), controllers.DeleteExam)

	// Question management
	teacherGroup.Post("/:id/question", middleware.JWTMiddleware, teacherOnly, validators.AddQuestion(), controllers.AddQuestion)
	teacherGroup.Get("/:id/questions", middleware.JWTMiddleware, teacherOnly, validators.ExamID(), controllers.ListQuestions)
	teacherGroup.Delete("/:id/question/:question_id", middleware.JWTMiddleware, teacherOnly, validators.QuestionID(), controllers.DeleteQuestion)

	// Graded attempts for an exam
	teacherGroup.Get("/:id/attempts", middleware.JWTMiddleware, teacherOnly, validators.ExamID(), controllers.ListExamAttempts)
}
