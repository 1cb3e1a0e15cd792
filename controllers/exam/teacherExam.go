package controllers

import (
	"strings"

	"schoolms/database"
	"schoolms/middleware"
	"schoolms/models"
	examModels "schoolms/models/exam"
	examValidator "schoolms/validators/exam"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newJoinCode derives a short uppercase join code
func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// ownedExam loads an exam and checks the requesting teacher owns it (admins
// bypass). On failure the response has already been written and ok is false.
func ownedExam(c *fiber.Ctx, examID int) (*examModels.Exam, bool) {
	userID, _ := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil, false
	}

	var exam examModels.Exam
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", examID, false).First(&exam).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
		return nil, false
	}

	if exam.TeacherID != user.ID && user.Role != models.RoleAdmin {
		_ = middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this exam!", nil)
		return nil, false
	}
	return &exam, true
}

// CreateExam creates a new exam owned by the requesting teacher
func CreateExam(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedExam").(*examValidator.CreateExamRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	exam := examModels.Exam{
		TeacherID:   userID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Level:       reqData.Level,
	}
	if reqData.Trade != "" {
		exam.Trade = &reqData.Trade
	}
	if reqData.WithCode {
		code := newJoinCode()
		exam.JoinCode = &code
	}

	if err := database.Database.Db.Create(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create exam!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam created successfully!", exam)
}

// UpdateExam edits exam metadata; questions are untouched
func UpdateExam(c *fiber.Ctx) error {
	examID := c.Locals("examID").(int)

	exam, ok := ownedExam(c, examID)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedExamUpdate").(*examValidator.UpdateExamRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		exam.Title = reqData.Title
	}
	if reqData.Description != "" {
		exam.Description = reqData.Description
	}
	if reqData.Level != "" {
		exam.Level = reqData.Level
	}
	if reqData.Trade != nil {
		trade := strings.TrimSpace(*reqData.Trade)
		if trade == "" {
			exam.Trade = nil // open to all trades
		} else {
			exam.Trade = &trade
		}
	}

	if err := database.Database.Db.Save(exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update exam!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam updated successfully!", exam)
}

// DeleteExam soft deletes an exam and its questions
func DeleteExam(c *fiber.Ctx) error {
	examID := c.Locals("examID").(int)

	exam, ok := ownedExam(c, examID)
	if !ok {
		return nil
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&examModels.Question{}).Where("exam_id = ?", exam.ID).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(exam).Update("is_deleted", true).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete exam!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam deleted successfully!", nil)
}

// ListMyExams lists exams owned by the requesting teacher
func ListMyExams(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var exams []examModels.Exam
	if err := database.Database.Db.Where("teacher_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&exams).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch exams!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exams fetched successfully!", fiber.Map{
		"exams": exams,
	})
}

// AddQuestion appends a question to an exam and bumps its total marks
func AddQuestion(c *fiber.Ctx) error {
	examID := c.Locals("examID").(int)

	exam, ok := ownedExam(c, examID)
	if !ok {
		return nil
	}

	reqData, ok := c.Locals("validatedQuestion").(*examValidator.AddQuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	question := examModels.Question{
		ExamID:           exam.ID,
		Text:             reqData.Text,
		Type:             reqData.Type,
		CorrectAnswer:    reqData.CorrectAnswer,
		Marks:            reqData.Marks,
		TimeLimitSeconds: reqData.TimeLimitSeconds,
	}
	if err := question.SetOptions(reqData.Options); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question!", nil)
	}

	// question insert and total-marks bump must move together
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		return tx.Model(exam).Update("total_marks", gorm.Expr("total_marks + ?", question.Marks)).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question added successfully!", question)
}

// ListQuestions returns the exam's questions in creation order, correct answers
// included. Teacher-only view; the student feed never uses this handler.
func ListQuestions(c *fiber.Ctx) error {
	examID := c.Locals("examID").(int)

	exam, ok := ownedExam(c, examID)
	if !ok {
		return nil
	}

	var questions []examModels.Question
	if err := database.Database.Db.Where("exam_id = ? AND is_deleted = ?", exam.ID, false).
		Order("id asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", fiber.Map{
		"exam":      exam,
		"questions": questions,
	})
}

// DeleteQuestion soft deletes a question and lowers the exam's total marks
func DeleteQuestion(c *fiber.Ctx) error {
	examID := c.Locals("examID").(int)
	questionID := c.Locals("questionID").(int)

	exam, ok := ownedExam(c, examID)
	if !ok {
		return nil
	}

	var question examModels.Question
	if err := database.Database.Db.Where("id = ? AND exam_id = ? AND is_deleted = ?", questionID, exam.ID, false).
		First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&question).Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(exam).Update("total_marks", gorm.Expr("total_marks - ?", question.Marks)).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// ListExamAttempts lists the graded attempts for an exam, newest first
func ListExamAttempts(c *fiber.Ctx) error {
	examID := c.Locals("examID").(int)

	exam, ok := ownedExam(c, examID)
	if !ok {
		return nil
	}

	var attempts []examModels.Attempt
	if err := database.Database.Db.Where("exam_id = ?", exam.ID).
		Order("submitted_at desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"exam":     exam,
		"attempts": attempts,
	})
}
