package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"schoolms/database"
	"schoolms/middleware"
	"schoolms/models"
	examModels "schoolms/models/exam"
	"schoolms/scoring"
	"schoolms/services/notification"
	examValidator "schoolms/validators/exam"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// questionView is the sanitized question shape served to candidates. The
// correct answer is never part of it.
type questionView struct {
	ID               uint     `json:"id"`
	Text             string   `json:"text"`
	Type             string   `json:"type"`
	Options          []string `json:"options"`
	Marks            int      `json:"marks"`
	TimeLimitSeconds int      `json:"time_limit_seconds"`
}

func toQuestionViews(questions []examModels.Question) ([]questionView, error) {
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		opts, err := q.OptionList()
		if err != nil {
			return nil, err
		}
		views = append(views, questionView{
			ID:               q.ID,
			Text:             q.Text,
			Type:             q.Type,
			Options:          opts,
			Marks:            q.Marks,
			TimeLimitSeconds: q.TimeLimitSeconds,
		})
	}
	return views, nil
}

// currentStudent fetches the authenticated student row. On failure the
// response has already been written and ok is false.
func currentStudent(c *fiber.Ctx) (*models.User, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil, false
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		_ = middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil, false
	}
	return &user, true
}

func hasAttempt(studentID, examID uint) bool {
	var count int64
	database.Database.Db.Model(&examModels.Attempt{}).
		Where("student_id = ? AND exam_id = ?", studentID, examID).Count(&count)
	return count > 0
}

// ListAvailableExams lists exams matching the student's trade and level.
// Join-code exams are left out of the open catalog; they are reachable through
// GetExamByCode only.
func ListAvailableExams(c *fiber.Ctx) error {
	user, ok := currentStudent(c)
	if !ok {
		return nil
	}

	var exams []examModels.Exam
	err := database.Database.Db.
		Where("is_deleted = ? AND join_code IS NULL AND level = ? AND (trade IS NULL OR trade = ?)",
			false, user.Level, user.Trade).
		Order("created_at desc").Find(&exams).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch exams!", nil)
	}

	type examListItem struct {
		examModels.Exam
		QuestionCount int64 `json:"question_count"`
		AlreadyTaken  bool  `json:"already_taken"`
	}

	items := make([]examListItem, 0, len(exams))
	for _, ex := range exams {
		var count int64
		database.Database.Db.Model(&examModels.Question{}).
			Where("exam_id = ? AND is_deleted = ?", ex.ID, false).Count(&count)
		items = append(items, examListItem{
			Exam:          ex,
			QuestionCount: count,
			AlreadyTaken:  hasAttempt(user.ID, ex.ID),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exams fetched successfully!", fiber.Map{
		"exams": items,
	})
}

// GetExamByCode resolves a join code to exam metadata
func GetExamByCode(c *fiber.Ctx) error {
	user, ok := currentStudent(c)
	if !ok {
		return nil
	}

	code := c.Locals("joinCode").(string)

	var exam examModels.Exam
	if err := database.Database.Db.Where("join_code = ? AND is_deleted = ?", code, false).First(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	return examMetaResponse(c, user, &exam)
}

// GetExamMeta serves exam metadata plus the already_taken flag, shown to the
// candidate before the explicit start gate.
func GetExamMeta(c *fiber.Ctx) error {
	user, ok := currentStudent(c)
	if !ok {
		return nil
	}

	examID := c.Locals("examID").(int)

	var exam examModels.Exam
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", examID, false).First(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	return examMetaResponse(c, user, &exam)
}

func examMetaResponse(c *fiber.Ctx, user *models.User, exam *examModels.Exam) error {
	var questionCount int64
	database.Database.Db.Model(&examModels.Question{}).
		Where("exam_id = ? AND is_deleted = ?", exam.ID, false).Count(&questionCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam fetched successfully!", fiber.Map{
		"id":             exam.ID,
		"title":          exam.Title,
		"description":    exam.Description,
		"total_marks":    exam.TotalMarks,
		"trade":          exam.Trade,
		"level":          exam.Level,
		"question_count": questionCount,
		"already_taken":  hasAttempt(user.ID, exam.ID),
	})
}

// GetExamQuestions serves the ordered question feed without correct answers.
// already_taken rides along as metadata; the feed itself always succeeds for
// an existing exam so a completed student can still see what the exam covers.
func GetExamQuestions(c *fiber.Ctx) error {
	user, ok := currentStudent(c)
	if !ok {
		return nil
	}

	examID := c.Locals("examID").(int)

	var exam examModels.Exam
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", examID, false).First(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	var questions []examModels.Question
	if err := database.Database.Db.Where("exam_id = ? AND is_deleted = ?", exam.ID, false).
		Order("id asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	views, err := toQuestionViews(questions)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", fiber.Map{
		"exam": fiber.Map{
			"id":          exam.ID,
			"title":       exam.Title,
			"description": exam.Description,
			"total_marks": exam.TotalMarks,
		},
		"questions":     views,
		"already_taken": hasAttempt(user.ID, exam.ID),
	})
}

// SubmitExam grades a submission and persists the attempt. The unique
// (student_id, exam_id) index makes the existence check and the insert one
// atomic operation: of two racing submissions exactly one row survives and the
// loser receives AlreadyTaken, never a duplicate or an overwrite.
func SubmitExam(c *fiber.Ctx) error {
	user, ok := currentStudent(c)
	if !ok {
		return nil
	}

	examID := c.Locals("examID").(int)

	reqData, ok := c.Locals("validatedSubmission").(*examValidator.SubmitExamRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var exam examModels.Exam
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", examID, false).First(&exam).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	var questions []examModels.Question
	if err := database.Database.Db.Where("exam_id = ? AND is_deleted = ?", exam.ID, false).
		Order("id asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit exam!", nil)
	}

	// every submitted question id must belong to this exam
	answers := reqData.AnswerMap()
	known := make(map[uint]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for qid := range answers {
		if !known[qid] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "Answer references a question that is not part of this exam!",
			})
		}
	}

	// cheap pre-check for the common double-submit; the unique index stays the
	// authoritative guard for the race
	var existing examModels.Attempt
	if err := database.Database.Db.Where("student_id = ? AND exam_id = ?", user.ID, exam.ID).
		First(&existing).Error; err == nil {
		return alreadyTakenResponse(c, &existing)
	}

	result := scoring.Evaluate(questions, answers)

	feedback, err := json.Marshal(result.Feedback)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit exam!", nil)
	}

	attempt := examModels.Attempt{
		StudentID:   user.ID,
		ExamID:      exam.ID,
		Reference:   uuid.NewString(),
		Score:       result.Score,
		TotalMarks:  result.TotalMarks,
		Percentage:  result.Percentage,
		Grade:       result.Grade,
		Feedback:    datatypes.JSON(feedback),
		SubmittedAt: time.Now(),
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race: surface the stored attempt, never overwrite it
			if ferr := database.Database.Db.Where("student_id = ? AND exam_id = ?", user.ID, exam.ID).
				First(&existing).Error; ferr == nil {
				return alreadyTakenResponse(c, &existing)
			}
			return alreadyTakenResponse(c, nil)
		}
		log.Printf("Error saving attempt: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit exam!", nil)
	}

	go notification.SendExamResult(*user, exam, result, attempt.Reference)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam submitted successfully!", fiber.Map{
		"reference":    attempt.Reference,
		"score":        result.Score,
		"total_marks":  result.TotalMarks,
		"percentage":   result.Percentage,
		"grade":        result.Grade,
		"feedback":     result.Feedback,
		"submitted_at": attempt.SubmittedAt,
	})
}

func alreadyTakenResponse(c *fiber.Ctx, attempt *examModels.Attempt) error {
	data := fiber.Map{}
	if attempt != nil {
		data["reference"] = attempt.Reference
		data["exam_id"] = attempt.ExamID
		data["submitted_at"] = attempt.SubmittedAt
	}
	return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already completed this exam!", data)
}

// GetMyResults lists the student's attempt history, newest first
func GetMyResults(c *fiber.Ctx) error {
	user, ok := currentStudent(c)
	if !ok {
		return nil
	}

	var attempts []examModels.Attempt
	if err := database.Database.Db.Where("student_id = ?", user.ID).
		Order("submitted_at desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	// resolve exam titles in one query
	examIDs := make([]uint, 0, len(attempts))
	for _, a := range attempts {
		examIDs = append(examIDs, a.ExamID)
	}
	titles := make(map[uint]string, len(examIDs))
	if len(examIDs) > 0 {
		var exams []examModels.Exam
		database.Database.Db.Where("id IN ?", examIDs).Find(&exams)
		for _, ex := range exams {
			titles[ex.ID] = ex.Title
		}
	}

	type resultItem struct {
		ExamID      uint      `json:"exam_id"`
		ExamTitle   string    `json:"exam_title"`
		Reference   string    `json:"reference"`
		Score       int       `json:"score"`
		TotalMarks  int       `json:"total_marks"`
		Percentage  int       `json:"percentage"`
		Grade       string    `json:"grade"`
		SubmittedAt time.Time `json:"submitted_at"`
	}

	items := make([]resultItem, 0, len(attempts))
	for _, a := range attempts {
		items = append(items, resultItem{
			ExamID:      a.ExamID,
			ExamTitle:   titles[a.ExamID],
			Reference:   a.Reference,
			Score:       a.Score,
			TotalMarks:  a.TotalMarks,
			Percentage:  a.Percentage,
			Grade:       a.Grade,
			SubmittedAt: a.SubmittedAt,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", fiber.Map{
		"results": items,
	})
}

// GetMyResultDetail serves the stored attempt for one exam, feedback included
func GetMyResultDetail(c *fiber.Ctx) error {
	user, ok := currentStudent(c)
	if !ok {
		return nil
	}

	examID := c.Locals("examID").(int)

	var attempt examModels.Attempt
	if err := database.Database.Db.Where("student_id = ? AND exam_id = ?", user.ID, examID).
		First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Result not found!", nil)
	}

	var feedback []scoring.QuestionFeedback
	if len(attempt.Feedback) > 0 {
		if err := json.Unmarshal(attempt.Feedback, &feedback); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch result!", nil)
		}
	}

	var exam examModels.Exam
	database.Database.Db.Where("id = ?", attempt.ExamID).First(&exam)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Result fetched successfully!", fiber.Map{
		"exam_id":      attempt.ExamID,
		"exam_title":   exam.Title,
		"reference":    attempt.Reference,
		"score":        attempt.Score,
		"total_marks":  attempt.TotalMarks,
		"percentage":   attempt.Percentage,
		"grade":        attempt.Grade,
		"feedback":     feedback,
		"submitted_at": attempt.SubmittedAt,
	})
}
