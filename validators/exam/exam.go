package examValidator

import (
	"strconv"
	"strings"

	"schoolms/middleware"
	examModels "schoolms/models/exam"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateExamRequest is the validated exam creation payload
type CreateExamRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=5"`
	Trade       string `json:"trade"` // empty means open to all trades
	Level       string `json:"level" validate:"required,oneof=LEVEL_1 LEVEL_2 LEVEL_3"`
	WithCode    bool   `json:"with_code"` // generate a join code
}

// UpdateExamRequest carries metadata edits; zero values leave fields untouched
type UpdateExamRequest struct {
	Title       string  `json:"title" validate:"omitempty,min=3"`
	Description string  `json:"description" validate:"omitempty,min=5"`
	Trade       *string `json:"trade"`
	Level       string  `json:"level" validate:"omitempty,oneof=LEVEL_1 LEVEL_2 LEVEL_3"`
}

// AddQuestionRequest is the validated question creation payload
type AddQuestionRequest struct {
	Text             string   `json:"text" validate:"required,min=3"`
	Type             string   `json:"type" validate:"required,oneof=MCQ TRUE_FALSE"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correct_answer" validate:"required"`
	Marks            int      `json:"marks" validate:"omitempty,gte=1"`
	TimeLimitSeconds int      `json:"time_limit_seconds" validate:"omitempty,gte=5,lte=600"`
}

// SubmittedAnswer maps one question to the selected option
type SubmittedAnswer struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

// SubmitExamRequest is the validated submission payload. Answers may omit any
// subset of the exam's questions; omitted questions score zero.
type SubmitExamRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"dive"`
}

// AnswerMap flattens the submitted answers; a repeated question id keeps the
// last value, mirroring re-selection in the client session.
func (r *SubmitExamRequest) AnswerMap() map[uint]string {
	answers := make(map[uint]string, len(r.Answers))
	for _, a := range r.Answers {
		answers[a.QuestionID] = a.Answer
	}
	return answers
}

// fieldErrors flattens validator.ValidationErrors into a field -> message map
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			errors[strings.ToLower(ve.Field())] = "Invalid value for " + ve.Field() + " (" + ve.Tag() + ")"
		}
	} else {
		errors["body"] = err.Error()
	}
	return errors
}

// parseIDParam validates a positive numeric route parameter and stores it in Locals
func parseIDParam(c *fiber.Ctx, name, local string) bool {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return false
	}
	c.Locals(local, id)
	return true
}

// ExamID validates the :id route parameter
func ExamID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "id", "examID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}
		return c.Next()
	}
}

// CreateExam validates the exam creation request
func CreateExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateExamRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Trade = strings.TrimSpace(reqData.Trade)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedExam", reqData)
		return c.Next()
	}
}

// UpdateExam validates the exam metadata update request
func UpdateExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "id", "examID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		reqData := new(UpdateExamRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedExamUpdate", reqData)
		return c.Next()
	}
}

// AddQuestion validates a question creation request. The correct answer must be
// one of the options; True/False questions always get the fixed option pair.
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "id", "examID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		reqData := new(AddQuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Text = strings.TrimSpace(reqData.Text)
		reqData.CorrectAnswer = strings.TrimSpace(reqData.CorrectAnswer)
		for i := range reqData.Options {
			reqData.Options[i] = strings.TrimSpace(reqData.Options[i])
		}
		if reqData.Marks == 0 {
			reqData.Marks = 1
		}
		if reqData.TimeLimitSeconds == 0 {
			reqData.TimeLimitSeconds = examModels.DefaultTimeLimitSeconds
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		errors := make(map[string]string)

		switch reqData.Type {
		case examModels.TypeTrueFalse:
			// fixed option pair regardless of what the client sent
			reqData.Options = append([]string(nil), examModels.TrueFalseOptions...)
		case examModels.TypeMCQ:
			if len(reqData.Options) < 2 {
				errors["options"] = "MCQ questions need at least two options!"
			}
			seen := make(map[string]bool, len(reqData.Options))
			for _, opt := range reqData.Options {
				if opt == "" {
					errors["options"] = "Options must not be empty!"
					break
				}
				if seen[opt] {
					errors["options"] = "Options must be unique!"
					break
				}
				seen[opt] = true
			}
		}

		if len(errors) == 0 {
			found := false
			for _, opt := range reqData.Options {
				if opt == reqData.CorrectAnswer {
					found = true
					break
				}
			}
			if !found {
				errors["correct_answer"] = "Correct answer must be one of the options!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// QuestionID validates the :question_id route parameter alongside :id
func QuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "id", "examID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}
		if !parseIDParam(c, "question_id", "questionID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question ID!", nil)
		}
		return c.Next()
	}
}

// SubmitExam validates the submission payload shape. Question membership is
// checked against the exam inside the controller.
func SubmitExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "id", "examID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		reqData := new(SubmitExamRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// JoinCode validates the :code route parameter
func JoinCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
		if len(code) != 8 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid join code!", nil)
		}
		c.Locals("joinCode", code)
		return c.Next()
	}
}
