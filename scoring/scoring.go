// Package scoring holds the pure grading core: given an exam's questions and a
// student's answer map it produces the score, percentage, grade letter and
// per-question feedback. It performs no I/O so grading is testable in isolation.
package scoring

import (
	"math"

	examModels "schoolms/models/exam"
)

// Grade letters mapped from percentage via fixed thresholds.
const (
	GradeA    = "A" // >= 80
	GradeB    = "B" // >= 65
	GradeC    = "C" // >= 50
	GradeFail = "F"
)

// QuestionFeedback is the per-question correctness detail revealed to the
// student only after a successful submission.
type QuestionFeedback struct {
	QuestionID    uint    `json:"question_id"`
	QuestionText  string  `json:"question_text"`
	StudentAnswer *string `json:"student_answer"` // nil when the question was left unanswered
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
	Marks         int     `json:"marks"`
	MarksAwarded  int     `json:"marks_awarded"`
}

// Result is the outcome of grading one submission.
type Result struct {
	Score      int                `json:"score"`
	TotalMarks int                `json:"total_marks"`
	Percentage int                `json:"percentage"`
	Grade      string             `json:"grade"`
	Feedback   []QuestionFeedback `json:"feedback"`
}

// GradeFor maps a percentage to its grade letter.
func GradeFor(percentage int) string {
	switch {
	case percentage >= 80:
		return GradeA
	case percentage >= 65:
		return GradeB
	case percentage >= 50:
		return GradeC
	default:
		return GradeFail
	}
}

// Evaluate grades every question in the exam against the submitted answer map.
// A missing entry scores zero marks, never an error. Matching is exact string
// equality against the stored correct answer; case is NOT normalized, so a
// True/False answer of "true" does not match a stored "True".
func Evaluate(questions []examModels.Question, answers map[uint]string) Result {
	res := Result{Feedback: make([]QuestionFeedback, 0, len(questions))}

	for _, q := range questions {
		fb := QuestionFeedback{
			QuestionID:    q.ID,
			QuestionText:  q.Text,
			CorrectAnswer: q.CorrectAnswer,
			Marks:         q.Marks,
		}

		if ans, ok := answers[q.ID]; ok {
			ans := ans
			fb.StudentAnswer = &ans
			if ans == q.CorrectAnswer {
				fb.IsCorrect = true
				fb.MarksAwarded = q.Marks
			}
		}

		res.Score += fb.MarksAwarded
		res.TotalMarks += q.Marks
		res.Feedback = append(res.Feedback, fb)
	}

	if res.TotalMarks > 0 {
		res.Percentage = int(math.Round(float64(res.Score) / float64(res.TotalMarks) * 100))
	}
	res.Grade = GradeFor(res.Percentage)
	return res
}
