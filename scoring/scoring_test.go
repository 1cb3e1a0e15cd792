package scoring

import (
	"testing"

	examModels "schoolms/models/exam"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id uint, text, correct string, marks int) examModels.Question {
	q := examModels.Question{
		Text:          text,
		Type:          examModels.TypeMCQ,
		CorrectAnswer: correct,
		Marks:         marks,
	}
	q.ID = id
	return q
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{100, GradeA},
		{80, GradeA},
		{79, GradeB},
		{65, GradeB},
		{64, GradeC},
		{50, GradeC},
		{49, GradeFail},
		{25, GradeFail},
		{0, GradeFail},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.percentage), "percentage %d", tt.percentage)
	}
}

func TestEvaluate_AllCorrect(t *testing.T) {
	questions := []examModels.Question{
		question(1, "Q1", "a", 2),
		question(2, "Q2", "b", 3),
	}
	res := Evaluate(questions, map[uint]string{1: "a", 2: "b"})

	assert.Equal(t, 5, res.Score)
	assert.Equal(t, 5, res.TotalMarks)
	assert.Equal(t, 100, res.Percentage)
	assert.Equal(t, GradeA, res.Grade)
	require.Len(t, res.Feedback, 2)
	for _, fb := range res.Feedback {
		assert.True(t, fb.IsCorrect)
		assert.Equal(t, fb.Marks, fb.MarksAwarded)
	}
}

func TestEvaluate_OmittedQuestionScoresZero(t *testing.T) {
	questions := []examModels.Question{
		question(1, "Q1", "a", 2),
		question(2, "Q2", "b", 3),
	}
	res := Evaluate(questions, map[uint]string{1: "a"})

	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 5, res.TotalMarks)
	require.Len(t, res.Feedback, 2)

	omitted := res.Feedback[1]
	assert.Nil(t, omitted.StudentAnswer)
	assert.False(t, omitted.IsCorrect)
	assert.Equal(t, 0, omitted.MarksAwarded)
	assert.Equal(t, "b", omitted.CorrectAnswer)
}

// A timed-out question and an explicitly skipped one are the same thing to
// grading: an absent entry in the answer map.
func TestEvaluate_ThreeQuestionScenario(t *testing.T) {
	questions := []examModels.Question{
		question(1, "Q1", "a", 1),
		question(2, "Q2", "b", 1),
		question(3, "Q3", "c", 2),
	}
	// Q1 correct, Q2 timed out unanswered, Q3 wrong
	res := Evaluate(questions, map[uint]string{1: "a", 3: "x"})

	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 4, res.TotalMarks)
	assert.Equal(t, 25, res.Percentage)
	assert.Equal(t, GradeFail, res.Grade)
}

func TestEvaluate_CaseSensitiveMatching(t *testing.T) {
	q := examModels.Question{
		Text:          "The sky is blue.",
		Type:          examModels.TypeTrueFalse,
		CorrectAnswer: "True",
		Marks:         1,
	}
	q.ID = 1

	res := Evaluate([]examModels.Question{q}, map[uint]string{1: "true"})

	assert.Equal(t, 0, res.Score)
	require.Len(t, res.Feedback, 1)
	assert.False(t, res.Feedback[0].IsCorrect)
	require.NotNil(t, res.Feedback[0].StudentAnswer)
	assert.Equal(t, "true", *res.Feedback[0].StudentAnswer)
}

func TestEvaluate_PercentageRounding(t *testing.T) {
	questions := []examModels.Question{
		question(1, "Q1", "a", 1),
		question(2, "Q2", "b", 1),
		question(3, "Q3", "c", 1),
	}

	res := Evaluate(questions, map[uint]string{1: "a"})
	assert.Equal(t, 33, res.Percentage) // 1/3 rounds down

	res = Evaluate(questions, map[uint]string{1: "a", 2: "b"})
	assert.Equal(t, 67, res.Percentage) // 2/3 rounds up
	assert.Equal(t, GradeB, res.Grade)
}

func TestEvaluate_NoQuestions(t *testing.T) {
	res := Evaluate(nil, nil)

	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.TotalMarks)
	assert.Equal(t, 0, res.Percentage)
	assert.Equal(t, GradeFail, res.Grade)
	assert.Empty(t, res.Feedback)
}

func TestEvaluate_WrongAnswerGetsFeedbackWithCorrectAnswer(t *testing.T) {
	questions := []examModels.Question{question(1, "Q1", "a", 4)}

	res := Evaluate(questions, map[uint]string{1: "b"})

	assert.Equal(t, 0, res.Score)
	require.Len(t, res.Feedback, 1)
	fb := res.Feedback[0]
	assert.Equal(t, "a", fb.CorrectAnswer)
	require.NotNil(t, fb.StudentAnswer)
	assert.Equal(t, "b", *fb.StudentAnswer)
	assert.Equal(t, 4, fb.Marks)
	assert.Equal(t, 0, fb.MarksAwarded)
}
