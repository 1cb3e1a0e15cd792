package exam

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question types
const (
	TypeMCQ       = "MCQ"
	TypeTrueFalse = "TRUE_FALSE"
)

// DefaultTimeLimitSeconds is applied when a question is created without an
// explicit per-question countdown.
const DefaultTimeLimitSeconds = 30

// TrueFalseOptions is the fixed option set for TRUE_FALSE questions.
var TrueFalseOptions = []string{"True", "False"}

// Question belongs to exactly one Exam. The correct answer must equal one of
// the options; this is enforced at creation time and never exposed through the
// student question feed.
type Question struct {
	gorm.Model
	ExamID           uint           `json:"exam_id" gorm:"index;not null"`
	Text             string         `json:"text" gorm:"type:text"`
	Type             string         `json:"type" gorm:"default:'MCQ'"` // MCQ, TRUE_FALSE
	Options          datatypes.JSON `json:"options"`                   // ordered list of option strings
	CorrectAnswer    string         `json:"correct_answer"`
	Marks            int            `json:"marks" gorm:"default:1"`
	TimeLimitSeconds int            `json:"time_limit_seconds" gorm:"default:30"`
	IsDeleted        bool           `json:"-" gorm:"default:false"`
}

// OptionList decodes the stored JSON option array.
func (q *Question) OptionList() ([]string, error) {
	var opts []string
	if len(q.Options) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// SetOptions encodes the ordered option list into the JSON column.
func (q *Question) SetOptions(opts []string) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = datatypes.JSON(raw)
	return nil
}
