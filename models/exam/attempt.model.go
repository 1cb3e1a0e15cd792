package exam

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt is the single persisted record of a student's completed exam
// submission. The composite unique index on (student_id, exam_id) is the
// authoritative single-attempt guard: a second writer for the same pair gets a
// duplicate-key error from the database, never a silent overwrite.
type Attempt struct {
	gorm.Model
	StudentID   uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_attempts_student_exam"`
	ExamID      uint           `json:"exam_id" gorm:"not null;uniqueIndex:idx_attempts_student_exam"`
	Reference   string         `json:"reference" gorm:"size:36"`
	Score       int            `json:"score"`
	TotalMarks  int            `json:"total_marks"`
	Percentage  int            `json:"percentage"`
	Grade       string         `json:"grade"`
	Feedback    datatypes.JSON `json:"feedback"` // per-question correctness detail
	SubmittedAt time.Time      `json:"submitted_at"`
}
