package exam

import "gorm.io/gorm"

// Exam represents a timed assessment owned by a teacher. Its questions are
// traversed in creation order, one at a time, each with its own countdown.
type Exam struct {
	gorm.Model
	TeacherID   uint    `json:"teacher_id" gorm:"index;not null"`
	Title       string  `json:"title"`
	Description string  `json:"description" gorm:"type:text"`
	TotalMarks  int     `json:"total_marks" gorm:"default:0"` // maintained as questions are added/removed
	Trade       *string `json:"trade" gorm:"index"`           // nil means open to all trades
	Level       string  `json:"level" gorm:"index;not null"`  // LEVEL_1, LEVEL_2, LEVEL_3
	JoinCode    *string `json:"join_code" gorm:"uniqueIndex;size:8"` // nil means listed in the open catalog
	IsDeleted   bool    `json:"-" gorm:"default:false"`
}
