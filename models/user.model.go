package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

// Student levels
const (
	Level1 = "LEVEL_1"
	Level2 = "LEVEL_2"
	Level3 = "LEVEL_3"
)

// Levels lists all valid student levels
var Levels = []string{Level1, Level2, Level3}

func IsValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

type User struct {
	gorm.Model
	ProfileImage string `json:"profile_image" gorm:"default:''"`
	Name         string `json:"name" gorm:"default:''"`
	Email        string `json:"email" gorm:"unique;not null"`
	Mobile       string `json:"mobile" gorm:"default:''"`
	Role         string `json:"role" gorm:"default:'STUDENT'"` // STUDENT, TEACHER, ADMIN
	Password     string `json:"-" gorm:"not null"`

	// Student-only fields: trade and level decide which exams a student may sit.
	Trade string `json:"trade" gorm:"default:''"`
	Level string `json:"level" gorm:"default:''"` // LEVEL_1, LEVEL_2, LEVEL_3

	IsEmailVerified bool       `json:"is_email_verified" gorm:"default:false"`
	LastLogin       *time.Time `json:"last_login"`
	IsDeleted       bool       `json:"-" gorm:"default:false"`
}
