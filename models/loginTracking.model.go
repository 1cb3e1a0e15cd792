package models

import (
	"gorm.io/gorm"
)

// LoginTracking records one successful login. CreatedAt doubles as the login
// timestamp.
type LoginTracking struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index"`
	IPAddress string `json:"ip_address"`
	Device    string `json:"device"`
	IsDeleted bool   `json:"isDeleted" gorm:"default:false"`
}
