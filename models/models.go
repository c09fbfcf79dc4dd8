package models

import (
	"time"

	"gorm.io/gorm"
)

// Loyalty level constants
const (
	LevelBronze   = "Bronze"
	LevelSilver   = "Silver"
	LevelGold     = "Gold"
	LevelPlatinum = "Platinum"
)

// User represents a donor account in the system
type User struct {
	gorm.Model
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	Phone       string    `json:"phone"`
	BloodGroup  string    `json:"blood_group"`
	District    string    `json:"district"`
	Points      int       `gorm:"default:0" json:"points"`
	Level       string    `gorm:"default:Bronze" json:"level"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	IsBlocked   bool      `gorm:"default:false" json:"is_blocked"`
	LastLoginAt time.Time `json:"last_login_at"`

	Donations []Donation `json:"donations,omitempty" gorm:"foreignKey:UserID"`
}
