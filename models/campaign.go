package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign represents a fundraising campaign
type Campaign struct {
	gorm.Model
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"image_url"`
	Goal        float64    `gorm:"not null" json:"goal"`
	Raised      float64    `gorm:"default:0" json:"raised"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedByID uint       `json:"created_by_id"`

	Donations []Donation `json:"donations,omitempty" gorm:"foreignKey:CampaignID"`
}
