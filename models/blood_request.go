package models

import (
	"time"

	"gorm.io/gorm"
)

// BloodRequest status constants
const (
	BloodRequestStatusOpen      = "open"
	BloodRequestStatusFulfilled = "fulfilled"
	BloodRequestStatusClosed    = "closed"
)

// BloodRequest represents a request for blood donors
type BloodRequest struct {
	gorm.Model
	RequesterID  uint      `gorm:"index;not null" json:"requester_id"`
	Requester    User      `json:"-" gorm:"foreignKey:RequesterID"`
	PatientName  string    `gorm:"not null" json:"patient_name"`
	BloodGroup   string    `gorm:"not null" json:"blood_group"`
	Units        int       `gorm:"default:1" json:"units"`
	Hospital     string    `json:"hospital"`
	District     string    `json:"district"`
	ContactPhone string    `gorm:"not null" json:"contact_phone"`
	NeededBy     time.Time `json:"needed_by"`
	Status       string    `gorm:"default:open" json:"status"`
	Note         string    `json:"note"`
}
