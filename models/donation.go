package models

import (
	"gorm.io/gorm"
)

// Donation status constants. A donation is created as pending at checkout
// and moves to exactly one terminal state during settlement.
const (
	DonationStatusPending   = "pending"
	DonationStatusSuccess   = "success"
	DonationStatusFailed    = "failed"
	DonationStatusCancelled = "cancelled"
	DonationStatusRefunded  = "refunded"
)

// Gateway name constants
const (
	GatewayBkash      = "bkash"
	GatewaySSLCommerz = "sslcommerz"
	GatewayShurjoPay  = "shurjopay"
)

// Donation represents a single donation to a campaign. UserID is nil for
// guest donations; Anonymous hides the donor even when UserID is set.
type Donation struct {
	gorm.Model
	CampaignID    uint     `gorm:"index;not null" json:"campaign_id"`
	Campaign      Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
	UserID        *uint    `gorm:"index" json:"user_id,omitempty"`
	User          *User    `json:"-" gorm:"foreignKey:UserID"`
	Anonymous     bool     `gorm:"default:false" json:"anonymous"`
	Amount        float64  `gorm:"not null" json:"amount"`
	Currency      string   `gorm:"default:BDT" json:"currency"`
	Gateway       string   `gorm:"index" json:"gateway"`
	Status        string   `gorm:"index;default:pending" json:"status"`
	Reference     string   `gorm:"uniqueIndex" json:"reference"`
	PaymentID     string   `gorm:"index" json:"payment_id"`
	TransactionID string   `json:"transaction_id"`
	DonorName     string   `json:"donor_name"`
	DonorEmail    string   `json:"donor_email"`
	Message       string   `json:"message"`
}
