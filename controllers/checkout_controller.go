package controllers

import (
	"strings"
	"time"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/gateways"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /v1/checkout/donate
//
// Creates a pending donation and a payment session with the chosen gateway.
// Works for both logged-in users and guests; settlement happens later in
// the gateway callback handlers.
func InitiateDonation(c *gin.Context) {
	utils.LogInfo("InitiateDonation called")

	var req struct {
		CampaignID uint    `json:"campaign_id" binding:"required"`
		Amount     float64 `json:"amount" binding:"required,gt=0"`
		Gateway    string  `json:"gateway" binding:"required,oneof=bkash sslcommerz shurjopay"`
		Anonymous  bool    `json:"anonymous"`
		Message    string  `json:"message"`
		DonorName  string  `json:"donor_name"`
		DonorEmail string  `json:"donor_email" binding:"omitempty,email"`
		DonorPhone string  `json:"donor_phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid donation request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var campaign models.Campaign
	if err := config.DB.First(&campaign, req.CampaignID).Error; err != nil {
		utils.LogError("Campaign not found for ID: %d", req.CampaignID)
		utils.NotFound(c, "Campaign not found")
		return
	}
	if !campaign.IsActive {
		utils.BadRequest(c, "Campaign is no longer accepting donations", nil)
		return
	}
	if campaign.Deadline != nil && campaign.Deadline.Before(time.Now()) {
		utils.BadRequest(c, "Campaign deadline has passed", nil)
		return
	}

	donation := models.Donation{
		CampaignID: campaign.ID,
		Anonymous:  req.Anonymous,
		Amount:     req.Amount,
		Currency:   "BDT",
		Gateway:    req.Gateway,
		Status:     models.DonationStatusPending,
		Reference:  newDonationReference(),
		DonorName:  req.DonorName,
		DonorEmail: req.DonorEmail,
		Message:    req.Message,
	}

	donorPhone := req.DonorPhone
	if userVal, exists := c.Get("user"); exists {
		user := userVal.(models.User)
		donation.UserID = &user.ID
		if donation.DonorName == "" {
			donation.DonorName = user.Name
		}
		if donation.DonorEmail == "" {
			donation.DonorEmail = user.Email
		}
		if donorPhone == "" {
			donorPhone = user.Phone
		}
	}

	if err := config.DB.Create(&donation).Error; err != nil {
		utils.LogError("Failed to create donation: %v", err)
		utils.InternalServerError(c, "Failed to create donation", err.Error())
		return
	}
	utils.LogInfo("Created pending donation ID: %d for campaign ID: %d", donation.ID, campaign.ID)

	base := config.AppConfig.AppBaseURL
	preq := gateways.PaymentRequest{
		Amount:        donation.Amount,
		Currency:      donation.Currency,
		Reference:     donation.Reference,
		CustomerName:  donation.DonorName,
		CustomerEmail: donation.DonorEmail,
		CustomerPhone: donorPhone,
	}

	var gateway gateways.Gateway
	switch req.Gateway {
	case models.GatewayBkash:
		preq.CallbackURL = base + "/v1/payments/bkash/callback"
		gateway = bkashClient()
	case models.GatewaySSLCommerz:
		preq.CallbackURL = base + "/v1/payments/sslcommerz"
		preq.CancelURL = base + "/v1/payments/sslcommerz/cancel"
		gateway = sslcommerzClient()
	case models.GatewayShurjoPay:
		preq.CallbackURL = base + "/v1/payments/shurjopay/return"
		preq.CancelURL = base + "/v1/payments/shurjopay/cancel"
		gateway = shurjopayClient()
	}

	initiation, err := gateway.InitiatePayment(c.Request.Context(), preq)
	if err != nil {
		utils.LogError("Payment initiation failed for donation ID: %d: %v", donation.ID, err)
		utils.BadGateway(c, "Payment gateway is temporarily unavailable", nil)
		return
	}

	if err := config.DB.Model(&donation).Update("payment_id", initiation.PaymentID).Error; err != nil {
		utils.LogError("Failed to record payment ID for donation ID: %d: %v", donation.ID, err)
		utils.InternalServerError(c, "Failed to record payment session", err.Error())
		return
	}
	utils.LogInfo("Initiated %s payment %s for donation ID: %d", req.Gateway, initiation.PaymentID, donation.ID)

	utils.Success(c, "Donation initiated successfully", gin.H{
		"donation_id": donation.ID,
		"reference":   donation.Reference,
		"gateway":     donation.Gateway,
		"payment_url": initiation.PaymentURL,
		"campaign": gin.H{
			"id":    campaign.ID,
			"title": campaign.Title,
		},
	})
}

// newDonationReference builds a merchant transaction reference. SSLCommerz
// limits tran_id to 30 characters, so the uuid is truncated.
func newDonationReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "DON-" + id[:24]
}
