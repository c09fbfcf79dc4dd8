package controllers

import (
	"errors"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/gateways"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
)

func findShurjoPayDonation(c *gin.Context) (*models.Donation, bool) {
	spOrderID := c.Query("order_id")
	if spOrderID == "" {
		utils.BadRequest(c, "order_id is required", nil)
		return nil, false
	}

	var donation models.Donation
	if err := config.DB.
		Where("payment_id = ? AND gateway = ?", spOrderID, models.GatewayShurjoPay).
		First(&donation).Error; err != nil {
		utils.LogError("No donation found for shurjoPay order: %s", spOrderID)
		utils.NotFound(c, "Donation not found")
		return nil, false
	}
	return &donation, true
}

// GET /v1/payments/shurjopay/return?order_id=<sp_order_id>
func ShurjoPayReturn(c *gin.Context) {
	utils.LogInfo("ShurjoPayReturn called")

	donation, ok := findShurjoPayDonation(c)
	if !ok {
		return
	}

	result, err := shurjopayClient().VerifyPayment(c.Request.Context(), donation.PaymentID)
	if err != nil {
		var verr *gateways.VerificationError
		if errors.As(err, &verr) {
			utils.LogError("shurjoPay verification unavailable for donation ID: %d: %v", donation.ID, err)
			utils.BadGateway(c, "Payment verification is temporarily unavailable, please retry", nil)
			return
		}
		utils.LogError("shurjoPay verification error for donation ID: %d: %v", donation.ID, err)
		utils.InternalServerError(c, "Payment verification failed", nil)
		return
	}

	applied, settled, err := settleAndNotify(donation.ID, result.Outcome, result.TransactionID)
	if err != nil {
		utils.LogError("Settlement failed for donation ID: %d: %v", donation.ID, err)
		utils.InternalServerError(c, "Failed to settle donation", nil)
		return
	}

	if result.Outcome == gateways.OutcomePending {
		utils.Success(c, "Payment is still processing", gin.H{
			"donation_id": donation.ID,
			"status":      models.DonationStatusPending,
		})
		return
	}
	if !applied {
		utils.LogInfo("Duplicate shurjoPay callback for donation ID: %d ignored", donation.ID)
		utils.Success(c, "Donation already settled", gin.H{
			"donation_id": settled.ID,
			"status":      settled.Status,
			"applied":     false,
		})
		return
	}

	utils.LogInfo("Settled donation ID: %d with outcome %s", donation.ID, result.Outcome)
	utils.Success(c, donationResultMessage(result.Outcome), gin.H{
		"donation_id":    settled.ID,
		"status":         settled.Status,
		"transaction_id": settled.TransactionID,
		"applied":        true,
	})
}

// GET /v1/payments/shurjopay/cancel?order_id=<sp_order_id>
//
// The cancel redirect is client-controlled; the verification endpoint works
// for any order, so the order is checked with shurjoPay before the cancel is
// written.
func ShurjoPayCancel(c *gin.Context) {
	utils.LogInfo("ShurjoPayCancel called")

	donation, ok := findShurjoPayDonation(c)
	if !ok {
		return
	}

	result, err := shurjopayClient().VerifyPayment(c.Request.Context(), donation.PaymentID)
	if err != nil {
		utils.LogError("shurjoPay verification unavailable for donation ID: %d: %v", donation.ID, err)
		utils.BadGateway(c, "Payment verification is temporarily unavailable, please retry", nil)
		return
	}

	outcome := resolveTerminalOutcome(result.Outcome, gateways.OutcomeCancelled)
	applied, settled, err := settleAndNotify(donation.ID, outcome, result.TransactionID)
	if err != nil {
		utils.LogError("Settlement failed for donation ID: %d: %v", donation.ID, err)
		utils.InternalServerError(c, "Failed to settle donation", nil)
		return
	}

	utils.Success(c, donationResultMessage(outcome), gin.H{
		"donation_id": settled.ID,
		"status":      settled.Status,
		"applied":     applied,
	})
}
