package controllers

import (
	"errors"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/gateways"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
)

// GET /v1/payments/bkash/callback?paymentID=...&status=...
//
// bKash redirects here after the customer leaves the payment page. The
// status query parameter only routes the flow; every branch asks the
// provider first, so a forged or premature cancel cannot terminally mark a
// payment that actually completed.
func BkashCallback(c *gin.Context) {
	utils.LogInfo("BkashCallback called")

	paymentID := c.Query("paymentID")
	status := c.Query("status")
	if paymentID == "" {
		utils.BadRequest(c, "paymentID is required", nil)
		return
	}

	var donation models.Donation
	if err := config.DB.
		Where("payment_id = ? AND gateway = ?", paymentID, models.GatewayBkash).
		First(&donation).Error; err != nil {
		utils.LogError("No donation found for bKash payment ID: %s", paymentID)
		utils.NotFound(c, "Donation not found")
		return
	}

	result, err := bkashClient().VerifyPayment(c.Request.Context(), paymentID)
	if err != nil {
		var verr *gateways.VerificationError
		if errors.As(err, &verr) {
			// indeterminate: leave the donation pending for a retry
			utils.LogError("bKash verification unavailable for donation ID: %d: %v", donation.ID, err)
			utils.BadGateway(c, "Payment verification is temporarily unavailable, please retry", nil)
			return
		}
		utils.LogError("bKash verification error for donation ID: %d: %v", donation.ID, err)
		utils.InternalServerError(c, "Payment verification failed", nil)
		return
	}

	outcome := result.Outcome
	providerTxnID := result.TransactionID

	switch status {
	case "cancel":
		outcome = resolveTerminalOutcome(result.Outcome, gateways.OutcomeCancelled)
	case "failure":
		outcome = resolveTerminalOutcome(result.Outcome, gateways.OutcomeFailed)
	case "success":
	default:
		utils.BadRequest(c, "Unknown callback status", nil)
		return
	}

	applied, settled, err := settleAndNotify(donation.ID, outcome, providerTxnID)
	if err != nil {
		utils.LogError("Settlement failed for donation ID: %d: %v", donation.ID, err)
		utils.InternalServerError(c, "Failed to settle donation", nil)
		return
	}

	if outcome == gateways.OutcomePending {
		utils.Success(c, "Payment is still processing", gin.H{
			"donation_id": donation.ID,
			"status":      models.DonationStatusPending,
		})
		return
	}
	if !applied {
		utils.LogInfo("Duplicate bKash callback for donation ID: %d ignored", donation.ID)
		utils.Success(c, "Donation already settled", gin.H{
			"donation_id": settled.ID,
			"status":      settled.Status,
			"applied":     false,
		})
		return
	}

	utils.LogInfo("Settled donation ID: %d with outcome %s", donation.ID, outcome)
	utils.Success(c, donationResultMessage(outcome), gin.H{
		"donation_id":    settled.ID,
		"status":         settled.Status,
		"transaction_id": settled.TransactionID,
		"applied":        true,
	})
}

func donationResultMessage(outcome gateways.Outcome) string {
	switch outcome {
	case gateways.OutcomeSuccess:
		return "Thank you! Your donation has been received."
	case gateways.OutcomeCancelled:
		return "The payment was cancelled."
	default:
		return "The payment could not be completed."
	}
}
