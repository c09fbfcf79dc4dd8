package controllers

import (
	"fmt"
	"net/http"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/gateways"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
)

// SSLCommerz posts the customer's browser back to these endpoints, so they
// answer with redirects to the frontend result page rather than JSON. The
// IPN endpoint is server-to-server and answers JSON.

func sslcommerzRedirect(c *gin.Context, status, reference string) {
	target := fmt.Sprintf("%s/donation/result?status=%s&ref=%s",
		config.AppConfig.FrontendURL, status, reference)
	c.Redirect(http.StatusFound, target)
}

func findSSLCommerzDonation(c *gin.Context) (*models.Donation, string, bool) {
	tranID := c.PostForm("tran_id")
	valID := c.PostForm("val_id")
	if tranID == "" {
		utils.BadRequest(c, "tran_id is required", nil)
		return nil, "", false
	}

	var donation models.Donation
	if err := config.DB.
		Where("reference = ? AND gateway = ?", tranID, models.GatewaySSLCommerz).
		First(&donation).Error; err != nil {
		utils.LogError("No donation found for SSLCommerz tran_id: %s", tranID)
		utils.NotFound(c, "Donation not found")
		return nil, "", false
	}
	return &donation, valID, true
}

// POST /v1/payments/sslcommerz/success
func SSLCommerzSuccess(c *gin.Context) {
	utils.LogInfo("SSLCommerzSuccess called")

	donation, valID, ok := findSSLCommerzDonation(c)
	if !ok {
		return
	}
	if valID == "" {
		utils.BadRequest(c, "val_id is required", nil)
		return
	}

	result, err := sslcommerzClient().VerifyPayment(c.Request.Context(), valID)
	if err != nil {
		// indeterminate: keep the donation pending, the IPN retry resolves it
		utils.LogError("SSLCommerz validation unavailable for donation ID: %d: %v", donation.ID, err)
		sslcommerzRedirect(c, "processing", donation.Reference)
		return
	}

	applied, settled, err := settleAndNotify(donation.ID, result.Outcome, result.TransactionID)
	if err != nil {
		utils.LogError("Settlement failed for donation ID: %d: %v", donation.ID, err)
		sslcommerzRedirect(c, "error", donation.Reference)
		return
	}
	if result.Outcome == gateways.OutcomePending {
		sslcommerzRedirect(c, "processing", donation.Reference)
		return
	}
	if !applied {
		utils.LogInfo("Duplicate SSLCommerz callback for donation ID: %d ignored", donation.ID)
	}
	sslcommerzRedirect(c, settled.Status, donation.Reference)
}

// settleSSLCommerzTerminal handles the fail and cancel browser posts. The
// posted fields are client-controlled, so when the post carries a val_id the
// validator is consulted first and its verdict wins; the claimed outcome is
// written only when the validator does not report the transaction settled.
// Posts without a val_id cannot be validated and are taken at face value.
func settleSSLCommerzTerminal(c *gin.Context, claimed gateways.Outcome) {
	donation, valID, ok := findSSLCommerzDonation(c)
	if !ok {
		return
	}

	outcome := claimed
	providerTxnID := ""
	if valID != "" {
		result, err := sslcommerzClient().VerifyPayment(c.Request.Context(), valID)
		if err != nil {
			// indeterminate: keep the donation pending, the IPN retry resolves it
			utils.LogError("SSLCommerz validation unavailable for donation ID: %d: %v", donation.ID, err)
			sslcommerzRedirect(c, "processing", donation.Reference)
			return
		}
		outcome = resolveTerminalOutcome(result.Outcome, claimed)
		providerTxnID = result.TransactionID
	}

	_, settled, err := settleAndNotify(donation.ID, outcome, providerTxnID)
	if err != nil {
		utils.LogError("Settlement failed for donation ID: %d: %v", donation.ID, err)
		sslcommerzRedirect(c, "error", donation.Reference)
		return
	}
	sslcommerzRedirect(c, settled.Status, donation.Reference)
}

// POST /v1/payments/sslcommerz/fail
func SSLCommerzFail(c *gin.Context) {
	utils.LogInfo("SSLCommerzFail called")
	settleSSLCommerzTerminal(c, gateways.OutcomeFailed)
}

// POST /v1/payments/sslcommerz/cancel
func SSLCommerzCancel(c *gin.Context) {
	utils.LogInfo("SSLCommerzCancel called")
	settleSSLCommerzTerminal(c, gateways.OutcomeCancelled)
}

// POST /v1/payments/sslcommerz/ipn
//
// The IPN fires independently of the browser redirect and may arrive before
// or after it, possibly more than once; the settlement's idempotency guard
// makes the duplicates harmless.
func SSLCommerzIPN(c *gin.Context) {
	utils.LogInfo("SSLCommerzIPN called")

	donation, valID, ok := findSSLCommerzDonation(c)
	if !ok {
		return
	}
	if valID == "" {
		utils.BadRequest(c, "val_id is required", nil)
		return
	}

	result, err := sslcommerzClient().VerifyPayment(c.Request.Context(), valID)
	if err != nil {
		utils.LogError("SSLCommerz validation unavailable for donation ID: %d: %v", donation.ID, err)
		utils.BadGateway(c, "Validation is temporarily unavailable", nil)
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

	utils.Success(c, "IPN processed", gin.H{
		"donation_id": settled.ID,
		"status":      settled.Status,
		"applied":     applied,
	})
}
