package controllers

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// GET /v1/donations/:id/receipt
//
// DownloadReceipt generates and returns a PDF receipt for a settled donation
func DownloadReceipt(c *gin.Context) {
	utils.LogInfo("DownloadReceipt called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	donationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid donation ID", nil)
		return
	}

	var donation models.Donation
	if err := config.DB.Preload("Campaign").
		Where("id = ? AND user_id = ?", donationID, user.ID).
		First(&donation).Error; err != nil {
		utils.LogError("Donation not found for receipt - ID: %d, user ID: %d", donationID, user.ID)
		utils.NotFound(c, "Donation not found")
		return
	}

	if donation.Status != models.DonationStatusSuccess {
		utils.BadRequest(c, "Receipts are only available for successful donations", nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "GiveBD")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "House 12, Road 5, Dhanmondi, Dhaka")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@givebd.org | Phone: +880-1711-000000")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "DONATION RECEIPT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Receipt No: "+donation.Reference)
	pdf.Cell(70, 8, "Date: "+donation.UpdatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(60, 8, "Gateway: "+donation.Gateway)
	pdf.Cell(70, 8, "Transaction ID: "+donation.TransactionID)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Donor:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, donation.DonorName)
	pdf.Ln(6)
	pdf.Cell(100, 8, donation.DonorEmail)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(110, 8, "Campaign", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(110, 8, donation.Campaign.Title, "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f %s", donation.Amount, donation.Currency), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(150, 8, "Thank you for your generosity. This receipt confirms your donation has been settled.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate receipt PDF for donation ID: %d: %v", donation.ID, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}
	utils.LogInfo("Generated receipt PDF for donation ID: %d", donation.ID)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", donation.Reference))
	c.Data(200, "application/pdf", buf.Bytes())
}
