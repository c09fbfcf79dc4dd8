package controllers

import (
	"fmt"
	"strconv"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
)

// GET /v1/donations
func ListMyDonations(c *gin.Context) {
	utils.LogInfo("ListMyDonations called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	page, limit := utils.GetPaginationParams(c)
	query := config.DB.Model(&models.Donation{}).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch donations", err.Error())
		return
	}

	var donations []models.Donation
	if err := query.Preload("Campaign").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&donations).Error; err != nil {
		utils.LogError("Failed to fetch donations for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch donations", err.Error())
		return
	}

	items := make([]gin.H, 0, len(donations))
	for _, donation := range donations {
		items = append(items, donationSummary(&donation))
	}

	utils.SuccessWithPagination(c, "Donations retrieved successfully", items, total, page, limit)
}

// GET /v1/donations/:id
func GetDonation(c *gin.Context) {
	utils.LogInfo("GetDonation called")
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
		utils.LogError("Donation not found for ID: %d, user ID: %d", donationID, user.ID)
		utils.NotFound(c, "Donation not found")
		return
	}

	detail := donationSummary(&donation)
	detail["message"] = donation.Message
	detail["points_earned"] = pointsEarnedDisplay(&donation)

	utils.Success(c, "Donation retrieved successfully", detail)
}

// GET /v1/profile
func GetProfile(c *gin.Context) {
	utils.LogInfo("GetProfile called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var donated float64
	var count int64
	config.DB.Model(&models.Donation{}).
		Where("user_id = ? AND status = ?", user.ID, models.DonationStatusSuccess).
		Count(&count)
	config.DB.Model(&models.Donation{}).
		Where("user_id = ? AND status = ?", user.ID, models.DonationStatusSuccess).
		Select("COALESCE(SUM(amount), 0)").Scan(&donated)

	utils.Success(c, "Profile retrieved successfully", gin.H{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"phone":       user.Phone,
		"blood_group": user.BloodGroup,
		"district":    user.District,
		"points":      user.Points,
		"level":       utils.DeriveLevel(user.Points),
		"donations":   count,
		"donated":     fmt.Sprintf("%.2f", donated),
	})
}

func donationSummary(donation *models.Donation) gin.H {
	return gin.H{
		"id":             donation.ID,
		"campaign_id":    donation.CampaignID,
		"campaign_title": donation.Campaign.Title,
		"amount":         fmt.Sprintf("%.2f", donation.Amount),
		"currency":       donation.Currency,
		"gateway":        donation.Gateway,
		"status":         donation.Status,
		"reference":      donation.Reference,
		"transaction_id": donation.TransactionID,
		"anonymous":      donation.Anonymous,
		"date":           donation.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func pointsEarnedDisplay(donation *models.Donation) int {
	if donation.Status != models.DonationStatusSuccess || donation.UserID == nil || donation.Anonymous {
		return 0
	}
	return utils.PointsEarned(donation.Amount)
}
