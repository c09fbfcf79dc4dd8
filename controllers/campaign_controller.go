package controllers

import (
	"fmt"
	"strconv"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
)

// GET /v1/campaigns
func ListCampaigns(c *gin.Context) {
	utils.LogInfo("ListCampaigns called")

	page, limit := utils.GetPaginationParams(c)
	query := config.DB.Model(&models.Campaign{}).Where("is_active = ?", true)

	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count campaigns: %v", err)
		utils.InternalServerError(c, "Failed to fetch campaigns", err.Error())
		return
	}

	var campaigns []models.Campaign
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&campaigns).Error; err != nil {
		utils.LogError("Failed to fetch campaigns: %v", err)
		utils.InternalServerError(c, "Failed to fetch campaigns", err.Error())
		return
	}

	items := make([]gin.H, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, campaignSummary(&campaign))
	}

	utils.SuccessWithPagination(c, "Campaigns retrieved successfully", items, total, page, limit)
}

// GET /v1/campaigns/:id
func GetCampaign(c *gin.Context) {
	utils.LogInfo("GetCampaign called")

	campaignID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid campaign ID", nil)
		return
	}

	var campaign models.Campaign
	if err := config.DB.First(&campaign, campaignID).Error; err != nil {
		utils.LogError("Campaign not found for ID: %d", campaignID)
		utils.NotFound(c, "Campaign not found")
		return
	}

	// recent settled donations, hiding anonymous donors
	var recent []models.Donation
	if err := config.DB.
		Where("campaign_id = ? AND status = ?", campaign.ID, models.DonationStatusSuccess).
		Order("created_at DESC").Limit(10).
		Find(&recent).Error; err != nil {
		utils.LogError("Failed to fetch recent donations for campaign ID: %d: %v", campaign.ID, err)
		utils.InternalServerError(c, "Failed to fetch campaign", err.Error())
		return
	}

	donors := make([]gin.H, 0, len(recent))
	for _, donation := range recent {
		name := donation.DonorName
		if donation.Anonymous || name == "" {
			name = "Anonymous"
		}
		donors = append(donors, gin.H{
			"name":    name,
			"amount":  fmt.Sprintf("%.2f", donation.Amount),
			"message": donation.Message,
			"date":    donation.CreatedAt.Format("2006-01-02"),
		})
	}

	detail := campaignSummary(&campaign)
	detail["description"] = campaign.Description
	detail["recent_donations"] = donors

	utils.Success(c, "Campaign retrieved successfully", detail)
}

func campaignSummary(campaign *models.Campaign) gin.H {
	progress := 0.0
	if campaign.Goal > 0 {
		progress = campaign.Raised / campaign.Goal * 100
		if progress > 100 {
			progress = 100
		}
	}
	summary := gin.H{
		"id":        campaign.ID,
		"title":     campaign.Title,
		"category":  campaign.Category,
		"image_url": campaign.ImageURL,
		"goal":      fmt.Sprintf("%.2f", campaign.Goal),
		"raised":    fmt.Sprintf("%.2f", campaign.Raised),
		"progress":  fmt.Sprintf("%.1f", progress),
		"is_active": campaign.IsActive,
	}
	if campaign.Deadline != nil {
		summary["deadline"] = campaign.Deadline.Format("2006-01-02")
	}
	return summary
}
