package controllers

import (
	"strconv"
	"time"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
)

type campaignRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	Goal        float64 `json:"goal" binding:"required,gt=0"`
	Deadline    string  `json:"deadline"` // YYYY-MM-DD, optional
	IsActive    *bool   `json:"is_active"`
}

// POST /v1/admin/campaigns
func CreateCampaign(c *gin.Context) {
	utils.LogInfo("CreateCampaign called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	admin := userVal.(models.User)

	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid campaign create request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	campaign := models.Campaign{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Goal:        req.Goal,
		IsActive:    true,
		CreatedByID: admin.ID,
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			utils.BadRequest(c, "Invalid deadline, expected YYYY-MM-DD", nil)
			return
		}
		campaign.Deadline = &deadline
	}
	if req.IsActive != nil {
		campaign.IsActive = *req.IsActive
	}

	if err := config.DB.Create(&campaign).Error; err != nil {
		utils.LogError("Failed to create campaign: %v", err)
		utils.InternalServerError(c, "Failed to create campaign", err.Error())
		return
	}
	utils.LogInfo("Created campaign ID: %d", campaign.ID)

	utils.Created(c, "Campaign created successfully", campaignSummary(&campaign))
}

// PUT /v1/admin/campaigns/:id
func UpdateCampaign(c *gin.Context) {
	utils.LogInfo("UpdateCampaign called")

	campaignID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid campaign ID", nil)
		return
	}

	var campaign models.Campaign
	if err := config.DB.First(&campaign, campaignID).Error; err != nil {
		utils.NotFound(c, "Campaign not found")
		return
	}

	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid campaign update request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"image_url":   req.ImageURL,
		"goal":        req.Goal,
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			utils.BadRequest(c, "Invalid deadline, expected YYYY-MM-DD", nil)
			return
		}
		updates["deadline"] = deadline
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	// raised is intentionally absent: only settlement mutates it
	if err := config.DB.Model(&campaign).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update campaign ID: %d: %v", campaign.ID, err)
		utils.InternalServerError(c, "Failed to update campaign", err.Error())
		return
	}
	utils.LogInfo("Updated campaign ID: %d", campaign.ID)

	utils.Success(c, "Campaign updated successfully", campaignSummary(&campaign))
}

// DELETE /v1/admin/campaigns/:id
func DeleteCampaign(c *gin.Context) {
	utils.LogInfo("DeleteCampaign called")

	campaignID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid campaign ID", nil)
		return
	}

	var campaign models.Campaign
	if err := config.DB.First(&campaign, campaignID).Error; err != nil {
		utils.NotFound(c, "Campaign not found")
		return
	}

	var pending int64
	if err := config.DB.Model(&models.Donation{}).
		Where("campaign_id = ? AND status = ?", campaign.ID, models.DonationStatusPending).
		Count(&pending).Error; err != nil {
		utils.InternalServerError(c, "Failed to check pending donations", err.Error())
		return
	}
	if pending > 0 {
		utils.Conflict(c, "Campaign has pending donations and cannot be deleted", gin.H{"pending": pending})
		return
	}

	if err := config.DB.Delete(&campaign).Error; err != nil {
		utils.LogError("Failed to delete campaign ID: %d: %v", campaign.ID, err)
		utils.InternalServerError(c, "Failed to delete campaign", err.Error())
		return
	}
	utils.LogInfo("Deleted campaign ID: %d", campaign.ID)

	utils.Success(c, "Campaign deleted successfully", nil)
}
