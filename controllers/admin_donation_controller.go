package controllers

import (
	"fmt"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
)

// GET /v1/admin/donations
func AdminListDonations(c *gin.Context) {
	utils.LogInfo("AdminListDonations called")

	page, limit := utils.GetPaginationParams(c)
	query := config.DB.Model(&models.Donation{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if gateway := c.Query("gateway"); gateway != "" {
		query = query.Where("gateway = ?", gateway)
	}
	if campaignID := c.Query("campaign_id"); campaignID != "" {
		query = query.Where("campaign_id = ?", campaignID)
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
		utils.LogError("Failed to fetch donations: %v", err)
		utils.InternalServerError(c, "Failed to fetch donations", err.Error())
		return
	}

	items := make([]gin.H, 0, len(donations))
	for _, donation := range donations {
		item := donationSummary(&donation)
		if donation.UserID != nil {
			item["user_id"] = *donation.UserID
		}
		item["donor_email"] = donation.DonorEmail
		items = append(items, item)
	}

	utils.SuccessWithPagination(c, "Donations retrieved successfully", items, total, page, limit)
}

// GET /v1/admin/donations/summary
func AdminDonationSummary(c *gin.Context) {
	utils.LogInfo("AdminDonationSummary called")

	type row struct {
		Gateway string
		Status  string
		Count   int64
		Total   float64
	}
	var rows []row
	if err := config.DB.Model(&models.Donation{}).
		Select("gateway, status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("gateway, status").
		Scan(&rows).Error; err != nil {
		utils.LogError("Failed to aggregate donations: %v", err)
		utils.InternalServerError(c, "Failed to aggregate donations", err.Error())
		return
	}

	var settled float64
	breakdown := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		if r.Status == models.DonationStatusSuccess {
			settled += r.Total
		}
		breakdown = append(breakdown, gin.H{
			"gateway": r.Gateway,
			"status":  r.Status,
			"count":   r.Count,
			"total":   fmt.Sprintf("%.2f", r.Total),
		})
	}

	utils.Success(c, "Donation summary retrieved successfully", gin.H{
		"settled_total": fmt.Sprintf("%.2f", settled),
		"breakdown":     breakdown,
	})
}
