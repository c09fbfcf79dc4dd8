package controllers

import (
	"strconv"
	"time"

	"github.com/Rahat-721/GiveBD/config"
	"github.com/Rahat-721/GiveBD/models"
	"github.com/Rahat-721/GiveBD/utils"
	"github.com/gin-gonic/gin"
)

// GET /v1/blood-requests
func ListBloodRequests(c *gin.Context) {
	utils.LogInfo("ListBloodRequests called")

	page, limit := utils.GetPaginationParams(c)
	query := config.DB.Model(&models.BloodRequest{})

	status := c.DefaultQuery("status", models.BloodRequestStatusOpen)
	query = query.Where("status = ?", status)
	if bloodGroup := c.Query("blood_group"); bloodGroup != "" {
		query = query.Where("blood_group = ?", bloodGroup)
	}
	if district := c.Query("district"); district != "" {
		query = query.Where("district ILIKE ?", district)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch blood requests", err.Error())
		return
	}

	var requests []models.BloodRequest
	if err := query.Order("needed_by ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&requests).Error; err != nil {
		utils.LogError("Failed to fetch blood requests: %v", err)
		utils.InternalServerError(c, "Failed to fetch blood requests", err.Error())
		return
	}

	utils.SuccessWithPagination(c, "Blood requests retrieved successfully", requests, total, page, limit)
}

// GET /v1/blood-requests/:id
func GetBloodRequest(c *gin.Context) {
	utils.LogInfo("GetBloodRequest called")

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid blood request ID", nil)
		return
	}

	var request models.BloodRequest
	if err := config.DB.First(&request, requestID).Error; err != nil {
		utils.NotFound(c, "Blood request not found")
		return
	}

	utils.Success(c, "Blood request retrieved successfully", request)
}

type bloodRequestBody struct {
	PatientName  string `json:"patient_name" binding:"required"`
	BloodGroup   string `json:"blood_group" binding:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Units        int    `json:"units" binding:"omitempty,min=1,max=10"`
	Hospital     string `json:"hospital"`
	District     string `json:"district"`
	ContactPhone string `json:"contact_phone" binding:"required"`
	NeededBy     string `json:"needed_by"` // YYYY-MM-DD
	Note         string `json:"note"`
}

// POST /v1/blood-requests
func CreateBloodRequest(c *gin.Context) {
	utils.LogInfo("CreateBloodRequest called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req bloodRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid blood request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	request := models.BloodRequest{
		RequesterID:  user.ID,
		PatientName:  req.PatientName,
		BloodGroup:   req.BloodGroup,
		Units:        req.Units,
		Hospital:     req.Hospital,
		District:     req.District,
		ContactPhone: req.ContactPhone,
		Status:       models.BloodRequestStatusOpen,
		Note:         req.Note,
	}
	if request.Units == 0 {
		request.Units = 1
	}
	if req.NeededBy != "" {
		neededBy, err := time.Parse("2006-01-02", req.NeededBy)
		if err != nil {
			utils.BadRequest(c, "Invalid needed_by, expected YYYY-MM-DD", nil)
			return
		}
		request.NeededBy = neededBy
	}

	if err := config.DB.Create(&request).Error; err != nil {
		utils.LogError("Failed to create blood request: %v", err)
		utils.InternalServerError(c, "Failed to create blood request", err.Error())
		return
	}
	utils.LogInfo("Created blood request ID: %d by user ID: %d", request.ID, user.ID)

	utils.Created(c, "Blood request created successfully", request)
}

// PUT /v1/blood-requests/:id
func UpdateBloodRequest(c *gin.Context) {
	utils.LogInfo("UpdateBloodRequest called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid blood request ID", nil)
		return
	}

	var request models.BloodRequest
	if err := config.DB.Where("id = ? AND requester_id = ?", requestID, user.ID).
		First(&request).Error; err != nil {
		utils.NotFound(c, "Blood request not found")
		return
	}

	var req struct {
		bloodRequestBody
		Status string `json:"status" binding:"omitempty,oneof=open fulfilled closed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{
		"patient_name":  req.PatientName,
		"blood_group":   req.BloodGroup,
		"hospital":      req.Hospital,
		"district":      req.District,
		"contact_phone": req.ContactPhone,
		"note":          req.Note,
	}
	if req.Units > 0 {
		updates["units"] = req.Units
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}
	if req.NeededBy != "" {
		neededBy, err := time.Parse("2006-01-02", req.NeededBy)
		if err != nil {
			utils.BadRequest(c, "Invalid needed_by, expected YYYY-MM-DD", nil)
			return
		}
		updates["needed_by"] = neededBy
	}

	if err := config.DB.Model(&request).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update blood request ID: %d: %v", request.ID, err)
		utils.InternalServerError(c, "Failed to update blood request", err.Error())
		return
	}
	utils.LogInfo("Updated blood request ID: %d", request.ID)

	utils.Success(c, "Blood request updated successfully", request)
}

// PUT /v1/admin/blood-requests/:id/status
func AdminUpdateBloodRequestStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdateBloodRequestStatus called")

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid blood request ID", nil)
		return
	}

	var request models.BloodRequest
	if err := config.DB.First(&request, requestID).Error; err != nil {
		utils.NotFound(c, "Blood request not found")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=open fulfilled closed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if err := config.DB.Model(&request).Update("status", req.Status).Error; err != nil {
		utils.LogError("Failed to update blood request ID: %d: %v", request.ID, err)
		utils.InternalServerError(c, "Failed to update blood request", err.Error())
		return
	}
	utils.LogInfo("Admin set blood request ID: %d status to %s", request.ID, req.Status)

	utils.Success(c, "Blood request status updated successfully", request)
}
