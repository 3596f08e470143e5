package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"
	"residency-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetApplications returns list of application files. Students see their own,
// coordination staff see everything.
func GetApplications(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var applications []models.ApplicationFile
	query := config.DB.Preload("Applicant").Preload("Program")

	if roleID.(int) != models.RoleCoordination {
		query = query.Where("applicant_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if program := c.Query("program_id"); program != "" {
		query = query.Where("program_id = ?", program)
	}

	if err := query.Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetApplication returns a single application with its checklist state.
func GetApplication(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var application models.ApplicationFile
	query := config.DB.Preload("Applicant").Preload("Program").
		Where("application_id = ?", id)

	if roleID.(int) != models.RoleCoordination {
		query = query.Where("applicant_id = ?", userID)
	}

	if err := query.First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	checklist, err := services.NewChecklistService(config.DB).Evaluate(application.ApplicationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate checklist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application,
		"checklist":   checklist,
	})
}

// CreateApplication submits a new application file for the current user.
func CreateApplication(c *gin.Context) {
	type CreateApplicationRequest struct {
		ProgramID int    `json:"program_id" binding:"required"`
		Notes     string `json:"notes"`
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	var program models.Program
	if err := config.DB.Where("program_id = ? AND status = 'active' AND delete_at IS NULL", req.ProgramID).
		First(&program).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program"})
		return
	}

	var existing models.ApplicationFile
	if err := config.DB.Where("applicant_id = ? AND program_id = ? AND status <> ?",
		userID, req.ProgramID, models.ApplicationStatusRejected).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An application for this program is already open"})
		return
	}

	now := time.Now()
	application := models.ApplicationFile{
		ApplicationNumber: generateApplicationNumber(),
		ApplicantID:       userID.(int),
		ProgramID:         req.ProgramID,
		Status:            models.ApplicationStatusSubmitted,
		Notes:             req.Notes,
		SubmittedAt:       &now,
		CreateAt:          &now,
		UpdateAt:          &now,
	}

	if err := config.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	config.DB.Preload("Applicant").Preload("Program").First(&application)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": application,
	})
}

// VerifyApplication is the staff verification action: the status moves to
// verified when the mandatory checklist is complete, incomplete otherwise.
func VerifyApplication(c *gin.Context) {
	id := c.Param("id")
	staffID, _ := c.Get("userID")

	var application models.ApplicationFile
	if err := config.DB.Where("application_id = ?", id).First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	checklist, err := services.NewChecklistService(config.DB).Evaluate(application.ApplicationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate checklist"})
		return
	}

	oldStatus := application.Status
	now := time.Now()
	if checklist.Complete {
		application.Status = models.ApplicationStatusVerified
	} else {
		application.Status = models.ApplicationStatusIncomplete
	}
	application.UpdateAt = &now

	if err := config.DB.Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}

	recordApplicationHistory(application.ApplicationID, oldStatus, application.Status, staffID.(int), nil)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application reviewed",
		"application": application,
		"checklist":   checklist,
	})
}

// RejectApplication closes an application file with a reason.
func RejectApplication(c *gin.Context) {
	id := c.Param("id")
	staffID, _ := c.Get("userID")

	type RejectRequest struct {
		Reason string `json:"reason" binding:"required"`
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var application models.ApplicationFile
	if err := config.DB.Where("application_id = ?", id).First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if application.Status == models.ApplicationStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application already rejected"})
		return
	}

	oldStatus := application.Status
	now := time.Now()
	application.Status = models.ApplicationStatusRejected
	application.Notes = req.Reason
	application.UpdateAt = &now

	if err := config.DB.Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject application"})
		return
	}

	recordApplicationHistory(application.ApplicationID, oldStatus, application.Status, staffID.(int), &req.Reason)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application rejected",
		"application": application,
	})
}

// GetApplicationHistory lists the status transitions of one application.
func GetApplicationHistory(c *gin.Context) {
	id := c.Param("id")

	var history []models.AdmissionStatusHistory
	if err := config.DB.Where("application_id = ?", id).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func recordApplicationHistory(applicationID int, oldStatus, newStatus string, changedBy int, reason *string) {
	history := models.AdmissionStatusHistory{
		ApplicationID: applicationID,
		OldStatus:     &oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     changedBy,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}
	if err := config.DB.Create(&history).Error; err != nil {
		// History is best-effort; the main transition already happened.
		log.Printf("Warning: failed to record status history for application %d: %v", applicationID, err)
	}
}

// Helper function to generate application number
func generateApplicationNumber() string {
	// Format: DES-YYYYMMDD-XXXX
	now := time.Now()
	dateStr := now.Format("20060102")

	var count int64
	config.DB.Model(&models.ApplicationFile{}).
		Where("DATE(create_at) = DATE(NOW())").
		Count(&count)

	return fmt.Sprintf("DES-%s-%04d", dateStr, count+1)
}
