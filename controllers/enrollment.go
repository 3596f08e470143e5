package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"
	"residency-management-api/services"
	"residency-management-api/utils"

	"github.com/gin-gonic/gin"
)

// GetEnrollments lists enrollments. Students see their own.
func GetEnrollments(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var enrollments []models.Enrollment
	query := config.DB.Preload("Student").Preload("Program")

	if roleID.(int) == models.RoleStudent {
		query = query.Where("student_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}

// GetEnrollment returns one enrollment.
func GetEnrollment(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var enrollment models.Enrollment
	query := config.DB.Preload("Student").Preload("Program").Preload("Application").
		Where("enrollment_id = ?", id)
	if roleID.(int) == models.RoleStudent {
		query = query.Where("student_id = ?", userID)
	}

	if err := query.First(&enrollment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

// CreateEnrollment opens the enrollment record for an admitted application.
func CreateEnrollment(c *gin.Context) {
	type CreateEnrollmentRequest struct {
		ApplicationID int `json:"application_id" binding:"required"`
	}

	var req CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var decision models.AdmissionDecision
	if err := config.DB.Preload("Application").
		Where("application_id = ?", req.ApplicationID).
		First(&decision).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No decision for this application"})
		return
	}
	if decision.Decision != models.DecisionAdmitted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only admitted applications can be enrolled"})
		return
	}

	var existing models.Enrollment
	if err := config.DB.Where("application_id = ?", req.ApplicationID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Enrollment already exists"})
		return
	}

	var program models.Program
	if err := config.DB.Where("program_id = ?", decision.Application.ProgramID).First(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load program"})
		return
	}

	enrollment := models.Enrollment{
		ApplicationID: req.ApplicationID,
		StudentID:     decision.Application.ApplicantID,
		ProgramID:     decision.Application.ProgramID,
	}

	if err := services.NewEnrollmentService(config.DB).Save(&enrollment, program.IsFeeBased); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create enrollment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Enrollment opened",
		"enrollment": enrollment,
	})
}

// ValidateEnrollmentStep flips one validation boolean and recomputes the
// derived status. Coordination staff validates the administrative step, the
// supervisor (dean) the academic one, and coordination the payment.
func ValidateEnrollmentStep(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment id"})
		return
	}
	roleID, _ := c.Get("roleID")

	type ValidateRequest struct {
		Step string `json:"step" binding:"required"` // coordination|dean|payment
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Step {
	case "coordination", "payment":
		if roleID.(int) != models.RoleCoordination {
			c.JSON(http.StatusForbidden, gin.H{"error": "Coordination role required"})
			return
		}
	case "dean":
		if roleID.(int) != models.RoleSupervisor {
			c.JSON(http.StatusForbidden, gin.H{"error": "Supervisor role required"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Step must be coordination, dean or payment"})
		return
	}

	enrollment, err := services.NewEnrollmentService(config.DB).SaveByID(id, func(e *models.Enrollment) {
		switch req.Step {
		case "coordination":
			e.CoordinationValidated = true
		case "dean":
			e.DeanValidated = true
		case "payment":
			e.PaymentValidated = true
		}
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Enrollment updated",
		"enrollment": enrollment,
	})
}

// UploadEnrollmentReceipt stores the payment receipt for a fee-based
// enrollment.
func UploadEnrollmentReceipt(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	var enrollment models.Enrollment
	if err := config.DB.Where("enrollment_id = ? AND student_id = ?", id, userID).
		First(&enrollment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if header.Size > maxDocumentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	uploadDir := filepath.Join(uploadBasePath(), "receipts")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}

	safeName := utils.GenerateUniqueFilename(uploadDir, header.Filename)
	dstPath := filepath.Join(uploadDir, safeName)
	if err := c.SaveUploadedFile(header, dstPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Enrollment{}).
		Where("enrollment_id = ?", enrollment.EnrollmentID).
		Updates(map[string]interface{}{"receipt_path": dstPath, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record receipt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Receipt uploaded"})
}
