package controllers

import (
	"net/http"
	"strconv"

	"residency-management-api/config"
	"residency-management-api/models"
	"residency-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetDecision returns the admission decision for an application.
func GetDecision(c *gin.Context) {
	applicationID := c.Param("id")

	var decision models.AdmissionDecision
	if err := config.DB.Preload("Application").Preload("Application.Applicant").
		Where("application_id = ?", applicationID).
		First(&decision).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Decision not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"decision": decision})
}

// DecideAdmission records the staff decision. Admitting a candidate ensures
// an activated student account and fires the admission email once.
func DecideAdmission(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}
	staffID, _ := c.Get("userID")

	type DecisionRequest struct {
		Decision string `json:"decision" binding:"required"`
		Comment  string `json:"comment"`
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision, err := services.NewAdmissionService(config.DB).Decide(services.DecideInput{
		ApplicationID: applicationID,
		Decision:      req.Decision,
		Comment:       req.Comment,
		DecidedBy:     staffID.(int),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Decision recorded",
		"decision": decision,
	})
}

// ResendAdmissionEmail retries the admission notification when the first
// attempt failed.
func ResendAdmissionEmail(c *gin.Context) {
	applicationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	if err := services.NewAdmissionService(config.DB).ResendAdmissionEmail(applicationID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admission email sent"})
}
