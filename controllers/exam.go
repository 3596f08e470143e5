package controllers

import (
	"errors"
	"net/http"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"
	"residency-management-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type scoreRequest struct {
	Score         *float64   `json:"score"`
	PassThreshold *float64   `json:"pass_threshold"`
	HeldAt        *time.Time `json:"held_at"`
}

// RecordWrittenExam creates or updates the probationary exam for an
// application. Only verified applications can be examined.
func RecordWrittenExam(c *gin.Context) {
	applicationID := c.Param("id")
	examinerID, _ := c.Get("userID")

	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Score != nil {
		if ok, reason := utils.ValidateScore(*req.Score); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": reason})
			return
		}
	}

	application, ok := findExaminableApplication(c, applicationID)
	if !ok {
		return
	}

	now := time.Now()
	var exam models.WrittenExam
	err := config.DB.Where("application_id = ?", application.ApplicationID).First(&exam).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		exam = models.WrittenExam{
			ApplicationID: application.ApplicationID,
			PassThreshold: models.DefaultPassThreshold,
			CreateAt:      &now,
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load exam"})
		return
	}

	applyScore(&exam.Score, &exam.PassThreshold, &exam.HeldAt, req)
	examiner := examinerID.(int)
	exam.ExaminerID = &examiner
	exam.UpdateAt = &now

	if err := config.DB.Save(&exam).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save exam"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Written exam recorded",
		"exam":    exam,
		"passed":  exam.Passed(),
	})
}

// RecordInterview creates or updates the individual interview for an
// application.
func RecordInterview(c *gin.Context) {
	applicationID := c.Param("id")
	examinerID, _ := c.Get("userID")

	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Score != nil {
		if ok, reason := utils.ValidateScore(*req.Score); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": reason})
			return
		}
	}

	application, ok := findExaminableApplication(c, applicationID)
	if !ok {
		return
	}

	now := time.Now()
	var interview models.Interview
	err := config.DB.Where("application_id = ?", application.ApplicationID).First(&interview).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		interview = models.Interview{
			ApplicationID: application.ApplicationID,
			PassThreshold: models.DefaultPassThreshold,
			CreateAt:      &now,
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load interview"})
		return
	}

	applyScore(&interview.Score, &interview.PassThreshold, &interview.HeldAt, req)
	examiner := examinerID.(int)
	interview.ExaminerID = &examiner
	interview.UpdateAt = &now

	if err := config.DB.Save(&interview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save interview"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Interview recorded",
		"interview": interview,
		"passed":    interview.Passed(),
	})
}

// GetExamResults returns both gates for an application.
func GetExamResults(c *gin.Context) {
	applicationID := c.Param("id")

	var exam models.WrittenExam
	examErr := config.DB.Where("application_id = ?", applicationID).First(&exam).Error

	var interview models.Interview
	interviewErr := config.DB.Where("application_id = ?", applicationID).First(&interview).Error

	response := gin.H{}
	if examErr == nil {
		response["exam"] = exam
	}
	if interviewErr == nil {
		response["interview"] = interview
	}

	c.JSON(http.StatusOK, response)
}

func findExaminableApplication(c *gin.Context, applicationID string) (*models.ApplicationFile, bool) {
	var application models.ApplicationFile
	if err := config.DB.Where("application_id = ?", applicationID).First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return nil, false
	}

	if application.Status != models.ApplicationStatusVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only verified applications can be examined"})
		return nil, false
	}
	return &application, true
}

func applyScore(score **float64, threshold *float64, heldAt **time.Time, req scoreRequest) {
	if req.Score != nil {
		*score = req.Score
	}
	if req.PassThreshold != nil {
		*threshold = *req.PassThreshold
	}
	if req.HeldAt != nil {
		*heldAt = req.HeldAt
	}
}
