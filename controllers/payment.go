package controllers

import (
	"errors"
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

// SubmitYearlyPayment records a student's tuition payment for an upcoming
// academic year, together with the receipt file.
func SubmitYearlyPayment(c *gin.Context) {
	userID, _ := c.Get("userID")

	yearNumber, err := strconv.Atoi(c.PostForm("year_number"))
	if err != nil || yearNumber < 2 || yearNumber > 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year_number must be between 2 and 4"})
		return
	}
	programID, err := strconv.Atoi(c.PostForm("program_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "program_id is required"})
		return
	}
	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
		return
	}

	var program models.Program
	if err := config.DB.Where("program_id = ? AND delete_at IS NULL", programID).
		First(&program).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Program not found"})
		return
	}

	var receiptPath *string
	if file, header, err := c.Request.FormFile("receipt"); err == nil {
		defer file.Close()
		if header.Size > maxDocumentSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt exceeds the 10MB limit"})
			return
		}
		uploadDir := filepath.Join(uploadBasePath(), "receipts")
		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
			return
		}
		dstPath := filepath.Join(uploadDir, utils.GenerateUniqueFilename(uploadDir, header.Filename))
		if err := c.SaveUploadedFile(header, dstPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store receipt"})
			return
		}
		receiptPath = &dstPath
	}

	payment := models.YearlyPayment{
		StudentID:   userID.(int),
		ProgramID:   programID,
		YearNumber:  yearNumber,
		Amount:      amount,
		ReceiptPath: receiptPath,
	}

	if err := services.NewProgressionService(config.DB).Submit(&payment); err != nil {
		if errors.Is(err, services.ErrPaymentAlreadyOnFile) {
			c.JSON(http.StatusConflict, gin.H{"error": "A payment for this year is already on file"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment submitted",
		"payment": payment,
	})
}

// ListYearlyPayments lists yearly payments. Students see their own.
func ListYearlyPayments(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var payments []models.YearlyPayment
	query := config.DB.Preload("Student").Preload("Program").
		Order("year_number ASC, create_at DESC")

	if roleID.(int) == models.RoleStudent {
		query = query.Where("student_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}

// ValidateYearlyPayment validates a submitted payment. Validation of a payment
// whose prior-year outcome is admitted advances the student to the paid year.
func ValidateYearlyPayment(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment id"})
		return
	}
	userID, _ := c.Get("userID")

	payment, err := services.NewProgressionService(config.DB).ValidatePayment(paymentID, userID.(int))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment validated",
		"payment": payment,
	})
}

// RejectYearlyPayment marks a submitted payment as rejected so the student can
// resubmit.
func RejectYearlyPayment(c *gin.Context) {
	paymentID := c.Param("id")

	type RejectRequest struct {
		Comment string `json:"comment"`
	}
	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	var payment models.YearlyPayment
	if err := config.DB.Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if payment.Status != models.PaymentSubmitted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only submitted payments can be rejected"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.YearlyPayment{}).
		Where("payment_id = ?", payment.PaymentID).
		Updates(map[string]interface{}{"status": models.PaymentRejected, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment rejected"})
}

// ListYearlyOutcomes lists yearly outcomes. Students see their own.
func ListYearlyOutcomes(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var outcomes []models.YearlyOutcome
	query := config.DB.Preload("Student").Preload("Program").
		Order("year_number ASC")

	if roleID.(int) == models.RoleStudent {
		query = query.Where("student_id = ?", userID)
	} else if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	if err := query.Find(&outcomes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch outcomes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outcomes": outcomes,
		"total":    len(outcomes),
	})
}

// RecordYearlyOutcome sets or updates the pedagogical flags and final outcome
// for a student's academic year.
func RecordYearlyOutcome(c *gin.Context) {
	type OutcomeRequest struct {
		StudentID      int    `json:"student_id" binding:"required"`
		ProgramID      int    `json:"program_id" binding:"required"`
		YearNumber     int    `json:"year_number" binding:"required"`
		Outcome        string `json:"outcome" binding:"required"`
		CourseworkDone bool   `json:"coursework_done"`
		InternshipDone bool   `json:"internship_done"`
		AttendanceOK   bool   `json:"attendance_ok"`
	}

	var req OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Outcome {
	case models.OutcomeInProgress, models.OutcomeAdmitted, models.OutcomeRepeat, models.OutcomeExcluded:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid outcome value"})
		return
	}
	if req.Outcome == models.OutcomeAdmitted {
		flags := models.YearlyOutcome{
			CourseworkDone: req.CourseworkDone,
			InternshipDone: req.InternshipDone,
			AttendanceOK:   req.AttendanceOK,
		}
		if !flags.PedagogicalComplete() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All pedagogical requirements must be met before marking the year admitted"})
			return
		}
	}

	now := time.Now()
	var outcome models.YearlyOutcome
	err := config.DB.Where("student_id = ? AND program_id = ? AND year_number = ?",
		req.StudentID, req.ProgramID, req.YearNumber).First(&outcome).Error
	if err != nil {
		outcome = models.YearlyOutcome{
			StudentID:  req.StudentID,
			ProgramID:  req.ProgramID,
			YearNumber: req.YearNumber,
			CreateAt:   &now,
		}
	}

	outcome.Outcome = req.Outcome
	outcome.CourseworkDone = req.CourseworkDone
	outcome.InternshipDone = req.InternshipDone
	outcome.AttendanceOK = req.AttendanceOK
	outcome.UpdateAt = &now

	if err := config.DB.Save(&outcome).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record outcome"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Outcome recorded",
		"outcome": outcome,
	})
}
