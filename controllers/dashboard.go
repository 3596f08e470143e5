package controllers

import (
	"net/http"

	"residency-management-api/config"
	"residency-management-api/models"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats aggregates the coordination landing-page counters.
func GetDashboardStats(c *gin.Context) {
	stats := gin.H{}

	var applicationsByStatus []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	config.DB.Model(&models.ApplicationFile{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&applicationsByStatus)
	stats["applications_by_status"] = applicationsByStatus

	var decisionsByValue []struct {
		Decision string `json:"decision"`
		Count    int64  `json:"count"`
	}
	config.DB.Model(&models.AdmissionDecision{}).
		Select("decision, COUNT(*) as count").
		Group("decision").
		Scan(&decisionsByValue)
	stats["decisions"] = decisionsByValue

	var pendingEnrollments int64
	config.DB.Model(&models.Enrollment{}).
		Where("status <> ?", models.EnrollmentComplete).
		Count(&pendingEnrollments)
	stats["pending_enrollments"] = pendingEnrollments

	var submittedPayments int64
	config.DB.Model(&models.YearlyPayment{}).
		Where("status = ?", models.PaymentSubmitted).
		Count(&submittedPayments)
	stats["payments_awaiting_validation"] = submittedPayments

	var activeStudents int64
	config.DB.Model(&models.User{}).
		Where("role_id = ? AND is_active = ? AND delete_at IS NULL", models.RoleStudent, true).
		Count(&activeStudents)
	stats["active_students"] = activeStudents

	var med6Accounts int64
	config.DB.Model(&models.User{}).
		Where("is_med6 = ? AND delete_at IS NULL", true).
		Count(&med6Accounts)
	stats["med6_accounts"] = med6Accounts

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetStudentDashboard summarizes the calling student's state across the
// pipeline: application, enrollment, payments and course progress.
func GetStudentDashboard(c *gin.Context) {
	userID, _ := c.Get("userID")

	var application models.ApplicationFile
	appErr := config.DB.Preload("Program").
		Where("applicant_id = ?", userID).
		Order("create_at DESC").
		First(&application).Error

	response := gin.H{}
	if appErr == nil {
		response["application"] = application

		var decision models.AdmissionDecision
		if err := config.DB.Where("application_id = ?", application.ApplicationID).
			First(&decision).Error; err == nil {
			response["decision"] = decision
		}
	}

	var enrollment models.Enrollment
	if err := config.DB.Preload("Program").
		Where("student_id = ?", userID).
		First(&enrollment).Error; err == nil {
		response["enrollment"] = enrollment
	}

	var payments []models.YearlyPayment
	config.DB.Where("student_id = ?", userID).
		Order("year_number ASC").Find(&payments)
	response["payments"] = payments

	var completedLessons int64
	config.DB.Model(&models.StudentProgress{}).
		Where("student_id = ? AND completed = ?", userID, true).
		Count(&completedLessons)
	response["completed_lessons"] = completedLessons

	var unreadMessages int64
	config.DB.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ? AND delete_at IS NULL", userID, false).
		Count(&unreadMessages)
	response["unread_messages"] = unreadMessages

	c.JSON(http.StatusOK, response)
}
