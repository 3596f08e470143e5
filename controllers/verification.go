package controllers

import (
	"net/http"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"
	"residency-management-api/services"

	"github.com/gin-gonic/gin"
)

type codeRequest struct {
	Purpose string `json:"purpose" binding:"required"`
}

// RequestVerificationCode issues a fresh code for the current user (email,
// sms or twofa purposes).
func RequestVerificationCode(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if _, err := services.NewVerificationService(config.DB).Issue(&user, req.Purpose); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code issued"})
}

type confirmCodeRequest struct {
	Purpose string `json:"purpose" binding:"required"`
	Code    string `json:"code" binding:"required"`
}

// ConfirmVerificationCode burns a code and flips the matching verified flag.
func ConfirmVerificationCode(c *gin.Context) {
	var req confirmCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	if err := services.NewVerificationService(config.DB).Consume(userID.(int), req.Purpose, req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	switch req.Purpose {
	case services.PurposeEmail:
		updates["email_verified"] = true
	case services.PurposeSMS:
		updates["phone_verified"] = true
	}

	if len(updates) > 1 {
		if err := config.DB.Model(&models.User{}).
			Where("user_id = ?", userID).
			Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code confirmed"})
}

// Enable2FA requires a confirmed twofa code before turning the flag on, so
// the user proves the email loop works.
func Enable2FA(c *gin.Context) {
	type enableRequest struct {
		Code string `json:"code" binding:"required"`
	}

	var req enableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	if err := services.NewVerificationService(config.DB).Consume(userID.(int), services.Purpose2FA, req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"twofa_enabled": true, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable two-factor login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Two-factor login enabled"})
}

// Disable2FA turns the flag off for the current user.
func Disable2FA(c *gin.Context) {
	userID, _ := c.Get("userID")

	now := time.Now()
	if err := config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"twofa_enabled": false, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disable two-factor login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Two-factor login disabled"})
}
