package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"
	"residency-management-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	passwordResetTokenGenerator = func() (string, error) {
		return generateRefreshToken()
	}

	sendMailFunc                              = config.SendMail
	passwordResetRepo passwordResetRepository = &gormPasswordResetRepository{}
)

type passwordResetRepository interface {
	FindUserByEmail(email string) (*models.User, error)
	RevokePasswordResetTokens(userID int, now time.Time) error
	CreateUserToken(token *models.UserToken) error
	FindActiveResetToken(tokenHash string, now time.Time) (*models.UserToken, error)
	UpdateUserPassword(userID int, hashedPassword string, now time.Time) error
	RevokeToken(tokenID int, now time.Time) error
}

type gormPasswordResetRepository struct{}

func (r *gormPasswordResetRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormPasswordResetRepository) RevokePasswordResetTokens(userID int, now time.Time) error {
	if userID == 0 {
		return nil
	}

	return config.DB.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, "password_reset", false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) CreateUserToken(token *models.UserToken) error {
	return config.DB.Create(token).Error
}

func (r *gormPasswordResetRepository) FindActiveResetToken(tokenHash string, now time.Time) (*models.UserToken, error) {
	var token models.UserToken
	err := config.DB.Where("token_hash = ? AND token_type = ? AND is_revoked = ? AND expires_at > ?",
		tokenHash, "password_reset", false, now).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *gormPasswordResetRepository) UpdateUserPassword(userID int, hashedPassword string, now time.Time) error {
	return config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password":  hashedPassword,
			"update_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) RevokeToken(tokenID int, now time.Time) error {
	return config.DB.Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword handles password reset token generation and email dispatch.
// The response is the same whether or not the email exists.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid email format",
		})
		return
	}

	genericResponse := gin.H{
		"success": true,
		"message": "If the address exists, a reset link has been sent",
	}

	user, err := passwordResetRepo.FindUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Warning: password reset lookup failed: %v", err)
		}
		c.JSON(http.StatusOK, genericResponse)
		return
	}

	now := time.Now()
	if err := passwordResetRepo.RevokePasswordResetTokens(user.UserID, now); err != nil {
		log.Printf("Warning: failed to revoke previous reset tokens for user %d: %v", user.UserID, err)
	}

	rawToken, err := passwordResetTokenGenerator()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create reset token"})
		return
	}

	token := models.UserToken{
		UserID:    user.UserID,
		TokenHash: hashToken(rawToken),
		TokenType: "password_reset",
		ExpiresAt: now.Add(1 * time.Hour),
		CreatedAt: now,
	}
	if err := passwordResetRepo.CreateUserToken(&token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create reset token"})
		return
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", frontendURL, url.QueryEscape(rawToken))

	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Use the link below to reset your password. It expires in one hour.</p><p><a href=\"%s\">%s</a></p>",
		user.FullName(), resetLink, resetLink,
	)
	if err := sendMailFunc([]string{user.Email}, "Password reset", body); err != nil {
		log.Printf("Warning: password reset email to user %d failed: %v", user.UserID, err)
	}

	c.JSON(http.StatusOK, genericResponse)
}

// ResetPassword consumes a reset token and stores the new password.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Reset token is required"})
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Passwords do not match"})
		return
	}
	if ok, reason := utils.ValidatePassword(req.NewPassword); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": reason})
		return
	}

	now := time.Now()
	token, err := passwordResetRepo.FindActiveResetToken(hashToken(req.Token), now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid or expired reset token"})
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update password"})
		return
	}

	if err := passwordResetRepo.UpdateUserPassword(token.UserID, hashed, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update password"})
		return
	}

	if err := passwordResetRepo.RevokeToken(token.TokenID, now); err != nil {
		log.Printf("Warning: failed to revoke consumed reset token %d: %v", token.TokenID, err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}
