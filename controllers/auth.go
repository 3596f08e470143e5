package controllers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"residency-management-api/config"
	"residency-management-api/middleware"
	"residency-management-api/models"
	"residency-management-api/services"
	"residency-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         models.User `json:"user"`
	Message      string      `json:"message"`
}

// Login handles user authentication. Accounts with two-factor enabled get a
// login code by email and must call /login/2fa to finish.
func Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Preload("Role").
		Where("email = ? AND delete_at IS NULL", req.Email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	if user.TwoFAEnabled {
		if _, err := services.NewVerificationService(config.DB).Issue(&user, services.Purpose2FA); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue login code"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"pending_2fa": true,
			"message":     "A login code has been sent to your email",
		})
		return
	}

	issueTokens(c, user)
}

type twoFALoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// Complete2FALogin finishes a two-factor login with the emailed code.
func Complete2FALogin(c *gin.Context) {
	var req twoFALoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Preload("Role").
		Where("email = ? AND delete_at IS NULL", req.Email).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or code"})
		return
	}

	if err := services.NewVerificationService(config.DB).Consume(user.UserID, services.Purpose2FA, req.Code); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or code"})
		return
	}

	issueTokens(c, user)
}

type RegisterRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	StudentNumber string `json:"student_number"`
}

// Register creates a self-service account. When the identity matches an open
// Med6 roster entry, the account is granted free access to the fixed course
// set immediately.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check account"})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	now := time.Now()
	user := models.User{
		UserFname:     req.FirstName,
		UserLname:     req.LastName,
		Email:         req.Email,
		Password:      hashed,
		RoleID:        models.RoleStudent,
		StudentNumber: utils.OptionalString(req.StudentNumber),
		IsActive:      true,
		CreateAt:      &now,
		UpdateAt:      &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	rosterSvc := services.NewRosterService(config.DB)
	med6 := false
	if req.StudentNumber != "" {
		entry, matchErr := rosterSvc.Match(services.Identity{
			StudentNumber: req.StudentNumber,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
		}, now)
		if matchErr == nil && entry != nil {
			if grantErr := rosterSvc.GrantFreeAccess(&user, entry); grantErr == nil {
				med6 = true
				user.IsMed6 = true
			}
		}
	}

	// Email verification code; send failures are logged inside the service.
	services.NewVerificationService(config.DB).Issue(&user, services.PurposeEmail)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Account created, a verification code has been emailed",
		"user":        user,
		"free_access": med6,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken exchanges a valid refresh token for a fresh JWT.
func RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash := hashToken(req.RefreshToken)
	now := time.Now()

	var token models.UserToken
	if err := config.DB.Where("token_hash = ? AND token_type = ? AND is_revoked = ? AND expires_at > ?",
		hash, "refresh", false, now).
		First(&token).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	var user models.User
	if err := config.DB.Preload("Role").
		Where("user_id = ? AND delete_at IS NULL", token.UserID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	issueTokens(c, user)
}

// Logout revokes the presented refresh token.
func Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	config.DB.Model(&models.UserToken{}).
		Where("token_hash = ? AND token_type = ?", hashToken(req.RefreshToken), "refresh").
		Updates(map[string]interface{}{"is_revoked": true, "updated_at": now, "expires_at": now})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile returns current user profile
func GetProfile(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Preload("Role").
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// ChangePassword handles password change
func ChangePassword(c *gin.Context) {
	type PasswordChangeRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}

	var req PasswordChangeRequest
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

	if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	now := time.Now()
	user.Password = hashed
	user.UpdateAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func issueTokens(c *gin.Context, user models.User) {
	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	refresh, err := generateRefreshToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	now := time.Now()
	record := models.UserToken{
		UserID:    user.UserID,
		TokenHash: hashToken(refresh),
		TokenType: "refresh",
		ExpiresAt: now.Add(30 * 24 * time.Hour),
		CreatedAt: now,
	}
	if err := config.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:        token,
		RefreshToken: refresh,
		User:         user,
		Message:      "Login successful",
	})
}

// generateToken creates JWT token
func generateToken(user models.User) (string, error) {
	// Get expiration hours from env
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24 // default 24 hours
	}

	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
