package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"

	"gorm.io/gorm"
)

// Verification code purposes.
const (
	PurposeEmail = "email"
	PurposeSMS   = "sms"
	Purpose2FA   = "twofa"
)

const codeTTL = 15 * time.Minute

// VerificationService issues and checks single-use verification codes for
// email confirmation, phone confirmation and two-factor login.
type VerificationService struct {
	db       *gorm.DB
	sendMail func(to []string, subject, html string) error
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{db: db, sendMail: config.SendMail}
}

// Issue invalidates previous codes for the same purpose and creates a fresh
// one. For email purposes the code is sent synchronously; SMS dispatch is
// handled by an external gateway reading the pending codes.
func (s *VerificationService) Issue(user *models.User, purpose string) (*models.VerificationCode, error) {
	switch purpose {
	case PurposeEmail, PurposeSMS, Purpose2FA:
	default:
		return nil, fmt.Errorf("unknown verification purpose %q", purpose)
	}

	code, err := randomCode(6)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&models.VerificationCode{}).
		Where("user_id = ? AND purpose = ? AND consumed = ?", user.UserID, purpose, false).
		Updates(map[string]interface{}{"consumed": true, "updated_at": now}).Error; err != nil {
		return nil, err
	}

	record := models.VerificationCode{
		UserID:    user.UserID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(codeTTL),
		CreatedAt: now,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}

	if purpose == PurposeEmail || purpose == Purpose2FA {
		subject := "Your verification code"
		if purpose == Purpose2FA {
			subject = "Your login code"
		}
		body := fmt.Sprintf("<p>Your code is <strong>%s</strong>. It expires in 15 minutes.</p>", code)
		if err := s.sendMail([]string{user.Email}, subject, body); err != nil {
			log.Printf("Warning: verification email to user %d failed: %v", user.UserID, err)
		}
	}

	return &record, nil
}

// Consume validates and burns a code. Expired, consumed or unknown codes all
// return the same error.
func (s *VerificationService) Consume(userID int, purpose, code string) error {
	var record models.VerificationCode
	err := s.db.Where("user_id = ? AND purpose = ? AND code = ? AND consumed = ?",
		userID, purpose, code, false).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("invalid or expired code")
	}
	if err != nil {
		return err
	}

	now := time.Now()
	if now.After(record.ExpiresAt) {
		return fmt.Errorf("invalid or expired code")
	}

	return s.db.Model(&models.VerificationCode{}).
		Where("code_id = ?", record.CodeID).
		Updates(map[string]interface{}{"consumed": true, "updated_at": now}).Error
}

func randomCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
