package services

import (
	"log"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"

	"gorm.io/gorm"
)

// NotificationService creates in-app notifications and sends the matching
// email synchronously. Mail failures are logged, never retried.
type NotificationService struct {
	db       *gorm.DB
	sendMail func(to []string, subject, html string) error
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db, sendMail: config.SendMail}
}

// NotifyInput describes one notification.
type NotifyInput struct {
	UserID               int
	Title                string
	Message              string
	Type                 string
	RelatedApplicationID *uint
	Email                string // empty skips the email
}

func (s *NotificationService) Notify(input NotifyInput) error {
	notification := models.Notification{
		UserID:               uint(input.UserID),
		Title:                input.Title,
		Message:              input.Message,
		Type:                 input.Type,
		RelatedApplicationID: input.RelatedApplicationID,
		CreateAt:             time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return err
	}

	if input.Email != "" {
		if err := s.sendMail([]string{input.Email}, input.Title, "<p>"+input.Message+"</p>"); err != nil {
			log.Printf("Warning: notification email to user %d failed: %v", input.UserID, err)
		}
	}
	return nil
}
