package services

import (
	"fmt"
	"time"

	"residency-management-api/models"

	"gorm.io/gorm"
)

// EnrollmentService derives and persists enrollment statuses.
type EnrollmentService struct {
	db *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// ComputeEnrollmentStatus derives the status from the validation booleans and
// the program's fee category. Fee-exempt programs never wait on payment.
func ComputeEnrollmentStatus(coordinationValidated, deanValidated, paymentValidated, feeBased bool) string {
	switch {
	case coordinationValidated && deanValidated:
		if !feeBased || paymentValidated {
			return models.EnrollmentComplete
		}
		return models.EnrollmentAwaitingPayment
	case coordinationValidated:
		return models.EnrollmentCoordinationApproved
	case deanValidated:
		return models.EnrollmentDeanApproved
	default:
		return models.EnrollmentPending
	}
}

// Save recomputes the derived status and persists the enrollment. The stored
// status is a convenience for listings; ComputeEnrollmentStatus stays the
// source of truth.
func (s *EnrollmentService) Save(enrollment *models.Enrollment, feeBased bool) error {
	now := time.Now()
	enrollment.Status = ComputeEnrollmentStatus(
		enrollment.CoordinationValidated,
		enrollment.DeanValidated,
		enrollment.PaymentValidated,
		feeBased,
	)
	enrollment.UpdateAt = &now
	if enrollment.CreateAt == nil {
		enrollment.CreateAt = &now
	}

	if err := s.db.Save(enrollment).Error; err != nil {
		return fmt.Errorf("failed to save enrollment: %w", err)
	}
	return nil
}

// SaveByID loads the enrollment and its program, applies a mutation and
// persists with the freshly derived status.
func (s *EnrollmentService) SaveByID(enrollmentID int, mutate func(*models.Enrollment)) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.db.Preload("Program").
		Where("enrollment_id = ?", enrollmentID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}

	mutate(&enrollment)

	if err := s.Save(&enrollment, enrollment.Program.IsFeeBased); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
