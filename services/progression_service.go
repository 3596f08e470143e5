package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"residency-management-api/models"

	"gorm.io/gorm"
)

// ProgressionService handles yearly payment validation and year advancement.
type ProgressionService struct {
	db *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{db: db}
}

// ErrPaymentAlreadyOnFile reports that a submitted or validated payment
// already exists for the same student, program and year.
var ErrPaymentAlreadyOnFile = errors.New("a payment for this year is already on file")

// Submit records a tuition payment in the submitted state. A payment already
// submitted or validated for the same year blocks the duplicate.
func (s *ProgressionService) Submit(payment *models.YearlyPayment) error {
	var existing models.YearlyPayment
	err := s.db.Where("student_id = ? AND program_id = ? AND year_number = ? AND status IN ?",
		payment.StudentID, payment.ProgramID, payment.YearNumber,
		[]string{models.PaymentSubmitted, models.PaymentValidated}).
		First(&existing).Error
	if err == nil {
		return ErrPaymentAlreadyOnFile
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing payments: %w", err)
	}

	now := time.Now()
	payment.Status = models.PaymentSubmitted
	payment.CreateAt = &now
	payment.UpdateAt = &now
	if err := s.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	return nil
}

// CanAdvance checks the three progression gates: payment validated, prior
// year admitted, and all prior-year pedagogical flags set.
func CanAdvance(paymentStatus string, priorOutcome *models.YearlyOutcome) bool {
	if paymentStatus != models.PaymentValidated {
		return false
	}
	if priorOutcome == nil || priorOutcome.Outcome != models.OutcomeAdmitted {
		return false
	}
	return priorOutcome.PedagogicalComplete()
}

// ValidatePayment marks a yearly payment as validated. Year advancement runs
// only on the transition into validated, not on re-saves of an already
// validated record.
func (s *ProgressionService) ValidatePayment(paymentID, validatedBy int) (*models.YearlyPayment, error) {
	var payment models.YearlyPayment
	if err := s.db.Preload("Program").
		Where("payment_id = ?", paymentID).
		First(&payment).Error; err != nil {
		return nil, err
	}

	wasValidated := payment.Status == models.PaymentValidated

	now := time.Now()
	payment.Status = models.PaymentValidated
	payment.ValidatedBy = &validatedBy
	payment.ValidatedAt = &now
	payment.UpdateAt = &now

	if err := s.db.Save(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to validate payment: %w", err)
	}

	if !wasValidated {
		advanced, err := s.AdvanceToNextYear(&payment)
		if err != nil {
			// Advancement is best-effort; the validated payment stands and
			// staff can re-run the step.
			log.Printf("Warning: year advancement after payment %d failed: %v", payment.PaymentID, err)
		} else if !advanced {
			log.Printf("Payment %d validated but student %d does not meet the progression gates for year %d",
				payment.PaymentID, payment.StudentID, payment.YearNumber)
		}
	}

	return &payment, nil
}

// AdvanceToNextYear moves the student into the payment's target year when all
// gates hold: the payment is validated, the prior year's outcome is admitted
// and its pedagogical flags are all set. It creates (or finds) the target
// year's outcome row and updates the student's class label when a matching
// cohort exists. Returns false without error when a gate fails.
func (s *ProgressionService) AdvanceToNextYear(payment *models.YearlyPayment) (bool, error) {
	priorYear := payment.YearNumber - 1

	var prior models.YearlyOutcome
	err := s.db.Where("student_id = ? AND program_id = ? AND year_number = ?",
		payment.StudentID, payment.ProgramID, priorYear).
		First(&prior).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !CanAdvance(payment.Status, &prior) {
		return false, nil
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var outcome models.YearlyOutcome
		findErr := tx.Where("student_id = ? AND program_id = ? AND year_number = ?",
			payment.StudentID, payment.ProgramID, payment.YearNumber).
			First(&outcome).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			outcome = models.YearlyOutcome{
				StudentID:  payment.StudentID,
				ProgramID:  payment.ProgramID,
				YearNumber: payment.YearNumber,
				Outcome:    models.OutcomeInProgress,
				CreateAt:   &now,
				UpdateAt:   &now,
			}
			if createErr := tx.Create(&outcome).Error; createErr != nil {
				return fmt.Errorf("failed to create yearly outcome: %w", createErr)
			}
		} else if findErr != nil {
			return findErr
		}

		var class models.Class
		classErr := tx.Where("program_id = ? AND year_number = ? AND delete_at IS NULL",
			payment.ProgramID, payment.YearNumber).
			First(&class).Error
		if classErr == nil {
			if updErr := tx.Model(&models.User{}).
				Where("user_id = ?", payment.StudentID).
				Updates(map[string]interface{}{"class_label": class.Label, "update_at": now}).Error; updErr != nil {
				return fmt.Errorf("failed to update class label: %w", updErr)
			}
		} else if !errors.Is(classErr, gorm.ErrRecordNotFound) {
			return classErr
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
