package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"residency-management-api/config"
	"residency-management-api/models"
	"residency-management-api/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdmissionService owns the decision step of the admission workflow: final
// score derivation, account provisioning and the one-shot admission email.
type AdmissionService struct {
	db       *gorm.DB
	sendMail func(to []string, subject, html string) error
}

func NewAdmissionService(db *gorm.DB) *AdmissionService {
	return &AdmissionService{db: db, sendMail: config.SendMail}
}

// FinalScore is the arithmetic mean of whichever of {exam, interview} scores
// exist. Nil when neither is available.
func FinalScore(examScore, interviewScore *float64) *float64 {
	switch {
	case examScore != nil && interviewScore != nil:
		mean := (*examScore + *interviewScore) / 2
		return &mean
	case examScore != nil:
		v := *examScore
		return &v
	case interviewScore != nil:
		v := *interviewScore
		return &v
	default:
		return nil
	}
}

// DecideInput carries one staff decision action.
type DecideInput struct {
	ApplicationID int
	Decision      string
	Comment       string
	DecidedBy     int
}

// Decide records the admission decision for an application, recomputing the
// final score from the existing exam and interview rows. A transition into
// "admitted" ensures the applicant has a usable account and sends the
// admission email at most once; a failed send leaves the notified flag unset
// so staff can resend later.
func (s *AdmissionService) Decide(input DecideInput) (*models.AdmissionDecision, error) {
	switch input.Decision {
	case models.DecisionPending, models.DecisionAdmitted, models.DecisionWaitlisted, models.DecisionRejected:
	default:
		return nil, fmt.Errorf("unknown decision %q", input.Decision)
	}

	var application models.ApplicationFile
	if err := s.db.Preload("Applicant").Preload("Program").
		Where("application_id = ?", input.ApplicationID).
		First(&application).Error; err != nil {
		return nil, err
	}

	var exam models.WrittenExam
	var examScore *float64
	if err := s.db.Where("application_id = ?", input.ApplicationID).First(&exam).Error; err == nil {
		examScore = exam.Score
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var interview models.Interview
	var interviewScore *float64
	if err := s.db.Where("application_id = ?", input.ApplicationID).First(&interview).Error; err == nil {
		interviewScore = interview.Score
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()

	var decision models.AdmissionDecision
	err := s.db.Where("application_id = ?", input.ApplicationID).First(&decision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		decision = models.AdmissionDecision{
			ApplicationID: input.ApplicationID,
			Decision:      models.DecisionPending,
			CreateAt:      &now,
		}
	} else if err != nil {
		return nil, err
	}

	oldDecision := decision.Decision
	decision.Decision = input.Decision
	decision.FinalScore = FinalScore(examScore, interviewScore)
	decision.Comment = input.Comment
	decision.DecidedBy = &input.DecidedBy
	decision.DecidedAt = &now
	decision.UpdateAt = &now

	becameAdmitted := input.Decision == models.DecisionAdmitted && oldDecision != models.DecisionAdmitted

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&decision).Error; err != nil {
			return fmt.Errorf("failed to save decision: %w", err)
		}

		history := models.AdmissionStatusHistory{
			ApplicationID: input.ApplicationID,
			OldStatus:     &oldDecision,
			NewStatus:     input.Decision,
			ChangedBy:     input.DecidedBy,
			CreatedAt:     now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		if becameAdmitted {
			if err := s.ensureStudentAccount(tx, &application, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The admission email is sent outside the transaction, guarded by the
	// notified flag. A failure is logged and leaves the flag unset.
	if becameAdmitted && !decision.Notified {
		s.notifyAdmitted(&decision, &application)
	}

	return &decision, nil
}

// ResendAdmissionEmail retries the admission notification for a decision whose
// flag is still unset.
func (s *AdmissionService) ResendAdmissionEmail(applicationID int) error {
	var decision models.AdmissionDecision
	if err := s.db.Preload("Application").Preload("Application.Applicant").Preload("Application.Program").
		Where("application_id = ?", applicationID).
		First(&decision).Error; err != nil {
		return err
	}
	if decision.Decision != models.DecisionAdmitted {
		return fmt.Errorf("application %d is not admitted", applicationID)
	}
	if decision.Notified {
		return nil
	}

	s.notifyAdmitted(&decision, &decision.Application)
	if !decision.Notified {
		return fmt.Errorf("admission email could not be sent")
	}
	return nil
}

func (s *AdmissionService) notifyAdmitted(decision *models.AdmissionDecision, application *models.ApplicationFile) {
	subject := fmt.Sprintf("Admission to %s", application.Program.ProgramName)
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>You have been admitted to the program <strong>%s</strong>. "+
			"Please log in to complete your enrollment.</p>",
		application.Applicant.FullName(), application.Program.ProgramName,
	)

	if err := s.sendMail([]string{application.Applicant.Email}, subject, body); err != nil {
		log.Printf("Warning: admission email for application %d failed: %v", application.ApplicationID, err)
		return
	}

	now := time.Now()
	decision.Notified = true
	decision.UpdateAt = &now
	if err := s.db.Model(&models.AdmissionDecision{}).
		Where("decision_id = ?", decision.DecisionID).
		Updates(map[string]interface{}{"notified": true, "update_at": now}).Error; err != nil {
		log.Printf("Warning: failed to persist notified flag for decision %d: %v", decision.DecisionID, err)
	}
}

// ensureStudentAccount activates the applicant's account as a student, or
// provisions one when the application was filed by staff on the candidate's
// behalf and no account exists yet.
func (s *AdmissionService) ensureStudentAccount(tx *gorm.DB, application *models.ApplicationFile, now time.Time) error {
	var user models.User
	err := tx.Where("user_id = ? AND delete_at IS NULL", application.ApplicantID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, hashErr := utils.HashPassword(uuid.NewString())
		if hashErr != nil {
			return fmt.Errorf("failed to provision account: %w", hashErr)
		}
		user = models.User{
			UserID:    application.ApplicantID,
			UserFname: application.Applicant.UserFname,
			UserLname: application.Applicant.UserLname,
			Email:     application.Applicant.Email,
			Password:  hashed,
			RoleID:    models.RoleStudent,
			IsActive:  true,
			CreateAt:  &now,
			UpdateAt:  &now,
		}
		return tx.Create(&user).Error
	}
	if err != nil {
		return err
	}

	return tx.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"role_id":   models.RoleStudent,
			"is_active": true,
			"update_at": now,
		}).Error
}
