package services

import (
	"residency-management-api/models"

	"gorm.io/gorm"
)

// ChecklistService evaluates an application's document checklist.
type ChecklistService struct {
	db *gorm.DB
}

func NewChecklistService(db *gorm.DB) *ChecklistService {
	return &ChecklistService{db: db}
}

// ChecklistResult reports completeness and the codes still missing a
// validated upload.
type ChecklistResult struct {
	Complete     bool     `json:"complete"`
	MissingCodes []string `json:"missing_codes"`
}

// Evaluate checks that every mandatory required document of the application's
// program has a validated upload.
func (s *ChecklistService) Evaluate(applicationID int) (*ChecklistResult, error) {
	var application models.ApplicationFile
	if err := s.db.Where("application_id = ?", applicationID).First(&application).Error; err != nil {
		return nil, err
	}

	var required []models.RequiredDocument
	if err := s.db.Where("program_id = ? AND mandatory = ? AND delete_at IS NULL",
		application.ProgramID, true).
		Order("document_order ASC").
		Find(&required).Error; err != nil {
		return nil, err
	}

	var uploads []models.UploadedDocument
	if err := s.db.Where("application_id = ? AND status = ? AND delete_at IS NULL",
		applicationID, models.DocumentValidated).
		Find(&uploads).Error; err != nil {
		return nil, err
	}

	validated := make(map[int]bool, len(uploads))
	for _, upload := range uploads {
		validated[upload.RequiredDocumentID] = true
	}

	result := &ChecklistResult{Complete: true, MissingCodes: []string{}}
	for _, req := range required {
		if !validated[req.RequiredDocumentID] {
			result.Complete = false
			result.MissingCodes = append(result.MissingCodes, req.Code)
		}
	}
	return result, nil
}
