package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"residency-management-api/models"
	"residency-management-api/utils"

	"gorm.io/gorm"
)

// Roster spreadsheet header aliases. The import detects columns by name so
// the faculty can hand over exports with varying header wording.
var (
	rosterIDHeaders    = []string{"student_number", "matricule", "id"}
	rosterFirstHeaders = []string{"first_name", "prenom", "prénom"}
	rosterLastHeaders  = []string{"last_name", "nom"}
)

// RosterService manages the Med6 free-access allowlist.
type RosterService struct {
	db *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{db: db}
}

// Identity is the normalized triple used for roster matching.
type Identity struct {
	StudentNumber string
	FirstName     string
	LastName      string
}

// Normalize folds the identity for matching.
func (id Identity) Normalize() Identity {
	return Identity{
		StudentNumber: utils.FoldIdentity(id.StudentNumber),
		FirstName:     utils.FoldIdentity(id.FirstName),
		LastName:      utils.FoldIdentity(id.LastName),
	}
}

// Match finds the roster entry whose normalized triple equals the given
// identity and whose grant window is still open. The active flag is tracked
// for display but never overrides the window (the roster closes for good 90
// days after its close date).
func (s *RosterService) Match(id Identity, now time.Time) (*models.RosterEntry, error) {
	normalized := id.Normalize()
	if normalized.StudentNumber == "" || normalized.FirstName == "" || normalized.LastName == "" {
		return nil, nil
	}

	var entries []models.RosterEntry
	if err := s.db.Where("student_number = ? AND delete_at IS NULL", normalized.StudentNumber).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	for i := range entries {
		entry := &entries[i]
		if entry.NormalizedFirst != normalized.FirstName || entry.NormalizedLast != normalized.LastName {
			continue
		}
		if !entry.WithinGracePeriod(now) {
			return nil, nil
		}
		return entry, nil
	}
	return nil, nil
}

// GrantFreeAccess applies the Med6 grant to a user: flags the account, links
// the roster entry, assigns the Med6 class label when one exists and creates
// progress rows for every published lesson of the free-access course set.
func (s *RosterService) GrantFreeAccess(user *models.User, entry *models.RosterEntry) error {
	now := time.Now()

	return s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"is_med6":   true,
			"update_at": now,
		}

		var class models.Class
		classErr := tx.Where("label LIKE ? AND delete_at IS NULL", "Med6%").
			Order("academic_year DESC").
			First(&class).Error
		if classErr == nil {
			updates["class_label"] = class.Label
		} else if !errors.Is(classErr, gorm.ErrRecordNotFound) {
			return classErr
		}

		if err := tx.Model(&models.User{}).
			Where("user_id = ?", user.UserID).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to flag med6 account: %w", err)
		}

		if err := tx.Model(&models.RosterEntry{}).
			Where("entry_id = ?", entry.EntryID).
			Updates(map[string]interface{}{"matched_user_id": user.UserID, "update_at": now}).Error; err != nil {
			return fmt.Errorf("failed to link roster entry: %w", err)
		}

		var lessons []models.Lesson
		if err := tx.Joins("JOIN courses ON courses.course_id = lessons.course_id").
			Where("courses.free_access = ? AND courses.delete_at IS NULL", true).
			Where("lessons.published = ? AND lessons.delete_at IS NULL", true).
			Find(&lessons).Error; err != nil {
			return err
		}

		for _, lesson := range lessons {
			var existing models.StudentProgress
			findErr := tx.Where("student_id = ? AND lesson_id = ?", user.UserID, lesson.LessonID).
				First(&existing).Error
			if findErr == nil {
				continue
			}
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			progress := models.StudentProgress{
				StudentID: user.UserID,
				LessonID:  lesson.LessonID,
				CreateAt:  &now,
				UpdateAt:  &now,
			}
			if err := tx.Create(&progress).Error; err != nil {
				return fmt.Errorf("failed to seed progress row: %w", err)
			}
		}
		return nil
	})
}

// ImportInput configures one roster spreadsheet ingestion.
type ImportInput struct {
	FilePath        string
	FileName        string
	RosterCloseDate time.Time
	TriggeredBy     *int
	TriggerSource   string
}

// Import reads a fixed-shape roster spreadsheet (ID, first name, last name;
// header row detected by name) and upserts roster entries. Rows missing any
// of the three fields are skipped and counted.
func (s *RosterService) Import(input ImportInput) (*models.RosterImportRun, error) {
	rows, err := utils.ReadXLSXRows(input.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	headerIdx, headers := detectRosterHeader(rows)
	if headers == nil {
		return nil, fmt.Errorf("roster header row not found (expected ID, first name and last name columns)")
	}

	now := time.Now()
	run := models.RosterImportRun{
		FileName:      input.FileName,
		StoredPath:    input.FilePath,
		TriggeredBy:   input.TriggeredBy,
		TriggerSource: input.TriggerSource,
		CreatedAt:     now,
	}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to record import run: %w", err)
	}

	var skippedRows []string
	for rowIdx := headerIdx + 1; rowIdx < len(rows); rowIdx++ {
		run.RowsTotal++
		rowData := utils.ReadRow(headers, rows[rowIdx])

		id := Identity{
			StudentNumber: firstValue(rowData, rosterIDHeaders),
			FirstName:     firstValue(rowData, rosterFirstHeaders),
			LastName:      firstValue(rowData, rosterLastHeaders),
		}
		normalized := id.Normalize()
		if normalized.StudentNumber == "" || normalized.FirstName == "" || normalized.LastName == "" {
			run.RowsSkipped++
			skippedRows = append(skippedRows, fmt.Sprintf("row %d: incomplete identity", rowIdx+1))
			continue
		}

		entry := models.RosterEntry{
			StudentNumber:   normalized.StudentNumber,
			FirstName:       strings.TrimSpace(id.FirstName),
			LastName:        strings.TrimSpace(id.LastName),
			NormalizedFirst: normalized.FirstName,
			NormalizedLast:  normalized.LastName,
			RosterCloseDate: input.RosterCloseDate,
			Active:          true,
			ImportRunID:     &run.RunID,
			CreateAt:        &now,
			UpdateAt:        &now,
		}

		var existing models.RosterEntry
		findErr := s.db.Where("student_number = ? AND normalized_first = ? AND normalized_last = ? AND delete_at IS NULL",
			normalized.StudentNumber, normalized.FirstName, normalized.LastName).
			First(&existing).Error
		if findErr == nil {
			if err := s.db.Model(&models.RosterEntry{}).
				Where("entry_id = ?", existing.EntryID).
				Updates(map[string]interface{}{
					"roster_close_date": input.RosterCloseDate,
					"active":            true,
					"import_run_id":     run.RunID,
					"update_at":         now,
				}).Error; err != nil {
				run.RowsSkipped++
				skippedRows = append(skippedRows, fmt.Sprintf("row %d: %v", rowIdx+1, err))
				continue
			}
			run.RowsImported++
			continue
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			run.RowsSkipped++
			skippedRows = append(skippedRows, fmt.Sprintf("row %d: %v", rowIdx+1, findErr))
			continue
		}

		if err := s.db.Create(&entry).Error; err != nil {
			run.RowsSkipped++
			skippedRows = append(skippedRows, fmt.Sprintf("row %d: %v", rowIdx+1, err))
			continue
		}
		run.RowsImported++
	}

	if len(skippedRows) > 0 {
		summary := strings.Join(skippedRows, "; ")
		if len(summary) > 1000 {
			summary = summary[:1000]
		}
		run.ErrorSummary = &summary
	}
	run.UpdatedAt = &now

	if err := s.db.Save(&run).Error; err != nil {
		log.Printf("Warning: failed to update roster import run %d: %v", run.RunID, err)
	}

	return &run, nil
}

// detectRosterHeader scans the first few rows for one containing an ID, a
// first-name and a last-name column.
func detectRosterHeader(rows [][]string) (int, map[string]int) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		headers := utils.NormalizeHeaders(rows[i])
		if hasAny(headers, rosterIDHeaders) && hasAny(headers, rosterFirstHeaders) && hasAny(headers, rosterLastHeaders) {
			return i, headers
		}
	}
	return -1, nil
}

func hasAny(headers map[string]int, names []string) bool {
	for _, name := range names {
		if _, ok := headers[name]; ok {
			return true
		}
	}
	return false
}

func firstValue(rowData map[string]string, names []string) string {
	for _, name := range names {
		if v, ok := rowData[name]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
