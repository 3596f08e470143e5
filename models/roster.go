package models

import "time"

// RosterGraceDays is the window after the roster close date during which an
// identity match is still honored.
const RosterGraceDays = 90

// RosterEntry is one line of the Med6 free-access allowlist. The normalized
// columns hold the case/accent-folded values used for matching.
type RosterEntry struct {
	EntryID         int        `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	StudentNumber   string     `gorm:"column:student_number" json:"student_number"`
	FirstName       string     `gorm:"column:first_name" json:"first_name"`
	LastName        string     `gorm:"column:last_name" json:"last_name"`
	NormalizedFirst string     `gorm:"column:normalized_first" json:"-"`
	NormalizedLast  string     `gorm:"column:normalized_last" json:"-"`
	RosterCloseDate time.Time  `gorm:"column:roster_close_date" json:"roster_close_date"`
	Active          bool       `gorm:"column:active" json:"active"`
	MatchedUserID   *int       `gorm:"column:matched_user_id" json:"matched_user_id,omitempty"`
	ImportRunID     *int       `gorm:"column:import_run_id" json:"import_run_id,omitempty"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// RosterImportRun records one roster spreadsheet ingestion.
type RosterImportRun struct {
	RunID         int        `gorm:"primaryKey;column:run_id" json:"run_id"`
	FileName      string     `gorm:"column:file_name" json:"file_name"`
	StoredPath    string     `gorm:"column:stored_path" json:"stored_path"`
	RowsTotal     int        `gorm:"column:rows_total" json:"rows_total"`
	RowsImported  int        `gorm:"column:rows_imported" json:"rows_imported"`
	RowsSkipped   int        `gorm:"column:rows_skipped" json:"rows_skipped"`
	ErrorSummary  *string    `gorm:"column:error_summary" json:"error_summary,omitempty"`
	TriggeredBy   *int       `gorm:"column:triggered_by" json:"triggered_by,omitempty"`
	TriggerSource string     `gorm:"column:trigger_source" json:"trigger_source"` // admin|cli
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"-"`
}

// TableName overrides
func (RosterEntry) TableName() string {
	return "roster_entries"
}

func (RosterImportRun) TableName() string {
	return "roster_import_runs"
}

// WithinGracePeriod reports whether the grant window is still open at now.
func (r *RosterEntry) WithinGracePeriod(now time.Time) bool {
	return !now.After(r.RosterCloseDate.AddDate(0, 0, RosterGraceDays))
}
