package models

import "time"

// Application file statuses.
const (
	ApplicationStatusSubmitted  = "submitted"
	ApplicationStatusIncomplete = "incomplete"
	ApplicationStatusVerified   = "verified"
	ApplicationStatusRejected   = "rejected"
)

// Admission decision values.
const (
	DecisionPending    = "pending"
	DecisionAdmitted   = "admitted"
	DecisionWaitlisted = "waitlisted"
	DecisionRejected   = "rejected"
)

// Uploaded document validation statuses.
const (
	DocumentPending   = "pending"
	DocumentValidated = "validated"
	DocumentRejected  = "rejected"
)

// Default pass threshold for written exams and interviews (score out of 20).
const DefaultPassThreshold = 10.0

// ApplicationFile is a candidate's request to join a program. Records are
// never hard-deleted; staff actions only move the status.
type ApplicationFile struct {
	ApplicationID     int        `gorm:"primaryKey;column:application_id" json:"application_id"`
	ApplicationNumber string     `gorm:"column:application_number;unique" json:"application_number"`
	ApplicantID       int        `gorm:"column:applicant_id" json:"applicant_id"`
	ProgramID         int        `gorm:"column:program_id" json:"program_id"`
	Status            string     `gorm:"column:status" json:"status"`
	Notes             string     `gorm:"column:notes" json:"notes"`
	SubmittedAt       *time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	CreateAt          *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt          *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Applicant User    `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Program   Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// RequiredDocument is one entry of a program's admission checklist.
type RequiredDocument struct {
	RequiredDocumentID int        `gorm:"primaryKey;column:required_document_id" json:"required_document_id"`
	ProgramID          int        `gorm:"column:program_id" json:"program_id"`
	DocumentName       string     `gorm:"column:document_name" json:"document_name"`
	Code               string     `gorm:"column:code" json:"code"`
	Mandatory          bool       `gorm:"column:mandatory" json:"mandatory"`
	DocumentOrder      int        `gorm:"column:document_order" json:"document_order"`
	CreateAt           *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt           *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt           *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// UploadedDocument is a candidate's submission against a checklist entry.
type UploadedDocument struct {
	UploadedDocumentID int        `gorm:"primaryKey;column:uploaded_document_id" json:"uploaded_document_id"`
	ApplicationID      int        `gorm:"column:application_id" json:"application_id"`
	RequiredDocumentID int        `gorm:"column:required_document_id" json:"required_document_id"`
	OriginalName       string     `gorm:"column:original_name" json:"original_name"`
	StoredPath         string     `gorm:"column:stored_path" json:"stored_path"`
	MimeType           string     `gorm:"column:mime_type" json:"mime_type"`
	FileSize           int64      `gorm:"column:file_size" json:"file_size"`
	Status             string     `gorm:"column:status" json:"status"`
	ReviewedBy         *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreateAt           *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt           *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt           *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Application      ApplicationFile  `gorm:"foreignKey:ApplicationID;references:ApplicationID" json:"application,omitempty"`
	RequiredDocument RequiredDocument `gorm:"foreignKey:RequiredDocumentID;references:RequiredDocumentID" json:"required_document,omitempty"`
}

// WrittenExam is the probationary written exam, one per application.
type WrittenExam struct {
	ExamID        int        `gorm:"primaryKey;column:exam_id" json:"exam_id"`
	ApplicationID int        `gorm:"column:application_id;unique" json:"application_id"`
	Score         *float64   `gorm:"column:score" json:"score,omitempty"`
	PassThreshold float64    `gorm:"column:pass_threshold" json:"pass_threshold"`
	HeldAt        *time.Time `gorm:"column:held_at" json:"held_at,omitempty"`
	ExaminerID    *int       `gorm:"column:examiner_id" json:"examiner_id,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Application ApplicationFile `gorm:"foreignKey:ApplicationID;references:ApplicationID" json:"application,omitempty"`
}

// Interview is the individual interview, one per application.
type Interview struct {
	InterviewID   int        `gorm:"primaryKey;column:interview_id" json:"interview_id"`
	ApplicationID int        `gorm:"column:application_id;unique" json:"application_id"`
	Score         *float64   `gorm:"column:score" json:"score,omitempty"`
	PassThreshold float64    `gorm:"column:pass_threshold" json:"pass_threshold"`
	HeldAt        *time.Time `gorm:"column:held_at" json:"held_at,omitempty"`
	ExaminerID    *int       `gorm:"column:examiner_id" json:"examiner_id,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Application ApplicationFile `gorm:"foreignKey:ApplicationID;references:ApplicationID" json:"application,omitempty"`
}

// AdmissionDecision is the final outcome of the admission workflow. The
// Notified flag keeps the admission email idempotent across re-saves.
type AdmissionDecision struct {
	DecisionID    int        `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	ApplicationID int        `gorm:"column:application_id;unique" json:"application_id"`
	Decision      string     `gorm:"column:decision" json:"decision"`
	FinalScore    *float64   `gorm:"column:final_score" json:"final_score,omitempty"`
	Notified      bool       `gorm:"column:notified" json:"notified"`
	DecidedBy     *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt     *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	Comment       string     `gorm:"column:comment" json:"comment"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Application ApplicationFile `gorm:"foreignKey:ApplicationID;references:ApplicationID" json:"application,omitempty"`
}

// AdmissionStatusHistory tracks status changes on application files and
// decisions.
type AdmissionStatusHistory struct {
	HistoryID     int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	ApplicationID int       `gorm:"column:application_id" json:"application_id"`
	OldStatus     *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus     string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy     int       `gorm:"column:changed_by" json:"changed_by"`
	Reason        *string   `gorm:"column:reason" json:"reason"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (ApplicationFile) TableName() string {
	return "application_files"
}

func (RequiredDocument) TableName() string {
	return "required_documents"
}

func (UploadedDocument) TableName() string {
	return "uploaded_documents"
}

func (WrittenExam) TableName() string {
	return "written_exams"
}

func (Interview) TableName() string {
	return "interviews"
}

func (AdmissionDecision) TableName() string {
	return "admission_decisions"
}

func (AdmissionStatusHistory) TableName() string {
	return "admission_status_history"
}

// Passed reports whether the exam was scored at or above its threshold.
func (e *WrittenExam) Passed() bool {
	return e.Score != nil && *e.Score >= e.PassThreshold
}

// Passed reports whether the interview was scored at or above its threshold.
func (i *Interview) Passed() bool {
	return i.Score != nil && *i.Score >= i.PassThreshold
}
