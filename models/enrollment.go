package models

import "time"

// Enrollment statuses, derived from the validation booleans.
const (
	EnrollmentPending              = "pending"
	EnrollmentCoordinationApproved = "coordination validated"
	EnrollmentDeanApproved         = "dean validated"
	EnrollmentAwaitingPayment      = "awaiting payment"
	EnrollmentComplete             = "complete"
)

// Yearly payment statuses.
const (
	PaymentPending   = "pending"
	PaymentSubmitted = "submitted"
	PaymentValidated = "validated"
	PaymentRejected  = "rejected"
)

// Yearly outcome values.
const (
	OutcomeInProgress = "in_progress"
	OutcomeAdmitted   = "admitted"
	OutcomeRepeat     = "repeat"
	OutcomeExcluded   = "excluded"
)

// Enrollment is the administrative + payment validation record created once an
// application is admitted. Status is a pure function of the three booleans and
// the program's fee category; it is stored for listing but recomputed on every
// save.
type Enrollment struct {
	EnrollmentID          int        `gorm:"primaryKey;column:enrollment_id" json:"enrollment_id"`
	ApplicationID         int        `gorm:"column:application_id;unique" json:"application_id"`
	StudentID             int        `gorm:"column:student_id" json:"student_id"`
	ProgramID             int        `gorm:"column:program_id" json:"program_id"`
	CoordinationValidated bool       `gorm:"column:coordination_validated" json:"coordination_validated"`
	DeanValidated         bool       `gorm:"column:dean_validated" json:"dean_validated"`
	PaymentValidated      bool       `gorm:"column:payment_validated" json:"payment_validated"`
	ReceiptPath           *string    `gorm:"column:receipt_path" json:"receipt_path,omitempty"`
	Status                string     `gorm:"column:status" json:"status"`
	CreateAt              *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt              *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Application ApplicationFile `gorm:"foreignKey:ApplicationID;references:ApplicationID" json:"application,omitempty"`
	Student     User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Program     Program         `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// YearlyPayment gates advancement to academic years 2 through 4.
type YearlyPayment struct {
	PaymentID      int        `gorm:"primaryKey;column:payment_id" json:"payment_id"`
	StudentID      int        `gorm:"column:student_id" json:"student_id"`
	ProgramID      int        `gorm:"column:program_id" json:"program_id"`
	YearNumber     int        `gorm:"column:year_number" json:"year_number"`
	Amount         float64    `gorm:"column:amount" json:"amount"`
	Status         string     `gorm:"column:status" json:"status"`
	ReceiptPath    *string    `gorm:"column:receipt_path" json:"receipt_path,omitempty"`
	PriorOutcomeID *int       `gorm:"column:prior_outcome_id" json:"prior_outcome_id,omitempty"`
	ValidatedBy    *int       `gorm:"column:validated_by" json:"validated_by,omitempty"`
	ValidatedAt    *time.Time `gorm:"column:validated_at" json:"validated_at,omitempty"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Student      User           `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Program      Program        `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
	PriorOutcome *YearlyOutcome `gorm:"foreignKey:PriorOutcomeID" json:"prior_outcome,omitempty"`
}

// YearlyOutcome records a student's result for one academic year, with the
// pedagogical flags that gate progression.
type YearlyOutcome struct {
	OutcomeID      int        `gorm:"primaryKey;column:outcome_id" json:"outcome_id"`
	StudentID      int        `gorm:"column:student_id" json:"student_id"`
	ProgramID      int        `gorm:"column:program_id" json:"program_id"`
	YearNumber     int        `gorm:"column:year_number" json:"year_number"`
	Outcome        string     `gorm:"column:outcome" json:"outcome"`
	CourseworkDone bool       `gorm:"column:coursework_done" json:"coursework_done"`
	InternshipDone bool       `gorm:"column:internship_done" json:"internship_done"`
	AttendanceOK   bool       `gorm:"column:attendance_ok" json:"attendance_ok"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Student User    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Program Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// TableName overrides
func (Enrollment) TableName() string {
	return "enrollments"
}

func (YearlyPayment) TableName() string {
	return "yearly_payments"
}

func (YearlyOutcome) TableName() string {
	return "yearly_outcomes"
}

// PedagogicalComplete reports whether all three pedagogical flags are set.
func (o *YearlyOutcome) PedagogicalComplete() bool {
	return o.CourseworkDone && o.InternshipDone && o.AttendanceOK
}
