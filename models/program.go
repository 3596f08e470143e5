package models

import "time"

// Program represents a formation (course of study) offered by the school.
type Program struct {
	ProgramID     int        `gorm:"primaryKey;column:program_id" json:"program_id"`
	ProgramName   string     `gorm:"column:program_name" json:"program_name"`
	Code          string     `gorm:"column:code;unique" json:"code"`
	DurationYears int        `gorm:"column:duration_years" json:"duration_years"`
	IsFeeBased    bool       `gorm:"column:is_fee_based" json:"is_fee_based"`
	YearlyFee     float64    `gorm:"column:yearly_fee" json:"yearly_fee"`
	Status        string     `gorm:"column:status" json:"status"` // active|inactive
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Class is a year-grouped cohort within a program.
type Class struct {
	ClassID      int        `gorm:"primaryKey;column:class_id" json:"class_id"`
	ProgramID    int        `gorm:"column:program_id" json:"program_id"`
	YearNumber   int        `gorm:"column:year_number" json:"year_number"`
	Label        string     `gorm:"column:label" json:"label"`
	AcademicYear string     `gorm:"column:academic_year" json:"academic_year"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Program Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// Milestone is a named curricular checkpoint within a program year.
type Milestone struct {
	MilestoneID   int        `gorm:"primaryKey;column:milestone_id" json:"milestone_id"`
	ProgramID     int        `gorm:"column:program_id" json:"program_id"`
	YearNumber    int        `gorm:"column:year_number" json:"year_number"`
	MilestoneName string     `gorm:"column:milestone_name" json:"milestone_name"`
	MilestoneOrder int       `gorm:"column:milestone_order" json:"milestone_order"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Program Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// ClinicalSite is an external clinical placement location (CSCom-U).
type ClinicalSite struct {
	SiteID   int        `gorm:"primaryKey;column:site_id" json:"site_id"`
	SiteName string     `gorm:"column:site_name" json:"site_name"`
	District string     `gorm:"column:district" json:"district"`
	Capacity int        `gorm:"column:capacity" json:"capacity"`
	Status   string     `gorm:"column:status" json:"status"` // active|inactive
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Rotation places a student at a clinical site under a supervisor.
type Rotation struct {
	RotationID   int        `gorm:"primaryKey;column:rotation_id" json:"rotation_id"`
	StudentID    int        `gorm:"column:student_id" json:"student_id"`
	SiteID       int        `gorm:"column:site_id" json:"site_id"`
	SupervisorID *int       `gorm:"column:supervisor_id" json:"supervisor_id,omitempty"`
	StartDate    time.Time  `gorm:"column:start_date" json:"start_date"`
	EndDate      time.Time  `gorm:"column:end_date" json:"end_date"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Student    User         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Site       ClinicalSite `gorm:"foreignKey:SiteID;references:SiteID" json:"site,omitempty"`
	Supervisor *User        `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
}

// TableName overrides
func (Program) TableName() string {
	return "programs"
}

func (Class) TableName() string {
	return "classes"
}

func (Milestone) TableName() string {
	return "milestones"
}

func (ClinicalSite) TableName() string {
	return "clinical_sites"
}

func (Rotation) TableName() string {
	return "rotations"
}
