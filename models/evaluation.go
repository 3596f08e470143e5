package models

import "time"

// EvaluationGrid is a scored rubric bound to a course.
type EvaluationGrid struct {
	GridID   int        `gorm:"primaryKey;column:grid_id" json:"grid_id"`
	CourseID int        `gorm:"column:course_id" json:"course_id"`
	Title    string     `gorm:"column:title" json:"title"`
	Status   string     `gorm:"column:status" json:"status"` // active|inactive
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Course   Course                `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
	Criteria []EvaluationCriterion `gorm:"foreignKey:GridID" json:"criteria,omitempty"`
}

type EvaluationCriterion struct {
	CriterionID    int        `gorm:"primaryKey;column:criterion_id" json:"criterion_id"`
	GridID         int        `gorm:"column:grid_id" json:"grid_id"`
	Label          string     `gorm:"column:label" json:"label"`
	MaxPoints      float64    `gorm:"column:max_points" json:"max_points"`
	CriterionOrder int        `gorm:"column:criterion_order" json:"criterion_order"`
	CreateAt       *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// EvaluationRecord is one filled grid for one student.
type EvaluationRecord struct {
	RecordID    int        `gorm:"primaryKey;column:record_id" json:"record_id"`
	GridID      int        `gorm:"column:grid_id" json:"grid_id"`
	StudentID   int        `gorm:"column:student_id" json:"student_id"`
	EvaluatorID int        `gorm:"column:evaluator_id" json:"evaluator_id"`
	Total       float64    `gorm:"column:total" json:"total"`
	Comment     string     `gorm:"column:comment" json:"comment"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Grid      EvaluationGrid    `gorm:"foreignKey:GridID;references:GridID" json:"grid,omitempty"`
	Student   User              `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Evaluator User              `gorm:"foreignKey:EvaluatorID" json:"evaluator,omitempty"`
	Scores    []EvaluationScore `gorm:"foreignKey:RecordID" json:"scores,omitempty"`
}

type EvaluationScore struct {
	ScoreID     int     `gorm:"primaryKey;column:score_id" json:"score_id"`
	RecordID    int     `gorm:"column:record_id" json:"record_id"`
	CriterionID int     `gorm:"column:criterion_id" json:"criterion_id"`
	Points      float64 `gorm:"column:points" json:"points"`

	// Relations
	Criterion EvaluationCriterion `gorm:"foreignKey:CriterionID;references:CriterionID" json:"criterion,omitempty"`
}

// TableName overrides
func (EvaluationGrid) TableName() string {
	return "evaluation_grids"
}

func (EvaluationCriterion) TableName() string {
	return "evaluation_criteria"
}

func (EvaluationRecord) TableName() string {
	return "evaluation_records"
}

func (EvaluationScore) TableName() string {
	return "evaluation_scores"
}
