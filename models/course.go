package models

import "time"

// Course belongs to a program year; Med6 free-access courses carry the
// FreeAccess flag.
type Course struct {
	CourseID    int        `gorm:"primaryKey;column:course_id" json:"course_id"`
	ProgramID   int        `gorm:"column:program_id" json:"program_id"`
	YearNumber  int        `gorm:"column:year_number" json:"year_number"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	TeacherID   *int       `gorm:"column:teacher_id" json:"teacher_id,omitempty"`
	CourseOrder int        `gorm:"column:course_order" json:"course_order"`
	FreeAccess  bool       `gorm:"column:free_access" json:"free_access"`
	Status      string     `gorm:"column:status" json:"status"` // active|inactive
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Program Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
	Teacher *User   `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

type Lesson struct {
	LessonID    int        `gorm:"primaryKey;column:lesson_id" json:"lesson_id"`
	CourseID    int        `gorm:"column:course_id" json:"course_id"`
	Title       string     `gorm:"column:title" json:"title"`
	ContentPath *string    `gorm:"column:content_path" json:"content_path,omitempty"`
	LessonOrder int        `gorm:"column:lesson_order" json:"lesson_order"`
	Published   bool       `gorm:"column:published" json:"published"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Course Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

// StudentProgress tracks lesson completion per student.
type StudentProgress struct {
	ProgressID  int        `gorm:"primaryKey;column:progress_id" json:"progress_id"`
	StudentID   int        `gorm:"column:student_id" json:"student_id"`
	LessonID    int        `gorm:"column:lesson_id" json:"lesson_id"`
	Completed   bool       `gorm:"column:completed" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Student User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Lesson  Lesson `gorm:"foreignKey:LessonID;references:LessonID" json:"lesson,omitempty"`
}

// TableName overrides
func (Course) TableName() string {
	return "courses"
}

func (Lesson) TableName() string {
	return "lessons"
}

func (StudentProgress) TableName() string {
	return "student_progress"
}
