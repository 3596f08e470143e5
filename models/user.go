package models

import (
	"time"
)

// Role IDs as seeded in the roles table.
const (
	RoleStudent      = 1
	RoleTeacher      = 2
	RoleCoordination = 3
	RoleSupervisor   = 4
)

type User struct {
	UserID        int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname     string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname     string     `gorm:"column:user_lname" json:"user_lname"`
	Gender        string     `gorm:"column:gender" json:"gender"`
	Email         string     `gorm:"column:email;unique" json:"email"`
	Password      string     `gorm:"column:password" json:"-"`
	RoleID        int        `gorm:"column:role_id" json:"role_id"`
	Phone         *string    `gorm:"column:phone" json:"phone,omitempty"`
	ClassLabel    *string    `gorm:"column:class_label" json:"class_label,omitempty"`
	StudentNumber *string    `gorm:"column:student_number" json:"student_number,omitempty"`
	IsActive      bool       `gorm:"column:is_active" json:"is_active"`
	EmailVerified bool       `gorm:"column:email_verified" json:"email_verified"`
	PhoneVerified bool       `gorm:"column:phone_verified" json:"phone_verified"`
	TwoFAEnabled  bool       `gorm:"column:twofa_enabled" json:"twofa_enabled"`
	IsMed6        bool       `gorm:"column:is_med6" json:"is_med6"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// VerificationCode is a short-lived single-use code sent by email or SMS.
// Purpose is one of: email, sms, twofa.
type VerificationCode struct {
	CodeID    int        `gorm:"primaryKey;column:code_id" json:"code_id"`
	UserID    int        `gorm:"column:user_id" json:"user_id"`
	Code      string     `gorm:"column:code" json:"-"`
	Purpose   string     `gorm:"column:purpose" json:"purpose"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	Consumed  bool       `gorm:"column:consumed" json:"consumed"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"-"`
}

// UserToken stores refresh and password-reset tokens.
type UserToken struct {
	TokenID   int        `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    int        `gorm:"column:user_id" json:"user_id"`
	TokenHash string     `gorm:"column:token_hash" json:"-"`
	TokenType string     `gorm:"column:token_type" json:"token_type"` // refresh|password_reset
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked bool       `gorm:"column:is_revoked" json:"is_revoked"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"-"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

func (UserToken) TableName() string {
	return "user_tokens"
}

// FullName returns the display name used in notifications.
func (u *User) FullName() string {
	return u.UserFname + " " + u.UserLname
}
