package models

import (
	"time"

	"gorm.io/gorm"
)

// MemberRole represents a member's role within an institute
type MemberRole string

const (
	MemberRoleAdmin   MemberRole = "admin"
	MemberRoleTeacher MemberRole = "teacher"
	MemberRoleStudent MemberRole = "student"
	MemberRoleStaff   MemberRole = "staff"
)

// Member is any person attached to an institute: students, teachers, staff
// and administrators. Members with a password hash can authenticate.
type Member struct {
	ID           string     `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	InstituteID  string     `gorm:"index" json:"institute_id"`
	DepartmentID string     `gorm:"index" json:"department_id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string     `json:"phone"`
	Role         MemberRole `gorm:"type:varchar(20);default:'student'" json:"role"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Archive      bool       `gorm:"default:false" json:"archive"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = newID()
	}
	return nil
}
