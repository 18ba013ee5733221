package models

import (
	"time"

	"gorm.io/gorm"
)

// Subject is a course taught at a grade level.
type Subject struct {
	ID          string    `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	InstituteID string    `gorm:"not null;index" json:"institute_id"`
	GradeID     string    `gorm:"index" json:"grade_id"`
	Name        string    `gorm:"not null" json:"name"`
	Code        string    `gorm:"index" json:"code"`
	Credits     int       `json:"credits"`
	Archive     bool      `gorm:"default:false" json:"archive"`
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	return nil
}
