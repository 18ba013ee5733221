package models

import (
	"time"

	"gorm.io/gorm"
)

// GradeBatch is a section of a grade for one academic year
// (e.g. "Grade 10 - A, 2026/27"). Enrollments attach members to batches.
type GradeBatch struct {
	ID           string    `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	InstituteID  string    `gorm:"not null;index" json:"institute_id"`
	GradeID      string    `gorm:"not null;index" json:"grade_id"`
	Name         string    `gorm:"not null" json:"name"`
	AcademicYear string    `gorm:"index" json:"academic_year"` // e.g. "2026/27"
	Capacity     int       `json:"capacity"`
	Archive      bool      `gorm:"default:false" json:"archive"`
}

func (b *GradeBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = newID()
	}
	return nil
}
