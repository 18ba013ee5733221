package models

import (
	"time"

	"gorm.io/gorm"
)

// Grade is an academic year level (e.g. "Grade 10") within an institute,
// optionally owned by a department.
type Grade struct {
	ID           string    `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	InstituteID  string    `gorm:"not null;index" json:"institute_id"`
	DepartmentID string    `gorm:"index" json:"department_id"`
	Name         string    `gorm:"not null" json:"name"`
	Level        int       `json:"level"` // Numeric ordering for display, lower first
	Archive      bool      `gorm:"default:false" json:"archive"`
}

func (g *Grade) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = newID()
	}
	return nil
}
