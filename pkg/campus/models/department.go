package models

import (
	"time"

	"gorm.io/gorm"
)

// Department groups members and grades within an institute.
type Department struct {
	ID          string    `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	InstituteID string    `gorm:"not null;index" json:"institute_id"`
	Name        string    `gorm:"not null" json:"name"`
	Code        string    `gorm:"index" json:"code"`
	Archive     bool      `gorm:"default:false" json:"archive"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = newID()
	}
	return nil
}
