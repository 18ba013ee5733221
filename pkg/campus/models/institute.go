package models

import (
	"time"

	"gorm.io/gorm"
)

// Institute is the top-level entity within a tenant database. Departments,
// grades, subjects, batches, members and enrollments all reference it.
// Deleting an institute goes through the dependency-cascade workflow; the
// archive flag is the soft alternative that hides it from default listings
// while leaving every dependent record intact.
type Institute struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"` // Short identifier, unique per tenant
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Archive   bool      `gorm:"default:false" json:"archive"`
}

func (i *Institute) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}
