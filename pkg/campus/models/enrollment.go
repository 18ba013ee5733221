package models

import (
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus represents the lifecycle of an enrollment
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentWithdrawn EnrollmentStatus = "withdrawn"
)

// Enrollment places a member into a grade batch. It is a leaf record: nothing
// references an enrollment, so deletes take the plain path with no dependency
// counting.
type Enrollment struct {
	ID           string           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	InstituteID  string           `gorm:"not null;index" json:"institute_id"`
	MemberID     string           `gorm:"not null;index" json:"member_id"`
	GradeBatchID string           `gorm:"not null;index" json:"grade_batch_id"`
	Status       EnrollmentStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	EnrolledAt   time.Time        `json:"enrolled_at"`
	Archive      bool             `gorm:"default:false" json:"archive"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now()
	}
	return nil
}
