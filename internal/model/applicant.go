package model

import (
	"time"

	"gorm.io/gorm"
)

type Applicant struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name" gorm:"not null"`
	Email     string `json:"email" gorm:"not null;uniqueIndex"`
	Phone     string `json:"phone"`
	Status    string `json:"status" gorm:"default:'pending'"` // "pending", "in_review", "passed", "failed", "hired"

	InterviewCompleted bool `json:"interview_completed" gorm:"default:false"`

	// Latest phase2 issuance; any phase2 token whose issued_at claim does not
	// match this exact timestamp is superseded.
	Phase2TokenIssuedAt *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Applicant) FullName() string {
	return a.FirstName + " " + a.LastName
}
