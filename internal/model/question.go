package model

import (
	"time"

	"gorm.io/gorm"
)

// Question type codes. Selection only ever draws from the "general" pool.
const QuestionTypeGeneral = "general"

type InterviewQuestion struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	CategoryID   uint        `json:"category_id" gorm:"not null;index"`
	Category     JobCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	QuestionText string      `json:"question_text" gorm:"type:text;not null"`
	Competency   string      `json:"competency" gorm:"not null;index"`
	QuestionType string      `json:"question_type" gorm:"not null;default:'general'"`
	Order        int         `json:"order" gorm:"not null;default:0"`
	IsActive     bool        `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
