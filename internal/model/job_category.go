package model

import (
	"time"

	"gorm.io/gorm"
)

type JobCategory struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Code     string `json:"code" gorm:"not null;uniqueIndex"` // "field_tech", "csr", ...
	Title    string `json:"title" gorm:"not null"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	Questions []InterviewQuestion `json:"questions,omitempty" gorm:"foreignKey:CategoryID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
