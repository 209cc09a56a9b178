package repository

import (
	"github.com/hirelens/hirelens/internal/model"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(entry *model.InterviewAuditLog) error
	FindAllByInterview(interviewID uint) ([]model.InterviewAuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(entry *model.InterviewAuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditLogRepository) FindAllByInterview(interviewID uint) ([]model.InterviewAuditLog, error) {
	var entries []model.InterviewAuditLog
	err := r.db.
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
