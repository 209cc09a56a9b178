package repository

import (
	"time"

	"github.com/hirelens/hirelens/internal/model"
	"gorm.io/gorm"
)

type ApplicantRepository interface {
	Create(applicant *model.Applicant) error
	FindByID(id uint) (*model.Applicant, error)
	Update(applicant *model.Applicant) error
	SetPhase2IssuedAt(id uint, issuedAt time.Time) error
	MarkInterviewCompleted(id uint) error
}

type applicantRepository struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

func (r *applicantRepository) Create(applicant *model.Applicant) error {
	return r.db.Create(applicant).Error
}

func (r *applicantRepository) FindByID(id uint) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := r.db.First(&applicant, id).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

func (r *applicantRepository) Update(applicant *model.Applicant) error {
	return r.db.Save(applicant).Error
}

func (r *applicantRepository) SetPhase2IssuedAt(id uint, issuedAt time.Time) error {
	return r.db.Model(&model.Applicant{}).Where("id = ?", id).
		Update("phase2_token_issued_at", issuedAt).Error
}

func (r *applicantRepository) MarkInterviewCompleted(id uint) error {
	return r.db.Model(&model.Applicant{}).Where("id = ?", id).
		Update("interview_completed", true).Error
}
