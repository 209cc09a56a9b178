package repository

import (
	"github.com/hirelens/hirelens/internal/model"
	"gorm.io/gorm"
)

type VideoResponseRepository interface {
	Create(response *model.VideoResponse) error
	Update(response *model.VideoResponse) error
	FindByInterviewAndQuestion(interviewID, questionID uint) (*model.VideoResponse, error)
	FindAllByInterview(interviewID uint) ([]model.VideoResponse, error)
	CountByInterview(interviewID uint) (int64, error)
	CountByInterviewAndStatus(interviewID uint, status string) (int64, error)
}

type videoResponseRepository struct {
	db *gorm.DB
}

func NewVideoResponseRepository(db *gorm.DB) VideoResponseRepository {
	return &videoResponseRepository{db: db}
}

func (r *videoResponseRepository) Create(response *model.VideoResponse) error {
	return r.db.Create(response).Error
}

func (r *videoResponseRepository) Update(response *model.VideoResponse) error {
	return r.db.Save(response).Error
}

func (r *videoResponseRepository) FindByInterviewAndQuestion(interviewID, questionID uint) (*model.VideoResponse, error) {
	var response model.VideoResponse
	err := r.db.
		Where("interview_id = ? AND question_id = ?", interviewID, questionID).
		First(&response).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *videoResponseRepository) FindAllByInterview(interviewID uint) ([]model.VideoResponse, error) {
	var responses []model.VideoResponse
	err := r.db.
		Preload("Question").
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *videoResponseRepository) CountByInterview(interviewID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.VideoResponse{}).
		Where("interview_id = ?", interviewID).
		Count(&count).Error
	return count, err
}

func (r *videoResponseRepository) CountByInterviewAndStatus(interviewID uint, status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.VideoResponse{}).
		Where("interview_id = ? AND status = ?", interviewID, status).
		Count(&count).Error
	return count, err
}
