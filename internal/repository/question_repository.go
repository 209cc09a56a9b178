package repository

import (
	"github.com/hirelens/hirelens/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.InterviewQuestion) error
	FindByID(id uint) (*model.InterviewQuestion, error)
	FindByIDs(ids []uint) ([]model.InterviewQuestion, error)
	// FindActiveGeneral returns the active "general" pool for a category,
	// restricted to the given competency tags, in stable id order.
	FindActiveGeneral(categoryID uint, competencies []string) ([]model.InterviewQuestion, error)
	Update(question *model.InterviewQuestion) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.InterviewQuestion) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.InterviewQuestion, error) {
	var question model.InterviewQuestion
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.InterviewQuestion, error) {
	var questions []model.InterviewQuestion
	if len(ids) == 0 {
		return questions, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindActiveGeneral(categoryID uint, competencies []string) ([]model.InterviewQuestion, error) {
	var questions []model.InterviewQuestion
	err := r.db.
		Where("category_id = ?", categoryID).
		Where("is_active = ?", true).
		Where("question_type = ?", model.QuestionTypeGeneral).
		Where("competency IN ?", competencies).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.InterviewQuestion) error {
	return r.db.Save(question).Error
}
