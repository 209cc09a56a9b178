package repository

import (
	"github.com/hirelens/hirelens/internal/model"
	"gorm.io/gorm"
)

type JobCategoryRepository interface {
	Create(category *model.JobCategory) error
	FindByID(id uint) (*model.JobCategory, error)
	FindByCode(code string) (*model.JobCategory, error)
	FindAllActive() ([]model.JobCategory, error)
}

type jobCategoryRepository struct {
	db *gorm.DB
}

func NewJobCategoryRepository(db *gorm.DB) JobCategoryRepository {
	return &jobCategoryRepository{db: db}
}

func (r *jobCategoryRepository) Create(category *model.JobCategory) error {
	return r.db.Create(category).Error
}

func (r *jobCategoryRepository) FindByID(id uint) (*model.JobCategory, error) {
	var category model.JobCategory
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *jobCategoryRepository) FindByCode(code string) (*model.JobCategory, error) {
	var category model.JobCategory
	if err := r.db.Where("code = ?", code).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *jobCategoryRepository) FindAllActive() ([]model.JobCategory, error) {
	var categories []model.JobCategory
	if err := r.db.Where("is_active = ?", true).Order("code ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
