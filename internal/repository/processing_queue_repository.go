package repository

import (
	"github.com/hirelens/hirelens/internal/model"
	"gorm.io/gorm"
)

type ProcessingQueueRepository interface {
	FindByID(id uint) (*model.ProcessingQueue, error)
	Update(entry *model.ProcessingQueue) error
}

type processingQueueRepository struct {
	db *gorm.DB
}

func NewProcessingQueueRepository(db *gorm.DB) ProcessingQueueRepository {
	return &processingQueueRepository{db: db}
}

func (r *processingQueueRepository) FindByID(id uint) (*model.ProcessingQueue, error) {
	var entry model.ProcessingQueue
	if err := r.db.First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *processingQueueRepository) Update(entry *model.ProcessingQueue) error {
	return r.db.Save(entry).Error
}
