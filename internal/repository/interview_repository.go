package repository

import (
	"github.com/hirelens/hirelens/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterviewRepository interface {
	Create(interview *model.Interview) error
	FindByID(id uint) (*model.Interview, error)
	FindByPublicID(publicID string) (*model.Interview, error)
	// FindByIDForApplicant returns a non-archived interview only if it belongs
	// to the given applicant.
	FindByIDForApplicant(id, applicantID uint) (*model.Interview, error)
	Update(interview *model.Interview) error
	// UpdateLocked runs fn against the interview row held under SELECT FOR
	// UPDATE inside a transaction. If fn returns a queue entry it is inserted
	// in the same transaction and the interview's CurrentQueueEntryID is
	// pointed at it before the row is saved. fn returning an error rolls
	// everything back.
	UpdateLocked(id uint, fn func(interview *model.Interview) (*model.ProcessingQueue, error)) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *model.Interview) error {
	return r.db.Create(interview).Error
}

func (r *interviewRepository) FindByID(id uint) (*model.Interview, error) {
	var interview model.Interview
	if err := r.db.First(&interview, id).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindByPublicID(publicID string) (*model.Interview, error) {
	var interview model.Interview
	if err := r.db.Preload("Category").Where("public_id = ?", publicID).First(&interview).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindByIDForApplicant(id, applicantID uint) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.
		Where("id = ? AND applicant_id = ? AND archived = ?", id, applicantID, false).
		First(&interview).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) Update(interview *model.Interview) error {
	return r.db.Save(interview).Error
}

func (r *interviewRepository) UpdateLocked(id uint, fn func(interview *model.Interview) (*model.ProcessingQueue, error)) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var interview model.Interview
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&interview, id).Error; err != nil {
			return err
		}
		entry, err := fn(&interview)
		if err != nil {
			return err
		}
		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
			interview.CurrentQueueEntryID = &entry.ID
		}
		return tx.Save(&interview).Error
	})
}
