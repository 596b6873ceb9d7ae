package repository

import (
	"errors"
	"time"

	"github.com/studyhub/enemprep/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.ExamAttempt) error
	FindByID(id uint) (*model.ExamAttempt, error)
	FindAllByExamAndUser(examID uint, userID *uint) ([]model.ExamAttempt, error)
	// FindInProgress returns the user's open attempt on the exam, or nil when
	// there is none.
	FindInProgress(userID, examID uint) (*model.ExamAttempt, error)
	Update(attempt *model.ExamAttempt) error
	// CompleteInProgress writes the completed state of the attempt, guarded so
	// the in_progress -> completed transition happens exactly once. Returns
	// false when the attempt was no longer in_progress.
	CompleteInProgress(attempt *model.ExamAttempt) (bool, error)
	// AbandonStale flips in_progress attempts started before the cutoff to
	// abandoned, returning how many were swept.
	AbandonStale(cutoff time.Time) (int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.ExamAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByExamAndUser(examID uint, userID *uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	query := r.db.Where("exam_id = ?", examID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	err := query.Order("started_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) FindInProgress(userID, examID uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.
		Where("user_id = ? AND exam_id = ? AND status = ?", userID, examID, model.AttemptStatusInProgress).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) Update(attempt *model.ExamAttempt) error {
	return r.db.Save(attempt).Error
}

func (r *attemptRepository) CompleteInProgress(attempt *model.ExamAttempt) (bool, error) {
	res := r.db.Model(&model.ExamAttempt{}).
		Where("id = ? AND status = ?", attempt.ID, model.AttemptStatusInProgress).
		Select("status", "score", "completed_at", "time_spent_seconds", "late", "answers").
		Updates(attempt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *attemptRepository) AbandonStale(cutoff time.Time) (int64, error) {
	res := r.db.Model(&model.ExamAttempt{}).
		Where("status = ? AND started_at < ?", model.AttemptStatusInProgress, cutoff).
		Update("status", model.AttemptStatusAbandoned)
	return res.RowsAffected, res.Error
}
