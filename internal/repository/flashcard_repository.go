package repository

import (
	"errors"
	"time"

	"github.com/studyhub/enemprep/internal/model"
	"gorm.io/gorm"
)

type FlashCardRepository interface {
	Create(card *model.FlashCard) error
	FindByID(id uint) (*model.FlashCard, error)
	FindAllByUser(userID uint, subject *string) ([]model.FlashCard, error)
	// FindDue returns the user's cards with next_review_at <= now, most overdue
	// first. limit <= 0 means no cap.
	FindDue(userID uint, now time.Time, limit int) ([]model.FlashCard, error)
	Update(card *model.FlashCard) error
	// Delete removes the card and its deck memberships. Returns false when the
	// card did not exist.
	Delete(id uint) (bool, error)
}

type flashCardRepository struct {
	db *gorm.DB
}

func NewFlashCardRepository(db *gorm.DB) FlashCardRepository {
	return &flashCardRepository{db: db}
}

func (r *flashCardRepository) Create(card *model.FlashCard) error {
	return r.db.Create(card).Error
}

func (r *flashCardRepository) FindByID(id uint) (*model.FlashCard, error) {
	var card model.FlashCard
	if err := r.db.First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *flashCardRepository) FindAllByUser(userID uint, subject *string) ([]model.FlashCard, error) {
	var cards []model.FlashCard
	query := r.db.Where("user_id = ?", userID)
	if subject != nil {
		query = query.Where("subject = ?", *subject)
	}
	err := query.Order("created_at DESC").Find(&cards).Error
	return cards, err
}

func (r *flashCardRepository) FindDue(userID uint, now time.Time, limit int) ([]model.FlashCard, error) {
	var cards []model.FlashCard
	query := r.db.
		Where("user_id = ? AND next_review_at <= ?", userID, now).
		Order("next_review_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&cards).Error
	return cards, err
}

func (r *flashCardRepository) Update(card *model.FlashCard) error {
	return r.db.Save(card).Error
}

func (r *flashCardRepository) Delete(id uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.FlashCard{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("card_id = ?", id).Delete(&model.DeckCard{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.FlashCard{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
