package repository

import (
	"errors"

	"github.com/studyhub/enemprep/internal/model"
	"gorm.io/gorm"
)

type DeckRepository interface {
	Create(deck *model.FlashCardDeck) error
	FindByID(id uint) (*model.FlashCardDeck, error)
	FindAllByUser(userID uint) ([]model.FlashCardDeck, error)
	Update(deck *model.FlashCardDeck) error
	// Delete removes the deck and its memberships. Returns false when the deck
	// did not exist.
	Delete(id uint) (bool, error)
	// Memberships returns the deck's cards ordered by position.
	Memberships(deckID uint) ([]model.DeckCard, error)
	// ReplaceMemberships atomically rewrites the deck's membership rows.
	ReplaceMemberships(deckID uint, cards []model.DeckCard) error
}

type deckRepository struct {
	db *gorm.DB
}

func NewDeckRepository(db *gorm.DB) DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Create(deck *model.FlashCardDeck) error {
	return r.db.Create(deck).Error
}

func (r *deckRepository) FindByID(id uint) (*model.FlashCardDeck, error) {
	var deck model.FlashCardDeck
	if err := r.db.First(&deck, id).Error; err != nil {
		return nil, err
	}
	return &deck, nil
}

func (r *deckRepository) FindAllByUser(userID uint) ([]model.FlashCardDeck, error) {
	var decks []model.FlashCardDeck
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&decks).Error
	return decks, err
}

func (r *deckRepository) Update(deck *model.FlashCardDeck) error {
	return r.db.Save(deck).Error
}

func (r *deckRepository) Delete(id uint) (bool, error) {
	deleted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.FlashCardDeck{}, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("deck_id = ?", id).Delete(&model.DeckCard{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.FlashCardDeck{}, id).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *deckRepository) Memberships(deckID uint) ([]model.DeckCard, error) {
	var cards []model.DeckCard
	err := r.db.
		Preload("Card").
		Where("deck_id = ?", deckID).
		Order("position ASC").
		Find(&cards).Error
	return cards, err
}

func (r *deckRepository) ReplaceMemberships(deckID uint, cards []model.DeckCard) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deckID).Delete(&model.DeckCard{}).Error; err != nil {
			return err
		}
		for i := range cards {
			cards[i].ID = 0
			cards[i].DeckID = deckID
			cards[i].Card = model.FlashCard{}
		}
		if len(cards) == 0 {
			return nil
		}
		return tx.Create(&cards).Error
	})
}
