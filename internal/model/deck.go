package model

import (
	"time"

	"gorm.io/gorm"
)

type FlashCardDeck struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `json:"user_id" gorm:"not null;index"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description,omitempty"`
	Subject     string         `json:"subject,omitempty"`
	IsPublic    bool           `json:"is_public" gorm:"default:false"`
	Tags        []string       `json:"tags,omitempty" gorm:"serializer:json"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// DeckCard is the ordered membership of a card in a deck. Positions within a
// deck form a contiguous 0..n-1 permutation.
type DeckCard struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	DeckID    uint      `json:"deck_id" gorm:"not null;index:idx_deck_card,unique"`
	CardID    uint      `json:"card_id" gorm:"not null;index:idx_deck_card,unique"`
	Card      FlashCard `json:"card,omitempty" gorm:"foreignKey:CardID"`
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
