package dto

import "time"

type DeckCreateDTO struct {
	UserID      uint     `json:"user_id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type DeckUpdateDTO struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Subject     *string  `json:"subject,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// DeckAddCardDTO appends the card at the end when Position is omitted,
// otherwise inserts at Position and shifts the rest.
type DeckAddCardDTO struct {
	CardID   uint `json:"card_id" binding:"required"`
	Position *int `json:"position,omitempty" binding:"omitempty,min=0"`
}

// DeckReorderDTO moves an existing member card to a new position.
type DeckReorderDTO struct {
	Position *int `json:"position" binding:"required,min=0"`
}

type DeckCardDTO struct {
	CardID   uint         `json:"card_id"`
	Position int          `json:"position"`
	Card     FlashCardDTO `json:"card,omitempty"`
}

type DeckDTO struct {
	ID          uint          `json:"id"`
	UserID      uint          `json:"user_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Subject     string        `json:"subject,omitempty"`
	IsPublic    bool          `json:"is_public"`
	Tags        []string      `json:"tags,omitempty"`
	Cards       []DeckCardDTO `json:"cards,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
