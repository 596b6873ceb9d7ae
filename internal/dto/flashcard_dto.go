package dto

import "time"

type FlashCardCreateDTO struct {
	UserID     uint     `json:"user_id" binding:"required"`
	Subject    string   `json:"subject" binding:"required"`
	Front      string   `json:"front" binding:"required"`
	Back       string   `json:"back" binding:"required"`
	Difficulty int      `json:"difficulty,omitempty" binding:"omitempty,min=1,max=5"`
	Tags       []string `json:"tags,omitempty"`
	ImageURL   *string  `json:"image_url,omitempty"`
}

type FlashCardUpdateDTO struct {
	Subject    *string  `json:"subject,omitempty"`
	Front      *string  `json:"front,omitempty"`
	Back       *string  `json:"back,omitempty"`
	Difficulty *int     `json:"difficulty,omitempty" binding:"omitempty,min=1,max=5"`
	Tags       []string `json:"tags,omitempty"`
	ImageURL   *string  `json:"image_url,omitempty"`
}

// FlashCardReviewDTO reports how hard the card felt: 1 (easy) .. 5 (forgot).
type FlashCardReviewDTO struct {
	Difficulty int `json:"difficulty" binding:"required,min=1,max=5"`
}

type FlashCardDTO struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	Subject        string     `json:"subject"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Difficulty     int        `json:"difficulty"`
	Tags           []string   `json:"tags,omitempty"`
	ImageURL       *string    `json:"image_url,omitempty"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	ReviewCount    int        `json:"review_count"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
