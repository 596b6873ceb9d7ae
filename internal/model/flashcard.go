package model

import (
	"time"

	"gorm.io/gorm"
)

type FlashCard struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	Subject        string         `json:"subject" gorm:"not null;index"`
	Front          string         `json:"front" gorm:"type:text;not null"`
	Back           string         `json:"back" gorm:"type:text;not null"`
	Difficulty     int            `json:"difficulty" gorm:"not null;default:3"` // last reported recall difficulty, 1-5
	Tags           []string       `json:"tags,omitempty" gorm:"serializer:json"`
	ImageURL       *string        `json:"image_url,omitempty"`
	EaseFactor     float64        `json:"ease_factor" gorm:"not null;default:2.5"`
	IntervalDays   int            `json:"interval_days" gorm:"not null;default:1"`
	ReviewCount    int            `json:"review_count" gorm:"not null;default:0"`
	NextReviewAt   time.Time      `json:"next_review_at" gorm:"not null;index"`
	LastReviewedAt *time.Time     `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
