package model

import (
	"time"

	"gorm.io/gorm"
)

// QuestionOption is one selectable alternative of a multiple-choice question.
// Keys follow the ENEM convention ("a".."e").
type QuestionOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type Question struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	Subject     string           `json:"subject" gorm:"not null;index"`
	Statement   string           `json:"statement" gorm:"type:text;not null"`
	Options     []QuestionOption `json:"options" gorm:"serializer:json"`
	Answer      string           `json:"answer" gorm:"not null"` // key of the correct option
	Explanation string           `json:"explanation,omitempty" gorm:"type:text"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// HasOption reports whether key matches one of the question's alternatives.
func (q *Question) HasOption(key string) bool {
	for _, opt := range q.Options {
		if opt.Key == key {
			return true
		}
	}
	return false
}
