package model

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description,omitempty"`
	Subjects        []string       `json:"subjects" gorm:"serializer:json"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	Difficulty      int            `json:"difficulty" gorm:"not null;default:3"` // 1 (easy) .. 5 (hard)
	PassingScore    int            `json:"passing_score" gorm:"default:60"`
	IsPublic        bool           `json:"is_public" gorm:"default:true"`
	Instructions    string         `json:"instructions,omitempty" gorm:"type:text"`
	ExamQuestions   []ExamQuestion `json:"exam_questions,omitempty" gorm:"foreignKey:ExamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TimeLimit is the attempt budget measured from ExamAttempt.StartedAt.
func (e *Exam) TimeLimit() time.Duration {
	return time.Duration(e.DurationMinutes) * time.Minute
}
