package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
	AttemptStatusAbandoned  = "abandoned"
)

// ExamAttempt is one user's timed run through an exam. Answers maps question id
// to the selected option key; the last write (save or submit) wins.
type ExamAttempt struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	ExamID           uint            `json:"exam_id" gorm:"not null;index"`
	Exam             Exam            `json:"exam,omitempty" gorm:"foreignKey:ExamID"`
	UserID           uint            `json:"user_id" gorm:"not null;index"`
	Status           string          `json:"status" gorm:"not null;default:'in_progress';index"`
	StartedAt        time.Time       `json:"started_at" gorm:"not null"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	Score            *int            `json:"score,omitempty"` // 0-100, nil until completed
	TimeSpentSeconds int             `json:"time_spent_seconds"`
	Late             bool            `json:"late"` // submitted past the exam time limit
	Answers          map[uint]string `json:"answers" gorm:"serializer:json"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (a *ExamAttempt) InProgress() bool {
	return a.Status == AttemptStatusInProgress
}
