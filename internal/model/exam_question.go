package model

import "time"

// ExamQuestion links a Question into an Exam. Position drives the presentation
// order during an attempt; Points is the weight used for raw-score reports.
type ExamQuestion struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ExamID     uint      `json:"exam_id" gorm:"not null;index"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Question   Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Position   int       `json:"position" gorm:"not null"`
	Points     int       `json:"points" gorm:"not null;default:1"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
