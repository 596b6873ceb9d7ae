package dto

import "time"

// AttemptStartDTO starts a new attempt on an exam.
type AttemptStartDTO struct {
	UserID uint `json:"user_id" binding:"required"`
}

// AttemptStartedDTO is the reply to a successful start.
type AttemptStartedDTO struct {
	AttemptID uint      `json:"attempt_id"`
	ExamID    uint      `json:"exam_id"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	// ExpiresAt is the client's deadline for the local countdown.
	ExpiresAt time.Time `json:"expires_at"`
}

// AttemptAnswersDTO carries a full answers snapshot, keyed by question id.
// Used by both periodic autosave and final submit; the payload overwrites any
// previously stored answers.
type AttemptAnswersDTO struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// OptionReviewDTO classifies one option of a completed attempt's question.
// Badge is "correct" (selected, right), "incorrect" (selected, wrong),
// "missed" (right, not selected), or empty.
type OptionReviewDTO struct {
	Key   string `json:"key"`
	Text  string `json:"text"`
	Badge string `json:"badge,omitempty"`
}

// QuestionReviewDTO is the per-question review of a completed attempt.
type QuestionReviewDTO struct {
	QuestionID  uint              `json:"question_id"`
	Position    int               `json:"position"`
	Statement   string            `json:"statement"`
	Options     []OptionReviewDTO `json:"options"`
	Selected    string            `json:"selected,omitempty"`
	Correct     string            `json:"correct"`
	Explanation string            `json:"explanation,omitempty"`
	IsCorrect   bool              `json:"is_correct"`
}

// AttemptDetailDTO is the full view of an attempt. Review is only populated
// once the attempt is completed.
type AttemptDetailDTO struct {
	ID               uint                `json:"id"`
	ExamID           uint                `json:"exam_id"`
	ExamTitle        string              `json:"exam_title,omitempty"`
	UserID           uint                `json:"user_id"`
	Status           string              `json:"status"`
	StartedAt        time.Time           `json:"started_at"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	Score            *int                `json:"score,omitempty"`
	Passed           *bool               `json:"passed,omitempty"`
	TimeSpentSeconds int                 `json:"time_spent_seconds"`
	Late             bool                `json:"late"`
	Answers          map[uint]string     `json:"answers"`
	Review           []QuestionReviewDTO `json:"review,omitempty"`
}

// AttemptSummaryDTO is used when listing attempts for an exam.
type AttemptSummaryDTO struct {
	ID               uint       `json:"id"`
	ExamID           uint       `json:"exam_id"`
	UserID           uint       `json:"user_id"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Score            *int       `json:"score,omitempty"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	Late             bool       `json:"late"`
}

// SweepResultDTO reports how many stale attempts were abandoned.
type SweepResultDTO struct {
	Abandoned int64 `json:"abandoned"`
}
