package dto

import "time"

// OptionDTO is one alternative of a multiple-choice question.
type OptionDTO struct {
	Key  string `json:"key" binding:"required"`
	Text string `json:"text" binding:"required"`
}

// ExamQuestionCreateDTO is used within ExamCreateDTO.
type ExamQuestionCreateDTO struct {
	Subject     string      `json:"subject" binding:"required"`
	Statement   string      `json:"statement" binding:"required"`
	Options     []OptionDTO `json:"options" binding:"required,min=2,dive"`
	Answer      string      `json:"answer" binding:"required"`
	Explanation string      `json:"explanation,omitempty"`
	Points      int         `json:"points,omitempty"`
}

// ExamCreateDTO creates an exam together with its ordered questions.
type ExamCreateDTO struct {
	Title           string                  `json:"title" binding:"required"`
	Description     string                  `json:"description,omitempty"`
	Subjects        []string                `json:"subjects" binding:"required,min=1"`
	DurationMinutes int                     `json:"duration_minutes" binding:"required,gt=0"`
	Difficulty      int                     `json:"difficulty" binding:"required,min=1,max=5"`
	PassingScore    int                     `json:"passing_score" binding:"omitempty,min=0,max=100"`
	IsPublic        *bool                   `json:"is_public,omitempty"`
	Instructions    string                  `json:"instructions,omitempty"`
	Questions       []ExamQuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// ExamUpdateDTO is a partial update of exam metadata.
type ExamUpdateDTO struct {
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Subjects        []string `json:"subjects,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" binding:"omitempty,gt=0"`
	Difficulty      *int     `json:"difficulty,omitempty" binding:"omitempty,min=1,max=5"`
	PassingScore    *int     `json:"passing_score,omitempty" binding:"omitempty,min=0,max=100"`
	IsPublic        *bool    `json:"is_public,omitempty"`
	Instructions    *string  `json:"instructions,omitempty"`
}

// ExamQuestionDTO is a question as shown to a user taking the exam. The correct
// answer is withheld; it only appears in the post-completion review.
type ExamQuestionDTO struct {
	QuestionID uint        `json:"question_id"`
	Position   int         `json:"position"`
	Points     int         `json:"points"`
	Subject    string      `json:"subject"`
	Statement  string      `json:"statement"`
	Options    []OptionDTO `json:"options"`
}

// ExamDetailDTO is the full exam view used to start an attempt.
type ExamDetailDTO struct {
	ID              uint              `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Subjects        []string          `json:"subjects"`
	DurationMinutes int               `json:"duration_minutes"`
	Difficulty      int               `json:"difficulty"`
	PassingScore    int               `json:"passing_score"`
	IsPublic        bool              `json:"is_public"`
	Instructions    string            `json:"instructions,omitempty"`
	Questions       []ExamQuestionDTO `json:"questions"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ExamSummaryDTO is used for the exam listing.
type ExamSummaryDTO struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Subjects        []string  `json:"subjects"`
	DurationMinutes int       `json:"duration_minutes"`
	Difficulty      int       `json:"difficulty"`
	PassingScore    int       `json:"passing_score"`
	IsPublic        bool      `json:"is_public"`
	QuestionCount   int       `json:"question_count"`
	CreatedAt       time.Time `json:"created_at"`
}
