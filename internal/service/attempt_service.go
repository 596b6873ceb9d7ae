package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/studyhub/enemprep/config"
	"github.com/studyhub/enemprep/internal/apperr"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/model"
	"github.com/studyhub/enemprep/internal/repository"
	"gorm.io/gorm"
)

const (
	// ReviewBadgeCorrect marks an option the user selected and got right.
	ReviewBadgeCorrect = "correct"
	// ReviewBadgeIncorrect marks an option the user selected and got wrong.
	ReviewBadgeIncorrect = "incorrect"
	// ReviewBadgeMissed marks the right option the user did not select.
	ReviewBadgeMissed = "missed"
)

// AttemptService drives a timed exam attempt from start to scored completion.
type AttemptService interface {
	Start(examID uint, req dto.AttemptStartDTO) (*dto.AttemptStartedDTO, error)
	SaveProgress(examID, attemptID uint, req dto.AttemptAnswersDTO) (*dto.AttemptDetailDTO, error)
	Submit(examID, attemptID uint, req dto.AttemptAnswersDTO) (*dto.AttemptDetailDTO, error)
	Get(examID, attemptID uint) (*dto.AttemptDetailDTO, error)
	List(examID uint, userID *uint) ([]dto.AttemptSummaryDTO, error)
	// AbandonStale marks in_progress attempts older than the given age as
	// abandoned. It is a deliberate, explicitly invoked sweep; nothing enters
	// the abandoned state automatically.
	AbandonStale(olderThan time.Duration) (int64, error)
}

type attemptService struct {
	examRepo    repository.ExamRepository
	attemptRepo repository.AttemptRepository
	grace       time.Duration
}

func NewAttemptService(examRepo repository.ExamRepository, attemptRepo repository.AttemptRepository, cfg *config.Config) AttemptService {
	return &attemptService{
		examRepo:    examRepo,
		attemptRepo: attemptRepo,
		grace:       time.Duration(cfg.Attempt.GraceSeconds) * time.Second,
	}
}

func (s *attemptService) Start(examID uint, req dto.AttemptStartDTO) (*dto.AttemptStartedDTO, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("exam %d not found", examID)
		}
		return nil, fmt.Errorf("fetching exam %d: %w", examID, err)
	}

	// At most one open attempt per (user, exam).
	open, err := s.attemptRepo.FindInProgress(req.UserID, examID)
	if err != nil {
		return nil, fmt.Errorf("checking open attempts for user %d: %w", req.UserID, err)
	}
	if open != nil {
		return nil, apperr.Conflict("user %d already has attempt %d in progress on exam %d", req.UserID, open.ID, examID)
	}

	now := time.Now()
	attempt := model.ExamAttempt{
		ExamID:    examID,
		UserID:    req.UserID,
		Status:    model.AttemptStatusInProgress,
		StartedAt: now,
		Answers:   map[uint]string{},
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		return nil, fmt.Errorf("creating attempt: %w", err)
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("examID", examID).Uint("userID", req.UserID).Msg("Attempt started")
	return &dto.AttemptStartedDTO{
		AttemptID: attempt.ID,
		ExamID:    examID,
		Status:    attempt.Status,
		StartedAt: attempt.StartedAt,
		ExpiresAt: attempt.StartedAt.Add(exam.TimeLimit()),
	}, nil
}

func (s *attemptService) SaveProgress(examID, attemptID uint, req dto.AttemptAnswersDTO) (*dto.AttemptDetailDTO, error) {
	attempt, exam, err := s.loadAttempt(examID, attemptID)
	if err != nil {
		return nil, err
	}
	if !attempt.InProgress() {
		return nil, apperr.Conflict("attempt %d is %s, progress can no longer be saved", attemptID, attempt.Status)
	}
	if err := validateAnswers(exam, req.Answers); err != nil {
		return nil, err
	}

	attempt.Answers = req.Answers
	if attempt.Answers == nil {
		attempt.Answers = map[uint]string{}
	}
	if err := s.attemptRepo.Update(attempt); err != nil {
		return nil, fmt.Errorf("saving attempt %d progress: %w", attemptID, err)
	}
	return buildAttemptDetail(exam, attempt), nil
}

func (s *attemptService) Submit(examID, attemptID uint, req dto.AttemptAnswersDTO) (*dto.AttemptDetailDTO, error) {
	attempt, exam, err := s.loadAttempt(examID, attemptID)
	if err != nil {
		return nil, err
	}

	// Idempotent under retry: the client may submit once from the timeout
	// handler and once from a manual click. A completed attempt returns the
	// stored result without re-scoring.
	if attempt.Status == model.AttemptStatusCompleted {
		return buildAttemptDetail(exam, attempt), nil
	}
	if attempt.Status == model.AttemptStatusAbandoned {
		return nil, apperr.Conflict("attempt %d was abandoned and cannot be submitted", attemptID)
	}

	if err := validateAnswers(exam, req.Answers); err != nil {
		return nil, err
	}

	now := time.Now()
	score := scoreAnswers(exam, req.Answers)
	completed := now

	attempt.Answers = req.Answers
	if attempt.Answers == nil {
		attempt.Answers = map[uint]string{}
	}
	attempt.Status = model.AttemptStatusCompleted
	attempt.Score = &score
	attempt.CompletedAt = &completed
	attempt.TimeSpentSeconds = int(now.Sub(attempt.StartedAt).Seconds())
	// The countdown runs on the client; the server still checks the clock so a
	// bypassed timer cannot pass itself off as on-time.
	attempt.Late = now.After(attempt.StartedAt.Add(exam.TimeLimit() + s.grace))

	won, err := s.attemptRepo.CompleteInProgress(attempt)
	if err != nil {
		return nil, fmt.Errorf("completing attempt %d: %w", attemptID, err)
	}
	if !won {
		// A concurrent submit got there first; serve its result.
		stored, err := s.attemptRepo.FindByID(attemptID)
		if err != nil {
			return nil, fmt.Errorf("reloading attempt %d after lost submit race: %w", attemptID, err)
		}
		if stored.Status != model.AttemptStatusCompleted {
			return nil, apperr.Conflict("attempt %d is %s and cannot be submitted", attemptID, stored.Status)
		}
		log.Info().Uint("attemptID", attemptID).Msg("Submit lost the completion race, returning stored result")
		return buildAttemptDetail(exam, stored), nil
	}

	log.Info().Uint("attemptID", attemptID).Int("score", score).Bool("late", attempt.Late).Msg("Attempt submitted")
	return buildAttemptDetail(exam, attempt), nil
}

func (s *attemptService) Get(examID, attemptID uint) (*dto.AttemptDetailDTO, error) {
	attempt, exam, err := s.loadAttempt(examID, attemptID)
	if err != nil {
		return nil, err
	}
	return buildAttemptDetail(exam, attempt), nil
}

func (s *attemptService) List(examID uint, userID *uint) ([]dto.AttemptSummaryDTO, error) {
	if _, err := s.examRepo.FindByID(examID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("exam %d not found", examID)
		}
		return nil, fmt.Errorf("fetching exam %d: %w", examID, err)
	}

	attempts, err := s.attemptRepo.FindAllByExamAndUser(examID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing attempts for exam %d: %w", examID, err)
	}

	summaries := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for _, a := range attempts {
		summaries = append(summaries, dto.AttemptSummaryDTO{
			ID:               a.ID,
			ExamID:           a.ExamID,
			UserID:           a.UserID,
			Status:           a.Status,
			StartedAt:        a.StartedAt,
			CompletedAt:      a.CompletedAt,
			Score:            a.Score,
			TimeSpentSeconds: a.TimeSpentSeconds,
			Late:             a.Late,
		})
	}
	return summaries, nil
}

func (s *attemptService) AbandonStale(olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, apperr.Invalid("sweep age must be positive, got %s", olderThan)
	}
	cutoff := time.Now().Add(-olderThan)
	swept, err := s.attemptRepo.AbandonStale(cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping stale attempts: %w", err)
	}
	if swept > 0 {
		log.Info().Int64("swept", swept).Time("cutoff", cutoff).Msg("Stale attempts marked abandoned")
	}
	return swept, nil
}

// loadAttempt fetches the attempt and its exam with questions, checking the
// attempt actually belongs to the exam in the path.
func (s *attemptService) loadAttempt(examID, attemptID uint) (*model.ExamAttempt, *model.Exam, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("attempt %d not found", attemptID)
		}
		return nil, nil, fmt.Errorf("fetching attempt %d: %w", attemptID, err)
	}
	if attempt.ExamID != examID {
		return nil, nil, apperr.NotFound("attempt %d not found on exam %d", attemptID, examID)
	}

	exam, err := s.examRepo.FindByIDWithQuestions(attempt.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("exam %d not found", attempt.ExamID)
		}
		return nil, nil, fmt.Errorf("fetching exam %d: %w", attempt.ExamID, err)
	}
	return attempt, exam, nil
}

// validateAnswers checks every answered question belongs to the exam and every
// selected key is one of that question's options.
func validateAnswers(exam *model.Exam, answers map[uint]string) error {
	questions := make(map[uint]*model.Question, len(exam.ExamQuestions))
	for i := range exam.ExamQuestions {
		questions[exam.ExamQuestions[i].QuestionID] = &exam.ExamQuestions[i].Question
	}
	for qID, key := range answers {
		q, ok := questions[qID]
		if !ok {
			return apperr.Invalid("question %d is not part of exam %d", qID, exam.ID)
		}
		if !q.HasOption(key) {
			return apperr.Invalid("option %q does not exist on question %d", key, qID)
		}
	}
	return nil
}

// scoreAnswers computes round(100 * correct / total). Unanswered questions
// count as incorrect.
func scoreAnswers(exam *model.Exam, answers map[uint]string) int {
	total := len(exam.ExamQuestions)
	if total == 0 {
		return 0
	}
	correct := 0
	for _, eq := range exam.ExamQuestions {
		if key, ok := answers[eq.QuestionID]; ok && key == eq.Question.Answer {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

func buildAttemptDetail(exam *model.Exam, attempt *model.ExamAttempt) *dto.AttemptDetailDTO {
	detail := &dto.AttemptDetailDTO{
		ID:               attempt.ID,
		ExamID:           attempt.ExamID,
		ExamTitle:        exam.Title,
		UserID:           attempt.UserID,
		Status:           attempt.Status,
		StartedAt:        attempt.StartedAt,
		CompletedAt:      attempt.CompletedAt,
		Score:            attempt.Score,
		TimeSpentSeconds: attempt.TimeSpentSeconds,
		Late:             attempt.Late,
		Answers:          attempt.Answers,
	}
	if detail.Answers == nil {
		detail.Answers = map[uint]string{}
	}
	if attempt.Status == model.AttemptStatusCompleted {
		if attempt.Score != nil {
			passed := *attempt.Score >= exam.PassingScore
			detail.Passed = &passed
		}
		detail.Review = buildReview(exam, attempt.Answers)
	}
	return detail
}

// buildReview classifies every option of every question of a completed attempt:
// selected-and-correct, selected-and-incorrect, or correct-but-not-selected.
func buildReview(exam *model.Exam, answers map[uint]string) []dto.QuestionReviewDTO {
	review := make([]dto.QuestionReviewDTO, 0, len(exam.ExamQuestions))
	for _, eq := range exam.ExamQuestions {
		q := eq.Question
		selected := answers[q.ID]

		options := make([]dto.OptionReviewDTO, 0, len(q.Options))
		for _, opt := range q.Options {
			badge := ""
			switch {
			case opt.Key == selected && opt.Key == q.Answer:
				badge = ReviewBadgeCorrect
			case opt.Key == selected:
				badge = ReviewBadgeIncorrect
			case opt.Key == q.Answer:
				badge = ReviewBadgeMissed
			}
			options = append(options, dto.OptionReviewDTO{Key: opt.Key, Text: opt.Text, Badge: badge})
		}

		review = append(review, dto.QuestionReviewDTO{
			QuestionID:  q.ID,
			Position:    eq.Position,
			Statement:   q.Statement,
			Options:     options,
			Selected:    selected,
			Correct:     q.Answer,
			Explanation: q.Explanation,
			IsCorrect:   selected == q.Answer,
		})
	}
	return review
}
