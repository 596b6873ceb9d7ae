package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/enemprep/config"
	"github.com/studyhub/enemprep/internal/apperr"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/model"
)

func attemptTestConfig() *config.Config {
	return &config.Config{Attempt: config.Attempt{GraceSeconds: 30, StaleAfterMinutes: 720}}
}

// seedExam creates an exam with one question per answer key, options "a".."d".
func seedExam(t *testing.T, repo *fakeExamRepo, durationMinutes int, answers ...string) *model.Exam {
	t.Helper()
	options := []model.QuestionOption{
		{Key: "a", Text: "Option A"},
		{Key: "b", Text: "Option B"},
		{Key: "c", Text: "Option C"},
		{Key: "d", Text: "Option D"},
	}
	exam := &model.Exam{
		Title:           "Simulado de Matemática",
		Subjects:        []string{"matemática"},
		DurationMinutes: durationMinutes,
		Difficulty:      3,
		PassingScore:    60,
	}
	for i, answer := range answers {
		exam.ExamQuestions = append(exam.ExamQuestions, model.ExamQuestion{
			Position: i + 1,
			Points:   1,
			Question: model.Question{
				Subject:   "matemática",
				Statement: "Pergunta",
				Options:   options,
				Answer:    answer,
			},
		})
	}
	require.NoError(t, repo.Create(exam))
	return exam
}

func TestStartAttempt(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a", "b")

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusInProgress, started.Status)
	assert.Equal(t, exam.ID, started.ExamID)
	assert.Equal(t, started.StartedAt.Add(90*time.Minute), started.ExpiresAt)

	detail, err := svc.Get(exam.ID, started.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusInProgress, detail.Status)
	assert.Empty(t, detail.Answers)
	assert.Nil(t, detail.Score)
	assert.Nil(t, detail.Review)
}

func TestStartAttempt_ExamNotFound(t *testing.T) {
	svc := NewAttemptService(newFakeExamRepo(), newFakeAttemptRepo(), attemptTestConfig())

	_, err := svc.Start(99, dto.AttemptStartDTO{UserID: 7})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStartAttempt_SingleInProgressPerUserAndExam(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a")

	_, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	_, err = svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// A different user is unaffected.
	_, err = svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 8})
	assert.NoError(t, err)
}

func TestSubmitAttempt_Scoring(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a", "b")
	q1 := exam.ExamQuestions[0].QuestionID
	q2 := exam.ExamQuestions[1].QuestionID

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	// One right, one wrong: round(100 * 1/2) = 50.
	detail, err := svc.Submit(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "a", q2: "c"},
	})
	require.NoError(t, err)
	require.NotNil(t, detail.Score)
	assert.Equal(t, 50, *detail.Score)
	assert.Equal(t, model.AttemptStatusCompleted, detail.Status)
	require.NotNil(t, detail.CompletedAt)
	require.NotNil(t, detail.Passed)
	assert.False(t, *detail.Passed)
	assert.False(t, detail.Late)
}

func TestSubmitAttempt_UnansweredCountsIncorrect(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a", "b", "c")
	q1 := exam.ExamQuestions[0].QuestionID

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	detail, err := svc.Submit(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "a"},
	})
	require.NoError(t, err)
	require.NotNil(t, detail.Score)
	assert.Equal(t, 33, *detail.Score) // round(100/3)
}

func TestSubmitAttempt_Idempotent(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a", "b")
	q1 := exam.ExamQuestions[0].QuestionID
	q2 := exam.ExamQuestions[1].QuestionID

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	first, err := svc.Submit(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "a", q2: "b"},
	})
	require.NoError(t, err)
	require.NotNil(t, first.Score)
	assert.Equal(t, 100, *first.Score)

	// Retry with different answers: no re-scoring, the stored result wins.
	second, err := svc.Submit(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "d", q2: "d"},
	})
	require.NoError(t, err)
	require.NotNil(t, second.Score)
	assert.Equal(t, 100, *second.Score)
	assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())
	assert.Equal(t, map[uint]string{q1: "a", q2: "b"}, second.Answers)
}

func TestSubmitAttempt_OverwritesSavedProgress(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a", "b")
	q1 := exam.ExamQuestions[0].QuestionID
	q2 := exam.ExamQuestions[1].QuestionID

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	saved, err := svc.SaveProgress(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusInProgress, saved.Status)
	assert.Nil(t, saved.Score)
	assert.Equal(t, map[uint]string{q1: "a"}, saved.Answers)

	detail, err := svc.Submit(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "a", q2: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{q1: "a", q2: "b"}, detail.Answers)
	require.NotNil(t, detail.Score)
	assert.Equal(t, 100, *detail.Score)
}

func TestSaveProgress_RejectsForeignQuestionAndUnknownOption(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a")
	q1 := exam.ExamQuestions[0].QuestionID

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	_, err = svc.SaveProgress(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{9999: "a"},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	_, err = svc.SaveProgress(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "z"},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
}

func TestSubmitAttempt_LateSubmissionIsFlagged(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 30, "a")
	q1 := exam.ExamQuestions[0].QuestionID

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	// Backdate the start far past the limit plus grace.
	attemptRepo.attempts[started.AttemptID].StartedAt = time.Now().Add(-2 * time.Hour)

	detail, err := svc.Submit(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "a"},
	})
	require.NoError(t, err)
	assert.True(t, detail.Late)
	assert.Equal(t, model.AttemptStatusCompleted, detail.Status)
	assert.GreaterOrEqual(t, detail.TimeSpentSeconds, 7100)
}

func TestSubmitAttempt_LosesRaceReturnsStoredResult(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a")
	q1 := exam.ExamQuestions[0].QuestionID

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	// A concurrent submit completes the attempt between our load and write.
	attemptRepo.beforeComplete = func() {
		stored := attemptRepo.attempts[started.AttemptID]
		if stored.Status == model.AttemptStatusInProgress {
			score := 100
			now := time.Now()
			stored.Status = model.AttemptStatusCompleted
			stored.Score = &score
			stored.CompletedAt = &now
			stored.Answers = map[uint]string{q1: "a"}
		}
	}

	detail, err := svc.Submit(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "b"},
	})
	require.NoError(t, err)
	require.NotNil(t, detail.Score)
	assert.Equal(t, 100, *detail.Score)
	assert.Equal(t, map[uint]string{q1: "a"}, detail.Answers)
}

func TestAttemptReviewClassification(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 90, "a", "b", "c")
	q1 := exam.ExamQuestions[0].QuestionID
	q2 := exam.ExamQuestions[1].QuestionID
	// q3 left unanswered

	started, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	detail, err := svc.Submit(exam.ID, started.AttemptID, dto.AttemptAnswersDTO{
		Answers: map[uint]string{q1: "a", q2: "d"},
	})
	require.NoError(t, err)
	require.Len(t, detail.Review, 3)

	badges := func(qr dto.QuestionReviewDTO) map[string]string {
		out := map[string]string{}
		for _, opt := range qr.Options {
			if opt.Badge != "" {
				out[opt.Key] = opt.Badge
			}
		}
		return out
	}

	// q1: selected the right option.
	assert.True(t, detail.Review[0].IsCorrect)
	assert.Equal(t, map[string]string{"a": ReviewBadgeCorrect}, badges(detail.Review[0]))

	// q2: selected "d", right answer was "b".
	assert.False(t, detail.Review[1].IsCorrect)
	assert.Equal(t, map[string]string{"d": ReviewBadgeIncorrect, "b": ReviewBadgeMissed}, badges(detail.Review[1]))

	// q3: unanswered, only the missed badge shows.
	assert.False(t, detail.Review[2].IsCorrect)
	assert.Empty(t, detail.Review[2].Selected)
	assert.Equal(t, map[string]string{"c": ReviewBadgeMissed}, badges(detail.Review[2]))
}

func TestAbandonStaleAttempts(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 30, "a")

	stale, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)
	fresh, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 8})
	require.NoError(t, err)

	attemptRepo.attempts[stale.AttemptID].StartedAt = time.Now().Add(-24 * time.Hour)

	swept, err := svc.AbandonStale(12 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	detail, err := svc.Get(exam.ID, stale.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusAbandoned, detail.Status)
	assert.Nil(t, detail.Score)

	// Saving or submitting an abandoned attempt conflicts.
	_, err = svc.SaveProgress(exam.ID, stale.AttemptID, dto.AttemptAnswersDTO{Answers: map[uint]string{}})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	_, err = svc.Submit(exam.ID, stale.AttemptID, dto.AttemptAnswersDTO{Answers: map[uint]string{}})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// The fresh attempt is untouched.
	freshDetail, err := svc.Get(exam.ID, fresh.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusInProgress, freshDetail.Status)
}

func TestGetAttempt_WrongExamIsNotFound(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	examA := seedExam(t, examRepo, 30, "a")
	examB := seedExam(t, examRepo, 30, "a")

	started, err := svc.Start(examA.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)

	_, err = svc.Get(examB.ID, started.AttemptID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListAttempts_FiltersByUser(t *testing.T) {
	examRepo := newFakeExamRepo()
	attemptRepo := newFakeAttemptRepo()
	svc := NewAttemptService(examRepo, attemptRepo, attemptTestConfig())

	exam := seedExam(t, examRepo, 30, "a")

	_, err := svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 7})
	require.NoError(t, err)
	_, err = svc.Start(exam.ID, dto.AttemptStartDTO{UserID: 8})
	require.NoError(t, err)

	all, err := svc.List(exam.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	userID := uint(7)
	mine, err := svc.List(exam.ID, &userID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, uint(7), mine[0].UserID)
}
