package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/enemprep/internal/apperr"
	"github.com/studyhub/enemprep/internal/dto"
)

func newCard(t *testing.T, svc FlashCardService, userID uint) *dto.FlashCardDTO {
	t.Helper()
	card, err := svc.Create(dto.FlashCardCreateDTO{
		UserID:  userID,
		Subject: "biologia",
		Front:   "O que é mitose?",
		Back:    "Divisão celular que origina duas células idênticas.",
	})
	require.NoError(t, err)
	return card
}

func TestCreateCard_Defaults(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())

	before := time.Now()
	card := newCard(t, svc, 7)

	assert.Equal(t, 0, card.ReviewCount)
	assert.Equal(t, 1, card.IntervalDays)
	assert.Equal(t, 3, card.Difficulty)
	assert.Equal(t, 2.5, card.EaseFactor)
	assert.Nil(t, card.LastReviewedAt)
	// Due one day from creation.
	assert.WithinDuration(t, before.Add(24*time.Hour), card.NextReviewAt, 5*time.Second)
}

func TestReviewCard_EasyGrowsInterval(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())
	card := newCard(t, svc, 7)

	reviewed, err := svc.Review(card.ID, dto.FlashCardReviewDTO{Difficulty: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, reviewed.ReviewCount)
	assert.Equal(t, 1, reviewed.Difficulty)
	assert.Greater(t, reviewed.IntervalDays, 1)
	assert.Greater(t, reviewed.EaseFactor, 2.5)
	require.NotNil(t, reviewed.LastReviewedAt)
	assert.True(t, reviewed.NextReviewAt.After(*reviewed.LastReviewedAt))

	// A second easy review keeps growing the interval multiplicatively.
	again, err := svc.Review(card.ID, dto.FlashCardReviewDTO{Difficulty: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, again.ReviewCount)
	assert.Greater(t, again.IntervalDays, reviewed.IntervalDays)
}

func TestReviewCard_HardResetsInterval(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())
	card := newCard(t, svc, 7)

	// Grow the interval first.
	_, err := svc.Review(card.ID, dto.FlashCardReviewDTO{Difficulty: 1})
	require.NoError(t, err)
	grown, err := svc.Review(card.ID, dto.FlashCardReviewDTO{Difficulty: 2})
	require.NoError(t, err)
	require.Greater(t, grown.IntervalDays, 1)

	reviewed, err := svc.Review(card.ID, dto.FlashCardReviewDTO{Difficulty: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, reviewed.IntervalDays)
	assert.Equal(t, 5, reviewed.Difficulty)
	assert.Equal(t, 3, reviewed.ReviewCount)
	assert.Less(t, reviewed.EaseFactor, grown.EaseFactor)
	assert.GreaterOrEqual(t, reviewed.EaseFactor, 1.3)
}

func TestReviewCard_EaseFactorNeverBelowFloor(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())
	card := newCard(t, svc, 7)

	for i := 0; i < 10; i++ {
		reviewed, err := svc.Review(card.ID, dto.FlashCardReviewDTO{Difficulty: 5})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, reviewed.EaseFactor, 1.3)
	}
}

func TestReviewCard_NextReviewAlwaysAdvances(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())
	card := newCard(t, svc, 7)

	for _, difficulty := range []int{3, 1, 5, 2, 4, 1} {
		reviewed, err := svc.Review(card.ID, dto.FlashCardReviewDTO{Difficulty: difficulty})
		require.NoError(t, err)
		require.NotNil(t, reviewed.LastReviewedAt)
		assert.True(t, reviewed.NextReviewAt.After(*reviewed.LastReviewedAt),
			"next review %v must be after last review %v", reviewed.NextReviewAt, reviewed.LastReviewedAt)
	}
}

func TestReviewCard_InvalidDifficulty(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())
	card := newCard(t, svc, 7)

	for _, difficulty := range []int{0, 6, -1} {
		_, err := svc.Review(card.ID, dto.FlashCardReviewDTO{Difficulty: difficulty})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))
	}
}

func TestReviewCard_NotFound(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())

	_, err := svc.Review(404, dto.FlashCardReviewDTO{Difficulty: 3})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDueCards_OrderedAndRestartable(t *testing.T) {
	repo := newFakeCardRepo()
	svc := NewFlashCardService(repo)

	overdue := newCard(t, svc, 7)
	mostOverdue := newCard(t, svc, 7)
	notDue := newCard(t, svc, 7)
	otherUser := newCard(t, svc, 8)

	now := time.Now()
	repo.cards[overdue.ID].NextReviewAt = now.Add(-1 * time.Hour)
	repo.cards[mostOverdue.ID].NextReviewAt = now.Add(-48 * time.Hour)
	repo.cards[notDue.ID].NextReviewAt = now.Add(72 * time.Hour)
	repo.cards[otherUser.ID].NextReviewAt = now.Add(-96 * time.Hour)

	due, err := svc.Due(7, 0)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, mostOverdue.ID, due[0].ID)
	assert.Equal(t, overdue.ID, due[1].ID)

	// Reading the queue does not consume it.
	again, err := svc.Due(7, 0)
	require.NoError(t, err)
	assert.Equal(t, due, again)

	capped, err := svc.Due(7, 1)
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, mostOverdue.ID, capped[0].ID)
}

func TestUpdateCard(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())
	card := newCard(t, svc, 7)

	front := "O que é meiose?"
	tags := []string{"citologia"}
	updated, err := svc.Update(card.ID, dto.FlashCardUpdateDTO{Front: &front, Tags: tags})
	require.NoError(t, err)
	assert.Equal(t, front, updated.Front)
	assert.Equal(t, tags, updated.Tags)
	// Scheduling state is untouched by content edits.
	assert.Equal(t, card.IntervalDays, updated.IntervalDays)
	assert.Equal(t, card.ReviewCount, updated.ReviewCount)

	_, err = svc.Update(404, dto.FlashCardUpdateDTO{Front: &front})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteCard_MissingIsSoftNoOp(t *testing.T) {
	svc := NewFlashCardService(newFakeCardRepo())
	card := newCard(t, svc, 7)

	deleted, err := svc.Delete(card.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(card.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
