package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/studyhub/enemprep/internal/apperr"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/model"
	"github.com/studyhub/enemprep/internal/repository"
	"gorm.io/gorm"
)

const (
	minIntervalDays = 1
	maxIntervalDays = 365
	minEaseFactor   = 1.3
	defaultEase     = 2.5
	defaultCardDiff = 3
)

// FlashCardService owns card CRUD and the review scheduling rule.
type FlashCardService interface {
	Create(req dto.FlashCardCreateDTO) (*dto.FlashCardDTO, error)
	Get(id uint) (*dto.FlashCardDTO, error)
	List(userID uint, subject *string) ([]dto.FlashCardDTO, error)
	Update(id uint, req dto.FlashCardUpdateDTO) (*dto.FlashCardDTO, error)
	// Delete returns false when the card does not exist; that is a no-op, not
	// an error.
	Delete(id uint) (bool, error)
	// Due lists cards whose next review has come, most overdue first.
	Due(userID uint, limit int) ([]dto.FlashCardDTO, error)
	// Review applies the reported recall difficulty (1 easy .. 5 forgot) and
	// reschedules the card.
	Review(id uint, req dto.FlashCardReviewDTO) (*dto.FlashCardDTO, error)
}

type flashCardService struct {
	cardRepo repository.FlashCardRepository
}

func NewFlashCardService(cardRepo repository.FlashCardRepository) FlashCardService {
	return &flashCardService{cardRepo: cardRepo}
}

func (s *flashCardService) Create(req dto.FlashCardCreateDTO) (*dto.FlashCardDTO, error) {
	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = defaultCardDiff
	}

	now := time.Now()
	card := model.FlashCard{
		UserID:       req.UserID,
		Subject:      req.Subject,
		Front:        req.Front,
		Back:         req.Back,
		Difficulty:   difficulty,
		Tags:         req.Tags,
		ImageURL:     req.ImageURL,
		EaseFactor:   defaultEase,
		IntervalDays: minIntervalDays,
		NextReviewAt: now.Add(minIntervalDays * 24 * time.Hour),
	}
	if err := s.cardRepo.Create(&card); err != nil {
		return nil, fmt.Errorf("creating flash card: %w", err)
	}

	log.Info().Uint("cardID", card.ID).Uint("userID", card.UserID).Str("subject", card.Subject).Msg("Flash card created")
	return toFlashCardDTO(&card), nil
}

func (s *flashCardService) Get(id uint) (*dto.FlashCardDTO, error) {
	card, err := s.findCard(id)
	if err != nil {
		return nil, err
	}
	return toFlashCardDTO(card), nil
}

func (s *flashCardService) List(userID uint, subject *string) ([]dto.FlashCardDTO, error) {
	cards, err := s.cardRepo.FindAllByUser(userID, subject)
	if err != nil {
		return nil, fmt.Errorf("listing flash cards for user %d: %w", userID, err)
	}
	return toFlashCardDTOs(cards), nil
}

func (s *flashCardService) Update(id uint, req dto.FlashCardUpdateDTO) (*dto.FlashCardDTO, error) {
	card, err := s.findCard(id)
	if err != nil {
		return nil, err
	}

	if req.Subject != nil {
		card.Subject = *req.Subject
	}
	if req.Front != nil {
		card.Front = *req.Front
	}
	if req.Back != nil {
		card.Back = *req.Back
	}
	if req.Difficulty != nil {
		card.Difficulty = *req.Difficulty
	}
	if req.Tags != nil {
		card.Tags = req.Tags
	}
	if req.ImageURL != nil {
		card.ImageURL = req.ImageURL
	}

	if err := s.cardRepo.Update(card); err != nil {
		return nil, fmt.Errorf("updating flash card %d: %w", id, err)
	}
	return toFlashCardDTO(card), nil
}

func (s *flashCardService) Delete(id uint) (bool, error) {
	deleted, err := s.cardRepo.Delete(id)
	if err != nil {
		return false, fmt.Errorf("deleting flash card %d: %w", id, err)
	}
	if deleted {
		log.Info().Uint("cardID", id).Msg("Flash card deleted")
	}
	return deleted, nil
}

func (s *flashCardService) Due(userID uint, limit int) ([]dto.FlashCardDTO, error) {
	cards, err := s.cardRepo.FindDue(userID, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("listing due cards for user %d: %w", userID, err)
	}
	return toFlashCardDTOs(cards), nil
}

func (s *flashCardService) Review(id uint, req dto.FlashCardReviewDTO) (*dto.FlashCardDTO, error) {
	if req.Difficulty < 1 || req.Difficulty > 5 {
		return nil, apperr.Invalid("reported difficulty must be between 1 and 5, got %d", req.Difficulty)
	}

	card, err := s.findCard(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reschedule(card, req.Difficulty, now)

	if err := s.cardRepo.Update(card); err != nil {
		return nil, fmt.Errorf("saving review of flash card %d: %w", id, err)
	}

	log.Info().
		Uint("cardID", card.ID).
		Int("difficulty", req.Difficulty).
		Int("intervalDays", card.IntervalDays).
		Time("nextReviewAt", card.NextReviewAt).
		Msg("Flash card reviewed")
	return toFlashCardDTO(card), nil
}

// reschedule applies an SM-2 style rule. An easy recall grows the interval
// multiplicatively through a rolling ease factor; a hard recall (4-5) resets it
// to the minimum. The stored difficulty is the last reported value.
func reschedule(card *model.FlashCard, difficulty int, now time.Time) {
	penalty := float64(difficulty - 1) // 0 (easy) .. 4 (forgot)
	ease := card.EaseFactor + 0.1 - penalty*(0.08+penalty*0.02)
	if ease < minEaseFactor {
		ease = minEaseFactor
	}

	var interval int
	switch {
	case difficulty >= 4:
		interval = minIntervalDays
	case card.IntervalDays <= minIntervalDays:
		interval = 6
	default:
		interval = int(math.Round(float64(card.IntervalDays) * ease))
	}
	if interval > maxIntervalDays {
		interval = maxIntervalDays
	}
	if interval < minIntervalDays {
		interval = minIntervalDays
	}

	card.EaseFactor = ease
	card.IntervalDays = interval
	card.Difficulty = difficulty
	card.ReviewCount++
	card.LastReviewedAt = &now
	card.NextReviewAt = now.Add(time.Duration(interval) * 24 * time.Hour)
}

func (s *flashCardService) findCard(id uint) (*model.FlashCard, error) {
	card, err := s.cardRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("flash card %d not found", id)
		}
		return nil, fmt.Errorf("fetching flash card %d: %w", id, err)
	}
	return card, nil
}

func toFlashCardDTO(card *model.FlashCard) *dto.FlashCardDTO {
	var out dto.FlashCardDTO
	copier.Copy(&out, card)
	return &out
}

func toFlashCardDTOs(cards []model.FlashCard) []dto.FlashCardDTO {
	out := make([]dto.FlashCardDTO, 0, len(cards))
	for i := range cards {
		out = append(out, *toFlashCardDTO(&cards[i]))
	}
	return out
}
