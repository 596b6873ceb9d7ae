package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/studyhub/enemprep/internal/apperr"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/model"
	"github.com/studyhub/enemprep/internal/repository"
	"gorm.io/gorm"
)

// DeckService manages deck CRUD and ordered card membership. Positions within
// a deck are kept a contiguous 0..n-1 permutation after every mutation.
type DeckService interface {
	Create(req dto.DeckCreateDTO) (*dto.DeckDTO, error)
	Get(id uint) (*dto.DeckDTO, error)
	List(userID uint) ([]dto.DeckDTO, error)
	Update(id uint, req dto.DeckUpdateDTO) (*dto.DeckDTO, error)
	// Delete returns false when the deck does not exist.
	Delete(id uint) (bool, error)
	AddCard(deckID uint, req dto.DeckAddCardDTO) (*dto.DeckDTO, error)
	// RemoveCard returns false when the card is not a member of the deck.
	RemoveCard(deckID, cardID uint) (bool, error)
	// Reorder moves a member card to newPosition. Returns (nil, false, nil)
	// when the card is not a member of the deck.
	Reorder(deckID, cardID uint, newPosition int) (*dto.DeckDTO, bool, error)
}

type deckService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.FlashCardRepository
}

func NewDeckService(deckRepo repository.DeckRepository, cardRepo repository.FlashCardRepository) DeckService {
	return &deckService{deckRepo: deckRepo, cardRepo: cardRepo}
}

func (s *deckService) Create(req dto.DeckCreateDTO) (*dto.DeckDTO, error) {
	deck := model.FlashCardDeck{
		UserID:      req.UserID,
		Name:        req.Name,
		Description: req.Description,
		Subject:     req.Subject,
		Tags:        req.Tags,
	}
	if req.IsPublic != nil {
		deck.IsPublic = *req.IsPublic
	}
	if err := s.deckRepo.Create(&deck); err != nil {
		return nil, fmt.Errorf("creating deck: %w", err)
	}
	log.Info().Uint("deckID", deck.ID).Uint("userID", deck.UserID).Msg("Deck created")
	return toDeckDTO(&deck, nil), nil
}

func (s *deckService) Get(id uint) (*dto.DeckDTO, error) {
	deck, err := s.findDeck(id)
	if err != nil {
		return nil, err
	}
	memberships, err := s.deckRepo.Memberships(id)
	if err != nil {
		return nil, fmt.Errorf("loading deck %d cards: %w", id, err)
	}
	return toDeckDTO(deck, memberships), nil
}

func (s *deckService) List(userID uint) ([]dto.DeckDTO, error) {
	decks, err := s.deckRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing decks for user %d: %w", userID, err)
	}
	out := make([]dto.DeckDTO, 0, len(decks))
	for i := range decks {
		out = append(out, *toDeckDTO(&decks[i], nil))
	}
	return out, nil
}

func (s *deckService) Update(id uint, req dto.DeckUpdateDTO) (*dto.DeckDTO, error) {
	deck, err := s.findDeck(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		deck.Name = *req.Name
	}
	if req.Description != nil {
		deck.Description = *req.Description
	}
	if req.Subject != nil {
		deck.Subject = *req.Subject
	}
	if req.IsPublic != nil {
		deck.IsPublic = *req.IsPublic
	}
	if req.Tags != nil {
		deck.Tags = req.Tags
	}

	if err := s.deckRepo.Update(deck); err != nil {
		return nil, fmt.Errorf("updating deck %d: %w", id, err)
	}
	return s.Get(id)
}

func (s *deckService) Delete(id uint) (bool, error) {
	deleted, err := s.deckRepo.Delete(id)
	if err != nil {
		return false, fmt.Errorf("deleting deck %d: %w", id, err)
	}
	if deleted {
		log.Info().Uint("deckID", id).Msg("Deck deleted")
	}
	return deleted, nil
}

func (s *deckService) AddCard(deckID uint, req dto.DeckAddCardDTO) (*dto.DeckDTO, error) {
	if _, err := s.findDeck(deckID); err != nil {
		return nil, err
	}
	if _, err := s.cardRepo.FindByID(req.CardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("flash card %d not found", req.CardID)
		}
		return nil, fmt.Errorf("fetching flash card %d: %w", req.CardID, err)
	}

	memberships, err := s.deckRepo.Memberships(deckID)
	if err != nil {
		return nil, fmt.Errorf("loading deck %d cards: %w", deckID, err)
	}
	for _, m := range memberships {
		if m.CardID == req.CardID {
			return nil, apperr.Conflict("card %d is already in deck %d", req.CardID, deckID)
		}
	}

	position := len(memberships)
	if req.Position != nil {
		position = clampPosition(*req.Position, len(memberships))
	}

	member := model.DeckCard{DeckID: deckID, CardID: req.CardID}
	memberships = append(memberships, model.DeckCard{})
	copy(memberships[position+1:], memberships[position:])
	memberships[position] = member

	normalizePositions(memberships)
	if err := s.deckRepo.ReplaceMemberships(deckID, memberships); err != nil {
		return nil, fmt.Errorf("adding card %d to deck %d: %w", req.CardID, deckID, err)
	}
	return s.Get(deckID)
}

func (s *deckService) RemoveCard(deckID, cardID uint) (bool, error) {
	if _, err := s.findDeck(deckID); err != nil {
		return false, err
	}
	memberships, err := s.deckRepo.Memberships(deckID)
	if err != nil {
		return false, fmt.Errorf("loading deck %d cards: %w", deckID, err)
	}

	idx := indexOfCard(memberships, cardID)
	if idx < 0 {
		return false, nil
	}

	memberships = append(memberships[:idx], memberships[idx+1:]...)
	normalizePositions(memberships)
	if err := s.deckRepo.ReplaceMemberships(deckID, memberships); err != nil {
		return false, fmt.Errorf("removing card %d from deck %d: %w", cardID, deckID, err)
	}
	return true, nil
}

func (s *deckService) Reorder(deckID, cardID uint, newPosition int) (*dto.DeckDTO, bool, error) {
	if _, err := s.findDeck(deckID); err != nil {
		return nil, false, err
	}
	memberships, err := s.deckRepo.Memberships(deckID)
	if err != nil {
		return nil, false, fmt.Errorf("loading deck %d cards: %w", deckID, err)
	}

	idx := indexOfCard(memberships, cardID)
	if idx < 0 {
		return nil, false, nil
	}

	member := memberships[idx]
	memberships = append(memberships[:idx], memberships[idx+1:]...)
	position := clampPosition(newPosition, len(memberships))
	memberships = append(memberships, model.DeckCard{})
	copy(memberships[position+1:], memberships[position:])
	memberships[position] = member

	normalizePositions(memberships)
	if err := s.deckRepo.ReplaceMemberships(deckID, memberships); err != nil {
		return nil, false, fmt.Errorf("reordering card %d in deck %d: %w", cardID, deckID, err)
	}

	deck, err := s.Get(deckID)
	if err != nil {
		return nil, false, err
	}
	return deck, true, nil
}

func (s *deckService) findDeck(id uint) (*model.FlashCardDeck, error) {
	deck, err := s.deckRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("deck %d not found", id)
		}
		return nil, fmt.Errorf("fetching deck %d: %w", id, err)
	}
	return deck, nil
}

// normalizePositions rewrites positions to 0..n-1 in slice order.
func normalizePositions(cards []model.DeckCard) {
	for i := range cards {
		cards[i].Position = i
	}
}

func clampPosition(position, max int) int {
	if position < 0 {
		return 0
	}
	if position > max {
		return max
	}
	return position
}

func indexOfCard(cards []model.DeckCard, cardID uint) int {
	for i, c := range cards {
		if c.CardID == cardID {
			return i
		}
	}
	return -1
}

func toDeckDTO(deck *model.FlashCardDeck, memberships []model.DeckCard) *dto.DeckDTO {
	var out dto.DeckDTO
	copier.Copy(&out, deck)
	if memberships != nil {
		out.Cards = make([]dto.DeckCardDTO, 0, len(memberships))
		for i := range memberships {
			var cardDTO dto.FlashCardDTO
			copier.Copy(&cardDTO, &memberships[i].Card)
			out.Cards = append(out.Cards, dto.DeckCardDTO{
				CardID:   memberships[i].CardID,
				Position: memberships[i].Position,
				Card:     cardDTO,
			})
		}
	}
	return &out
}
