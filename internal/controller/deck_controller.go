package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/service"
)

type DeckController struct {
	deckService service.DeckService
}

func NewDeckController(deckService service.DeckService) *DeckController {
	return &DeckController{deckService: deckService}
}

// CreateDeck godoc
// @Summary Create a flash card deck
// @Tags Decks
// @Accept json
// @Produce json
// @Param deck_data body dto.DeckCreateDTO true "Deck fields"
// @Success 201 {object} dto.DeckDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /flashcarddecks [post]
func (c *DeckController) CreateDeck(ctx *gin.Context) {
	var req dto.DeckCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	deck, err := c.deckService.Create(req)
	if err != nil {
		respondError(ctx, err, "Failed to create deck")
		return
	}
	ctx.JSON(http.StatusCreated, deck)
}

// ListDecks godoc
// @Summary List a user's decks
// @Tags Decks
// @Produce json
// @Param user_id query int true "Owner"
// @Success 200 {array} dto.DeckDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /flashcarddecks [get]
func (c *DeckController) ListDecks(ctx *gin.Context) {
	userID, ok := parseUserIDQuery(ctx)
	if !ok {
		return
	}
	decks, err := c.deckService.List(userID)
	if err != nil {
		respondError(ctx, err, "Failed to list decks")
		return
	}
	ctx.JSON(http.StatusOK, decks)
}

// GetDeck godoc
// @Summary Get a deck with its ordered cards
// @Tags Decks
// @Produce json
// @Param deck_id path int true "Deck ID"
// @Success 200 {object} dto.DeckDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /flashcarddecks/{deck_id} [get]
func (c *DeckController) GetDeck(ctx *gin.Context) {
	deckID, ok := parseIDParam(ctx, "deck_id")
	if !ok {
		return
	}
	deck, err := c.deckService.Get(deckID)
	if err != nil {
		respondError(ctx, err, "Failed to fetch deck")
		return
	}
	ctx.JSON(http.StatusOK, deck)
}

// UpdateDeck godoc
// @Summary Partially update deck metadata
// @Tags Decks
// @Accept json
// @Produce json
// @Param deck_id path int true "Deck ID"
// @Param deck_data body dto.DeckUpdateDTO true "Fields to update"
// @Success 200 {object} dto.DeckDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /flashcarddecks/{deck_id} [patch]
func (c *DeckController) UpdateDeck(ctx *gin.Context) {
	deckID, ok := parseIDParam(ctx, "deck_id")
	if !ok {
		return
	}
	var req dto.DeckUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	deck, err := c.deckService.Update(deckID, req)
	if err != nil {
		respondError(ctx, err, "Failed to update deck")
		return
	}
	ctx.JSON(http.StatusOK, deck)
}

// DeleteDeck godoc
// @Summary Delete a deck and its memberships
// @Tags Decks
// @Produce json
// @Param deck_id path int true "Deck ID"
// @Success 200 {object} map[string]bool
// @Router /flashcarddecks/{deck_id} [delete]
func (c *DeckController) DeleteDeck(ctx *gin.Context) {
	deckID, ok := parseIDParam(ctx, "deck_id")
	if !ok {
		return
	}
	deleted, err := c.deckService.Delete(deckID)
	if err != nil {
		respondError(ctx, err, "Failed to delete deck")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// AddCardToDeck godoc
// @Summary Add a card to a deck
// @Description Appends at the end when position is omitted, otherwise inserts and shifts.
// @Tags Decks
// @Accept json
// @Produce json
// @Param deck_id path int true "Deck ID"
// @Param card_data body dto.DeckAddCardDTO true "Card and optional position"
// @Success 200 {object} dto.DeckDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Card already in deck"
// @Router /flashcarddecks/{deck_id}/cards [post]
func (c *DeckController) AddCardToDeck(ctx *gin.Context) {
	deckID, ok := parseIDParam(ctx, "deck_id")
	if !ok {
		return
	}
	var req dto.DeckAddCardDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	deck, err := c.deckService.AddCard(deckID, req)
	if err != nil {
		respondError(ctx, err, "Failed to add card to deck")
		return
	}
	ctx.JSON(http.StatusOK, deck)
}

// RemoveCardFromDeck godoc
// @Summary Remove a card from a deck
// @Description Removing a card that is not a member is a no-op signalled by removed=false.
// @Tags Decks
// @Produce json
// @Param deck_id path int true "Deck ID"
// @Param card_id path int true "Card ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} dto.ErrorResponse "Deck not found"
// @Router /flashcarddecks/{deck_id}/cards/{card_id} [delete]
func (c *DeckController) RemoveCardFromDeck(ctx *gin.Context) {
	deckID, ok := parseIDParam(ctx, "deck_id")
	if !ok {
		return
	}
	cardID, ok := parseIDParam(ctx, "card_id")
	if !ok {
		return
	}
	removed, err := c.deckService.RemoveCard(deckID, cardID)
	if err != nil {
		respondError(ctx, err, "Failed to remove card from deck")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ReorderCardInDeck godoc
// @Summary Move a card to a new position within a deck
// @Description Positions stay a contiguous 0..n-1 permutation. Reordering a card that is not a member is a no-op signalled by moved=false.
// @Tags Decks
// @Accept json
// @Produce json
// @Param deck_id path int true "Deck ID"
// @Param card_id path int true "Card ID"
// @Param reorder_data body dto.DeckReorderDTO true "Target position"
// @Success 200 {object} dto.DeckDTO
// @Failure 404 {object} dto.ErrorResponse "Deck not found"
// @Router /flashcarddecks/{deck_id}/cards/{card_id} [patch]
func (c *DeckController) ReorderCardInDeck(ctx *gin.Context) {
	deckID, ok := parseIDParam(ctx, "deck_id")
	if !ok {
		return
	}
	cardID, ok := parseIDParam(ctx, "card_id")
	if !ok {
		return
	}
	var req dto.DeckReorderDTO
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Position == nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: position is required"})
		return
	}

	deck, moved, err := c.deckService.Reorder(deckID, cardID, *req.Position)
	if err != nil {
		respondError(ctx, err, "Failed to reorder card in deck")
		return
	}
	if !moved {
		ctx.JSON(http.StatusOK, gin.H{"moved": false})
		return
	}
	ctx.JSON(http.StatusOK, deck)
}
