package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/service"
)

type FlashCardController struct {
	cardService service.FlashCardService
}

func NewFlashCardController(cardService service.FlashCardService) *FlashCardController {
	return &FlashCardController{cardService: cardService}
}

// CreateCard godoc
// @Summary Create a flash card
// @Description New cards come due one day after creation.
// @Tags Flash cards
// @Accept json
// @Produce json
// @Param card_data body dto.FlashCardCreateDTO true "Card fields"
// @Success 201 {object} dto.FlashCardDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /flashcards [post]
func (c *FlashCardController) CreateCard(ctx *gin.Context) {
	var req dto.FlashCardCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	card, err := c.cardService.Create(req)
	if err != nil {
		respondError(ctx, err, "Failed to create flash card")
		return
	}
	ctx.JSON(http.StatusCreated, card)
}

// ListCards godoc
// @Summary List a user's flash cards
// @Tags Flash cards
// @Produce json
// @Param user_id query int true "Owner"
// @Param subject query string false "Filter by subject"
// @Success 200 {array} dto.FlashCardDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /flashcards [get]
func (c *FlashCardController) ListCards(ctx *gin.Context) {
	userID, ok := parseUserIDQuery(ctx)
	if !ok {
		return
	}
	var subject *string
	if s := ctx.Query("subject"); s != "" {
		subject = &s
	}
	cards, err := c.cardService.List(userID, subject)
	if err != nil {
		respondError(ctx, err, "Failed to list flash cards")
		return
	}
	ctx.JSON(http.StatusOK, cards)
}

// GetCard godoc
// @Summary Get a flash card, or the due queue via /flashcards/due
// @Tags Flash cards
// @Produce json
// @Param card_id path int true "Card ID"
// @Success 200 {object} dto.FlashCardDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /flashcards/{card_id} [get]
func (c *FlashCardController) GetCard(ctx *gin.Context) {
	// gin's router cannot hold /flashcards/due next to /flashcards/:card_id,
	// so the due queue is dispatched from here.
	if ctx.Param("card_id") == "due" {
		c.dueCards(ctx)
		return
	}
	cardID, ok := parseIDParam(ctx, "card_id")
	if !ok {
		return
	}
	card, err := c.cardService.Get(cardID)
	if err != nil {
		respondError(ctx, err, "Failed to fetch flash card")
		return
	}
	ctx.JSON(http.StatusOK, card)
}

// dueCards serves GET /flashcards/due: cards with next_review_at <= now,
// most overdue first, optionally capped by ?limit=.
func (c *FlashCardController) dueCards(ctx *gin.Context) {
	userID, ok := parseUserIDQuery(ctx)
	if !ok {
		return
	}
	limit := 0
	if arg := ctx.Query("limit"); arg != "" {
		val, err := strconv.Atoi(arg)
		if err != nil || val <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "limit must be a positive integer"})
			return
		}
		limit = val
	}
	cards, err := c.cardService.Due(userID, limit)
	if err != nil {
		respondError(ctx, err, "Failed to list due flash cards")
		return
	}
	ctx.JSON(http.StatusOK, cards)
}

// UpdateCard godoc
// @Summary Partially update a flash card
// @Tags Flash cards
// @Accept json
// @Produce json
// @Param card_id path int true "Card ID"
// @Param card_data body dto.FlashCardUpdateDTO true "Fields to update"
// @Success 200 {object} dto.FlashCardDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /flashcards/{card_id} [patch]
func (c *FlashCardController) UpdateCard(ctx *gin.Context) {
	cardID, ok := parseIDParam(ctx, "card_id")
	if !ok {
		return
	}
	var req dto.FlashCardUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	card, err := c.cardService.Update(cardID, req)
	if err != nil {
		respondError(ctx, err, "Failed to update flash card")
		return
	}
	ctx.JSON(http.StatusOK, card)
}

// DeleteCard godoc
// @Summary Delete a flash card and its deck memberships
// @Description Deleting a missing card is a no-op signalled by deleted=false, not an error.
// @Tags Flash cards
// @Produce json
// @Param card_id path int true "Card ID"
// @Success 200 {object} map[string]bool
// @Router /flashcards/{card_id} [delete]
func (c *FlashCardController) DeleteCard(ctx *gin.Context) {
	cardID, ok := parseIDParam(ctx, "card_id")
	if !ok {
		return
	}
	deleted, err := c.cardService.Delete(cardID)
	if err != nil {
		respondError(ctx, err, "Failed to delete flash card")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ReviewCard godoc
// @Summary Report recall difficulty and reschedule the card
// @Description Difficulty 1 (easy) grows the review interval; 4-5 (hard/forgot) resets it to one day.
// @Tags Flash cards
// @Accept json
// @Produce json
// @Param card_id path int true "Card ID"
// @Param review_data body dto.FlashCardReviewDTO true "Reported difficulty, 1-5"
// @Success 200 {object} dto.FlashCardDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /flashcards/{card_id}/review [post]
func (c *FlashCardController) ReviewCard(ctx *gin.Context) {
	cardID, ok := parseIDParam(ctx, "card_id")
	if !ok {
		return
	}
	var req dto.FlashCardReviewDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	card, err := c.cardService.Review(cardID, req)
	if err != nil {
		respondError(ctx, err, "Failed to review flash card")
		return
	}
	ctx.JSON(http.StatusOK, card)
}

func parseUserIDQuery(ctx *gin.Context) (uint, bool) {
	userIDStr := ctx.Query("user_id")
	if userIDStr == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "user_id query parameter is required"})
		return 0, false
	}
	val, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user_id format in query"})
		return 0, false
	}
	return uint(val), true
}
