package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/studyhub/enemprep/config"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/service"
)

type AttemptController struct {
	attemptService service.AttemptService
	staleAfter     time.Duration
}

func NewAttemptController(attemptService service.AttemptService, cfg *config.Config) *AttemptController {
	return &AttemptController{
		attemptService: attemptService,
		staleAfter:     time.Duration(cfg.Attempt.StaleAfterMinutes) * time.Minute,
	}
}

// StartAttempt godoc
// @Summary Start a timed attempt on an exam
// @Description Creates an in_progress attempt with empty answers. A user can hold at most one open attempt per exam.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param start_data body dto.AttemptStartDTO true "User starting the attempt"
// @Success 201 {object} dto.AttemptStartedDTO
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "An attempt is already in progress"
// @Router /exams/{exam_id}/start [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	var req dto.AttemptStartDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	started, err := c.attemptService.Start(examID, req)
	if err != nil {
		respondError(ctx, err, "Failed to start attempt")
		return
	}
	ctx.JSON(http.StatusCreated, started)
}

// SaveProgress godoc
// @Summary Save an answers snapshot without finishing the attempt
// @Description Periodic autosave target. The payload replaces the stored answers; repeated saves with the same content are idempotent.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param attempt_id path int true "Attempt ID"
// @Param answers body dto.AttemptAnswersDTO true "Full answers snapshot"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt is no longer in progress"
// @Router /exams/{exam_id}/attempts/{attempt_id}/save [post]
func (c *AttemptController) SaveProgress(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	attemptID, ok := parseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.AttemptAnswersDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	detail, err := c.attemptService.SaveProgress(examID, attemptID, req)
	if err != nil {
		respondError(ctx, err, "Failed to save attempt progress")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// SubmitAttempt godoc
// @Summary Finalize and score an attempt
// @Description Overwrites answers with the payload, scores the attempt and returns it. Submitting an already completed attempt returns the stored result unchanged.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param attempt_id path int true "Attempt ID"
// @Param answers body dto.AttemptAnswersDTO true "Final answers"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt was abandoned"
// @Router /exams/{exam_id}/attempts/{attempt_id}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	attemptID, ok := parseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.AttemptAnswersDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	log.Info().Uint("examID", examID).Uint("attemptID", attemptID).Int("answerCount", len(req.Answers)).Msg("Received attempt submission")

	detail, err := c.attemptService.Submit(examID, attemptID, req)
	if err != nil {
		respondError(ctx, err, "Failed to submit attempt")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetAttempt godoc
// @Summary Fetch an attempt
// @Description Completed attempts include the per-question review with correct / incorrect / missed option badges.
// @Tags Attempts
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{exam_id}/attempts/{attempt_id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	attemptID, ok := parseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}

	detail, err := c.attemptService.Get(examID, attemptID)
	if err != nil {
		respondError(ctx, err, "Failed to fetch attempt")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// ListAttempts godoc
// @Summary List attempts for an exam
// @Tags Attempts
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param user_id query int false "Filter by user"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{exam_id}/attempts [get]
func (c *AttemptController) ListAttempts(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}

	var userID *uint
	if userIDStr := ctx.Query("user_id"); userIDStr != "" {
		val, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user_id format in query"})
			return
		}
		uID := uint(val)
		userID = &uID
	}

	attempts, err := c.attemptService.List(examID, userID)
	if err != nil {
		respondError(ctx, err, "Failed to list attempts")
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// SweepStaleAttempts godoc
// @Summary Mark stale in_progress attempts as abandoned
// @Description Explicit sweep; abandonment never happens implicitly. Age defaults to the configured staleness window.
// @Tags Attempts
// @Produce json
// @Param older_than_minutes query int false "Minimum age of attempts to sweep"
// @Success 200 {object} dto.SweepResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/attempts/sweep [post]
func (c *AttemptController) SweepStaleAttempts(ctx *gin.Context) {
	olderThan := c.staleAfter
	if arg := ctx.Query("older_than_minutes"); arg != "" {
		minutes, err := strconv.Atoi(arg)
		if err != nil || minutes <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "older_than_minutes must be a positive integer"})
			return
		}
		olderThan = time.Duration(minutes) * time.Minute
	}

	swept, err := c.attemptService.AbandonStale(olderThan)
	if err != nil {
		respondError(ctx, err, "Failed to sweep stale attempts")
		return
	}
	ctx.JSON(http.StatusOK, dto.SweepResultDTO{Abandoned: swept})
}
