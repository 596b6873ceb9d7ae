package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/studyhub/enemprep/internal/dto"
	"github.com/studyhub/enemprep/internal/service"
)

type ExamController struct {
	examService service.ExamService
}

func NewExamController(examService service.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// CreateExam godoc
// @Summary Create a new exam with its questions
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_data body dto.ExamCreateDTO true "Exam metadata and ordered questions"
// @Success 201 {object} dto.ExamDetailDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req dto.ExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateExam: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	exam, err := c.examService.Create(req)
	if err != nil {
		respondError(ctx, err, "Failed to create exam")
		return
	}
	ctx.JSON(http.StatusCreated, exam)
}

// ListExams godoc
// @Summary List exams with question counts
// @Tags Exams
// @Produce json
// @Success 200 {array} dto.ExamSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	exams, err := c.examService.List()
	if err != nil {
		respondError(ctx, err, "Failed to list exams")
		return
	}
	ctx.JSON(http.StatusOK, exams)
}

// GetExam godoc
// @Summary Get an exam with its ordered questions
// @Description Correct answers are withheld; they only appear in the post-completion attempt review.
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.ExamDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{exam_id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	exam, err := c.examService.Get(examID)
	if err != nil {
		respondError(ctx, err, "Failed to fetch exam")
		return
	}
	ctx.JSON(http.StatusOK, exam)
}

// UpdateExam godoc
// @Summary Partially update exam metadata
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param exam_data body dto.ExamUpdateDTO true "Fields to update"
// @Success 200 {object} dto.ExamDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{exam_id} [patch]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	var req dto.ExamUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	exam, err := c.examService.Update(examID, req)
	if err != nil {
		respondError(ctx, err, "Failed to update exam")
		return
	}
	ctx.JSON(http.StatusOK, exam)
}

// DeleteExam godoc
// @Summary Delete an exam and its question links
// @Tags Exams
// @Param exam_id path int true "Exam ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /exams/{exam_id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	examID, ok := parseIDParam(ctx, "exam_id")
	if !ok {
		return
	}
	if err := c.examService.Delete(examID); err != nil {
		respondError(ctx, err, "Failed to delete exam")
		return
	}
	ctx.Status(http.StatusNoContent)
}
