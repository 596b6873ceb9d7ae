package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/enemprep/internal/apperr"
	"github.com/studyhub/enemprep/internal/dto"
)

// parseIDParam reads a numeric path parameter, replying 400 itself on bad
// input. The second return value tells the caller whether to continue.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: fmt.Sprintf("Invalid %s format", name)})
		return 0, false
	}
	return uint(val), true
}

// respondError maps the error taxonomy to HTTP status codes:
// NotFound -> 404, Invalid -> 400, Conflict -> 409, anything else -> 500.
func respondError(ctx *gin.Context, err error, fallback string) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case apperr.KindInvalid:
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case apperr.KindConflict:
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback, Details: []string{err.Error()}})
	}
}
