package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"debate_classroom/internal/service"
)

// respondError 是唯一把服務層錯誤轉成使用者可見文字的地方
// 所有錯誤都以行內橫幅呈現給使用者，由使用者決定是否重試，不自動重試
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDuplicateIdentifier),
		errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrPasswordTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidVoteType),
		errors.Is(err, service.ErrEmptyInput),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
