package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/order-service/internal/errs"
)

// writeServiceError переводит доменные ошибки в HTTP-статусы:
// NotFound -> 404, Forbidden (включая "не тот статус") -> 403, остальное -> 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errs.ErrOrderNotFound.Error()})
	case errors.Is(err, errs.ErrOrderNotReviewing):
		c.JSON(http.StatusForbidden, gin.H{"error": errs.ErrOrderNotReviewing.Error()})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errs.ErrForbidden.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
