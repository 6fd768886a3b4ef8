package httpserver

import (
	"errors"
	"net/http"

	"storefront-orders/internal/domain"
	"github.com/gin-gonic/gin"
)

const userIDHeader = "X-User-ID"

// userIdentity extracts the caller identity set by the auth gateway.
func userIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}

// respondError maps domain error kinds onto HTTP statuses. Unexpected errors
// stay opaque: the transaction already rolled back, nothing partial leaked.
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var stockErr *domain.InsufficientStockError
	var transitionErr *domain.IllegalTransitionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient stock",
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": "illegal status transition",
			"from":  transitionErr.From,
			"to":    transitionErr.To,
		})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
