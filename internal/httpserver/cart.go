package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), currentUserID(c), req.ProductID, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func updateCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cart, err := svc.UpdateQuantity(c.Request.Context(), currentUserID(c), c.Param("productID"), req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func removeCartItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.RemoveItem(c.Request.Context(), currentUserID(c), c.Param("productID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func clearCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), currentUserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listProductsHandler(repo productLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repo.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}
