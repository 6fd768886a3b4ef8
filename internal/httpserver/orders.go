package httpserver

import (
	"net/http"
	"strconv"

	"storefront-orders/internal/domain"
	checkoutsvc "storefront-orders/internal/service/checkout"
	ordersvc "storefront-orders/internal/service/order"
	"github.com/gin-gonic/gin"
)

type forceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func checkoutHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := svc.Checkout(c.Request.Context(), currentUserID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func previewAmountHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		deliveryType := domain.DeliveryType(c.DefaultQuery("delivery_type", string(domain.DeliveryTypePickup)))
		amounts, err := svc.Preview(c.Request.Context(), currentUserID(c), deliveryType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, amounts)
	}
}

func listOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		orders, total, err := svc.List(c.Request.Context(), ordersvc.ListInput{
			UserID:   currentUserID(c),
			Status:   domain.Status(c.Query("status")),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"pagination": gin.H{
				"total":     total,
				"page":      page,
				"page_size": pageSize,
			},
		})
	}
}

func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("orderID"), currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func cancelOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Cancel(c.Request.Context(), c.Param("orderID"), currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func payOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Pay(c.Request.Context(), c.Param("orderID"), currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func confirmOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Confirm(c.Request.Context(), c.Param("orderID"), currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// forceStatusHandler serves the admin flow. Same transition contract as the
// user flows; the caller is simply a different identity.
func forceStatusHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req forceStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := svc.AdvanceStatus(c.Request.Context(), c.Param("orderID"), domain.Status(req.Status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
