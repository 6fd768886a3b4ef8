package httpserver

import (
	"context"
	"log"

	"storefront-orders/internal/domain"
	cartsvc "storefront-orders/internal/service/cart"
	checkoutsvc "storefront-orders/internal/service/checkout"
	ordersvc "storefront-orders/internal/service/order"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type cartService interface {
	Get(ctx context.Context, userID string) (*cartsvc.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*cartsvc.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*cartsvc.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*cartsvc.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type checkoutService interface {
	Checkout(ctx context.Context, userID string, in checkoutsvc.Input) (*domain.Order, error)
	Preview(ctx context.Context, userID string, deliveryType domain.DeliveryType) (checkoutsvc.Amounts, error)
}

type orderService interface {
	Get(ctx context.Context, orderID, userID string) (*domain.Order, error)
	List(ctx context.Context, in ordersvc.ListInput) ([]domain.Order, int, error)
	AdvanceStatus(ctx context.Context, orderID string, target domain.Status) (*domain.Order, error)
	Pay(ctx context.Context, orderID, userID string) (*domain.Order, error)
	Confirm(ctx context.Context, orderID, userID string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, userID string) (*domain.Order, error)
}

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Deps carries the wired services into the router.
type Deps struct {
	CartSvc     cartService
	CheckoutSvc checkoutService
	OrderSvc    orderService
	ProductRepo productLister
}

// buildRouter wires routes for the API. Authentication is an upstream
// concern; the gateway forwards the caller's identity in X-User-ID.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.ProductRepo))

	authed := router.Group("/", userIdentity())
	{
		authed.GET("/cart", getCartHandler(deps.CartSvc))
		authed.POST("/cart/items", addCartItemHandler(deps.CartSvc))
		authed.PUT("/cart/items/:productID", updateCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart/items/:productID", removeCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart", clearCartHandler(deps.CartSvc))

		authed.POST("/orders", checkoutHandler(deps.CheckoutSvc))
		authed.GET("/orders", listOrdersHandler(deps.OrderSvc))
		authed.GET("/orders/amount/preview", previewAmountHandler(deps.CheckoutSvc))
		authed.GET("/orders/:orderID", getOrderHandler(deps.OrderSvc))
		authed.POST("/orders/:orderID/cancel", cancelOrderHandler(deps.OrderSvc))
		authed.PUT("/orders/:orderID/pay", payOrderHandler(deps.OrderSvc))
		authed.POST("/orders/:orderID/confirm", confirmOrderHandler(deps.OrderSvc))

		authed.PUT("/admin/orders/:orderID/status", forceStatusHandler(deps.OrderSvc))
	}

	return router
}
