package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-orders/internal/cache"
	"storefront-orders/internal/config"
	"storefront-orders/internal/db"
	"storefront-orders/internal/httpserver"
	"storefront-orders/internal/notify"
	cartrepo "storefront-orders/internal/repository/cart"
	orderrepo "storefront-orders/internal/repository/order"
	productrepo "storefront-orders/internal/repository/product"
	stockrepo "storefront-orders/internal/repository/stock"
	cartsvc "storefront-orders/internal/service/cart"
	checkoutsvc "storefront-orders/internal/service/checkout"
	ordersvc "storefront-orders/internal/service/order"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	invalidator := cache.New(cfg.RedisAddr, logger)
	defer invalidator.Close()

	publisher := notify.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	txManager := db.NewTxManager(dbpool)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	stockLedger := stockrepo.NewPostgres(logger)

	cartService := cartsvc.New(cartRepo, productRepo, invalidator, logger)
	checkoutService := checkoutsvc.New(txManager, cartRepo, orderRepo, stockLedger, invalidator, publisher, logger)
	orderService := ordersvc.New(txManager, orderRepo, stockLedger, invalidator, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		ProductRepo: productRepo,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
