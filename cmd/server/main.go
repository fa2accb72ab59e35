package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/commerce-core/internal/adapter/handler"
	"github.com/rl1809/commerce-core/internal/adapter/payment"
	"github.com/rl1809/commerce-core/internal/adapter/storage"
	"github.com/rl1809/commerce-core/internal/core/service"
	"github.com/rl1809/commerce-core/internal/metrics"
	"github.com/rl1809/commerce-core/internal/notify"
)

const (
	defaultHTTPAddr   = ":8080"
	defaultMySQLDSN   = "root:root@tcp(localhost:3306)/commerce?parseTime=true"
	defaultRedisAddr  = "localhost:6379"
	defaultGatewayURL = "http://localhost:9090"
	workerCount       = 4
	queueSize         = 1024
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.Default()

	// Initialize MySQL
	db, err := sql.Open("mysql", envOr("MYSQL_DSN", defaultMySQLDSN))
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", defaultRedisAddr),
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Adapters
	cache := storage.NewRedisCache(rdb)
	productStore := storage.NewMySQLProductStore(db)
	cartStore := storage.NewMySQLCartStore(db)
	wishlistStore := storage.NewMySQLWishlistStore(db)
	orderStore := storage.NewMySQLOrderStore(db)

	gateway := payment.NewClient(
		envOr("PAYMENT_GATEWAY_URL", defaultGatewayURL),
		os.Getenv("PAYMENT_KEY_ID"),
		os.Getenv("PAYMENT_KEY_SECRET"),
	)

	m := metrics.New()
	bus := notify.NewBus()

	// Reconciler worker pool for post-order side effects
	reconciler := service.NewReconciler(productStore, cartStore, cache, bus, m, logger, workerCount, queueSize)
	go func() {
		for res := range reconciler.Results() {
			if len(res.Errs) > 0 {
				log.Printf("order %s reconciled with %d failed steps", res.OrderID, len(res.Errs))
			}
		}
	}()
	log.Printf("started %d reconcile workers", workerCount)

	// Services
	productService := service.NewProductService(productStore, cache, m, logger)
	cartService := service.NewCartService(cartStore, productStore, cache, m, logger)
	wishlistService := service.NewWishlistService(wishlistStore, productStore, cache, m, logger)
	orderService := service.NewOrderService(orderStore, gateway, reconciler, logger)

	// HTTP server
	httpHandler := handler.NewHTTPHandler(productService, cartService, wishlistService, orderService)
	mux := http.NewServeMux()
	httpHandler.Register(mux)
	mux.Handle("GET /metrics", m.Handler())

	httpServer := &http.Server{
		Addr:    envOr("HTTP_ADDR", defaultHTTPAddr),
		Handler: mux,
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	// Drain pending reconcile jobs before closing connections
	reconciler.Close()
	log.Println("reconcile workers stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}
