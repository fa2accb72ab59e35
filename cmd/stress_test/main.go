package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/commerce-core/internal/adapter/storage"
	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/core/service"
	"github.com/rl1809/commerce-core/internal/metrics"
)

// Hammers one user+product pair with concurrent cart adds and checks that the
// final quantity equals the net of the increments: lost updates would show up
// as a lower count.
const (
	totalRequests = 200
	qtyPerRequest = 1
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx := context.Background()

	db, err := sql.Open("mysql", envOr("MYSQL_DSN", "root:root@tcp(localhost:3306)/commerce?parseTime=true"))
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: envOr("REDIS_ADDR", "localhost:6379")})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	cache := storage.NewRedisCache(rdb)
	productStore := storage.NewMySQLProductStore(db)
	cartStore := storage.NewMySQLCartStore(db)

	logger := log.Default()
	cartService := service.NewCartService(cartStore, productStore, cache, metrics.New(), logger)

	// Seed a product and a clean cart
	userID := "stress-user-" + uuid.NewString()
	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      "stress-test-product",
		Category:  "stress",
		Price:     decimal.NewFromInt(100),
		Stock:     totalRequests,
		Status:    domain.ProductStatusInStock,
		CreatedAt: time.Now().UTC(),
	}
	if err := productStore.Create(ctx, product); err != nil {
		log.Fatalf("failed to seed product: %v", err)
	}
	defer db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, product.ID)
	defer db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := cartService.AddItem(ctx, userID, product.ID, qtyPerRequest)
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	cart, err := cartService.GetCart(ctx, userID)
	if err != nil {
		log.Fatalf("failed to read cart: %v", err)
	}

	finalQty := 0
	for _, line := range cart.Items {
		if line.Product.ID == product.ID {
			finalQty = line.Quantity
		}
	}

	expected := int(successCount.Load()) * qtyPerRequest

	fmt.Println("========== CART INCREMENT STRESS RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", successCount.Load())
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Final Quantity:   %d\n", finalQty)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("===================================================")

	if finalQty == expected {
		fmt.Printf("PASS: quantity equals the net of %d increments\n", expected)
	} else {
		fmt.Printf("FAIL: expected quantity %d, got %d (lost updates)\n", expected, finalQty)
	}
}
