package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/metrics"
	"github.com/rl1809/commerce-core/internal/notify"
	"github.com/rl1809/commerce-core/internal/port"
)

const reconcileTimeout = 5 * time.Second

type reconcileJob struct {
	order  domain.Order
	userID string
}

// ReconcileResult reports one processed job. Errs lists the steps that
// failed; the order itself already stands regardless.
type ReconcileResult struct {
	OrderID string
	Errs    []error
}

// Reconciler runs the post-commit side of checkout on a worker pool: bulk
// stock decrement, cart clearing, cache invalidation and the order-created
// broadcast. Step failures are logged and counted, never surfaced to the
// buyer. Results land on a channel the owner must drain.
type Reconciler struct {
	products port.ProductStore
	carts    port.CartStore
	cache    port.Cache
	bus      port.NotificationBus
	metrics  *metrics.Metrics
	logger   *log.Logger

	jobs    chan reconcileJob
	results chan ReconcileResult
	wg      sync.WaitGroup
}

func NewReconciler(products port.ProductStore, carts port.CartStore, cache port.Cache, bus port.NotificationBus, m *metrics.Metrics, logger *log.Logger, workers, queueSize int) *Reconciler {
	r := &Reconciler{
		products: products,
		carts:    carts,
		cache:    cache,
		bus:      bus,
		metrics:  m,
		logger:   logger,
		jobs:     make(chan reconcileJob, queueSize),
		results:  make(chan ReconcileResult, queueSize),
	}

	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	return r
}

// Enqueue hands a committed order to the pool without blocking the checkout
// response path beyond queue admission. Jobs are not cancellable.
func (r *Reconciler) Enqueue(order domain.Order, userID string) {
	r.jobs <- reconcileJob{order: order, userID: userID}
}

// Results reports completed jobs in processing order.
func (r *Reconciler) Results() <-chan ReconcileResult {
	return r.results
}

// Close stops accepting jobs, drains the pool, then closes Results.
func (r *Reconciler) Close() {
	close(r.jobs)
	r.wg.Wait()
	close(r.results)
}

func (r *Reconciler) worker(id int) {
	defer r.wg.Done()
	for job := range r.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		res := r.run(ctx, job)
		cancel()

		if len(res.Errs) == 0 {
			r.logger.Printf("worker %d: reconciled order %s", id, job.order.ID)
		}
		r.results <- res
	}
}

func (r *Reconciler) run(ctx context.Context, job reconcileJob) ReconcileResult {
	res := ReconcileResult{OrderID: job.order.ID}
	fail := func(step string, err error) {
		r.logger.Printf("reconcile order %s: %s failed: %v", job.order.ID, step, err)
		r.metrics.ReconcileFailures.WithLabelValues(step).Inc()
		res.Errs = append(res.Errs, fmt.Errorf("%s: %w", step, err))
	}

	deltas := make([]domain.StockDelta, len(job.order.Items))
	for i, item := range job.order.Items {
		deltas[i] = domain.StockDelta{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	if err := r.products.BulkUpdateStock(ctx, deltas); err != nil {
		fail("stock_decrement", err)
	}

	if err := r.carts.ClearItems(ctx, job.userID); err != nil {
		fail("cart_clear", err)
	}

	keys := make([]string, 0, len(job.order.Items)+2)
	for _, item := range job.order.Items {
		keys = append(keys, productKey(item.ProductID))
	}
	keys = append(keys, productsAllKey, cartKey(job.userID))
	if err := r.cache.Delete(ctx, keys...); err != nil {
		fail("cache_invalidate", err)
	}

	r.bus.Broadcast(notify.EventOrderCreated, job.order)
	return res
}
