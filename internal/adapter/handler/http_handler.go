package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rl1809/commerce-core/internal/core/domain"
	"github.com/rl1809/commerce-core/internal/core/service"
	"github.com/rl1809/commerce-core/internal/port"
)

// HTTPHandler is a thin JSON adapter over the services. Authentication is an
// external collaborator; the caller identity arrives in X-User-ID.
type HTTPHandler struct {
	products  *service.ProductService
	carts     *service.CartService
	wishlists *service.WishlistService
	orders    *service.OrderService
}

func NewHTTPHandler(products *service.ProductService, carts *service.CartService, wishlists *service.WishlistService, orders *service.OrderService) *HTTPHandler {
	return &HTTPHandler{products: products, carts: carts, wishlists: wishlists, orders: orders}
}

// Register mounts the API surface on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("PUT /api/products/{id}", h.updateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", h.deleteProduct)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart", h.addToCart)
	mux.HandleFunc("PATCH /api/cart", h.updateCartQuantity)
	mux.HandleFunc("DELETE /api/cart/{productId}", h.removeFromCart)

	mux.HandleFunc("GET /api/wishlist", h.getWishlist)
	mux.HandleFunc("POST /api/wishlist/{productId}", h.addToWishlist)
	mux.HandleFunc("DELETE /api/wishlist/{productId}", h.removeFromWishlist)

	mux.HandleFunc("POST /api/payments/intent", h.createPaymentIntent)
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)

	mux.HandleFunc("GET /health", h.healthCheck)
}

type productRequest struct {
	Name     string                `json:"name"`
	Category string                `json:"category"`
	Price    *decimal.Decimal      `json:"price"`
	OldPrice *decimal.Decimal      `json:"old_price"`
	Stock    *int                  `json:"stock"`
	Status   *domain.ProductStatus `json:"status"`
	Image    *string               `json:"image"`
}

func (h *HTTPHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	in := service.CreateProductInput{
		Name:     req.Name,
		Category: req.Category,
		OldPrice: req.OldPrice,
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	if req.Stock != nil {
		in.Stock = *req.Stock
	}
	if req.Status != nil {
		in.Status = *req.Status
	}
	if req.Image != nil {
		in.Image = *req.Image
	}

	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *HTTPHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	patch := port.ProductPatch{
		Price:    req.Price,
		OldPrice: req.OldPrice,
		Stock:    req.Stock,
		Status:   req.Status,
		Image:    req.Image,
	}
	if req.Name != "" {
		patch.Name = &req.Name
	}
	if req.Category != "" {
		patch.Category = &req.Category
	}

	p, err := h.products.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.products.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted", "id": id})
}

type cartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *HTTPHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.GetCart(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *HTTPHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), userID(r), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *HTTPHandler) updateCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), userID(r), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *HTTPHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.RemoveItem(r.Context(), userID(r), r.PathValue("productId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *HTTPHandler) getWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlists.GetWishlist(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) addToWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlists.AddItem(r.Context(), userID(r), r.PathValue("productId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlists.RemoveItem(r.Context(), userID(r), r.PathValue("productId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type intentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (h *HTTPHandler) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errInvalidBody)
		return
	}

	intent, err := h.orders.CreatePaymentIntent(r.Context(), req.Amount, req.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

func (h *HTTPHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in service.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errInvalidBody)
		return
	}
	in.UserID = userID(r)

	order, err := h.orders.CreateOrder(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var errInvalidBody = fmt.Errorf("%w: invalid request body", domain.ErrValidation)

func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrPaymentVerification):
		status = http.StatusPaymentRequired
		message = err.Error()
	}

	writeJSON(w, status, map[string]string{"message": message})
}
