package cart

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"fashionhub/internal/catalog"
	"fashionhub/internal/http/middleware"
	"fashionhub/internal/logger"
)

// ProductResolver resolves a product id local-first, the way the detail page
// does. *catalog.Detail satisfies it.
type ProductResolver interface {
	Resolve(ctx context.Context, id string) (*catalog.Product, error)
}

// Handler handles HTTP requests for the cart.
type Handler struct {
	carts    *Manager
	resolver ProductResolver
}

// NewHandler creates a new cart handler.
func NewHandler(carts *Manager, resolver ProductResolver) *Handler {
	return &Handler{carts: carts, resolver: resolver}
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart handles GET /api/cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// AddItem handles POST /api/cart/items. The requested quantity is applied as
// that many discrete unit adds, so merge and total accounting has one path.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := h.resolver.Resolve(r.Context(), req.ProductID)
	if err != nil {
		logger.Errorf("cart AddItem resolve: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	store := h.carts.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	for i := 0; i < req.Quantity; i++ {
		store.AddToCart(*product)
	}

	writeJSON(w, http.StatusOK, store.Snapshot())
}

// IncreaseItem handles POST /api/cart/items/{id}/increase.
func (h *Handler) IncreaseItem(w http.ResponseWriter, r *http.Request) {
	store := h.carts.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	store.IncreaseQuantity(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// DecreaseItem handles POST /api/cart/items/{id}/decrease.
func (h *Handler) DecreaseItem(w http.ResponseWriter, r *http.Request) {
	store := h.carts.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	store.DecreaseQuantity(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// RemoveItem handles DELETE /api/cart/items/{id}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store := h.carts.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	store.RemoveFromCart(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, store.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
