package wishlist

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"fashionhub/internal/catalog"
	"fashionhub/internal/http/middleware"
	"fashionhub/internal/logger"
)

// ProductResolver resolves a product id local-first. *catalog.Detail satisfies it.
type ProductResolver interface {
	Resolve(ctx context.Context, id string) (*catalog.Product, error)
}

// Handler handles HTTP requests for the wishlist.
type Handler struct {
	lists    *Manager
	resolver ProductResolver
}

// NewHandler creates a new wishlist handler.
func NewHandler(lists *Manager, resolver ProductResolver) *Handler {
	return &Handler{lists: lists, resolver: resolver}
}

type listResponse struct {
	Items []Entry `json:"items"`
	Count int     `json:"count"`
}

// GetWishlist handles GET /api/wishlist.
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	store := h.lists.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, listResponse{Items: store.Items(), Count: store.Count()})
}

// ToggleRequest is the payload for toggling wishlist membership.
type ToggleRequest struct {
	ProductID string `json:"productId"`
}

// Toggle handles POST /api/wishlist/toggle.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}

	product, err := h.resolver.Resolve(r.Context(), req.ProductID)
	if err != nil {
		logger.Errorf("wishlist Toggle resolve: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	store := h.lists.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	store.Toggle(*product)
	writeJSON(w, http.StatusOK, listResponse{Items: store.Items(), Count: store.Count()})
}

// RemoveItem handles DELETE /api/wishlist/items/{id}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store := h.lists.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	store.Remove(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, listResponse{Items: store.Items(), Count: store.Count()})
}

// Clear handles DELETE /api/wishlist.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	store := h.lists.For(r.Context(), middleware.ClientIDFrom(r.Context()))
	store.Clear()
	writeJSON(w, http.StatusOK, listResponse{Items: store.Items(), Count: store.Count()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
