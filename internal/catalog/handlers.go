package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"fashionhub/internal/http/middleware"
	"fashionhub/internal/logger"
)

// RecordStore is one client's user-created product records as the handlers
// need them. *localstore.Store satisfies it.
type RecordStore interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, req CreateProductRequest) (Product, error)
	Update(ctx context.Context, id string, patch UpdateProductRequest) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RecordsFor returns the record store of one client.
type RecordsFor func(clientID string) RecordStore

const categoryCacheTTL = 5 * time.Minute

// Handler handles HTTP requests for catalog operations.
type Handler struct {
	source     *Source
	recordsFor RecordsFor
	pageSize   int

	viewMu sync.Mutex
	views  map[string]*View

	catMu      sync.Mutex
	categories []Category
	catFetched time.Time
}

// NewHandler creates a new catalog handler.
func NewHandler(source *Source, recordsFor RecordsFor, pageSize int) *Handler {
	return &Handler{
		source:     source,
		recordsFor: recordsFor,
		pageSize:   pageSize,
		views:      map[string]*View{},
	}
}

// viewFor returns the stateful catalog view of one client. Views carry the
// current category/page and the stale-response bookkeeping, so they live for
// the client, not the request.
func (h *Handler) viewFor(clientID string) *View {
	h.viewMu.Lock()
	defer h.viewMu.Unlock()

	if v, ok := h.views[clientID]; ok {
		return v
	}
	v := NewView(h.source, h.recordsFor(clientID), h.pageSize)
	h.views[clientID] = v
	return v
}

// Resolver returns the local-first product resolver shared with the cart and
// wishlist handlers.
func (h *Handler) Resolver() *ClientResolver {
	return &ClientResolver{recordsFor: h.recordsFor, remote: h.source}
}

// ClientResolver resolves product ids local-first for whichever client is
// behind the request context.
type ClientResolver struct {
	recordsFor RecordsFor
	remote     RemoteGetter
}

// Resolve returns the product for id, or (nil, nil) when unknown to both sources.
func (r *ClientResolver) Resolve(ctx context.Context, id string) (*Product, error) {
	locals := r.recordsFor(middleware.ClientIDFrom(ctx))
	return NewDetail(locals, r.remote).Resolve(ctx, id)
}

type listPageResponse struct {
	Page
	Window []int `json:"window"`
}

// ListProducts handles GET /api/products?category=&page=&visible=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	visible, _ := strconv.Atoi(r.URL.Query().Get("visible"))
	if visible < 1 {
		visible = 7
	}
	category := r.URL.Query().Get("category")

	view := h.viewFor(middleware.ClientIDFrom(r.Context()))
	result := view.Load(r.Context(), category, page)

	writeJSON(w, http.StatusOK, listPageResponse{
		Page:   result,
		Window: PageWindow(result.Page, result.TotalPages, visible),
	})
}

type detailResponse struct {
	Product       Product `json:"product"`
	DisplayRating float64 `json:"displayRating"`
	Reviews       struct {
		Total    int         `json:"total"`
		Counts   map[int]int `json:"counts"`
		Percents map[int]int `json:"percents"`
	} `json:"reviewStats"`
}

// GetProduct handles GET /api/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.Resolver().Resolve(r.Context(), id)
	if err != nil {
		logger.Errorf("GetProduct: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	stats := NewReviewStats(product.Reviews)
	resp := detailResponse{Product: *product, DisplayRating: DisplayRating(product)}
	resp.Reviews.Total = stats.Total
	resp.Reviews.Counts = map[int]int{}
	resp.Reviews.Percents = map[int]int{}
	for star := 1; star <= 5; star++ {
		resp.Reviews.Counts[star] = stats.Counts[star-1]
		resp.Reviews.Percents[star] = stats.Percent(star)
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateProduct handles POST /api/products. The record is created locally
// with a locally assigned id; the remote create is attempted only for parity
// with the demo API and its echo is discarded.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Price <= 0 || req.Category == "" {
		http.Error(w, "title, price, and category are required", http.StatusBadRequest)
		return
	}

	records := h.recordsFor(middleware.ClientIDFrom(r.Context()))
	product, err := records.Create(r.Context(), req)
	if err != nil {
		logger.Errorf("CreateProduct: %v", err)
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}

	if _, err := h.source.CreateProduct(r.Context(), req); err != nil {
		logger.Warnf("CreateProduct remote echo: %v", err)
	}

	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{id}. Only user-created records are
// editable; remote catalog products are read-only from here.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	records := h.recordsFor(middleware.ClientIDFrom(r.Context()))
	found, err := records.Update(r.Context(), id, req)
	if err != nil {
		logger.Errorf("UpdateProduct: %v", err)
		http.Error(w, "failed to update product", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles DELETE /api/products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	records := h.recordsFor(middleware.ClientIDFrom(r.Context()))
	found, err := records.Delete(r.Context(), id)
	if err != nil {
		logger.Errorf("DeleteProduct: %v", err)
		http.Error(w, "failed to delete product", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/categories. The remote list barely changes,
// so it is cached for a few minutes.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.catMu.Lock()
	if h.categories != nil && time.Since(h.catFetched) < categoryCacheTTL {
		cats := h.categories
		h.catMu.Unlock()
		writeJSON(w, http.StatusOK, cats)
		return
	}
	h.catMu.Unlock()

	cats, err := h.source.ListCategories(r.Context())
	if err != nil {
		logger.Errorf("ListCategories: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.catMu.Lock()
	h.categories = cats
	h.catFetched = time.Now()
	h.catMu.Unlock()

	writeJSON(w, http.StatusOK, cats)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
