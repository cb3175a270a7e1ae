package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecords is an in-memory RecordStore.
type fakeRecords struct {
	products []Product
	nextID   string
}

func (f *fakeRecords) List(ctx context.Context) ([]Product, error) {
	return f.products, nil
}

func (f *fakeRecords) Create(ctx context.Context, req CreateProductRequest) (Product, error) {
	p := Product{
		ID:            f.nextID,
		Title:         req.Title,
		Price:         req.Price,
		Category:      req.Category,
		Thumbnail:     req.Thumbnail,
		IsUserCreated: true,
	}
	f.products = append([]Product{p}, f.products...)
	return p, nil
}

func (f *fakeRecords) Update(ctx context.Context, id string, patch UpdateProductRequest) (bool, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			if patch.Title != nil {
				f.products[i].Title = *patch.Title
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecords) Delete(ctx context.Context, id string) (bool, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestHandler(t *testing.T, remote http.HandlerFunc, records *fakeRecords) (*Handler, *mux.Router) {
	t.Helper()

	srv := httptest.NewServer(remote)
	t.Cleanup(srv.Close)

	h := NewHandler(
		NewSourceWithClient(srv.URL, srv.Client()),
		func(clientID string) RecordStore { return records },
		12,
	)

	r := mux.NewRouter()
	r.HandleFunc("/api/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", h.UpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/api/categories", h.ListCategories).Methods(http.MethodGet)
	return h, r
}

func do(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListProductsMergesAndWindows(t *testing.T) {
	remote := func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []map[string]interface{}{
				{"id": 1, "title": "Remote One", "price": 10},
				{"id": 2, "title": "Remote Two", "price": 20},
			},
			"total": 30,
		})
	}
	records := &fakeRecords{products: []Product{
		{ID: "1700000000000", Title: "My Product", IsUserCreated: true},
	}}

	_, router := newTestHandler(t, remote, records)
	rec := do(router, http.MethodGet, "/api/products?page=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Products   []Product `json:"products"`
		Total      int       `json:"total"`
		TotalPages int       `json:"totalPages"`
		Window     []int     `json:"window"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Products, 3)
	assert.Equal(t, "My Product", resp.Products[0].Title, "local records lead the first page")
	assert.Equal(t, 31, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, []int{1, 2, 3}, resp.Window)
}

func TestListProductsRemoteFailure(t *testing.T) {
	remote := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}
	_, router := newTestHandler(t, remote, &fakeRecords{})

	rec := do(router, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code, "remote failure is a recoverable state, not a 5xx")

	var resp struct {
		Products []Product `json:"products"`
		Total    int       `json:"total"`
		Failed   bool      `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Failed)
	assert.Empty(t, resp.Products)
	assert.Zero(t, resp.Total)
}

func TestGetProductPrefersLocalRecord(t *testing.T) {
	remoteHits := 0
	remote := func(w http.ResponseWriter, r *http.Request) {
		remoteHits++
		http.NotFound(w, r)
	}
	records := &fakeRecords{products: []Product{
		{ID: "1700000000000", Title: "Mine", Price: 5, IsUserCreated: true},
	}}

	_, router := newTestHandler(t, remote, records)
	rec := do(router, http.MethodGet, "/api/products/1700000000000", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Product       Product `json:"product"`
		DisplayRating float64 `json:"displayRating"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Mine", resp.Product.Title)
	assert.Zero(t, remoteHits, "local hit never touches the remote catalog")
}

func TestGetProductNotFound(t *testing.T) {
	_, router := newTestHandler(t, http.NotFound, &fakeRecords{})
	rec := do(router, http.MethodGet, "/api/products/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductRatingStats(t *testing.T) {
	remote := func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 7, "title": "Boot", "price": 10,
			"reviews": []map[string]interface{}{
				{"reviewerName": "Ada", "rating": 5, "comment": "great"},
				{"reviewerName": "Bob", "rating": 3, "comment": "fine"},
			},
		})
	}
	_, router := newTestHandler(t, remote, &fakeRecords{})

	rec := do(router, http.MethodGet, "/api/products/7", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		DisplayRating float64 `json:"displayRating"`
		Reviews       struct {
			Total    int         `json:"total"`
			Percents map[int]int `json:"percents"`
		} `json:"reviewStats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4.0, resp.DisplayRating, "no explicit rating, mean of reviews")
	assert.Equal(t, 2, resp.Reviews.Total)
	assert.Equal(t, 50, resp.Reviews.Percents[5])
	assert.Equal(t, 50, resp.Reviews.Percents[3])
	assert.Equal(t, 0, resp.Reviews.Percents[1])
}

func TestCreateProductValidation(t *testing.T) {
	_, router := newTestHandler(t, http.NotFound, &fakeRecords{})
	rec := do(router, http.MethodPost, "/api/products", `{"price": 10, "category": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductSurvivesRemoteEchoFailure(t *testing.T) {
	remote := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "echo down", http.StatusInternalServerError)
	}
	records := &fakeRecords{nextID: "1700000000001"}
	_, router := newTestHandler(t, remote, records)

	rec := do(router, http.MethodPost, "/api/products",
		`{"title": "Knit Hat", "price": 19.5, "category": "accessories"}`)
	require.Equal(t, http.StatusCreated, rec.Code, "the local record is authoritative")

	var created Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.IsUserCreated)
	require.Len(t, records.products, 1)
}

func TestUpdateAndDeleteLocalOnly(t *testing.T) {
	records := &fakeRecords{products: []Product{{ID: "1700000000000", Title: "Mine"}}}
	_, router := newTestHandler(t, http.NotFound, records)

	rec := do(router, http.MethodPut, "/api/products/1700000000000", `{"title": "Renamed"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Renamed", records.products[0].Title)

	rec = do(router, http.MethodPut, "/api/products/999", `{"title": "x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code, "remote products are read-only")

	rec = do(router, http.MethodDelete, "/api/products/1700000000000", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, records.products)
}

func TestListCategoriesCaches(t *testing.T) {
	hits := 0
	remote := func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode([]map[string]string{{"slug": "beauty", "name": "Beauty"}})
	}
	_, router := newTestHandler(t, remote, &fakeRecords{})

	require.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/categories", "").Code)
	require.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/categories", "").Code)
	assert.Equal(t, 1, hits, "second hit is served from cache")
}
