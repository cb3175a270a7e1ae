package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Source is the adapter for the remote paginated product catalog. The remote
// side is a dummyjson-shaped demo API: read-mostly, no authentication, and its
// create endpoint only echoes the payload back.
type Source struct {
	base   string
	client *http.Client
}

// NewSource creates an adapter for the catalog at base, e.g. "https://dummyjson.com".
func NewSource(base string) *Source {
	return &Source{
		base:   base,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewSourceWithClient allows injecting the HTTP client, used by tests.
func NewSourceWithClient(base string, client *http.Client) *Source {
	return &Source{base: base, client: client}
}

type rawListResult struct {
	Products []rawProduct `json:"products"`
	Total    int          `json:"total"`
}

// ListProducts retrieves one page of the unfiltered catalog.
func (s *Source) ListProducts(ctx context.Context, skip, limit int) (ListResult, error) {
	return s.list(ctx, s.base+"/products", skip, limit)
}

// ListProductsByCategory retrieves one page of a single category.
func (s *Source) ListProductsByCategory(ctx context.Context, category string, skip, limit int) (ListResult, error) {
	return s.list(ctx, s.base+"/products/category/"+url.PathEscape(category), skip, limit)
}

func (s *Source) list(ctx context.Context, endpoint string, skip, limit int) (ListResult, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ListResult{}, fmt.Errorf("ListProducts url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	u.RawQuery = q.Encode()

	var raw rawListResult
	if err := s.getJSON(ctx, u.String(), &raw); err != nil {
		return ListResult{}, fmt.Errorf("ListProducts: %w", err)
	}

	res := ListResult{Products: make([]Product, 0, len(raw.Products)), Total: raw.Total}
	for _, rp := range raw.Products {
		res.Products = append(res.Products, rp.normalize())
	}
	return res, nil
}

// GetProduct retrieves a single product by id. Returns (nil, nil) when the
// remote catalog has no such product.
func (s *Source) GetProduct(ctx context.Context, id string) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("GetProduct request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GetProduct: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GetProduct: unexpected status %d", resp.StatusCode)
	}

	var raw rawProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("GetProduct decode: %w", err)
	}
	p := raw.normalize()
	return &p, nil
}

// CreateProduct posts a new product to the remote catalog. The echo response
// is not authoritative; callers keep their own record with a locally assigned
// id for anything that must survive across sessions.
func (s *Source) CreateProduct(ctx context.Context, payload CreateProductRequest) (*Product, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("CreateProduct marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/products/add", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("CreateProduct request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("CreateProduct: unexpected status %d", resp.StatusCode)
	}

	var raw rawProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("CreateProduct decode: %w", err)
	}
	p := raw.normalize()
	return &p, nil
}

// ListCategories retrieves the remote category list.
func (s *Source) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := s.getJSON(ctx, s.base+"/products/categories", &cats); err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	return cats, nil
}

func (s *Source) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
