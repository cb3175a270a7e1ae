package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"fashionhub/internal/catalog"
	"fashionhub/internal/logger"
)

// placeholderThumbnail fills in for user products created without an image.
const placeholderThumbnail = "https://upload.wikimedia.org/wikipedia/commons/1/14/No_Image_Available.jpg"

// Records hands out per-client record stores. One client's records live under
// one KV key as a whole list; all mutations are serialized read-modify-write
// replacements of that list.
type Records struct {
	kv KV
	mu sync.Mutex
}

// NewRecords creates the record store factory over kv.
func NewRecords(kv KV) *Records {
	return &Records{kv: kv}
}

// For returns the record store of one client.
func (r *Records) For(clientID string) *Store {
	return &Store{records: r, key: "userproducts:" + clientID}
}

// Store holds the user-created products of a single client. Remote catalog
// products never pass through here; these records are created, edited and
// deleted entirely locally and are never written back to the remote source.
type Store struct {
	records *Records
	key     string
}

// List returns all records, newest first. Missing or corrupt stored data
// reads as an empty list, never an error.
func (s *Store) List(ctx context.Context) ([]catalog.Product, error) {
	data, err := s.records.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("List records: %w", err)
	}
	if data == nil {
		return []catalog.Product{}, nil
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logger.Warnf("local records: corrupt data under %s, treating as empty", s.key)
		return []catalog.Product{}, nil
	}
	return products, nil
}

// Create builds a record from req, assigns a locally unique id and prepends
// it to the list. The id is a millisecond timestamp so it can never collide
// with the remote catalog's small numeric ids.
func (s *Store) Create(ctx context.Context, req catalog.CreateProductRequest) (catalog.Product, error) {
	p := catalog.Product{
		ID:            strconv.FormatInt(time.Now().UnixMilli(), 10),
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		Brand:         req.Brand,
		Thumbnail:     req.Thumbnail,
		Images:        req.Images,
		IsUserCreated: true,
		CreatedAt:     time.Now().UTC(),
	}
	if p.Price < 0 {
		p.Price = 0
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Thumbnail == "" && len(p.Images) > 0 {
		p.Thumbnail = p.Images[0]
	}
	if p.Thumbnail == "" {
		p.Thumbnail = placeholderThumbnail
	}

	s.records.mu.Lock()
	defer s.records.mu.Unlock()

	products, err := s.List(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	products = append([]catalog.Product{p}, products...)

	if err := s.save(ctx, products); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// Update applies the non-nil fields of patch to the record with the given id.
// Returns false when no record matches; that is not an error.
func (s *Store) Update(ctx context.Context, id string, patch catalog.UpdateProductRequest) (bool, error) {
	s.records.mu.Lock()
	defer s.records.mu.Unlock()

	products, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	idx := -1
	for i := range products {
		if products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	p := &products[idx]
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
		if p.Price < 0 {
			p.Price = 0
		}
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Thumbnail != nil {
		p.Thumbnail = *patch.Thumbnail
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}

	if err := s.save(ctx, products); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the record with the given id. Returns false when no record
// matches; that is not an error.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.records.mu.Lock()
	defer s.records.mu.Unlock()

	products, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return false, nil
	}

	if err := s.save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, products []catalog.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	if err := s.records.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}
