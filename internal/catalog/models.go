package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Product is the one normalized product shape used everywhere. Records come
// from two provenances: the remote demo catalog (read-only) and user-created
// local records (IsUserCreated set, edit/delete eligible).
type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand,omitempty"`
	Thumbnail     string    `json:"thumbnail"`
	Images        []string  `json:"images"`
	Rating        *float64  `json:"rating,omitempty"`
	Reviews       []Review  `json:"reviews,omitempty"`
	IsUserCreated bool      `json:"isUserCreated,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// Review is a single customer review. Rating is nil when the upstream value
// was missing or not numeric; aggregation skips such reviews.
type Review struct {
	ReviewerName string     `json:"reviewerName"`
	Rating       *float64   `json:"rating,omitempty"`
	Comment      string     `json:"comment"`
	Date         *time.Time `json:"date,omitempty"`
}

// Category is one entry of the remote catalog's category list.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ListResult is one page of products plus the source's total count.
type ListResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// CreateProductRequest is the payload for creating a user product.
type CreateProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand,omitempty"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images,omitempty"`
}

// UpdateProductRequest carries a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Brand       *string   `json:"brand,omitempty"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}

// AllCategories is the sentinel meaning "no category filter applied".
const AllCategories = "__all__"

// IsAllCategories reports whether category disables filtering.
func IsAllCategories(category string) bool {
	return category == "" || category == AllCategories
}

// flexID accepts a JSON number or string and normalizes it to a string, so
// numeric remote ids and timestamp-based local ids compare uniformly.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexID(n.String())
		return nil
	}
	return fmt.Errorf("product id: expected string or number, got %s", string(b))
}

// flexFloat accepts a JSON number or a numeric string. Upstream data is not
// always consistently typed, prices in particular.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flexFloat(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("numeric field: %w", err)
		}
		*f = flexFloat(v)
		return nil
	}
	return fmt.Errorf("numeric field: expected number or string, got %s", string(b))
}

// rawProduct is the wire shape before normalization.
type rawProduct struct {
	ID            flexID      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Price         *flexFloat  `json:"price"`
	Category      string      `json:"category"`
	Brand         string      `json:"brand"`
	Thumbnail     string      `json:"thumbnail"`
	Images        []string    `json:"images"`
	Rating        *flexFloat  `json:"rating"`
	Reviews       []rawReview `json:"reviews"`
	IsUserCreated bool        `json:"isUserCreated"`
	CreatedAt     *time.Time  `json:"createdAt"`
}

type rawReview struct {
	ReviewerName string          `json:"reviewerName"`
	Rating       json.RawMessage `json:"rating"`
	Comment      string          `json:"comment"`
	Date         *time.Time      `json:"date"`
}

// normalize converts a raw wire product into the canonical shape. Invalid
// optional values degrade to absent rather than failing the whole record.
func (r rawProduct) normalize() Product {
	p := Product{
		ID:            string(r.ID),
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Brand:         r.Brand,
		Thumbnail:     r.Thumbnail,
		Images:        r.Images,
		IsUserCreated: r.IsUserCreated,
	}
	if r.Images == nil {
		p.Images = []string{}
	}
	if r.Price != nil {
		p.Price = float64(*r.Price)
	}
	if p.Price < 0 {
		p.Price = 0
	}
	if r.Rating != nil && !math.IsNaN(float64(*r.Rating)) && !math.IsInf(float64(*r.Rating), 0) {
		v := float64(*r.Rating)
		p.Rating = &v
	}
	if p.Thumbnail == "" && len(p.Images) > 0 {
		p.Thumbnail = p.Images[0]
	}
	if r.CreatedAt != nil {
		p.CreatedAt = *r.CreatedAt
	}

	for _, rv := range r.Reviews {
		p.Reviews = append(p.Reviews, rv.normalize())
	}
	return p
}

func (r rawReview) normalize() Review {
	rev := Review{
		ReviewerName: r.ReviewerName,
		Comment:      r.Comment,
		Date:         r.Date,
	}
	if len(r.Rating) > 0 {
		var f flexFloat
		if err := json.Unmarshal(r.Rating, &f); err == nil {
			v := float64(f)
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				rev.Rating = &v
			}
		}
	}
	return rev
}
