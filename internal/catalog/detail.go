package catalog

import (
	"context"
	"fmt"
	"math"
)

// RemoteGetter fetches a single product from the remote catalog.
// *Source satisfies it.
type RemoteGetter interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
}

// Detail resolves a single product for display, preferring a local record
// over a remote fetch when both could answer the same id.
type Detail struct {
	locals LocalLister
	remote RemoteGetter
}

// NewDetail creates a detail resolver over the two product sources.
func NewDetail(locals LocalLister, remote RemoteGetter) *Detail {
	return &Detail{locals: locals, remote: remote}
}

// Resolve returns the product for id, or (nil, nil) when neither source knows
// it. A matching local record short-circuits the remote call entirely.
func (d *Detail) Resolve(ctx context.Context, id string) (*Product, error) {
	locals, err := d.locals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("Resolve local list: %w", err)
	}
	for i := range locals {
		if locals[i].ID == id {
			p := locals[i]
			return &p, nil
		}
	}

	p, err := d.remote.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Resolve remote: %w", err)
	}
	return p, nil
}

// DisplayRating picks the one rating shown everywhere on the detail page: the
// product's explicit rating when present, else the mean of its reviews'
// numeric ratings, else zero.
func DisplayRating(p *Product) float64 {
	if p == nil {
		return 0
	}
	if p.Rating != nil {
		return *p.Rating
	}

	sum, count := 0.0, 0
	for _, r := range p.Reviews {
		if r.Rating == nil {
			continue
		}
		sum += *r.Rating
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// ReviewStats is the star-bucket distribution of a product's reviews.
type ReviewStats struct {
	Total  int
	Counts [5]int // Counts[0] is the 1-star bucket
}

// NewReviewStats buckets reviews by nearest-integer rating clamped to [1,5].
// Reviews without a numeric rating count toward Total but no bucket.
func NewReviewStats(reviews []Review) ReviewStats {
	s := ReviewStats{Total: len(reviews)}
	for _, r := range reviews {
		if r.Rating == nil {
			continue
		}
		bucket := int(math.Round(*r.Rating))
		if bucket < 1 {
			bucket = 1
		}
		if bucket > 5 {
			bucket = 5
		}
		s.Counts[bucket-1]++
	}
	return s
}

// Percent returns the rounded percentage of reviews in the given star bucket,
// zero for every bucket when there are no reviews.
func (s ReviewStats) Percent(star int) int {
	if s.Total == 0 || star < 1 || star > 5 {
		return 0
	}
	return int(math.Round(float64(s.Counts[star-1]) / float64(s.Total) * 100))
}
