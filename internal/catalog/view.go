package catalog

import (
	"context"
	"sync"

	"fashionhub/internal/logger"
)

// ProductSource is the remote side of the catalog as the view needs it.
// *Source satisfies it.
type ProductSource interface {
	ListProducts(ctx context.Context, skip, limit int) (ListResult, error)
	ListProductsByCategory(ctx context.Context, category string, skip, limit int) (ListResult, error)
}

// LocalLister lists the user-created product records.
type LocalLister interface {
	List(ctx context.Context) ([]Product, error)
}

// Page is the displayable result of one catalog load.
type Page struct {
	Products   []Product `json:"products"`
	Category   string    `json:"category"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
	// Failed is set when the remote fetch errored; the page is then empty and
	// the caller may retry by loading again.
	Failed bool `json:"failed,omitempty"`
}

// View produces the page of products to display for a category filter and
// page number, merging the remote catalog with locally created records.
// Local records are always shown first and only on page one; they never
// consume remote page slots, only the displayed total.
//
// A response that arrives after the view has since been asked for different
// parameters is discarded, so the newest request always wins.
type View struct {
	source   ProductSource
	locals   LocalLister
	pageSize int

	mu       sync.Mutex
	category string
	page     int
	seq      uint64
	pending  int
	current  Page
}

// NewView creates a catalog view over the two product sources.
func NewView(source ProductSource, locals LocalLister, pageSize int) *View {
	if pageSize < 1 {
		pageSize = 12
	}
	return &View{
		source:   source,
		locals:   locals,
		pageSize: pageSize,
		page:     1,
		category: AllCategories,
		current:  Page{Products: []Product{}, Category: AllCategories, Page: 1, PageSize: pageSize, TotalPages: 1},
	}
}

// Load fetches and returns the page for (category, page). Switching category
// resets the page to one regardless of the requested page value. A remote
// failure yields an empty page with Failed set; it is never an error to the
// caller and is never retried automatically.
func (v *View) Load(ctx context.Context, category string, page int) Page {
	if IsAllCategories(category) {
		category = AllCategories
	}

	v.mu.Lock()
	if category != v.category {
		page = 1
	}
	if page < 1 {
		page = 1
	}
	v.category = category
	v.page = page
	v.seq++
	seq := v.seq
	v.pending++
	v.mu.Unlock()

	skip := (page - 1) * v.pageSize

	var remote ListResult
	var remoteErr error
	if category == AllCategories {
		remote, remoteErr = v.source.ListProducts(ctx, skip, v.pageSize)
	} else {
		remote, remoteErr = v.source.ListProductsByCategory(ctx, category, skip, v.pageSize)
	}

	locals := v.filteredLocals(ctx, category)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending--

	if seq != v.seq {
		// Stale: parameters changed while this fetch was in flight.
		logger.Debugf("catalog view: discarding stale response for category=%s page=%d", category, page)
		return v.current
	}

	result := Page{
		Products:   []Product{},
		Category:   category,
		Page:       page,
		PageSize:   v.pageSize,
		TotalPages: 1,
	}

	if remoteErr != nil {
		logger.Errorf("catalog view load: %v", remoteErr)
		result.Failed = true
		v.current = result
		return result
	}

	if page == 1 {
		result.Products = append(result.Products, locals...)
	}
	result.Products = append(result.Products, remote.Products...)
	result.Total = remote.Total + len(locals)
	result.TotalPages = totalPages(result.Total, v.pageSize)

	v.current = result
	return result
}

// Current returns the most recently displayed page.
func (v *View) Current() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Loading reports whether a load is outstanding. Callers should hold off page
// navigation and duplicate add actions while true.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending > 0
}

func (v *View) filteredLocals(ctx context.Context, category string) []Product {
	all, err := v.locals.List(ctx)
	if err != nil {
		// Local records are additive; a broken local store must not take the
		// remote catalog down with it.
		logger.Warnf("catalog view: listing local products: %v", err)
		return nil
	}
	if category == AllCategories {
		return all
	}
	var out []Product
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func totalPages(total, pageSize int) int {
	tp := (total + pageSize - 1) / pageSize
	if tp < 1 {
		tp = 1
	}
	return tp
}
