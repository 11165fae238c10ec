// Package listing builds filtered, paginated post listings. It owns the
// pagination arithmetic and leaves query execution to a Source.
package listing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adpress/internal/models"
)

// ErrInvalidPage is returned for a page number below 1, a negative limit,
// or a page so deep its offset does not fit in an int.
var ErrInvalidPage = errors.New("listing: invalid pagination")

// Filters narrows a listing. Zero-valued fields do not filter; all present
// filters are combined with AND.
type Filters struct {
	// Published restricts to one publication state when non-nil. There is
	// no implicit default; public callers set it to true themselves.
	Published *bool
	// CategoryID restricts to posts referencing the category. The category
	// does not have to exist.
	CategoryID *uuid.UUID
	// Search is a full-text query over title and content.
	Search string
}

// Page selects a window of the sorted result. Number is 1-indexed.
type Page struct {
	Number int
	Limit  int
}

// Validate reports ErrInvalidPage unless p selects a window that Offset
// can express.
func (p Page) Validate() error {
	if p.Number < 1 || p.Limit < 0 {
		return fmt.Errorf("%w: page=%d limit=%d", ErrInvalidPage, p.Number, p.Limit)
	}
	if p.Limit > 0 && p.Number-1 > math.MaxInt/p.Limit {
		return fmt.Errorf("%w: page %d is out of range", ErrInvalidPage, p.Number)
	}
	return nil
}

// Offset returns how many matching posts precede the window. It is only
// meaningful for a Page that passes Validate.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Result is one page of posts plus the totals for the whole filter set.
type Result struct {
	Posts []models.Post `json:"posts"`
	Total int           `json:"total"`
	Pages int           `json:"pages"`
}

// Source executes listing queries. FindPosts must order by created_at
// descending with a stable tie-break, and join each post's category.
type Source interface {
	CountPosts(ctx context.Context, f Filters) (int, error)
	FindPosts(ctx context.Context, f Filters, offset, limit int) ([]models.Post, error)
}

// Engine runs listings against a Source.
type Engine struct {
	source Source
}

// NewEngine returns an Engine reading from source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// List returns the posts matching f within page p. The count and the page
// fetch run concurrently and are not taken from one snapshot, so a write
// landing between them can leave Total off by one against Posts.
//
// A limit of 0 returns the total with no posts and Pages = 0.
func (e *Engine) List(ctx context.Context, f Filters, p Page) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f.Search = strings.TrimSpace(f.Search)

	res := &Result{Posts: []models.Post{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := e.source.CountPosts(gctx, f)
		if err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		res.Total = total
		return nil
	})
	if p.Limit > 0 {
		g.Go(func() error {
			posts, err := e.source.FindPosts(gctx, f, p.Offset(), p.Limit)
			if err != nil {
				return fmt.Errorf("find posts: %w", err)
			}
			if posts != nil {
				res.Posts = posts
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Pages = PageCount(res.Total, p.Limit)
	return res, nil
}

// PageCount returns ceil(total/limit), or 0 when either is not positive.
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
