package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"adpress/internal/listing"
	"adpress/internal/middleware"
	"adpress/internal/models"
)

// Listing defaults for the public posts endpoint.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Public groups the unauthenticated read handlers used by the frontend.
type Public struct {
	db         Pinger
	posts      PostService
	categories CategoryService
	ads        AdService
}

// NewPublic creates a new Public handler group. db may be nil, in which
// case the health check only reports that the process is up.
func NewPublic(db Pinger, posts PostService, categories CategoryService, ads AdService) *Public {
	return &Public{
		db:         db,
		posts:      posts,
		categories: categories,
		ads:        ads,
	}
}

// Health reports process and database liveness.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	if p.db != nil {
		if err := p.db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  "database unreachable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listResponse is one page of posts plus pagination details.
type listResponse struct {
	Posts       []models.Post `json:"posts"`
	Total       int           `json:"total"`
	Pages       int           `json:"pages"`
	CurrentPage int           `json:"currentPage"`
	Limit       int           `json:"limit"`
}

func newListResponse(res *listing.Result, p listing.Page) listResponse {
	return listResponse{
		Posts:       res.Posts,
		Total:       res.Total,
		Pages:       res.Pages,
		CurrentPage: p.Number,
		Limit:       p.Limit,
	}
}

// parseListQuery reads page, limit, category, search and published from
// the query string. Limits above maxLimit are clamped.
func parseListQuery(w http.ResponseWriter, r *http.Request) (listing.Filters, listing.Page, bool) {
	q := r.URL.Query()
	var f listing.Filters
	p := listing.Page{Number: defaultPage, Limit: defaultLimit}
	var details []fieldError

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			details = append(details, fieldError{Field: "page", Message: "must be a positive integer"})
		}
		p.Number = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			details = append(details, fieldError{Field: "limit", Message: "must be a non-negative integer"})
		}
		p.Limit = min(n, maxLimit)
	}
	if v := q.Get("category"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			details = append(details, fieldError{Field: "category", Message: "must be a valid UUID"})
		}
		f.CategoryID = &id
	}
	if v := q.Get("published"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			details = append(details, fieldError{Field: "published", Message: "must be true or false"})
		}
		f.Published = &b
	}
	f.Search = strings.TrimSpace(q.Get("search"))

	if len(details) == 0 && p.Validate() != nil {
		details = append(details, fieldError{Field: "page", Message: "is out of range"})
	}
	if len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: details})
		return f, p, false
	}
	return f, p, true
}

// PostsList returns a page of posts. Anonymous callers only ever see
// published posts; an admin token unlocks the published filter.
func (p *Public) PostsList(w http.ResponseWriter, r *http.Request) {
	f, page, ok := parseListQuery(w, r)
	if !ok {
		return
	}
	if !middleware.SessionFromCtx(r.Context()).IsAdmin() {
		published := true
		f.Published = &published
	}

	res, err := p.posts.List(r.Context(), f, page)
	if err != nil {
		writeServiceError(w, r, err, "Post")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(res, page))
}

// PostBySlug returns a published post, or a draft to an admin.
func (p *Public) PostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	admin := middleware.SessionFromCtx(r.Context()).IsAdmin()

	post, err := p.posts.FindBySlug(r.Context(), slug, admin)
	if err != nil {
		writeServiceError(w, r, err, "Post")
		return
	}
	writeJSON(w, http.StatusOK, postEnvelope{Post: post})
}

// CategoriesList returns every category, newest first.
func (p *Public) CategoriesList(w http.ResponseWriter, r *http.Request) {
	cats, err := p.categories.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Category")
		return
	}
	writeJSON(w, http.StatusOK, categoriesEnvelope{Categories: cats})
}

// AdsByPlacement returns the active ads for ?placement=.
func (p *Public) AdsByPlacement(w http.ResponseWriter, r *http.Request) {
	placement := r.URL.Query().Get("placement")
	if placement == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Validation failed",
			Details: []fieldError{{Field: "placement", Message: "is required"}},
		})
		return
	}

	ads, err := p.ads.ListByPlacement(r.Context(), models.Placement(placement))
	if err != nil {
		writeServiceError(w, r, err, "Ad")
		return
	}
	writeJSON(w, http.StatusOK, adsEnvelope{Ads: ads})
}
