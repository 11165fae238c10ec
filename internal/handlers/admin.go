// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the adpress API.
// Handlers are grouped by concern (admin, public, tracking, auth) and
// receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"adpress/internal/listing"
	"adpress/internal/models"
)

// PostService is the post surface the handlers need.
type PostService interface {
	List(ctx context.Context, f listing.Filters, p listing.Page) (*listing.Result, error)
	FindBySlug(ctx context.Context, postSlug string, includeDrafts bool) (*models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, id uuid.UUID, patch *models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService is the category surface the handlers need.
type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdService is the ad surface the handlers need.
type AdService interface {
	List(ctx context.Context) ([]models.Ad, error)
	ListByPlacement(ctx context.Context, placement models.Placement) ([]models.Ad, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error)
	Create(ctx context.Context, a *models.Ad) (*models.Ad, error)
	Update(ctx context.Context, id uuid.UUID, patch *models.AdPatch) (*models.Ad, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MetricsReader returns an ad's counters and CTR.
type MetricsReader interface {
	Get(ctx context.Context, adID uuid.UUID) (*models.AdMetrics, error)
}

// Invalidator drops cached public responses after a write.
type Invalidator interface {
	InvalidateAll(ctx context.Context)
}

// Admin groups the authenticated content management handlers.
type Admin struct {
	posts      PostService
	categories CategoryService
	ads        AdService
	metrics    MetricsReader
	cache      Invalidator
}

// NewAdmin creates a new Admin handler group. cache may be nil when no
// response cache is configured.
func NewAdmin(posts PostService, categories CategoryService, ads AdService, metrics MetricsReader, cache Invalidator) *Admin {
	return &Admin{
		posts:      posts,
		categories: categories,
		ads:        ads,
		metrics:    metrics,
		cache:      cache,
	}
}

func (a *Admin) invalidate(ctx context.Context) {
	if a.cache != nil {
		a.cache.InvalidateAll(ctx)
	}
}

// --- Posts ---

// PostsList returns a page of posts, drafts included unless filtered.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	f, p, ok := parseListQuery(w, r)
	if !ok {
		return
	}
	res, err := a.posts.List(r.Context(), f, p)
	if err != nil {
		writeServiceError(w, r, err, "Post")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(res, p))
}

// PostGet returns one post by id.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	post, err := a.posts.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Post")
		return
	}
	writeJSON(w, http.StatusOK, postEnvelope{Post: post})
}

// PostCreate creates a post; its slug is derived from the title.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !bind(w, r, &req) {
		return
	}
	post, err := a.posts.Create(r.Context(), req.post())
	if err != nil {
		writeServiceError(w, r, err, "Post")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, postEnvelope{Message: "Post created successfully", Post: post})
}

// PostUpdate applies a partial update to a post.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req postPatchRequest
	if !bind(w, r, &req) {
		return
	}
	post, err := a.posts.Update(r.Context(), id, req.patch())
	if err != nil {
		writeServiceError(w, r, err, "Post")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, postEnvelope{Message: "Post updated successfully", Post: post})
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.posts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Post")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}

// --- Categories ---

// CategoryCreate creates a category.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !bind(w, r, &req) {
		return
	}
	c, err := a.categories.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err, "Category")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, categoryEnvelope{Message: "Category created successfully", Category: c})
}

// CategoryGet returns one category by id.
func (a *Admin) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Category")
		return
	}
	writeJSON(w, http.StatusOK, categoryEnvelope{Category: c})
}

// CategoryUpdate renames a category, re-deriving its slug.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !bind(w, r, &req) {
		return
	}
	c, err := a.categories.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeServiceError(w, r, err, "Category")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, categoryEnvelope{Message: "Category updated successfully", Category: c})
}

// CategoryDelete removes a category. Its posts stay and render without one.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Category")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, messageResponse{Message: "Category deleted successfully"})
}

// --- Ads ---

// AdsList returns every ad with its counters.
func (a *Admin) AdsList(w http.ResponseWriter, r *http.Request) {
	ads, err := a.ads.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Ad")
		return
	}
	writeJSON(w, http.StatusOK, adsEnvelope{Ads: ads})
}

// AdGet returns one ad by id.
func (a *Admin) AdGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ad, err := a.ads.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Ad")
		return
	}
	writeJSON(w, http.StatusOK, adEnvelope{Ad: ad})
}

// AdCreate creates an ad with zeroed counters.
func (a *Admin) AdCreate(w http.ResponseWriter, r *http.Request) {
	var req adRequest
	if !bind(w, r, &req) {
		return
	}
	ad, err := a.ads.Create(r.Context(), req.ad())
	if err != nil {
		writeServiceError(w, r, err, "Ad")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusCreated, adEnvelope{Message: "Ad created successfully", Ad: ad})
}

// AdUpdate applies a partial update to an ad. Counters cannot be set.
func (a *Admin) AdUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req adPatchRequest
	if !bind(w, r, &req) {
		return
	}
	ad, err := a.ads.Update(r.Context(), id, req.patch())
	if err != nil {
		writeServiceError(w, r, err, "Ad")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, adEnvelope{Message: "Ad updated successfully", Ad: ad})
}

// AdDelete removes an ad.
func (a *Admin) AdDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.ads.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Ad")
		return
	}
	a.invalidate(r.Context())
	writeJSON(w, http.StatusOK, messageResponse{Message: "Ad deleted successfully"})
}

// AdMetrics returns an ad's impressions, clicks and CTR.
func (a *Admin) AdMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := a.metrics.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Ad")
		return
	}
	writeJSON(w, http.StatusOK, metricsEnvelope{Metrics: m})
}
