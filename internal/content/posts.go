package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"adpress/internal/listing"
	"adpress/internal/models"
	"adpress/internal/slug"
)

// PostRepository is the post persistence the service needs. Single-row
// lookups return nil for a missing row; Update returns nil when the row is
// gone; Create and Update wrap slug.ErrTaken on a slug index conflict.
type PostRepository interface {
	slug.Checker
	listing.Source
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Posts manages blog posts.
type Posts struct {
	repo       PostRepository
	categories CategoryFinder
	slugs      *slug.Resolver
	engine     *listing.Engine
}

// NewPosts returns a Posts service.
func NewPosts(repo PostRepository, categories CategoryFinder) *Posts {
	return &Posts{
		repo:       repo,
		categories: categories,
		slugs:      slug.NewResolver(repo),
		engine:     listing.NewEngine(repo),
	}
}

// List returns one page of posts matching f.
func (s *Posts) List(ctx context.Context, f listing.Filters, p listing.Page) (*listing.Result, error) {
	return s.engine.List(ctx, f, p)
}

// FindBySlug returns the post with the given slug. Unpublished posts are
// only returned when includeDrafts is set.
func (s *Posts) FindBySlug(ctx context.Context, postSlug string, includeDrafts bool) (*models.Post, error) {
	p, err := s.repo.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if p == nil || (!p.Published && !includeDrafts) {
		return nil, ErrNotFound
	}
	return p, nil
}

// FindByID returns the post with the given id.
func (s *Posts) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Create stores a new post with a slug derived from its title.
func (s *Posts) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if err := requireCategory(ctx, s.categories, p.CategoryID); err != nil {
		return nil, err
	}

	var created *models.Post
	_, err := s.slugs.Claim(ctx, p.Title, uuid.Nil, func(candidate string) error {
		p.Slug = candidate
		var err error
		created, err = s.repo.Create(ctx, p)
		return err
	})
	if err != nil {
		return nil, slugError("title", err)
	}
	return created, nil
}

// Update applies patch to the post. A new title re-derives the slug; the
// post keeps its current slug when the new title normalizes to it.
func (s *Posts) Update(ctx context.Context, id uuid.UUID, patch *models.PostPatch) (*models.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if patch.CategoryID != nil && *patch.CategoryID != p.CategoryID {
		if err := requireCategory(ctx, s.categories, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	patch.Apply(p)

	var updated *models.Post
	write := func(candidate string) error {
		p.Slug = candidate
		var err error
		updated, err = s.repo.Update(ctx, p)
		return err
	}

	if patch.Title != nil {
		if _, err := s.slugs.Claim(ctx, p.Title, id, write); err != nil {
			return nil, slugError("title", err)
		}
	} else if err := write(p.Slug); err != nil {
		return nil, err
	}

	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the post.
func (s *Posts) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
