package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"adpress/internal/models"
	"adpress/internal/slug"
)

// CategoryRepository is the category persistence the service needs.
type CategoryRepository interface {
	slug.Checker
	CategoryFinder
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Categories manages post categories.
type Categories struct {
	repo  CategoryRepository
	slugs *slug.Resolver
}

// NewCategories returns a Categories service.
func NewCategories(repo CategoryRepository) *Categories {
	return &Categories{repo: repo, slugs: slug.NewResolver(repo)}
}

// List returns every category, newest first.
func (s *Categories) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.List(ctx)
}

// FindByID returns the category with the given id.
func (s *Categories) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Create stores a new category with a slug derived from its name.
func (s *Categories) Create(ctx context.Context, name string) (*models.Category, error) {
	c := &models.Category{Name: strings.TrimSpace(name)}

	var created *models.Category
	_, err := s.slugs.Claim(ctx, c.Name, uuid.Nil, func(candidate string) error {
		c.Slug = candidate
		var err error
		created, err = s.repo.Create(ctx, c)
		return err
	})
	if err != nil {
		return nil, slugError("name", err)
	}
	return created, nil
}

// Rename changes the category's name and re-derives its slug.
func (s *Categories) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	c.Name = strings.TrimSpace(name)

	var updated *models.Category
	_, err = s.slugs.Claim(ctx, c.Name, id, func(candidate string) error {
		c.Slug = candidate
		var err error
		updated, err = s.repo.Update(ctx, c)
		return err
	})
	if err != nil {
		return nil, slugError("name", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the category. Posts filed under it keep their reference
// and are listed without a category afterwards.
func (s *Categories) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
