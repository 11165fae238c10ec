// Package content implements the admin and public operations on posts,
// categories and ads. It sits between the HTTP handlers and the stores and
// owns slug assignment and cross-entity checks.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"adpress/internal/models"
	"adpress/internal/slug"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("content: not found")

	// ErrInvalid marks input the caller must fix. It is always wrapped with
	// a description of the problem.
	ErrInvalid = errors.New("content: invalid input")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// slugError converts resolver failures into service errors. An empty slug
// is the caller's fault; everything else passes through.
func slugError(field string, err error) error {
	if errors.Is(err, slug.ErrEmpty) {
		return fmt.Errorf("%w: %s must contain letters or digits: %w", ErrInvalid, field, err)
	}
	return err
}

// CategoryFinder looks up a category by id, returning nil when missing.
type CategoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

func requireCategory(ctx context.Context, categories CategoryFinder, id uuid.UUID) error {
	c, err := categories.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if c == nil {
		return invalid("category %s does not exist", id)
	}
	return nil
}
