package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"adpress/internal/models"
)

// AdRepository is the ad persistence the service needs.
type AdRepository interface {
	List(ctx context.Context) ([]models.Ad, error)
	ListByPlacement(ctx context.Context, placement models.Placement) ([]models.Ad, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error)
	Create(ctx context.Context, a *models.Ad) (*models.Ad, error)
	Update(ctx context.Context, a *models.Ad) (*models.Ad, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Ads manages ad creatives. Counters are owned by the metrics tracker and
// never written here.
type Ads struct {
	repo AdRepository
}

// NewAds returns an Ads service.
func NewAds(repo AdRepository) *Ads {
	return &Ads{repo: repo}
}

// List returns every ad, newest first.
func (s *Ads) List(ctx context.Context) ([]models.Ad, error) {
	return s.repo.List(ctx)
}

// ListByPlacement returns the active ads for a placement.
func (s *Ads) ListByPlacement(ctx context.Context, placement models.Placement) ([]models.Ad, error) {
	if !placement.Valid() {
		return nil, invalid("unknown placement %q", placement)
	}
	return s.repo.ListByPlacement(ctx, placement)
}

// FindByID returns the ad with the given id.
func (s *Ads) FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// Create stores a new ad. Counters start at zero whatever the input says.
func (s *Ads) Create(ctx context.Context, a *models.Ad) (*models.Ad, error) {
	a.NormalizePayload()
	if err := validateAd(a); err != nil {
		return nil, err
	}
	a.Impressions, a.Clicks = 0, 0
	return s.repo.Create(ctx, a)
}

// Update applies patch to the ad. The type/payload pairing is checked on
// the merged result, so switching type requires sending the new payload.
func (s *Ads) Update(ctx context.Context, id uuid.UUID, patch *models.AdPatch) (*models.Ad, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	patch.Apply(a)
	a.NormalizePayload()
	if err := validateAd(a); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes the ad.
func (s *Ads) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func validateAd(a *models.Ad) error {
	if strings.TrimSpace(a.Title) == "" {
		return invalid("title is required")
	}
	if !a.Placement.Valid() {
		return invalid("unknown placement %q", a.Placement)
	}
	switch a.Type {
	case models.AdTypeImage:
		if a.ImageURL == nil || *a.ImageURL == "" {
			return invalid("image ads need an imageUrl")
		}
	case models.AdTypeScript:
		if a.ScriptCode == nil || *a.ScriptCode == "" {
			return invalid("script ads need scriptCode")
		}
	default:
		return invalid("unknown ad type %q", a.Type)
	}
	return nil
}
