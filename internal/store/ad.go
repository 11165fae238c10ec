package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"adpress/internal/metrics"
	"adpress/internal/models"
)

// AdStore manages ads and their tracking counters.
type AdStore struct {
	db *sql.DB
}

// NewAdStore returns a new AdStore.
func NewAdStore(db *sql.DB) *AdStore {
	return &AdStore{db: db}
}

const adColumns = `id, title, type, image_url, script_code, placement, redirect_url,
	is_active, impressions, clicks, created_at`

// incrementSQL holds one statement per counter so that a column name never
// comes from the caller.
var incrementSQL = map[metrics.Counter]string{
	metrics.Impressions: `UPDATE ads SET impressions = impressions + 1 WHERE id = $1`,
	metrics.Clicks:      `UPDATE ads SET clicks = clicks + 1 WHERE id = $1`,
}

func scanAd(scanner interface{ Scan(...any) error }) (*models.Ad, error) {
	var a models.Ad
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Type, &a.ImageURL, &a.ScriptCode, &a.Placement,
		&a.RedirectURL, &a.IsActive, &a.Impressions, &a.Clicks, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AdStore) query(ctx context.Context, query string, args ...any) ([]models.Ad, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Ad{}
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// List returns every ad, newest first.
func (s *AdStore) List(ctx context.Context) ([]models.Ad, error) {
	items, err := s.query(ctx, `SELECT `+adColumns+` FROM ads ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	return items, nil
}

// ListByPlacement returns the active ads for one placement, newest first.
func (s *AdStore) ListByPlacement(ctx context.Context, placement models.Placement) ([]models.Ad, error) {
	items, err := s.query(ctx, `
		SELECT `+adColumns+` FROM ads
		WHERE placement = $1 AND is_active
		ORDER BY created_at DESC, id DESC`, placement)
	if err != nil {
		return nil, fmt.Errorf("list ads by placement: %w", err)
	}
	return items, nil
}

// FindByID retrieves an ad by ID. Returns nil if not found.
func (s *AdStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+adColumns+` FROM ads WHERE id = $1`, id)
	a, err := scanAd(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ad by id: %w", err)
	}
	return a, nil
}

// Create inserts a new ad with zeroed counters.
func (s *AdStore) Create(ctx context.Context, a *models.Ad) (*models.Ad, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO ads (title, type, image_url, script_code, placement, redirect_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+adColumns,
		a.Title, a.Type, a.ImageURL, a.ScriptCode, a.Placement, a.RedirectURL, a.IsActive,
	)
	result, err := scanAd(row)
	if err != nil {
		return nil, fmt.Errorf("create ad: %w", err)
	}
	return result, nil
}

// Update writes the ad's editable columns. The counters are not part of the
// statement, so increments landing concurrently are never overwritten.
// Returns nil if the ad no longer exists.
func (s *AdStore) Update(ctx context.Context, a *models.Ad) (*models.Ad, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE ads SET
			title = $1, type = $2, image_url = $3, script_code = $4,
			placement = $5, redirect_url = $6, is_active = $7
		WHERE id = $8
		RETURNING `+adColumns,
		a.Title, a.Type, a.ImageURL, a.ScriptCode, a.Placement, a.RedirectURL, a.IsActive, a.ID,
	)
	result, err := scanAd(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update ad: %w", err)
	}
	return result, nil
}

// Delete removes an ad by ID and reports whether it existed.
func (s *AdStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete ad: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete ad: %w", err)
	}
	return n > 0, nil
}

// Increment adds one to the named counter in a single UPDATE and reports
// whether the ad exists.
func (s *AdStore) Increment(ctx context.Context, id uuid.UUID, c metrics.Counter) (bool, error) {
	query, ok := incrementSQL[c]
	if !ok {
		return false, fmt.Errorf("increment ad: unknown counter %q", c)
	}
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("increment ad %s: %w", c, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment ad %s: %w", c, err)
	}
	return n > 0, nil
}

// Counters returns the ad's impression and click counts.
func (s *AdStore) Counters(ctx context.Context, id uuid.UUID) (int64, int64, bool, error) {
	var impressions, clicks int64
	err := s.db.QueryRowContext(ctx,
		`SELECT impressions, clicks FROM ads WHERE id = $1`, id,
	).Scan(&impressions, &clicks)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("ad counters: %w", err)
	}
	return impressions, clicks, true, nil
}
