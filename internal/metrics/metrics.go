// Package metrics records ad impressions and clicks and derives
// click-through rates.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"adpress/internal/models"
)

// ErrNotFound is returned by Get when the ad does not exist.
var ErrNotFound = errors.New("metrics: ad not found")

// Counter names a per-ad counter column.
type Counter string

const (
	Impressions Counter = "impressions"
	Clicks      Counter = "clicks"
)

// Store is the persistence the tracker needs. Increment must add one to the
// counter in a single atomic statement without reading it first, and report
// whether the ad exists.
type Store interface {
	Increment(ctx context.Context, adID uuid.UUID, c Counter) (bool, error)
	Counters(ctx context.Context, adID uuid.UUID) (impressions, clicks int64, found bool, err error)
}

// Tracker records tracking events against a Store.
type Tracker struct {
	store Store
}

// NewTracker returns a Tracker writing to store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// RecordImpression counts one impression. Unknown ads are ignored.
func (t *Tracker) RecordImpression(ctx context.Context, adID uuid.UUID) error {
	return t.record(ctx, adID, Impressions)
}

// RecordClick counts one click. Unknown ads are ignored.
func (t *Tracker) RecordClick(ctx context.Context, adID uuid.UUID) error {
	return t.record(ctx, adID, Clicks)
}

func (t *Tracker) record(ctx context.Context, adID uuid.UUID, c Counter) error {
	found, err := t.store.Increment(ctx, adID, c)
	if err != nil {
		return fmt.Errorf("record %s: %w", c, err)
	}
	if !found {
		// Stale frontends keep sending ids of deleted ads.
		slog.Debug("tracking call for unknown ad ignored", "ad_id", adID, "counter", c)
	}
	return nil
}

// Get returns the ad's counters and CTR, or ErrNotFound.
func (t *Tracker) Get(ctx context.Context, adID uuid.UUID) (*models.AdMetrics, error) {
	impressions, clicks, found, err := t.store.Counters(ctx, adID)
	if err != nil {
		return nil, fmt.Errorf("get ad metrics: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &models.AdMetrics{
		Impressions: impressions,
		Clicks:      clicks,
		CTR:         CTR(impressions, clicks),
	}, nil
}

// CTR returns clicks/impressions as a percentage rounded to two decimals,
// or 0 when there are no impressions.
func CTR(impressions, clicks int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return math.Round(float64(clicks)/float64(impressions)*100*100) / 100
}
