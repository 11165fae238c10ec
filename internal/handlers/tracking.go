package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Recorder counts ad impressions and clicks.
type Recorder interface {
	RecordImpression(ctx context.Context, adID uuid.UUID) error
	RecordClick(ctx context.Context, adID uuid.UUID) error
}

// Tracking receives impression and click beacons from the frontend.
type Tracking struct {
	recorder Recorder
}

// NewTracking creates a new Tracking handler group.
func NewTracking(recorder Recorder) *Tracking {
	return &Tracking{recorder: recorder}
}

// Impression counts one view of an ad.
func (t *Tracking) Impression(w http.ResponseWriter, r *http.Request) {
	t.track(w, r, "impression", t.recorder.RecordImpression)
}

// Click counts one click on an ad.
func (t *Tracking) Click(w http.ResponseWriter, r *http.Request) {
	t.track(w, r, "click", t.recorder.RecordClick)
}

// track answers 200 for unknown and malformed ids alike so beacons never
// surface errors to visitors.
func (t *Tracking) track(w http.ResponseWriter, r *http.Request, kind string, record func(context.Context, uuid.UUID) error) {
	var req trackRequest
	if !bind(w, r, &req) {
		return
	}

	id, err := uuid.Parse(req.AdID)
	if err != nil {
		slog.Debug("tracking beacon with malformed ad id", "kind", kind, "ad_id", req.AdID)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	if err := record(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Ad")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
