// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// AdType selects which creative payload an ad carries.
type AdType string

const (
	AdTypeImage  AdType = "image"
	AdTypeScript AdType = "script"
)

// Placement is a slot on the frontend where an ad may render.
type Placement string

const (
	PlacementTop     Placement = "top"
	PlacementSidebar Placement = "sidebar"
	PlacementInline  Placement = "inline"
	PlacementPopup   Placement = "popup"
	PlacementFooter  Placement = "footer"
)

// Placements lists every valid placement in display order.
var Placements = []Placement{
	PlacementTop, PlacementSidebar, PlacementInline, PlacementPopup, PlacementFooter,
}

// Valid reports whether p is one of the known placements.
func (p Placement) Valid() bool {
	for _, known := range Placements {
		if p == known {
			return true
		}
	}
	return false
}

// Ad is an advertisement creative. Impressions and Clicks are only ever
// changed through atomic increments; clicks may exceed impressions when
// tracking calls arrive out of order.
type Ad struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Type        AdType    `json:"type"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	ScriptCode  *string   `json:"scriptCode,omitempty"`
	Placement   Placement `json:"placement"`
	RedirectURL *string   `json:"redirectUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NormalizePayload clears the payload field that does not belong to the
// ad's type, keeping image and script creatives mutually exclusive.
func (a *Ad) NormalizePayload() {
	switch a.Type {
	case AdTypeImage:
		a.ScriptCode = nil
	case AdTypeScript:
		a.ImageURL = nil
	}
}

// AdPatch carries a partial ad update. Counters are deliberately absent.
type AdPatch struct {
	Title       *string
	Type        *AdType
	ImageURL    *string
	ScriptCode  *string
	Placement   *Placement
	RedirectURL *string
	IsActive    *bool
}

// Apply copies every non-nil field of the patch onto a.
func (ap *AdPatch) Apply(a *Ad) {
	if ap.Title != nil {
		a.Title = *ap.Title
	}
	if ap.Type != nil {
		a.Type = *ap.Type
	}
	if ap.ImageURL != nil {
		a.ImageURL = ap.ImageURL
	}
	if ap.ScriptCode != nil {
		a.ScriptCode = ap.ScriptCode
	}
	if ap.Placement != nil {
		a.Placement = *ap.Placement
	}
	if ap.RedirectURL != nil {
		a.RedirectURL = ap.RedirectURL
	}
	if ap.IsActive != nil {
		a.IsActive = *ap.IsActive
	}
}

// AdMetrics is the operator-facing view of an ad's performance.
type AdMetrics struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
}
