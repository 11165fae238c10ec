// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog article. Its category is referenced by ID and joined in at
// read time, so a rename of the category shows up immediately.
type Post struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Content         string           `json:"content"`
	ThumbnailURL    *string          `json:"thumbnailUrl,omitempty"`
	CategoryID      uuid.UUID        `json:"categoryId"`
	MetaTitle       *string          `json:"metaTitle,omitempty"`
	MetaDescription *string          `json:"metaDescription,omitempty"`
	Published       bool             `json:"published"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`

	// Populated by store queries that join categories. Nil when the
	// referenced category no longer exists.
	Category *CategorySummary `json:"category"`
}

// PostPatch carries a partial post update. Nil fields are left untouched.
type PostPatch struct {
	Title           *string
	Content         *string
	ThumbnailURL    *string
	CategoryID      *uuid.UUID
	MetaTitle       *string
	MetaDescription *string
	Published       *bool
}

// Apply copies every non-nil field of the patch onto p.
func (pp *PostPatch) Apply(p *Post) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	if pp.ThumbnailURL != nil {
		p.ThumbnailURL = pp.ThumbnailURL
	}
	if pp.CategoryID != nil {
		p.CategoryID = *pp.CategoryID
	}
	if pp.MetaTitle != nil {
		p.MetaTitle = pp.MetaTitle
	}
	if pp.MetaDescription != nil {
		p.MetaDescription = pp.MetaDescription
	}
	if pp.Published != nil {
		p.Published = *pp.Published
	}
}
