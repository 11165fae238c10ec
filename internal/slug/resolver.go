// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
)

var (
	// ErrEmpty is returned when the source text normalizes to an empty slug.
	ErrEmpty = errors.New("slug: text has no letters or digits")

	// ErrTaken signals that the store rejected a slug because its unique
	// index already holds it. Stores wrap their constraint violation with it.
	ErrTaken = errors.New("slug: already taken")
)

// claimRetries is how many times Claim re-resolves after a unique-index
// conflict before giving up.
const claimRetries = 1

// Checker reports whether a slug is already in use within one collection.
// excludeID names a document to ignore (uuid.Nil ignores nothing), which lets
// a document keep its own slug on rename.
type Checker interface {
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// Resolver derives unique slugs for a single collection.
type Resolver struct {
	checker Checker
}

// NewResolver returns a Resolver probing the given collection.
func NewResolver(checker Checker) *Resolver {
	return &Resolver{checker: checker}
}

// ResolveUnique returns Generate(text) if no other document uses it,
// otherwise the first free variant of base-1, base-2, … Suffixes are always
// appended to the base candidate, never to an already-suffixed one.
func (r *Resolver) ResolveUnique(ctx context.Context, text string, excludeID uuid.UUID) (string, error) {
	base := Generate(text)
	if base == "" {
		return "", ErrEmpty
	}

	candidate := base
	for n := 1; ; n++ {
		taken, err := r.checker.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

// Claim resolves a unique slug and hands it to write, which persists the
// document. The probe in ResolveUnique is only a fast path: the store's
// unique index decides. When write fails with ErrTaken (another request
// took the slug in between), Claim re-resolves against current state and
// retries once before returning the conflict.
func (r *Resolver) Claim(ctx context.Context, text string, excludeID uuid.UUID, write func(slug string) error) (string, error) {
	for attempt := 0; ; attempt++ {
		s, err := r.ResolveUnique(ctx, text, excludeID)
		if err != nil {
			return "", err
		}

		err = write(s)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrTaken) || attempt >= claimRetries {
			return "", err
		}
		slog.Warn("slug taken concurrently, re-resolving", "slug", s)
	}
}
