// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for posts, categories,
// ads and users. Each store struct wraps a *sql.DB and exposes typed query
// methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"adpress/internal/listing"
	"adpress/internal/models"
	"adpress/internal/slug"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect reads posts with their category joined in. The join is a LEFT
// JOIN so posts whose category was deleted still come back.
const postSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.thumbnail_url, p.category_id,
	       p.meta_title, p.meta_description, p.published, p.created_at, p.updated_at,
	       c.id, c.name, c.slug
	FROM %s p
	LEFT JOIN categories c ON c.id = p.category_id`

func selectPostsFrom(source string) string {
	return fmt.Sprintf(postSelect, source)
}

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var (
		p       models.Post
		catID   uuid.NullUUID
		catName sql.NullString
		catSlug sql.NullString
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.ThumbnailURL, &p.CategoryID,
		&p.MetaTitle, &p.MetaDescription, &p.Published, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catSlug,
	)
	if err != nil {
		return nil, err
	}
	if catID.Valid {
		p.Category = &models.CategorySummary{ID: catID.UUID, Name: catName.String, Slug: catSlug.String}
	}
	return &p, nil
}

// SlugExists reports whether a post other than excludeID uses slug.
func (s *PostStore) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`, slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post slug exists: %w", err)
	}
	return exists, nil
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, selectPostsFrom("posts")+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by its slug regardless of publication state.
// Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, selectPostsFrom("posts")+` WHERE p.slug = $1`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with its category joined in.
// A slug collision on the unique index is reported as slug.ErrTaken.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO posts (title, slug, content, thumbnail_url, category_id,
			                   meta_title, meta_description, published)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)`+selectPostsFrom("inserted"),
		p.Title, p.Slug, p.Content, p.ThumbnailURL, p.CategoryID,
		p.MetaTitle, p.MetaDescription, p.Published,
	)
	result, err := scanPost(row)
	if isUniqueViolation(err, postSlugIndex) {
		return nil, fmt.Errorf("create post: %w", slug.ErrTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update overwrites every editable column of the post in one statement and
// returns the stored row. Returns nil if the post no longer exists.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH updated AS (
			UPDATE posts SET
				title = $1, slug = $2, content = $3, thumbnail_url = $4,
				category_id = $5, meta_title = $6, meta_description = $7,
				published = $8, updated_at = NOW()
			WHERE id = $9
			RETURNING *
		)`+selectPostsFrom("updated"),
		p.Title, p.Slug, p.Content, p.ThumbnailURL, p.CategoryID,
		p.MetaTitle, p.MetaDescription, p.Published, p.ID,
	)
	result, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err, postSlugIndex) {
		return nil, fmt.Errorf("update post: %w", slug.ErrTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return result, nil
}

// Delete removes a post by ID and reports whether it existed.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return n > 0, nil
}

// postWhere turns listing filters into a WHERE clause and its arguments.
func postWhere(f listing.Filters) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Published != nil {
		add("p.published = $%d", *f.Published)
	}
	if f.CategoryID != nil {
		add("p.category_id = $%d", *f.CategoryID)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		add("p.search_vector @@ websearch_to_tsquery('simple', $%d)", q)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// CountPosts returns how many posts match f.
func (s *PostStore) CountPosts(ctx context.Context, f listing.Filters) (int, error) {
	where, args := postWhere(f)
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// FindPosts returns one window of the posts matching f, newest first.
func (s *PostStore) FindPosts(ctx context.Context, f listing.Filters, offset, limit int) ([]models.Post, error) {
	where, args := postWhere(f)
	args = append(args, limit, offset)
	query := selectPostsFrom("posts") + where +
		fmt.Sprintf(` ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
