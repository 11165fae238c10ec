package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"adpress/internal/listing"
	"adpress/internal/models"
	"adpress/internal/slug"
)

// memPosts is an in-memory PostRepository whose slug map acts as the
// unique index.
type memPosts struct {
	mu    sync.Mutex
	posts map[uuid.UUID]models.Post
	cats  *memCategories

	// blindProbes makes SlugExists report false this many times, simulating
	// a concurrent writer that grabs the slug after the probe.
	blindProbes int
}

func newMemPosts(cats *memCategories) *memPosts {
	return &memPosts{posts: make(map[uuid.UUID]models.Post), cats: cats}
}

func (m *memPosts) SlugExists(_ context.Context, s string, excludeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blindProbes > 0 {
		m.blindProbes--
		return false, nil
	}
	for id, p := range m.posts {
		if p.Slug == s && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPosts) slugOwner(s string) (uuid.UUID, bool) {
	for id, p := range m.posts {
		if p.Slug == s {
			return id, true
		}
	}
	return uuid.Nil, false
}

func (m *memPosts) withCategory(p models.Post) *models.Post {
	if m.cats != nil {
		if c, ok := m.cats.get(p.CategoryID); ok {
			p.Category = &models.CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
		}
	}
	return &p
}

func (m *memPosts) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return m.withCategory(p), nil
}

func (m *memPosts) FindBySlug(_ context.Context, s string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.slugOwner(s)
	if !ok {
		return nil, nil
	}
	return m.withCategory(m.posts[id]), nil
}

func (m *memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.slugOwner(p.Slug); taken {
		return nil, fmt.Errorf("create post: %w", slug.ErrTaken)
	}
	stored := *p
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.posts[stored.ID] = stored
	return m.withCategory(stored), nil
}

func (m *memPosts) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.ID]; !ok {
		return nil, nil
	}
	if owner, taken := m.slugOwner(p.Slug); taken && owner != p.ID {
		return nil, fmt.Errorf("update post: %w", slug.ErrTaken)
	}
	stored := *p
	stored.Category = nil
	stored.UpdatedAt = time.Now()
	m.posts[p.ID] = stored
	return m.withCategory(stored), nil
}

func (m *memPosts) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

func (m *memPosts) match(f listing.Filters) []models.Post {
	var out []models.Post
	for _, p := range m.posts {
		if f.Published != nil && p.Published != *f.Published {
			continue
		}
		if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Content), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *m.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (m *memPosts) CountPosts(_ context.Context, f listing.Filters) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.match(f)), nil
}

func (m *memPosts) FindPosts(_ context.Context, f listing.Filters, offset, limit int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.match(f)
	if offset >= len(all) {
		return []models.Post{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// memCategories is an in-memory CategoryRepository.
type memCategories struct {
	mu   sync.Mutex
	cats map[uuid.UUID]models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{cats: make(map[uuid.UUID]models.Category)}
}

func (m *memCategories) get(id uuid.UUID) (models.Category, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cats[id]
	return c, ok
}

func (m *memCategories) SlugExists(_ context.Context, s string, excludeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.cats {
		if c.Slug == s && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := m.get(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCategories) List(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Category{}
	for _, c := range m.cats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.cats {
		if existing.Slug == c.Slug {
			return nil, fmt.Errorf("create category: %w", slug.ErrTaken)
		}
	}
	stored := *c
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	m.cats[stored.ID] = stored
	return &stored, nil
}

func (m *memCategories) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cats[c.ID]; !ok {
		return nil, nil
	}
	for id, existing := range m.cats {
		if existing.Slug == c.Slug && id != c.ID {
			return nil, fmt.Errorf("update category: %w", slug.ErrTaken)
		}
	}
	m.cats[c.ID] = *c
	stored := *c
	return &stored, nil
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cats[id]; !ok {
		return false, nil
	}
	delete(m.cats, id)
	return true, nil
}

// memAds is an in-memory AdRepository.
type memAds struct {
	mu  sync.Mutex
	ads map[uuid.UUID]models.Ad
}

func newMemAds() *memAds {
	return &memAds{ads: make(map[uuid.UUID]models.Ad)}
}

func (m *memAds) List(_ context.Context) ([]models.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Ad{}
	for _, a := range m.ads {
		out = append(out, a)
	}
	return out, nil
}

func (m *memAds) ListByPlacement(_ context.Context, placement models.Placement) ([]models.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Ad{}
	for _, a := range m.ads {
		if a.Placement == placement && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAds) FindByID(_ context.Context, id uuid.UUID) (*models.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.ads[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memAds) Create(_ context.Context, a *models.Ad) (*models.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *a
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	m.ads[stored.ID] = stored
	return &stored, nil
}

// Update keeps the stored counters, like the SQL statement that never
// names them.
func (m *memAds) Update(_ context.Context, a *models.Ad) (*models.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.ads[a.ID]
	if !ok {
		return nil, nil
	}
	stored := *a
	stored.Impressions, stored.Clicks = old.Impressions, old.Clicks
	m.ads[a.ID] = stored
	return &stored, nil
}

func (m *memAds) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ads[id]; !ok {
		return false, nil
	}
	delete(m.ads, id)
	return true, nil
}
