package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"adpress/internal/content"
	"adpress/internal/listing"
	"adpress/internal/metrics"
	"adpress/internal/middleware"
	"adpress/internal/models"
	"adpress/internal/session"
	"adpress/internal/slug"
	"adpress/internal/store"
)

var errBoom = errors.New("boom")

// request builds a request with optional JSON body, URL params and session.
func request(method, target, body string, sess *session.Data, params map[string]string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := req.Context()
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	return req.WithContext(ctx)
}

func adminSession() *session.Data {
	return &session.Data{UserID: uuid.New(), Email: "admin@adpress.local", Role: models.RoleAdmin, TokenID: "jti"}
}

// --- posts ---

type fakePosts struct {
	mu        sync.Mutex
	posts     map[uuid.UUID]*models.Post
	lastF     listing.Filters
	lastP     listing.Page
	failWith  error
	listCalls int
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: map[uuid.UUID]*models.Post{}}
}

func (f *fakePosts) add(title string, published bool) *models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &models.Post{ID: uuid.New(), Title: title, Slug: slug.Generate(title), Published: published, CreatedAt: time.Now()}
	f.posts[p.ID] = p
	return p
}

func (f *fakePosts) List(_ context.Context, fl listing.Filters, p listing.Page) (*listing.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastF, f.lastP = fl, p
	if f.failWith != nil {
		return nil, f.failWith
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := []models.Post{}
	for _, post := range f.posts {
		if fl.Published == nil || post.Published == *fl.Published {
			out = append(out, *post)
		}
	}
	return &listing.Result{Posts: out, Total: len(out), Pages: listing.PageCount(len(out), p.Limit)}, nil
}

func (f *fakePosts) FindBySlug(_ context.Context, s string, includeDrafts bool) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.Slug == s && (p.Published || includeDrafts) {
			return p, nil
		}
	}
	return nil, content.ErrNotFound
}

func (f *fakePosts) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, content.ErrNotFound
}

func (f *fakePosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	p.ID = uuid.New()
	p.Slug = slug.Generate(p.Title)
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePosts) Update(_ context.Context, id uuid.UUID, patch *models.PostPatch) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	patch.Apply(p)
	if patch.Title != nil {
		p.Slug = slug.Generate(p.Title)
	}
	return p, nil
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return content.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

// --- categories ---

type fakeCategories struct {
	mu   sync.Mutex
	cats map[uuid.UUID]*models.Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{cats: map[uuid.UUID]*models.Category{}}
}

func (f *fakeCategories) List(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Category{}
	for _, c := range f.cats {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.cats[id]; ok {
		return c, nil
	}
	return nil, content.ErrNotFound
}

func (f *fakeCategories) Create(_ context.Context, name string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := slug.Generate(name)
	if s == "" {
		return nil, fmt.Errorf("%w: name must contain letters or digits", content.ErrInvalid)
	}
	c := &models.Category{ID: uuid.New(), Name: name, Slug: s, CreatedAt: time.Now()}
	f.cats[c.ID] = c
	return c, nil
}

func (f *fakeCategories) Rename(_ context.Context, id uuid.UUID, name string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cats[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	c.Name, c.Slug = name, slug.Generate(name)
	return c, nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cats[id]; !ok {
		return content.ErrNotFound
	}
	delete(f.cats, id)
	return nil
}

// --- ads ---

type fakeAds struct {
	mu  sync.Mutex
	ads map[uuid.UUID]*models.Ad
}

func newFakeAds() *fakeAds {
	return &fakeAds{ads: map[uuid.UUID]*models.Ad{}}
}

func (f *fakeAds) List(_ context.Context) ([]models.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Ad{}
	for _, a := range f.ads {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAds) ListByPlacement(_ context.Context, placement models.Placement) ([]models.Ad, error) {
	if !placement.Valid() {
		return nil, fmt.Errorf("%w: unknown placement %q", content.ErrInvalid, placement)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Ad{}
	for _, a := range f.ads {
		if a.Placement == placement && a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAds) FindByID(_ context.Context, id uuid.UUID) (*models.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.ads[id]; ok {
		return a, nil
	}
	return nil, content.ErrNotFound
}

func (f *fakeAds) Create(_ context.Context, a *models.Ad) (*models.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.Type == models.AdTypeImage && a.ImageURL == nil {
		return nil, fmt.Errorf("%w: image ads need an imageUrl", content.ErrInvalid)
	}
	a.ID = uuid.New()
	a.Impressions, a.Clicks = 0, 0
	f.ads[a.ID] = a
	return a, nil
}

func (f *fakeAds) Update(_ context.Context, id uuid.UUID, patch *models.AdPatch) (*models.Ad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.ads[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	patch.Apply(a)
	return a, nil
}

func (f *fakeAds) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ads[id]; !ok {
		return content.ErrNotFound
	}
	delete(f.ads, id)
	return nil
}

// --- metrics ---

type fakeMetrics struct {
	mu          sync.Mutex
	impressions map[uuid.UUID]int64
	clicks      map[uuid.UUID]int64
	known       map[uuid.UUID]bool
	failWith    error
}

func newFakeMetrics(known ...uuid.UUID) *fakeMetrics {
	m := &fakeMetrics{
		impressions: map[uuid.UUID]int64{},
		clicks:      map[uuid.UUID]int64{},
		known:       map[uuid.UUID]bool{},
	}
	for _, id := range known {
		m.known[id] = true
	}
	return m
}

func (m *fakeMetrics) RecordImpression(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.known[id] {
		m.impressions[id]++
	}
	return nil
}

func (m *fakeMetrics) RecordClick(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.known[id] {
		m.clicks[id]++
	}
	return nil
}

func (m *fakeMetrics) Get(_ context.Context, id uuid.UUID) (*models.AdMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known[id] {
		return nil, metrics.ErrNotFound
	}
	i, c := m.impressions[id], m.clicks[id]
	return &models.AdMetrics{Impressions: i, Clicks: c, CTR: metrics.CTR(i, c)}, nil
}

// --- cache ---

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeInvalidator) InvalidateAll(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeInvalidator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// --- users and sessions ---

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
	pass  map[uuid.UUID]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{}, pass: map[uuid.UUID]string{}}
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[strings.ToLower(email)], nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Create(_ context.Context, email, password, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := f.users[key]; ok {
		return nil, store.ErrDuplicateEmail
	}
	u := &models.User{ID: uuid.New(), Email: email, Name: name, Role: models.RoleAdmin, CreatedAt: time.Now()}
	f.users[key] = u
	f.pass[u.ID] = password
	return u, nil
}

func (f *fakeUsers) CheckPassword(u *models.User, password string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pass[u.ID] == password
}

type fakeSessions struct {
	mu      sync.Mutex
	revoked []string
}

func (f *fakeSessions) Issue(u *models.User) (string, time.Time, error) {
	return "token-" + u.ID.String(), time.Now().Add(session.DefaultTTL), nil
}

func (f *fakeSessions) Revoke(_ context.Context, d *session.Data) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, d.TokenID)
	return nil
}
