package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/models"
)

// In-memory repository fakes shared by the service tests.

type memTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]*models.Template
	users     *memUserRepo // for RecordPurchase seller updates
	nextID    int
}

func newMemTemplateRepo(users *memUserRepo) *memTemplateRepo {
	return &memTemplateRepo{templates: make(map[string]*models.Template), users: users}
}

func (r *memTemplateRepo) Create(_ context.Context, tpl *models.Template) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("tpl-%d", r.nextID)
	cp := *tpl
	cp.ID = id
	r.templates[id] = &cp
	return id, nil
}

func (r *memTemplateRepo) GetByID(_ context.Context, id string) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, ok := r.templates[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (r *memTemplateRepo) Update(_ context.Context, tpl *models.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[tpl.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *tpl
	r.templates[tpl.ID] = &cp
	return nil
}

func (r *memTemplateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return db.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r *memTemplateRepo) list(keep func(*models.Template) bool) []*models.Template {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Template, 0, len(r.templates))
	for _, tpl := range r.templates {
		if keep(tpl) {
			cp := *tpl
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memTemplateRepo) ListByStatus(_ context.Context, status models.TemplateStatus) ([]*models.Template, error) {
	return r.list(func(t *models.Template) bool { return t.Status == status }), nil
}

func (r *memTemplateRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Template, error) {
	return r.list(func(t *models.Template) bool { return t.UploadedBy == ownerID }), nil
}

func (r *memTemplateRepo) ListByOwnerAndStatus(_ context.Context, ownerID string, status models.TemplateStatus) ([]*models.Template, error) {
	return r.list(func(t *models.Template) bool {
		return t.UploadedBy == ownerID && t.Status == status
	}), nil
}

func (r *memTemplateRepo) ListCreatedSince(_ context.Context, since time.Time) ([]*models.Template, error) {
	return r.list(func(t *models.Template) bool { return !t.CreatedAt.Before(since) }), nil
}

func (r *memTemplateRepo) ListAll(_ context.Context) ([]*models.Template, error) {
	return r.list(func(*models.Template) bool { return true }), nil
}

func (r *memTemplateRepo) RecordPurchase(_ context.Context, id string) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tpl, ok := r.templates[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	tpl.Sales++
	if r.users != nil {
		r.users.mu.Lock()
		if seller, ok := r.users.users[tpl.UploadedBy]; ok {
			seller.Sales++
			if !tpl.Free() {
				seller.Earnings += tpl.EstimatedPrice
			}
		}
		r.users.mu.Unlock()
	}
	cp := *tpl
	return &cp, nil
}

type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := fmt.Sprintf("user-%d", r.nextID)
	cp := *user
	cp.ID = id
	r.users[id] = &cp
	return id, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) ListAll(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		cp := *user
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) ListCreatedSince(_ context.Context, since time.Time) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0)
	for _, user := range r.users {
		if !user.CreatedAt.Before(since) {
			cp := *user
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memActivityRepo struct {
	mu      sync.Mutex
	entries []*models.Activity
	nextID  int
}

func newMemActivityRepo() *memActivityRepo { return &memActivityRepo{} }

func (r *memActivityRepo) Create(_ context.Context, a *models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *a
	cp.ID = fmt.Sprintf("act-%d", r.nextID)
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memActivityRepo) ListRecent(_ context.Context, limit int) ([]*models.Activity, error) {
	return r.listFiltered(limit, func(*models.Activity) bool { return true }), nil
}

func (r *memActivityRepo) ListByActor(_ context.Context, actorID string, limit int) ([]*models.Activity, error) {
	return r.listFiltered(limit, func(a *models.Activity) bool { return a.Actor == actorID }), nil
}

func (r *memActivityRepo) listFiltered(limit int, keep func(*models.Activity) bool) []*models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Activity, 0)
	for _, a := range r.entries {
		if keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings *models.Settings
}

func newMemSettingsRepo() *memSettingsRepo { return &memSettingsRepo{} }

func (r *memSettingsRepo) Get(_ context.Context) (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, db.ErrNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *memSettingsRepo) Save(_ context.Context, s *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.settings = &cp
	return nil
}

// memCache is an in-memory Cache without expiry.
type memCache struct {
	mu      sync.Mutex
	values  map[string]string
	sets    int
	deletes int
}

func newMemCache() *memCache { return &memCache{values: make(map[string]string)} }

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	c.deletes++
	return nil
}

// recordingMailer captures sent mail.
type recordingMailer struct {
	mu   sync.Mutex
	sent []string // "to|subject"
}

func (m *recordingMailer) Send(to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

// fakeVerifier returns canned Firebase token claims.
type fakeVerifier struct {
	uid   string
	email string
	name  string
	err   error
}

func (v *fakeVerifier) VerifyIDToken(_ context.Context, _ string) (*fbauth.Token, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &fbauth.Token{
		UID: v.uid,
		Claims: map[string]interface{}{
			"email": v.email,
			"name":  v.name,
		},
	}, nil
}

// fakeFirebaseAdmin records UpdateUser calls.
type fakeFirebaseAdmin struct {
	mu      sync.Mutex
	updated []string
}

func (f *fakeFirebaseAdmin) UpdateUser(_ context.Context, uid string, _ *fbauth.UserToUpdate) (*fbauth.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, uid)
	return &fbauth.UserRecord{}, nil
}
