package service

import (
	"context"
	"fmt"
	"sync"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/repositories"
)

// In-memory fakes for the repository interfaces. Mutex-guarded so the
// concurrency tests can hammer them from multiple goroutines.

type fakeDocRepo struct {
	mu   sync.Mutex
	seq  int
	docs map[string]*models.Document
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]*models.Document)}
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	doc.ID = fmt.Sprintf("doc-%d", r.seq)
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocRepo) ListForUser(ctx context.Context, userID string) ([]models.DocumentSummary, error) {
	return nil, nil
}

func (r *fakeDocRepo) ListRecentForUser(ctx context.Context, userID string, limit int) ([]models.DocumentSummary, error) {
	return nil, nil
}

func (r *fakeDocRepo) UpdateTitle(ctx context.Context, id, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.Title = title
	return nil
}

func (r *fakeDocRepo) UpdateContent(ctx context.Context, id string, content models.Delta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.Content = content
	return nil
}

func (r *fakeDocRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocRepo) CountActivity(ctx context.Context, userID string) (*models.UserActivity, error) {
	return &models.UserActivity{}, nil
}

type fakePermRepo struct {
	mu    sync.Mutex
	seq   int
	perms map[string]*models.Permission
}

func newFakePermRepo() *fakePermRepo {
	return &fakePermRepo{perms: make(map[string]*models.Permission)}
}

func (r *fakePermRepo) Create(ctx context.Context, p *models.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = fmt.Sprintf("perm-%d", r.seq)
	cp := *p
	r.perms[p.ID] = &cp
	return nil
}

func (r *fakePermRepo) GetByID(ctx context.Context, id string) (*models.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.perms[id]
	if !ok {
		return nil, fmt.Errorf("permission %s: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePermRepo) GetForUserAndDocument(ctx context.Context, userID, documentID string) (*models.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.perms {
		if p.UserID == userID && p.DocumentID == documentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("permission: %w", domain.ErrNotFound)
}

func (r *fakePermRepo) ListByDocument(ctx context.Context, documentID string) ([]models.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Permission{}
	for _, p := range r.perms {
		if p.DocumentID == documentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePermRepo) UpdateAccessType(ctx context.Context, id string, accessType models.AccessType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.perms[id]
	if !ok {
		return fmt.Errorf("permission %s: %w", id, domain.ErrNotFound)
	}
	p.AccessType = accessType
	return nil
}

func (r *fakePermRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.perms[id]; !ok {
		return fmt.Errorf("permission %s: %w", id, domain.ErrNotFound)
	}
	delete(r.perms, id)
	return nil
}

type fakeVersionRepo struct {
	mu       sync.Mutex
	seq      int
	versions map[string]*models.DocumentVersion
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{versions: make(map[string]*models.DocumentVersion)}
}

// Create mirrors the store's atomicity: number assignment and the duplicate
// check happen under one lock, so racing creators serialize here exactly as
// they would on the unique index.
func (r *fakeVersionRepo) Create(ctx context.Context, v *models.DocumentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	max := 0
	for _, existing := range r.versions {
		if existing.DocumentID == v.DocumentID {
			if existing.VersionNumber == v.VersionNumber && v.VersionNumber != 0 {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("version %d already exists", v.VersionNumber),
					ResourceType: "version",
				}
			}
			if existing.VersionNumber > max {
				max = existing.VersionNumber
			}
		}
	}
	if v.VersionNumber == 0 {
		v.VersionNumber = max + 1
	}

	r.seq++
	v.ID = fmt.Sprintf("ver-%d", r.seq)
	cp := *v
	r.versions[v.ID] = &cp
	return nil
}

func (r *fakeVersionRepo) GetByID(ctx context.Context, id string) (*models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	if !ok {
		return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVersionRepo) ListByDocument(ctx context.Context, documentID string) ([]models.VersionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.VersionSummary{}
	for _, v := range r.versions {
		if v.DocumentID == documentID {
			out = append(out, models.VersionSummary{
				ID:            v.ID,
				DocumentID:    v.DocumentID,
				VersionNumber: v.VersionNumber,
				CreatedBy:     v.CreatedBy,
			})
		}
	}
	return out, nil
}

func (r *fakeVersionRepo) Update(ctx context.Context, v *models.DocumentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.versions[v.ID]; !ok {
		return fmt.Errorf("version %s: %w", v.ID, domain.ErrNotFound)
	}
	cp := *v
	r.versions[v.ID] = &cp
	return nil
}

func (r *fakeVersionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.versions[id]; !ok {
		return fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
	}
	delete(r.versions, id)
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]*models.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*models.Request)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *models.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	req.ID = fmt.Sprintf("req-%d", r.seq)
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRequestRepo) ListByUser(ctx context.Context, userID string) ([]models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Request{}
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ExistsForUserAndDocument(ctx context.Context, userID, documentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.UserID == userID && req.DocumentID == documentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
	}
	delete(r.requests, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by id
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

// fakeTxManager runs the function without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeCache is an in-memory TransientCache.
type fakeCache struct {
	mu      sync.Mutex
	content map[string]models.Delta
}

func newFakeCache() *fakeCache {
	return &fakeCache{content: make(map[string]models.Delta)}
}

func (c *fakeCache) Set(documentID string, d models.Delta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content[documentID] = d
}

func (c *fakeCache) Snapshot(documentID string) (models.Delta, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.content[documentID]
	return d, ok
}

func (c *fakeCache) Invalidate(documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.content, documentID)
}

// textDelta builds a single-insert delta for tests.
func textDelta(text string) models.Delta {
	return models.Delta{Ops: []models.Op{{Insert: text}}}
}
