package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/phenrril/pcbuilder/internal/domain"
)

type memComponents struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]domain.Component
	err   error
	lists int
}

func newMemComponents(list ...domain.Component) *memComponents {
	m := &memComponents{byID: map[uuid.UUID]domain.Component{}}
	for _, c := range list {
		m.byID[c.ID] = c
	}
	return m
}

func (m *memComponents) List(_ context.Context, f domain.ComponentFilter) ([]domain.Component, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []domain.Component
	for _, c := range m.byID {
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if !c.Active && !f.IncludeInactive {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Name+"\n"+c.Brand+"\n"+c.Model), q) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case f.Sort == domain.SortWattage && a.Wattage != b.Wattage:
			return a.Wattage > b.Wattage
		case f.Sort != domain.SortName && f.Sort != domain.SortWattage && a.Price != b.Price:
			return a.Price < b.Price
		case a.Name != b.Name:
			return a.Name < b.Name
		}
		return a.ID.String() < b.ID.String()
	})
	m.lists++
	total := int64(len(out))
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 50
	}
	from := (f.Page - 1) * f.PageSize
	if from >= len(out) {
		return nil, total, nil
	}
	to := min(from+f.PageSize, len(out))
	return out[from:to], total, nil
}

func (m *memComponents) FindByID(_ context.Context, id uuid.UUID) (*domain.Component, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memComponents) FindByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Component, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Component
	for _, id := range ids {
		if c, ok := m.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memComponents) Save(_ context.Context, c *domain.Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = *c
	return nil
}

func (m *memComponents) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memComponents) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

type memBuilds struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Build
	err  error
}

func newMemBuilds() *memBuilds { return &memBuilds{byID: map[uuid.UUID]domain.Build{}} }

func (m *memBuilds) Create(_ context.Context, b *domain.Build) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.byID[b.ID] = *b
	return nil
}

func (m *memBuilds) FindByID(_ context.Context, id uuid.UUID) (*domain.Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (m *memBuilds) ListByUser(_ context.Context, userID string) ([]domain.Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Build
	for _, b := range m.byID {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBuilds) ListPublic(_ context.Context, limit int) ([]domain.Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Build
	for _, b := range m.byID {
		if b.IsPublic && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBuilds) Replace(_ context.Context, b *domain.Build) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	m.byID[b.ID] = *b
	return nil
}

func (m *memBuilds) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type memRequests struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]domain.BuildRequestRecord
	saves int
}

func newMemRequests() *memRequests {
	return &memRequests{byID: map[uuid.UUID]domain.BuildRequestRecord{}}
}

func (m *memRequests) Save(_ context.Context, r *domain.BuildRequestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.byID[r.ID] = *r
	return nil
}

func (m *memRequests) FindByID(_ context.Context, id uuid.UUID) (*domain.BuildRequestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *memRequests) ListByEmail(_ context.Context, email string) ([]domain.BuildRequestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BuildRequestRecord
	for _, r := range m.byID {
		if r.Email == domain.NormalizeEmail(email) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRequests) UpdateStatus(_ context.Context, id uuid.UUID, status domain.BuildRequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	m.byID[id] = r
	return nil
}

type memCustomers struct {
	mu      sync.Mutex
	byEmail map[string]domain.Customer
}

func newMemCustomers() *memCustomers { return &memCustomers{byEmail: map[string]domain.Customer{}} }

func (m *memCustomers) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memCustomers) Save(_ context.Context, c *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Email = domain.NormalizeEmail(c.Email)
	m.byEmail[c.Email] = *c
	return nil
}

type recordingSubmitter struct {
	got []uuid.UUID
	err error
}

func (s *recordingSubmitter) Submit(_ context.Context, id uuid.UUID, _ *domain.BuildRequest) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, id)
	return nil
}

var errBoom = errors.New("boom")
