package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/phenrril/pcbuilder/internal/domain"
)

// ComponentUC is the catalog accessor the builder reads parts through.
type ComponentUC struct {
	Components domain.ComponentRepo
}

func (uc *ComponentUC) Categories() []domain.SlotConfig {
	return domain.Categories()
}

func (uc *ComponentUC) List(ctx context.Context, f domain.ComponentFilter) ([]domain.Component, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 50
	}
	return uc.Components.List(ctx, f)
}

// ListForSlot returns the active parts of a category, searched and sorted
// the way the part picker shows them. With compatibleOnly set, parts that
// clash with the selected motherboard are left out.
func (uc *ComponentUC) ListForSlot(ctx context.Context, category domain.Category, query, sortBy string, sel *domain.Selection, compatibleOnly bool) ([]domain.Component, error) {
	if _, ok := domain.SlotFor(category); !ok {
		return nil, domain.ErrUnknownCategory
	}
	list, err := uc.listAll(ctx, domain.ComponentFilter{Category: category, Query: query, Sort: sortBy})
	if err != nil {
		return nil, err
	}
	if compatibleOnly && sel != nil {
		list = domain.FilterCompatible(category, list, sel)
	}
	return list, nil
}

const listPageSize = 200

// listAll walks every page of f. The repository does the searching and
// ordering.
func (uc *ComponentUC) listAll(ctx context.Context, f domain.ComponentFilter) ([]domain.Component, error) {
	f.PageSize = listPageSize
	var out []domain.Component
	for f.Page = 1; ; f.Page++ {
		page, total, err := uc.Components.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < f.PageSize || int64(len(out)) >= total {
			return out, nil
		}
	}
}

func (uc *ComponentUC) Get(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	if id == uuid.Nil {
		return nil, errors.New("empty component id")
	}
	return uc.Components.FindByID(ctx, id)
}

// Resolve looks up ids in the catalog. Ids that are gone or inactive are
// simply absent from the result.
func (uc *ComponentUC) Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Component, error) {
	out := map[uuid.UUID]domain.Component{}
	if len(ids) == 0 {
		return out, nil
	}
	list, err := uc.Components.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if c.Active {
			out[c.ID] = c
		}
	}
	return out, nil
}

// Delete removes a part from the catalog. Saved builds that hold it keep
// it as a stale part.
func (uc *ComponentUC) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.ErrNotFound
	}
	if _, err := uc.Components.FindByID(ctx, id); err != nil {
		return err
	}
	return uc.Components.Delete(ctx, id)
}

func (uc *ComponentUC) Create(ctx context.Context, c *domain.Component) error {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return &domain.ValidationError{Fields: []string{"name"}}
	}
	if _, ok := domain.SlotFor(c.Category); !ok {
		return domain.ErrUnknownCategory
	}
	if c.Price < 0 || c.Wattage < 0 {
		return &domain.ValidationError{Fields: []string{"price", "wattage"}, Reason: "must not be negative"}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return uc.Components.Save(ctx, c)
}

// Import upserts parts by category and case-insensitive name. Existing rows
// keep their id so saved builds still resolve.
func (uc *ComponentUC) Import(ctx context.Context, parts []domain.Component) (created, updated int, err error) {
	existing := map[string]domain.Component{}
	for _, slot := range domain.Categories() {
		list, err := uc.listAll(ctx, domain.ComponentFilter{Category: slot.Category, IncludeInactive: true})
		if err != nil {
			return created, updated, err
		}
		for _, c := range list {
			existing[importKey(c)] = c
		}
	}
	for i := range parts {
		p := parts[i]
		if old, ok := existing[importKey(p)]; ok {
			p.ID = old.ID
			p.CreatedAt = old.CreatedAt
			if err := uc.Components.Save(ctx, &p); err != nil {
				return created, updated, err
			}
			existing[importKey(p)] = p
			updated++
			continue
		}
		if err := uc.Create(ctx, &p); err != nil {
			return created, updated, err
		}
		existing[importKey(p)] = p
		created++
	}
	return created, updated, nil
}

func importKey(c domain.Component) string {
	return string(c.Category) + "|" + strings.ToLower(strings.TrimSpace(c.Name))
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
