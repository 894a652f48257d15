package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phenrril/pcbuilder/internal/domain"
)

type BuildUC struct {
	Builds  domain.BuildRepo
	Catalog *ComponentUC
}

// Resume rebuilds a session from the parts a client carried between
// requests. Parts that no longer resolve stay selected with the name and
// price they were picked at, flagged stale, exactly as Load treats them.
func (uc *BuildUC) Resume(ctx context.Context, name string, refs domain.BuildComponents) (*domain.Session, error) {
	return uc.rehydrate(ctx, name, domain.RestoreRefs(refs))
}

// Save stores the session as a new build owned by userID.
func (uc *BuildUC) Save(ctx context.Context, userID string, s *domain.Session, isPublic bool) (*domain.Build, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &domain.ValidationError{Fields: []string{"user_id"}, Reason: "owner required"}
	}
	if s == nil {
		return nil, &domain.ValidationError{Fields: []string{"components"}}
	}
	b, err := domain.ToRecord(s.Name, s.Selection, s.Totals, s.Issues, isPublic)
	if err != nil {
		return nil, err
	}
	b.ID = uuid.New()
	b.UserID = userID
	b.CreatedAt = time.Now().UTC()
	if err := uc.Builds.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("save build: %w", err)
	}
	return b, nil
}

// Replace overwrites an existing build of userID with the session contents.
func (uc *BuildUC) Replace(ctx context.Context, id uuid.UUID, userID string, s *domain.Session, isPublic bool) (*domain.Build, error) {
	if s == nil {
		return nil, &domain.ValidationError{Fields: []string{"components"}}
	}
	cur, err := uc.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	b, err := domain.ToRecord(s.Name, s.Selection, s.Totals, s.Issues, isPublic)
	if err != nil {
		return nil, err
	}
	b.ID = cur.ID
	b.UserID = cur.UserID
	b.CreatedAt = cur.CreatedAt
	if err := uc.Builds.Replace(ctx, b); err != nil {
		return nil, fmt.Errorf("replace build: %w", err)
	}
	return b, nil
}

// Get returns a build visible to userID: one they own or a public one.
func (uc *BuildUC) Get(ctx context.Context, id uuid.UUID, userID string) (*domain.Build, error) {
	b, err := uc.Builds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsPublic && (userID == "" || b.UserID != userID) {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// Load turns a saved build back into a session. The saved refs are
// re-resolved against the catalog so the rules run on full parts; refs that
// are gone stay in the selection, flagged stale.
func (uc *BuildUC) Load(ctx context.Context, id uuid.UUID, userID string) (*domain.Session, error) {
	b, err := uc.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	abbrev, err := domain.FromRecord(b)
	if err != nil {
		return nil, err
	}
	return uc.rehydrate(ctx, b.Name, abbrev)
}

func (uc *BuildUC) rehydrate(ctx context.Context, name string, abbrev *domain.Selection) (*domain.Session, error) {
	var ids []uuid.UUID
	abbrev.Each(func(_ domain.Category, c domain.Component) { ids = append(ids, c.ID) })
	resolved, err := uc.Catalog.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve build parts: %w", err)
	}
	full, stale := domain.Rehydrate(abbrev, resolved)
	s := domain.NewSession(full)
	s.Name = name
	s.Stale = stale
	return s, nil
}

func (uc *BuildUC) List(ctx context.Context, userID string) ([]domain.Build, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, &domain.ValidationError{Fields: []string{"user_id"}, Reason: "owner required"}
	}
	return uc.Builds.ListByUser(ctx, userID)
}

func (uc *BuildUC) ListPublic(ctx context.Context, limit int) ([]domain.Build, error) {
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	return uc.Builds.ListPublic(ctx, limit)
}

func (uc *BuildUC) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	if _, err := uc.owned(ctx, id, userID); err != nil {
		return err
	}
	return uc.Builds.Delete(ctx, id)
}

func (uc *BuildUC) owned(ctx context.Context, id uuid.UUID, userID string) (*domain.Build, error) {
	if id == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	b, err := uc.Builds.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID == "" || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return b, nil
}
