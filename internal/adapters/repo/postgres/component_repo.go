package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/pcbuilder/internal/domain"
)

type ComponentRepo struct{ db *gorm.DB }

func NewComponentRepo(db *gorm.DB) *ComponentRepo { return &ComponentRepo{db: db} }

func (r *ComponentRepo) Save(ctx context.Context, c *domain.Component) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ComponentRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Component, error) {
	var c domain.Component
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ComponentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Component, error) {
	list := []domain.Component{}
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ComponentRepo) List(ctx context.Context, f domain.ComponentFilter) ([]domain.Component, int64, error) {
	var list []domain.Component
	q := r.db.WithContext(ctx).Model(&domain.Component{})
	if !f.IncludeInactive {
		q = q.Where("active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(brand) LIKE LOWER(?) OR LOWER(model) LIKE LOWER(?))", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	switch f.Sort {
	case domain.SortName:
		q = q.Order("name asc")
	case domain.SortWattage:
		q = q.Order("wattage desc").Order("name asc")
	default:
		q = q.Order("price asc").Order("name asc")
	}
	// stable across pages
	q = q.Order("id asc")
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 50
	}
	offset := (f.Page - 1) * f.PageSize
	if err := q.Offset(offset).Limit(f.PageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ComponentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("empty component id")
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Component{}).Error
}

func (r *ComponentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Component{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
