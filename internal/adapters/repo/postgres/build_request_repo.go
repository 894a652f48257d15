package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/pcbuilder/internal/domain"
)

type BuildRequestRepo struct{ db *gorm.DB }

func NewBuildRequestRepo(db *gorm.DB) *BuildRequestRepo { return &BuildRequestRepo{db: db} }

func (r *BuildRequestRepo) Save(ctx context.Context, rec *domain.BuildRequestRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *BuildRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.BuildRequestRecord, error) {
	var rec domain.BuildRequestRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *BuildRequestRepo) ListByEmail(ctx context.Context, email string) ([]domain.BuildRequestRecord, error) {
	e := domain.NormalizeEmail(email)
	if e == "" {
		return nil, errEmptyEmail
	}
	list := []domain.BuildRequestRecord{}
	if err := r.db.WithContext(ctx).Where("email = ?", e).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus moves a request along its lifecycle.
func (r *BuildRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BuildRequestStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.BuildRequestRecord{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
