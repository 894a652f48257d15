package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/pcbuilder/internal/domain"
)

type BuildRepo struct{ db *gorm.DB }

func NewBuildRepo(db *gorm.DB) *BuildRepo { return &BuildRepo{db: db} }

func (r *BuildRepo) Create(ctx context.Context, b *domain.Build) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BuildRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Build, error) {
	var b domain.Build
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByUser returns the builds of userID, newest first.
func (r *BuildRepo) ListByUser(ctx context.Context, userID string) ([]domain.Build, error) {
	list := []domain.Build{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BuildRepo) ListPublic(ctx context.Context, limit int) ([]domain.Build, error) {
	list := []domain.Build{}
	if err := r.db.WithContext(ctx).Where("is_public = ?", true).Order("created_at desc").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Replace overwrites every column of an existing build. There is no partial
// update path.
func (r *BuildRepo) Replace(ctx context.Context, b *domain.Build) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Build
		if err := tx.Select("id").First(&existing, "id = ?", b.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return tx.Select("*").Save(b).Error
	})
}

func (r *BuildRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Build{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
