package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/pcbuilder/internal/domain"
)

var errEmptyEmail = errors.New("empty email")

// CustomerRepo keys customers by their normalized email; both lookups and
// writes go through domain.NormalizeEmail so the unique index holds.
type CustomerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	e := domain.NormalizeEmail(email)
	if e == "" {
		return nil, errEmptyEmail
	}
	var c domain.Customer
	err := r.db.WithContext(ctx).Where("email = ?", e).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Save(ctx context.Context, c *domain.Customer) error {
	c.Email = domain.NormalizeEmail(c.Email)
	if c.Email == "" {
		return errEmptyEmail
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(c).Error
}
