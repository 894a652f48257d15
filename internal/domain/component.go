package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Compatibility holds the attributes the build rules read. A zero value means
// the attribute is absent and the rule that needs it does not apply.
type Compatibility struct {
	Socket          string  `json:"socket,omitempty"`
	MemoryType      string  `json:"memory_type,omitempty"`
	LengthMM        float64 `json:"length,omitempty"`
	MaxGPULengthMM  float64 `json:"max_gpu_length,omitempty"`
	WattageCapacity float64 `json:"wattage_capacity,omitempty"`
}

func (c Compatibility) IsZero() bool { return c == Compatibility{} }

type Component struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string            `gorm:"size:180;not null" json:"name"`
	Brand          string            `gorm:"size:100" json:"brand"`
	Model          string            `gorm:"size:140" json:"model"`
	Category       Category          `gorm:"type:varchar(30);index" json:"category"`
	Price          float64           `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Wattage        float64           `gorm:"type:decimal(8,2);default:0" json:"wattage"`
	Compatibility  Compatibility     `gorm:"type:jsonb;serializer:json" json:"compatibility_data"`
	Specifications map[string]string `gorm:"type:jsonb;serializer:json" json:"specifications,omitempty"`
	ImageURL       string            `gorm:"size:255" json:"image_url,omitempty"`
	Stock          int               `gorm:"type:int;default:0" json:"stock_quantity"`
	Active         bool              `gorm:"default:true;index" json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Stale marks a part restored from a saved build that is gone from the catalog.
	Stale bool `gorm:"-" json:"stale,omitempty"`
}

func (Component) TableName() string { return "pc_components" }

// Ref reduces the component to what a saved build keeps.
func (c Component) Ref() ComponentRef {
	return ComponentRef{ID: c.ID, Name: c.Name, Price: c.Price}
}

const (
	SortPrice   = "price"
	SortName    = "name"
	SortWattage = "wattage"
)

type ComponentFilter struct {
	Category        Category
	Query           string
	Sort            string
	Page            int
	PageSize        int
	IncludeInactive bool
}

type ComponentRepo interface {
	List(ctx context.Context, f ComponentFilter) ([]Component, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Component, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Component, error)
	Save(ctx context.Context, c *Component) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
