package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ComponentRef is the abbreviated part a saved build keeps. Wattage and
// compatibility attributes are not stored.
type ComponentRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// BuildComponents maps category to saved parts. Single-instance categories
// encode as one object, multi-instance ones as an array; either form decodes.
type BuildComponents map[Category][]ComponentRef

func (b BuildComponents) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b))
	for cat, refs := range b {
		if len(refs) == 0 {
			continue
		}
		if slot, ok := SlotFor(cat); ok && !slot.Multi() {
			out[string(cat)] = refs[0]
			continue
		}
		out[string(cat)] = refs
	}
	return json.Marshal(out)
}

func (b *BuildComponents) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(BuildComponents, len(raw))
	for key, msg := range raw {
		msg = bytes.TrimSpace(msg)
		if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
			continue
		}
		cat := Category(key)
		if msg[0] == '[' {
			var refs []ComponentRef
			if err := json.Unmarshal(msg, &refs); err != nil {
				return fmt.Errorf("components.%s: %w", key, err)
			}
			if len(refs) > 0 {
				out[cat] = refs
			}
			continue
		}
		var ref ComponentRef
		if err := json.Unmarshal(msg, &ref); err != nil {
			return fmt.Errorf("components.%s: %w", key, err)
		}
		out[cat] = []ComponentRef{ref}
	}
	*b = out
	return nil
}

type Build struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string          `gorm:"size:140;not null" json:"name"`
	UserID             string          `gorm:"size:64;index" json:"user_id"`
	Components         BuildComponents `gorm:"type:jsonb;serializer:json" json:"components"`
	TotalPrice         float64         `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"`
	TotalWattage       float64         `gorm:"type:decimal(8,2);default:0" json:"total_wattage"`
	CompatibilityNotes []string        `gorm:"type:jsonb;serializer:json" json:"compatibility_notes"`
	IsPublic           bool            `gorm:"not null;default:false;index" json:"is_public"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (Build) TableName() string { return "pc_builds" }

type BuildRepo interface {
	Create(ctx context.Context, b *Build) error
	FindByID(ctx context.Context, id uuid.UUID) (*Build, error)
	ListByUser(ctx context.Context, userID string) ([]Build, error)
	ListPublic(ctx context.Context, limit int) ([]Build, error)
	Replace(ctx context.Context, b *Build) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ToRecord snapshots a selection into a Build ready to store. A blank name
// or an empty selection is rejected.
func ToRecord(name string, s *Selection, t Totals, issues []string, isPublic bool) (*Build, error) {
	var missing []string
	if strings.TrimSpace(name) == "" {
		missing = append(missing, "name")
	}
	if s == nil || s.IsEmpty() {
		missing = append(missing, "components")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing, Reason: "build needs a name and at least one component"}
	}
	comps := s.Refs()
	notes := make([]string, len(issues))
	copy(notes, issues)
	return &Build{
		Name:               strings.TrimSpace(name),
		Components:         comps,
		TotalPrice:         t.Price,
		TotalWattage:       t.Wattage,
		CompatibilityNotes: notes,
		IsPublic:           isPublic,
	}, nil
}

// FromRecord rebuilds a selection from the abbreviated refs as stored. The
// parts carry id, name and price only; use Rehydrate to restore the rest.
func FromRecord(b *Build) (*Selection, error) {
	if b == nil {
		return nil, &ValidationError{Fields: []string{"build"}, Reason: "nothing to load"}
	}
	sel := NewSelection()
	for _, slot := range slots {
		for _, ref := range b.Components[slot.Category] {
			c := Component{ID: ref.ID, Name: ref.Name, Price: ref.Price, Category: slot.Category}
			if err := sel.Select(slot.Category, c); err != nil {
				return nil, fmt.Errorf("load %s: %w", slot.Category, err)
			}
		}
	}
	for cat := range b.Components {
		if _, ok := SlotFor(cat); !ok {
			return nil, fmt.Errorf("load %s: %w", cat, ErrUnknownCategory)
		}
	}
	return sel, nil
}

// Refs reduces a selection to the abbreviated parts a saved build keeps.
func (s *Selection) Refs() BuildComponents {
	out := BuildComponents{}
	s.Each(func(cat Category, c Component) {
		out[cat] = append(out[cat], c.Ref())
	})
	return out
}

// RestoreRefs is FromRecord for refs of unknown provenance: unknown
// categories and parts past a slot's capacity are skipped.
func RestoreRefs(refs BuildComponents) *Selection {
	sel := NewSelection()
	for _, slot := range slots {
		for _, ref := range refs[slot.Category] {
			c := Component{ID: ref.ID, Name: ref.Name, Price: ref.Price, Category: slot.Category}
			if err := sel.Select(slot.Category, c); err != nil {
				break
			}
		}
	}
	return sel
}

// Rehydrate swaps the abbreviated parts of a loaded selection for the full
// catalog components in resolved. Parts with no match keep their saved
// name and price, are marked Stale and reported back.
func Rehydrate(s *Selection, resolved map[uuid.UUID]Component) (*Selection, []StaleReference) {
	out := NewSelection()
	var stale []StaleReference
	s.Each(func(cat Category, c Component) {
		full, ok := resolved[c.ID]
		if !ok || (full.Category != "" && full.Category != cat) {
			c.Stale = true
			stale = append(stale, StaleReference{Category: cat, Ref: c.Ref()})
			_ = out.Select(cat, c)
			return
		}
		_ = out.Select(cat, full)
	})
	return out, stale
}
