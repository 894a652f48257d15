package domain

import (
	"github.com/google/uuid"
)

// Occupancy is the current fill of a category slot.
type Occupancy struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

func (o Occupancy) Full() bool { return o.Count >= o.Limit }

// Selection is the in-progress build: category -> selected parts. It belongs
// to a single session and is not safe for concurrent use.
type Selection struct {
	slots    map[Category][]Component
	onMutate []func(*Selection)
}

func NewSelection() *Selection {
	return &Selection{slots: map[Category][]Component{}}
}

// OnMutate registers fn to run synchronously after every mutation that
// changed the selection.
func (s *Selection) OnMutate(fn func(*Selection)) {
	if fn != nil {
		s.onMutate = append(s.onMutate, fn)
	}
}

func (s *Selection) changed() {
	for _, fn := range s.onMutate {
		fn(s)
	}
}

// Select puts c into category. Single-instance slots are replaced; multi
// slots are appended to until full, after which ErrCapacityExceeded is
// returned and nothing changes.
func (s *Selection) Select(category Category, c Component) error {
	slot, ok := SlotFor(category)
	if !ok {
		return ErrUnknownCategory
	}
	if c.Category != "" && c.Category != category {
		return ErrCategoryMismatch
	}
	c.Category = category
	if !slot.Multi() {
		s.slots[category] = []Component{c}
		s.changed()
		return nil
	}
	cur := s.slots[category]
	if len(cur) >= slot.Limit {
		return ErrCapacityExceeded
	}
	next := make([]Component, len(cur), len(cur)+1)
	copy(next, cur)
	s.slots[category] = append(next, c)
	s.changed()
	return nil
}

// Deselect removes parts from category. A nil id clears the whole category;
// otherwise every entry with that id is removed. Reports whether anything
// was removed.
func (s *Selection) Deselect(category Category, componentID *uuid.UUID) bool {
	cur, ok := s.slots[category]
	if !ok {
		return false
	}
	if componentID == nil {
		delete(s.slots, category)
		s.changed()
		return true
	}
	kept := make([]Component, 0, len(cur))
	for _, c := range cur {
		if c.ID != *componentID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cur) {
		return false
	}
	if len(kept) == 0 {
		delete(s.slots, category)
	} else {
		s.slots[category] = kept
	}
	s.changed()
	return true
}

// Clear empties every slot.
func (s *Selection) Clear() {
	if len(s.slots) == 0 {
		return
	}
	s.slots = map[Category][]Component{}
	s.changed()
}

func (s *Selection) Occupancy(category Category) Occupancy {
	slot, _ := SlotFor(category)
	return Occupancy{Count: len(s.slots[category]), Limit: slot.Limit}
}

// Components returns a copy of the parts in category.
func (s *Selection) Components(category Category) []Component {
	cur := s.slots[category]
	if len(cur) == 0 {
		return nil
	}
	out := make([]Component, len(cur))
	copy(out, cur)
	return out
}

// First returns the first part in category, if any.
func (s *Selection) First(category Category) (Component, bool) {
	cur := s.slots[category]
	if len(cur) == 0 {
		return Component{}, false
	}
	return cur[0], true
}

func (s *Selection) Has(category Category) bool { return len(s.slots[category]) > 0 }

func (s *Selection) IsEmpty() bool { return len(s.slots) == 0 }

// Len counts every selected part across all categories.
func (s *Selection) Len() int {
	n := 0
	for _, cur := range s.slots {
		n += len(cur)
	}
	return n
}

// Each visits every part in canonical category order.
func (s *Selection) Each(fn func(Category, Component)) {
	for _, slot := range slots {
		for _, c := range s.slots[slot.Category] {
			fn(slot.Category, c)
		}
	}
}

// MissingRequired lists required categories that are still empty.
func (s *Selection) MissingRequired() []Category {
	var out []Category
	for _, slot := range slots {
		if slot.Required && !s.Has(slot.Category) {
			out = append(out, slot.Category)
		}
	}
	return out
}

func (s *Selection) IsComplete() bool { return len(s.MissingRequired()) == 0 }
