package domain

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryCPU         Category = "cpu"
	CategoryGPU         Category = "gpu"
	CategoryMotherboard Category = "motherboard"
	CategoryRAM         Category = "ram"
	CategoryStorage     Category = "storage"
	CategoryPSU         Category = "psu"
	CategoryCase        Category = "case"
	CategoryCooling     Category = "cooling"
	CategoryKeyboard    Category = "keyboard"
	CategoryMouse       Category = "mouse"
	CategoryMonitor     Category = "monitor"
)

// SlotConfig is the fixed occupancy rule of a category.
type SlotConfig struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Limit    int      `json:"limit"`
	Required bool     `json:"required"`
}

// Multi reports whether the slot holds more than one part.
func (s SlotConfig) Multi() bool { return s.Limit > 1 }

// slots is ordered; that order drives totals, flattening and persistence.
var slots = []SlotConfig{
	{Category: CategoryCPU, Name: "Processor", Limit: 1, Required: true},
	{Category: CategoryGPU, Name: "Graphics Card", Limit: 2},
	{Category: CategoryMotherboard, Name: "Motherboard", Limit: 1, Required: true},
	{Category: CategoryRAM, Name: "Memory", Limit: 4, Required: true},
	{Category: CategoryStorage, Name: "Storage", Limit: 6, Required: true},
	{Category: CategoryPSU, Name: "Power Supply", Limit: 1, Required: true},
	{Category: CategoryCase, Name: "Case", Limit: 1, Required: true},
	{Category: CategoryCooling, Name: "Cooling", Limit: 1, Required: true},
	{Category: CategoryKeyboard, Name: "Keyboard", Limit: 1},
	{Category: CategoryMouse, Name: "Mouse", Limit: 1},
	{Category: CategoryMonitor, Name: "Monitor", Limit: 3},
}

var slotIndex = func() map[Category]SlotConfig {
	m := make(map[Category]SlotConfig, len(slots))
	for _, s := range slots {
		m[s.Category] = s
	}
	return m
}()

// Categories returns a copy of the slot table in canonical order.
func Categories() []SlotConfig {
	out := make([]SlotConfig, len(slots))
	copy(out, slots)
	return out
}

func SlotFor(c Category) (SlotConfig, bool) {
	s, ok := slotIndex[c]
	return s, ok
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := slotIndex[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
