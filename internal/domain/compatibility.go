package domain

import (
	"fmt"
	"strconv"
)

// PSUHeadroom is the share of rated PSU wattage a build may draw.
const PSUHeadroom = 0.8

type rule func(s *Selection, t Totals) []string

var rules = []rule{socketRule, memoryRule, headroomRule, clearanceRule}

// Evaluate runs the compatibility rules in fixed order. The result is never
// nil; an empty slice means no issues were detected.
func Evaluate(s *Selection, t Totals) []string {
	issues := []string{}
	for _, r := range rules {
		issues = append(issues, r(s, t)...)
	}
	return issues
}

func socketRule(s *Selection, _ Totals) []string {
	cpu, ok := s.First(CategoryCPU)
	if !ok {
		return nil
	}
	mb, ok := s.First(CategoryMotherboard)
	if !ok {
		return nil
	}
	a, b := cpu.Compatibility.Socket, mb.Compatibility.Socket
	if a == "" || b == "" || a == b {
		return nil
	}
	return []string{fmt.Sprintf("CPU socket (%s) is incompatible with motherboard socket (%s)", a, b)}
}

func memoryRule(s *Selection, _ Totals) []string {
	mb, ok := s.First(CategoryMotherboard)
	if !ok || mb.Compatibility.MemoryType == "" {
		return nil
	}
	want := mb.Compatibility.MemoryType
	var out []string
	seen := map[string]bool{}
	for _, ram := range s.Components(CategoryRAM) {
		got := ram.Compatibility.MemoryType
		if got == "" || got == want || seen[got] {
			continue
		}
		seen[got] = true
		out = append(out, fmt.Sprintf("RAM type (%s) is incompatible with motherboard memory support (%s)", got, want))
	}
	return out
}

func headroomRule(s *Selection, t Totals) []string {
	psu, ok := s.First(CategoryPSU)
	if !ok || psu.Compatibility.WattageCapacity <= 0 {
		return nil
	}
	capacity := psu.Compatibility.WattageCapacity
	if t.Wattage <= capacity*PSUHeadroom {
		return nil
	}
	return []string{fmt.Sprintf("Total wattage (%sW) exceeds PSU capacity (%sW)", num(t.Wattage), num(capacity))}
}

func clearanceRule(s *Selection, _ Totals) []string {
	pcCase, ok := s.First(CategoryCase)
	if !ok || pcCase.Compatibility.MaxGPULengthMM <= 0 {
		return nil
	}
	clearance := pcCase.Compatibility.MaxGPULengthMM
	var out []string
	for _, gpu := range s.Components(CategoryGPU) {
		l := gpu.Compatibility.LengthMM
		if l <= 0 || l <= clearance {
			continue
		}
		out = append(out, fmt.Sprintf("GPU length (%smm) exceeds case clearance (%smm)", num(l), num(clearance)))
	}
	return out
}

// FilterCompatible narrows picker candidates for category to those matching
// the selected motherboard: CPUs by socket, RAM by memory type. Candidates
// without the attribute are dropped only when the motherboard declares one.
func FilterCompatible(category Category, candidates []Component, s *Selection) []Component {
	mb, ok := s.First(CategoryMotherboard)
	if !ok {
		return candidates
	}
	var match func(Component) bool
	switch category {
	case CategoryCPU:
		if mb.Compatibility.Socket == "" {
			return candidates
		}
		match = func(c Component) bool { return c.Compatibility.Socket == mb.Compatibility.Socket }
	case CategoryRAM:
		if mb.Compatibility.MemoryType == "" {
			return candidates
		}
		match = func(c Component) bool { return c.Compatibility.MemoryType == mb.Compatibility.MemoryType }
	default:
		return candidates
	}
	out := make([]Component, 0, len(candidates))
	for _, c := range candidates {
		if match(c) {
			out = append(out, c)
		}
	}
	return out
}

// PreviewWarnings reports what selecting candidate into category would
// break, without touching the selection.
func PreviewWarnings(category Category, candidate Component, s *Selection) []string {
	var out []string
	if category == CategoryCPU {
		if mb, ok := s.First(CategoryMotherboard); ok && mb.Compatibility.Socket != "" &&
			candidate.Compatibility.Socket != "" && candidate.Compatibility.Socket != mb.Compatibility.Socket {
			out = append(out, "Socket incompatible with motherboard")
		}
	}
	if category == CategoryRAM {
		if mb, ok := s.First(CategoryMotherboard); ok && mb.Compatibility.MemoryType != "" &&
			candidate.Compatibility.MemoryType != "" && candidate.Compatibility.MemoryType != mb.Compatibility.MemoryType {
			out = append(out, "Memory type incompatible with motherboard")
		}
	}
	if psu, ok := s.First(CategoryPSU); ok && category != CategoryPSU && candidate.Wattage > 0 {
		capacity := psu.Compatibility.WattageCapacity
		draw := Recompute(s).Wattage + candidate.Wattage
		// a single-instance slot swaps its current part out
		if slot, _ := SlotFor(category); !slot.Multi() {
			if cur, ok := s.First(category); ok {
				draw -= cur.Wattage
			}
		}
		if capacity > 0 && draw > capacity*PSUHeadroom {
			out = append(out, "May exceed PSU capacity")
		}
	}
	return out
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
