// Package sheets reads catalog workbooks and writes build parts lists.
package sheets

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/pcbuilder/internal/domain"
)

// Columns recognised in a catalog header row. Matching ignores case and
// surrounding spaces; unknown columns are ignored.
const (
	colCategory        = "category"
	colName            = "name"
	colBrand           = "brand"
	colModel           = "model"
	colPrice           = "price"
	colWattage         = "wattage"
	colSocket          = "socket"
	colMemoryType      = "memory_type"
	colLength          = "length"
	colMaxGPULength    = "max_gpu_length"
	colWattageCapacity = "wattage_capacity"
	colStock           = "stock"
	colImageURL        = "image_url"
	colActive          = "active"
)

type ImportReport struct {
	Rows    int
	Skipped int
	Errors  []string
}

// ImportComponents reads every sheet of the workbook. The first non-empty
// row of a sheet is its header. Rows with an unknown category, a blank name
// or an unreadable number are skipped and reported.
func ImportComponents(r io.Reader) ([]domain.Component, *ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rep := &ImportReport{}
	var out []domain.Component
	for _, sh := range f.GetSheetList() {
		rows, err := f.GetRows(sh)
		if err != nil || len(rows) == 0 {
			continue
		}
		var header map[string]int
		for i, row := range rows {
			if blank(row) {
				continue
			}
			if header == nil {
				header = indexHeader(row)
				continue
			}
			rep.Rows++
			c, err := parseRow(header, row)
			if err != nil {
				rep.Skipped++
				rep.Errors = append(rep.Errors, fmt.Sprintf("%s!%d: %v", sh, i+1, err))
				continue
			}
			out = append(out, c)
		}
	}
	return out, rep, nil
}

func indexHeader(row []string) map[string]int {
	h := make(map[string]int, len(row))
	for i, cell := range row {
		key := strings.ToLower(strings.TrimSpace(cell))
		key = strings.ReplaceAll(key, " ", "_")
		if key != "" {
			h[key] = i
		}
	}
	return h
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(h map[string]int, row []string) (domain.Component, error) {
	cell := func(name string) string {
		i, ok := h[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var numErr error
	num := func(name string) float64 {
		s := strings.ReplaceAll(cell(name), ",", "")
		if s == "" {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil && numErr == nil {
			numErr = fmt.Errorf("%s: %q is not a number", name, s)
		}
		return v
	}

	cat, err := domain.ParseCategory(cell(colCategory))
	if err != nil {
		return domain.Component{}, err
	}
	name := cell(colName)
	if name == "" {
		return domain.Component{}, fmt.Errorf("name is blank")
	}
	c := domain.Component{
		Name:     name,
		Brand:    cell(colBrand),
		Model:    cell(colModel),
		Category: cat,
		Price:    num(colPrice),
		Wattage:  num(colWattage),
		Compatibility: domain.Compatibility{
			Socket:          cell(colSocket),
			MemoryType:      strings.ToUpper(cell(colMemoryType)),
			LengthMM:        num(colLength),
			MaxGPULengthMM:  num(colMaxGPULength),
			WattageCapacity: num(colWattageCapacity),
		},
		Stock:    int(num(colStock)),
		ImageURL: cell(colImageURL),
		Active:   parseActive(cell(colActive)),
	}
	if numErr != nil {
		return domain.Component{}, numErr
	}
	if c.Price < 0 || c.Wattage < 0 {
		return domain.Component{}, fmt.Errorf("negative price or wattage")
	}
	return c, nil
}

func parseActive(s string) bool {
	switch strings.ToLower(s) {
	case "no", "false", "0", "n", "inactive":
		return false
	}
	return true
}

const (
	buildSheet = "Build"
	notesSheet = "Compatibility"
)

// ExportBuild writes a saved build as a workbook: one row per part in slot
// order followed by the totals, and a second sheet with the compatibility
// notes recorded at save time.
func ExportBuild(w io.Writer, b *domain.Build) error {
	if b == nil {
		return fmt.Errorf("build nil")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", buildSheet); err != nil {
		return err
	}
	rows := [][]any{{b.Name}, {}, {"Category", "Component", "Price"}}
	for _, slot := range domain.Categories() {
		for _, ref := range b.Components[slot.Category] {
			rows = append(rows, []any{slot.Name, ref.Name, ref.Price})
		}
	}
	rows = append(rows,
		[]any{},
		[]any{"Total price", "", b.TotalPrice},
		[]any{"Total wattage", "", b.TotalWattage},
	)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(buildSheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(buildSheet, "A", "A", 18)
	_ = f.SetColWidth(buildSheet, "B", "B", 42)

	if _, err := f.NewSheet(notesSheet); err != nil {
		return err
	}
	notes := b.CompatibilityNotes
	if len(notes) == 0 {
		notes = []string{"No compatibility issues"}
	}
	for i, n := range notes {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStr(notesSheet, cell, n); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(notesSheet, "A", "A", 80)

	_, err := f.WriteTo(w)
	return err
}
