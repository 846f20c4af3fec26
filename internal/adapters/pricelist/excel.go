// Package pricelist moves the material catalog in and out of xlsx
// spreadsheets, the exchange format the office already uses for supplier
// price sheets.
package pricelist

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/gatequote/internal/domain"
)

const sheetName = "Price List"

var headers = []string{"Category", "Name", "Unit", "Cost", "Markup", "Supplier", "Supplier URL"}

// Export writes the full catalog to a new workbook.
func Export(materials []domain.Material, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for row, m := range materials {
		values := []any{m.Category, m.Name, m.Unit, m.Cost, m.Markup, m.Supplier, m.SupplierURL}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// Import reads materials from the first sheet of a workbook. The header row
// is matched by name so column order does not matter; rows without a name are
// skipped.
func Import(r io.Reader) ([]domain.Material, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []domain.Material
	for _, row := range rows[1:] {
		name := get(row, "name")
		if name == "" {
			continue
		}
		m := domain.Material{
			Category:    get(row, "category"),
			Name:        name,
			Unit:        get(row, "unit"),
			Supplier:    get(row, "supplier"),
			SupplierURL: get(row, "supplier url"),
		}
		if m.Category == "" {
			m.Category = "misc"
		}
		if m.Unit == "" {
			m.Unit = "each"
		}
		m.Cost, _ = strconv.ParseFloat(get(row, "cost"), 64)
		if v, err := strconv.ParseFloat(get(row, "markup"), 64); err == nil && v > 0 {
			m.Markup = v
		} else {
			m.Markup = 1.3
		}
		out = append(out, m)
	}
	return out, nil
}
