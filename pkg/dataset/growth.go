package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Growth workbook columns, as named by the participating schools.
const (
	colFreshWeight = "생중량(g)"
	colLeafCount   = "잎 수(장)"
	colShootLength = "지상부 길이(mm)"
)

// GrowthRow is one harvested plant's outcome measurements.
type GrowthRow struct {
	FreshWeight float64 `json:"fresh_weight_g"`
	LeafCount   float64 `json:"leaf_count"`
	ShootLength float64 `json:"shoot_length_mm"`
}

// GrowthTable is one group's sheet from the combined growth workbook.
type GrowthTable struct {
	GroupID string      `json:"group"`
	Path    string      `json:"path"`
	Sheet   string      `json:"sheet"`
	Rows    []GrowthRow `json:"rows"`
}

// GrowthSummary holds per-group means of the three outcome metrics.
type GrowthSummary struct {
	GroupID     string  `json:"group"`
	Name        string  `json:"name"`
	ECTarget    float64 `json:"ec_target"`
	Plants      int     `json:"plants"`
	Samples     int     `json:"samples"`
	FreshWeight float64 `json:"fresh_weight_g"`
	LeafCount   float64 `json:"leaf_count"`
	ShootLength float64 `json:"shoot_length_mm"`
}

// LoadGrowth reads one group's sheet from the combined growth workbook.
// The sheet name is the group's display name; a sheet may be absent when a
// school has not submitted results yet.
func LoadGrowth(groupID, path, sheet string) (*GrowthTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q: no data rows", sheet)
	}

	idx := make(map[string]int, 3)
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{colFreshWeight, colLeafCount, colShootLength} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("sheet %q: column %q not found in header %v", sheet, col, rows[0])
		}
	}

	table := &GrowthTable{GroupID: groupID, Path: path, Sheet: sheet}
	for n, record := range rows[1:] {
		// Trailing blank rows are common in hand-edited workbooks.
		if isBlankRecord(record) {
			continue
		}
		var row GrowthRow
		fields := []struct {
			col string
			dst *float64
		}{
			{colFreshWeight, &row.FreshWeight},
			{colLeafCount, &row.LeafCount},
			{colShootLength, &row.ShootLength},
		}
		for _, fd := range fields {
			i := idx[fd.col]
			if i >= len(record) {
				return nil, fmt.Errorf("sheet %q row %d: missing %s", sheet, n+2, fd.col)
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("sheet %q row %d: bad %s value %q", sheet, n+2, fd.col, record[i])
			}
			*fd.dst = v
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("sheet %q: no data rows", sheet)
	}
	return table, nil
}

func isBlankRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Summary computes the per-group means.
func (t *GrowthTable) Summary(g Group) GrowthSummary {
	sum := GrowthSummary{
		GroupID:  t.GroupID,
		Name:     g.Name,
		ECTarget: g.ECTarget,
		Plants:   g.Plants,
		Samples:  len(t.Rows),
	}
	for _, row := range t.Rows {
		sum.FreshWeight += row.FreshWeight
		sum.LeafCount += row.LeafCount
		sum.ShootLength += row.ShootLength
	}
	n := float64(len(t.Rows))
	sum.FreshWeight /= n
	sum.LeafCount /= n
	sum.ShootLength /= n
	return sum
}

// ExportXLSX writes the table as a single-sheet workbook, the download
// format the dashboard offers per group.
func (t *GrowthTable) ExportXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if t.Sheet != "" && t.Sheet != sheet {
		if err := f.SetSheetName(sheet, t.Sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
		sheet = t.Sheet
	}

	header := []any{colFreshWeight, colLeafCount, colShootLength}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.FreshWeight, row.LeafCount, row.ShootLength}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
