package table

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// loadXLSX reads the first sheet of an XLSX workbook. Merged cells are
// expanded the same way as HTML spans: the origin cell's value is
// replicated into every covered coordinate.
func loadXLSX(source string) (*Grid, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, NewFormatError(source, "cannot open workbook", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewFormatError(source, "workbook contains no sheets", nil)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, NewFormatError(source, "cannot read sheet", err)
	}
	if len(rows) == 0 {
		return nil, NewFormatError(source, "sheet contains no rows", nil)
	}

	g := NewGrid()
	for ridx, row := range rows {
		for cidx, text := range row {
			g.Set(ridx, cidx, strings.TrimSpace(text))
		}
	}

	if err := expandMergedCells(f, sheet, g); err != nil {
		return nil, NewFormatError(source, "cannot expand merged cells", err)
	}
	return g, nil
}

// expandMergedCells replicates each merged range's value across all
// coordinates the range covers.
func expandMergedCells(f *excelize.File, sheet string, g *Grid) error {
	merged, err := f.GetMergeCells(sheet)
	if err != nil {
		return err
	}

	for _, mc := range merged {
		startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return err
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return err
		}

		value := strings.TrimSpace(mc.GetCellValue())
		for r := startRow; r <= endRow; r++ {
			for c := startCol; c <= endCol; c++ {
				// excelize coordinates are 1-based
				g.Set(r-1, c-1, value)
			}
		}
	}
	return nil
}
