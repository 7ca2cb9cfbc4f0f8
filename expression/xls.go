package expression

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// readXLS returns the cells of the first sheet of an .xls workbook. Rows that
// are shorter than the header, because trailing cells were never written, are
// padded with empty cells; blank rows are dropped.
func readXLS(rs io.ReadSeeker) ([][]string, error) {
	wb, err := xls.OpenReader(rs, "utf-8")
	if err != nil {
		return nil, err
	}

	if wb == nil {
		return nil, fmt.Errorf("the file holds no Excel workbook")
	}

	if wb.NumSheets() < 1 {
		return nil, fmt.Errorf("the workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("the first sheet of the workbook could not be read")
	}

	// ReadAllCells walks the sheets in order; capping it at the first
	// sheet's row count keeps the rest of the workbook out.
	cells := wb.ReadAllCells(int(sheet.MaxRow) + 1)

	out := make([][]string, 0, len(cells))
	width := 0
	for _, row := range cells {
		if isBlankRow(row) {
			continue
		}
		if width == 0 {
			width = len(row)
		}
		for len(row) < width {
			row = append(row, "")
		}
		out = append(out, row)
	}

	return out, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}

	return true
}
