package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-audit-cli/internal/model"
)

// ReadXLSXFile parses a lead list from the first sheet of an XLSX workbook.
// The first row is the header.
func ReadXLSXFile(path string) (*model.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open xlsx %s", path)
	}

	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: xlsx has no sheets")
	}
	sheet := f.Sheets[0]

	if len(sheet.Rows) == 0 {
		return nil, eris.New("ingest: xlsx sheet is empty")
	}

	header := rowToStrings(sheet.Rows[0])
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, rowToStrings(row))
	}

	return model.NewTable(header, rows), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
