// Package export writes audit results as two-sheet XLSX workbooks or paired
// CSV files, and produces the blank lead-list template.
package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-audit-cli/internal/audit"
	"github.com/sells-group/lead-audit-cli/internal/model"
)

// Sheet names in the output workbook.
const (
	SheetGood = "READY_TO_CALL"
	SheetJunk = "REVIEW_REQUIRED"
)

// Workbook builds the two-sheet result workbook: Good records under
// SheetGood, Junk records under SheetJunk, each with the original columns
// plus the label column, input order preserved.
func Workbook(res *audit.Result) (*xlsx.File, error) {
	f := xlsx.NewFile()

	sheets := []struct {
		name  string
		label model.Label
	}{
		{SheetGood, model.LabelGood},
		{SheetJunk, model.LabelJunk},
	}

	header := res.LabeledHeader()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		if err != nil {
			return nil, eris.Wrapf(err, "export: add sheet %s", s.name)
		}

		writeRow(sheet, header)
		for _, row := range res.LabeledRows(s.label) {
			writeRow(sheet, row)
		}
	}

	return f, nil
}

// WriteWorkbook writes the result workbook to a file on disk.
func WriteWorkbook(path string, res *audit.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

// StreamWorkbook writes the result workbook to w.
func StreamWorkbook(w io.Writer, res *audit.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func writeRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}
