package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-audit-cli/internal/ingest"
)

// WriteTemplate writes an empty lead-list template (header row only) to the
// given path, as CSV or XLSX depending on the extension.
func WriteTemplate(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeTemplateCSV(path)
	case ".xlsx":
		return writeTemplateXLSX(path)
	default:
		return eris.Errorf("export: unsupported template type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

func writeTemplateCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create template %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ingest.RequiredColumns); err != nil {
		return eris.Wrap(err, "export: write template header")
	}
	w.Flush()
	return eris.Wrap(w.Error(), "export: flush template")
}

func writeTemplateXLSX(path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add template sheet")
	}
	writeRow(sheet, ingest.RequiredColumns)

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save template %s", path)
	}
	return nil
}
