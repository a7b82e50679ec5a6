package ingest

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-audit-cli/internal/model"
)

// LoadFile reads a lead list from disk, dispatching on file extension.
// Supported extensions: .csv, .xlsx.
func LoadFile(path string) (*model.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx":
		return ReadXLSXFile(path)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}
