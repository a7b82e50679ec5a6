package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-audit-cli/internal/model"
)

// ReadCSV parses a lead list from a CSV stream. The first row is the header;
// rows may have fewer fields than the header (short rows read as empty cells).
func ReadCSV(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv")
	}

	if len(records) == 0 {
		return nil, eris.New("ingest: csv is empty")
	}

	return model.NewTable(records[0], records[1:]), nil
}

// ReadCSVFile parses a lead list from a CSV file on disk.
func ReadCSVFile(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open csv %s", path)
	}
	defer f.Close()

	return ReadCSV(f)
}
