package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-audit-cli/internal/audit"
	"github.com/sells-group/lead-audit-cli/internal/model"
)

// CSV file suffixes for the two partitions.
const (
	suffixGood = "_ready"
	suffixJunk = "_review"
)

// WriteCSV writes the result as two CSV files next to the given base path:
// <base>_ready.csv for Good records and <base>_review.csv for Junk records.
// It returns the two paths written.
func WriteCSV(basePath string, res *audit.Result) (goodPath, junkPath string, err error) {
	base := strings.TrimSuffix(basePath, filepath.Ext(basePath))
	goodPath = base + suffixGood + ".csv"
	junkPath = base + suffixJunk + ".csv"

	if err := writeCSVFile(goodPath, res.LabeledHeader(), res.LabeledRows(model.LabelGood)); err != nil {
		return "", "", err
	}
	if err := writeCSVFile(junkPath, res.LabeledHeader(), res.LabeledRows(model.LabelJunk)); err != nil {
		return "", "", err
	}
	return goodPath, junkPath, nil
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create csv %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// WritePreviewCSV writes the audit preview to w with the columns
// Name, Email, Phone, Quality_Label.
func WritePreviewCSV(w io.Writer, preview []audit.PreviewRow) error {
	data, err := csvutil.Marshal(preview)
	if err != nil {
		return eris.Wrap(err, "export: marshal preview")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write preview")
	}
	return nil
}
