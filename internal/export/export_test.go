package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-audit-cli/internal/audit"
	"github.com/sells-group/lead-audit-cli/internal/config"
	"github.com/sells-group/lead-audit-cli/internal/model"
)

// passthroughDetector never flags anything; rules decide every label.
type passthroughDetector struct{}

func (passthroughDetector) Flags(features [][]float64) []bool {
	return make([]bool, len(features))
}

func sampleResult(t *testing.T) *audit.Result {
	t.Helper()

	tbl := model.NewTable([]string{"Name", "Email", "Phone"}, [][]string{
		{"Jane Smith", "jane@gmail.com", "352-555-0199"},
		{"ALACHUA_BOT", "bot@test.ru", "0000000000"},
		{"Short Phone", "s@gmail.com", "12345"},
	})

	p := audit.New(config.AuditConfig{MinPhoneDigits: 10, PreviewRows: 10}, passthroughDetector{})
	res, err := p.Run(context.Background(), tbl)
	require.NoError(t, err)
	return res
}

func TestWriteWorkbook_Roundtrip(t *testing.T) {
	res := sampleResult(t)
	path := filepath.Join(t.TempDir(), "audit.xlsx")
	require.NoError(t, WriteWorkbook(path, res))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	good, ok := f.Sheet[SheetGood]
	require.True(t, ok)
	junk, ok := f.Sheet[SheetJunk]
	require.True(t, ok)

	// Header + 1 good row; header + 2 junk rows.
	require.Len(t, good.Rows, 2)
	require.Len(t, junk.Rows, 3)

	assert.Equal(t, "Quality_Label", good.Rows[0].Cells[3].String())
	assert.Equal(t, "Jane Smith", good.Rows[1].Cells[0].String())
	assert.Equal(t, "Good", good.Rows[1].Cells[3].String())

	assert.Equal(t, "ALACHUA_BOT", junk.Rows[1].Cells[0].String())
	assert.Equal(t, "Junk", junk.Rows[1].Cells[3].String())
	assert.Equal(t, "Short Phone", junk.Rows[2].Cells[0].String())
}

func TestStreamWorkbook(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, StreamWorkbook(&buf, res))
	assert.NotZero(t, buf.Len())
}

func TestWriteCSV(t *testing.T) {
	res := sampleResult(t)
	base := filepath.Join(t.TempDir(), "audit.xlsx")

	goodPath, junkPath, err := WriteCSV(base, res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(base), "audit_ready.csv"), goodPath)
	assert.Equal(t, filepath.Join(filepath.Dir(base), "audit_review.csv"), junkPath)

	goodRows := readCSV(t, goodPath)
	require.Len(t, goodRows, 2)
	assert.Equal(t, []string{"Name", "Email", "Phone", "Quality_Label"}, goodRows[0])
	assert.Equal(t, []string{"Jane Smith", "jane@gmail.com", "352-555-0199", "Good"}, goodRows[1])

	junkRows := readCSV(t, junkPath)
	require.Len(t, junkRows, 3)
}

func TestWritePreviewCSV(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, WritePreviewCSV(&buf, res.Preview))

	rows := parseCSV(t, buf.Bytes())
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Name", "Email", "Phone", "Quality_Label"}, rows[0])
	assert.Equal(t, []string{"Jane Smith", "jane@gmail.com", "352-555-0199", "Good"}, rows[1])
	assert.Equal(t, []string{"ALACHUA_BOT", "bot@test.ru", "0000000000", "Junk"}, rows[2])
}

func TestWriteTemplate_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.csv")
	require.NoError(t, WriteTemplate(path))

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Name", "Email", "Phone"}, rows[0])
}

func TestWriteTemplate_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, WriteTemplate(path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	require.Len(t, f.Sheets[0].Rows, 1)
	assert.Equal(t, "Name", f.Sheets[0].Rows[0].Cells[0].String())
}

func TestWriteTemplate_UnsupportedExtension(t *testing.T) {
	assert.Error(t, WriteTemplate(filepath.Join(t.TempDir(), "template.pdf")))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return parseCSV(t, data)
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}
