package ingest

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/lead-audit-cli/internal/model"
)

func TestReadCSV_Basic(t *testing.T) {
	input := "Name,Email,Phone\nJane Smith,jane@gmail.com,352-555-0199\nALACHUA_BOT,bot@test.ru,0000000000\n"
	tbl, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Email", "Phone"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "jane@gmail.com", tbl.Value(0, "Email"))
	assert.Equal(t, "0000000000", tbl.Value(1, "Phone"))
}

func TestReadCSV_ShortRows(t *testing.T) {
	input := "Name,Email,Phone\nJane Smith\n"
	tbl, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Jane Smith", tbl.Value(0, "Name"))
	assert.Equal(t, "", tbl.Value(0, "Phone"))
}

func TestReadCSV_ExtraColumnsPreserved(t *testing.T) {
	input := "Name,Email,Phone,Source\nJane Smith,jane@gmail.com,352-555-0199,webform\n"
	tbl, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "webform", tbl.Value(0, "Source"))
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadXLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	writeXLSX(t, path, "Sheet1", [][]string{
		{"Name", "Email", "Phone"},
		{"Jane Smith", "jane@gmail.com", "352-555-0199"},
	})

	tbl, err := ReadXLSXFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Email", "Phone"}, tbl.Header)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Jane Smith", tbl.Value(0, "Name"))
}

func TestLoadFile_Dispatch(t *testing.T) {
	_, err := LoadFile("leads.pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestValidateSchema_OK(t *testing.T) {
	tbl := model.NewTable([]string{"Name", "Email", "Phone", "Extra"}, nil)
	assert.NoError(t, ValidateSchema(tbl))
}

func TestValidateSchema_MissingPhone(t *testing.T) {
	tbl := model.NewTable([]string{"Name", "Email"}, nil)
	err := ValidateSchema(tbl)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Phone"}, schemaErr.Missing)
}

func TestValidateSchema_CaseSensitive(t *testing.T) {
	tbl := model.NewTable([]string{"name", "email", "phone"}, nil)
	err := ValidateSchema(tbl)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Name", "Email", "Phone"}, schemaErr.Missing)
}

func writeXLSX(t *testing.T, path, sheetName string, rows [][]string) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	require.NoError(t, f.Save(path))
}
