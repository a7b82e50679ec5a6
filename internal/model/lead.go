// Package model defines the tabular lead list and per-record classification types.
package model

import "strings"

// Label is the final quality classification for a lead record.
type Label string

const (
	LabelGood Label = "Good"
	LabelJunk Label = "Junk"
)

// Lead is the contact view of one table row.
type Lead struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Features holds the numeric features derived from a lead's raw fields.
type Features struct {
	PhoneDigits string `json:"phone_digits"`
	NameLen     int    `json:"name_len"`
	PhoneLen    int    `json:"phone_len"`
	DomainID    int    `json:"domain_id"`
}

// Classification is the final per-record audit result.
type Classification struct {
	Outlier     bool  `json:"is_statistical_outlier"`
	Blacklisted bool  `json:"is_blacklisted"`
	ShortPhone  bool  `json:"is_short_phone"`
	Label       Label `json:"final_label"`
}

// Table is a row-major lead list with named columns. Columns beyond the
// required Name/Email/Phone set are carried through untouched.
type Table struct {
	Header []string
	Rows   [][]string

	colIdx map[string]int
}

// NewTable builds a Table and indexes its header. Header cells are trimmed;
// column lookup is case-sensitive. When duplicate column names occur the
// first occurrence wins.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Header: make([]string, len(header)),
		Rows:   rows,
		colIdx: make(map[string]int, len(header)),
	}
	for i, col := range header {
		name := strings.TrimSpace(col)
		t.Header[i] = name
		if _, ok := t.colIdx[name]; !ok {
			t.colIdx[name] = i
		}
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// Value returns the cell at (row, column name), or "" when the column does
// not exist or the row is shorter than the header.
func (t *Table) Value(row int, name string) string {
	idx, ok := t.colIdx[name]
	if !ok || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// Lead returns the contact view of row i.
func (t *Table) Lead(i int) Lead {
	return Lead{
		Name:  t.Value(i, "Name"),
		Email: t.Value(i, "Email"),
		Phone: t.Value(i, "Phone"),
	}
}
