// Package ingest loads lead lists from CSV and XLSX files and validates
// their schema before classification.
package ingest

import (
	"fmt"
	"strings"

	"github.com/sells-group/lead-audit-cli/internal/model"
)

// RequiredColumns are the columns every lead list must carry. Matching is
// case-sensitive and exact.
var RequiredColumns = []string{"Name", "Email", "Phone"}

// SchemaError reports required columns absent from an input table. It is
// fatal: no records are processed when it occurs.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ingest: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ValidateSchema checks that the table carries all required columns and
// returns a *SchemaError naming each missing one.
func ValidateSchema(t *model.Table) error {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
