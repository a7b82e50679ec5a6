// Package audit orchestrates one classification batch: schema validation,
// feature extraction, anomaly scoring, rule overrides, and the final
// Good/Junk partition.
package audit

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/lead-audit-cli/internal/anomaly"
	"github.com/sells-group/lead-audit-cli/internal/config"
	"github.com/sells-group/lead-audit-cli/internal/features"
	"github.com/sells-group/lead-audit-cli/internal/ingest"
	"github.com/sells-group/lead-audit-cli/internal/model"
	"github.com/sells-group/lead-audit-cli/internal/rules"
)

// LabelColumn is the name of the classification column appended to exports
// and previews.
const LabelColumn = "Quality_Label"

// PreviewRow is one record of the audit preview shown to the caller.
type PreviewRow struct {
	Name         string `csv:"Name" json:"name"`
	Email        string `csv:"Email" json:"email"`
	Phone        string `csv:"Phone" json:"phone"`
	QualityLabel string `csv:"Quality_Label" json:"quality_label"`
}

// Result holds the outcome of one batch run. Good and Junk index into the
// table's rows and form a strict bipartition in input order.
type Result struct {
	RunID           string
	Table           *model.Table
	Features        []model.Features
	Classifications []model.Classification
	Good            []int
	Junk            []int
	Preview         []PreviewRow
}

// Pipeline runs batches. Every Run call fits its own model and builds its
// own domain encoding; nothing is shared across batches.
type Pipeline struct {
	detector    anomaly.Detector
	engine      *rules.Engine
	previewRows int
}

// New builds a Pipeline from audit config. A nil detector gets a seeded
// isolation forest with the configured parameters.
func New(cfg config.AuditConfig, detector anomaly.Detector) *Pipeline {
	if detector == nil {
		detector = anomaly.NewIsolationForest(anomaly.ForestParams{
			Trees:         cfg.Trees,
			SampleSize:    cfg.SampleSize,
			Contamination: cfg.Contamination,
			Seed:          cfg.Seed,
		})
	}

	previewRows := cfg.PreviewRows
	if previewRows == 0 {
		previewRows = 10
	}

	return &Pipeline{
		detector:    detector,
		engine:      rules.NewEngine(cfg.Blacklist, cfg.MinPhoneDigits),
		previewRows: previewRows,
	}
}

// Run classifies one table in a single synchronous pass. Schema failures
// return a *ingest.SchemaError before any record is processed.
func (p *Pipeline) Run(ctx context.Context, t *model.Table) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ingest.ValidateSchema(t); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	n := t.Len()

	feats := features.Extract(t)
	flags := p.detector.Flags(features.Matrix(feats))

	res := &Result{
		RunID:           runID,
		Table:           t,
		Features:        feats,
		Classifications: make([]model.Classification, n),
	}

	outliers := 0
	for i := 0; i < n; i++ {
		c := p.engine.Classify(t.Lead(i), feats[i], flags[i])
		res.Classifications[i] = c

		if c.Outlier {
			outliers++
		}
		if c.Label == model.LabelJunk {
			res.Junk = append(res.Junk, i)
		} else {
			res.Good = append(res.Good, i)
		}
	}

	res.Preview = p.preview(res)

	zap.L().Info("audit: batch complete",
		zap.String("run_id", runID),
		zap.Int("records", n),
		zap.Int("good", len(res.Good)),
		zap.Int("junk", len(res.Junk)),
		zap.Int("statistical_outliers", outliers),
	)

	return res, nil
}

// preview returns the first previewRows records with their final labels.
func (p *Pipeline) preview(res *Result) []PreviewRow {
	n := res.Table.Len()
	if n > p.previewRows {
		n = p.previewRows
	}

	rows := make([]PreviewRow, n)
	for i := 0; i < n; i++ {
		lead := res.Table.Lead(i)
		rows[i] = PreviewRow{
			Name:         lead.Name,
			Email:        lead.Email,
			Phone:        lead.Phone,
			QualityLabel: string(res.Classifications[i].Label),
		}
	}
	return rows
}

// LabeledHeader returns the original header with the label column appended.
func (r *Result) LabeledHeader() []string {
	header := make([]string, 0, len(r.Table.Header)+1)
	header = append(header, r.Table.Header...)
	return append(header, LabelColumn)
}

// LabeledRows returns the rows carrying the given label, in input order,
// padded to the header width with the label value appended.
func (r *Result) LabeledRows(label model.Label) [][]string {
	indices := r.Good
	if label == model.LabelJunk {
		indices = r.Junk
	}

	width := len(r.Table.Header)
	rows := make([][]string, 0, len(indices))
	for _, i := range indices {
		row := make([]string, width+1)
		copy(row, r.Table.Rows[i])
		row[width] = string(label)
		rows = append(rows, row)
	}
	return rows
}
