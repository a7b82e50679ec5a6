package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-audit-cli/internal/audit"
	"github.com/sells-group/lead-audit-cli/internal/config"
	"github.com/sells-group/lead-audit-cli/internal/export"
	"github.com/sells-group/lead-audit-cli/internal/ingest"
)

var (
	auditInput   string
	auditOutput  string
	auditRules   string
	auditFormat  string
	auditPreview bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Classify a lead list and export Good/Junk spreadsheets",
	Long: `Reads a lead list (CSV or XLSX), classifies every record, and writes the
result as a two-sheet XLSX workbook (or a pair of CSV files).

Examples:
  # Audit a CSV, write lead_audit_results.xlsx
  lead-audit audit --input leads.csv

  # Custom output and rule overrides
  lead-audit audit --input leads.xlsx --output audited.xlsx --rules rules.yaml

  # CSV output plus a preview of the first records on stdout
  lead-audit audit --input leads.csv --format csv --preview`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			// cmd.Context() is only set by Execute; direct RunE callers get none.
			ctx = context.Background()
		}

		auditCfg := cfg.Audit
		if auditRules != "" {
			if err := config.ApplyRulesFile(auditRules, &auditCfg); err != nil {
				return eris.Wrap(err, "audit: apply rules file")
			}
		}
		if err := config.Validate(auditCfg); err != nil {
			return err
		}

		tbl, err := ingest.LoadFile(auditInput)
		if err != nil {
			return eris.Wrap(err, "audit: load input")
		}
		zap.L().Info("loaded lead list",
			zap.String("input", auditInput),
			zap.Int("records", tbl.Len()),
		)

		res, err := audit.New(auditCfg, nil).Run(ctx, tbl)
		if err != nil {
			return eris.Wrap(err, "audit: run")
		}

		switch auditFormat {
		case "csv":
			goodPath, junkPath, err := export.WriteCSV(auditOutput, res)
			if err != nil {
				return err
			}
			zap.L().Info("audit written",
				zap.String("good", goodPath),
				zap.String("junk", junkPath),
			)
		case "xlsx":
			if err := export.WriteWorkbook(auditOutput, res); err != nil {
				return err
			}
			zap.L().Info("audit written", zap.String("output", auditOutput))
		default:
			return eris.Errorf("audit: unknown format %q (want xlsx or csv)", auditFormat)
		}

		if auditPreview {
			if err := export.WritePreviewCSV(os.Stdout, res.Preview); err != nil {
				return err
			}
		}

		return nil
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditInput, "input", "", "path to lead list (.csv or .xlsx, required)")
	auditCmd.Flags().StringVar(&auditOutput, "output", "lead_audit_results.xlsx", "output path")
	auditCmd.Flags().StringVar(&auditRules, "rules", "", "optional YAML rules override file")
	auditCmd.Flags().StringVar(&auditFormat, "format", "xlsx", "output format: xlsx (default) or csv")
	auditCmd.Flags().BoolVar(&auditPreview, "preview", false, "print a preview of the first records to stdout")
	_ = auditCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(auditCmd)
}
