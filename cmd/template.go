package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-audit-cli/internal/export"
)

var templateOutput string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an empty lead-list template",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := export.WriteTemplate(templateOutput); err != nil {
			return eris.Wrap(err, "template: write")
		}
		zap.L().Info("template written", zap.String("output", templateOutput))
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVar(&templateOutput, "output", "lead_template.csv", "template path (.csv or .xlsx)")
	rootCmd.AddCommand(templateCmd)
}
