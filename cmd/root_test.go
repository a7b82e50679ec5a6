package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"audit", "serve", "template"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "lead-audit", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestAuditCommand_Flags(t *testing.T) {
	flag := auditCmd.Flags().Lookup("input")
	require.NotNil(t, flag, "audit command should have --input flag")

	outFlag := auditCmd.Flags().Lookup("output")
	require.NotNil(t, outFlag)
	assert.Equal(t, "lead_audit_results.xlsx", outFlag.DefValue)

	formatFlag := auditCmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "xlsx", formatFlag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestTemplateCommand_Flags(t *testing.T) {
	flag := templateCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "lead_template.csv", flag.DefValue)
}
