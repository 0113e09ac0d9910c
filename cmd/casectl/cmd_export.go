package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fraud-alert-agent/internal/report"
	"fraud-alert-agent/internal/seed"
)

var exportFlags struct {
	out string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the case store as a seed snapshot",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "Output file (.json, .yaml); stdout when empty")
}

func runExport(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	cases, err := rt.Store.ListCases(cmd.Context())
	if err != nil {
		return fmt.Errorf("list cases: %w", err)
	}
	report.SortNewestFirst(cases)

	format := seed.FormatJSON
	if exportFlags.out != "" {
		format = seed.FormatFromPath(exportFlags.out)
	}
	data, err := seed.Encode(cases, format)
	if err != nil {
		return err
	}

	if exportFlags.out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportFlags.out, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d case(s) to %s\n", len(cases), exportFlags.out)
	return nil
}
