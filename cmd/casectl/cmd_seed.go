package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fraud-alert-agent/internal/seed"
)

var seedFlags struct {
	file string
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the seed snapshot into an empty case store",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFlags.file, "file", "f", "", "Snapshot file (JSON or YAML); defaults to the configured source")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd, false)
	if err != nil {
		return err
	}
	var src seed.Source
	if seedFlags.file != "" {
		src = seed.FileSource{Path: seedFlags.file}
	}
	res, err := rt.Seed(cmd.Context(), src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.AlreadySeeded {
		fmt.Fprintln(out, "Case store already holds cases; nothing seeded.")
		return nil
	}
	fmt.Fprintf(out, "Seeded %d case(s), skipped %d row(s).\n", res.Inserted, res.Skipped)
	return nil
}
