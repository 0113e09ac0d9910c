package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize cases by status",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	cases, err := rt.Store.ListCases(cmd.Context())
	if err != nil {
		return fmt.Errorf("list cases: %w", err)
	}
	st := report.Summarize(cases)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total cases:      %d\n", st.Total)
	fmt.Fprintf(out, "Pending review:   %d\n", st.ByStatus[domain.StatusPendingReview])
	fmt.Fprintf(out, "Confirmed safe:   %d\n", st.ByStatus[domain.StatusConfirmedSafe])
	fmt.Fprintf(out, "Confirmed fraud:  %d\n", st.ByStatus[domain.StatusConfirmedFraud])
	fmt.Fprintf(out, "High value (>$%.0f): %d\n", report.HighValueThreshold, st.HighValue)
	if st.Unparsed > 0 {
		fmt.Fprintf(out, "Unreadable amounts: %d\n", st.Unparsed)
	}
	return nil
}
