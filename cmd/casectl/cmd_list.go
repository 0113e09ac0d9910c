package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/report"
)

var listFlags struct {
	status string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List fraud cases, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listFlags.status, "status", "", "Only show cases with this status (pending_review, confirmed_safe, confirmed_fraud)")
}

func runList(cmd *cobra.Command, _ []string) error {
	status := domain.CaseStatus(listFlags.status)
	if status != "" && !status.Valid() {
		return fmt.Errorf("unknown status %q", listFlags.status)
	}

	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	cases, err := rt.Store.ListCases(cmd.Context())
	if err != nil {
		return fmt.Errorf("list cases: %w", err)
	}
	cases = report.FilterByStatus(cases, status)
	report.SortNewestFirst(cases)

	out := cmd.OutOrStdout()
	if len(cases) == 0 {
		fmt.Fprintln(out, "No cases.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CUSTOMER\tSTATUS\tCARD\tMERCHANT\tAMOUNT\tUPDATED")
	for _, fc := range cases {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			displayName(fc), fc.Status, fc.CardSuffix, fc.Transaction.Merchant, fc.Transaction.Amount, fc.LastUpdated)
	}
	return tw.Flush()
}

func displayName(fc domain.Case) string {
	if fc.CustomerName != "" {
		return fc.CustomerName
	}
	return fc.CustomerKey
}
