package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fraud-alert-agent/internal/domain"
	"fraud-alert-agent/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <customer name>",
	Short: "Show one fraud case in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	fc, err := rt.Store.FindCase(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrCaseNotFound) {
		return fmt.Errorf("no case for %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("find case: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Customer:  %s\n", displayName(fc))
	fmt.Fprintf(out, "Status:    %s\n", fc.Status)
	fmt.Fprintf(out, "Card:      **** %s\n", fc.CardSuffix)
	if fc.SecurityIdentifier != "" {
		fmt.Fprintf(out, "Security:  %s\n", fc.SecurityIdentifier)
	}
	fmt.Fprintf(out, "Question:  %s\n", fc.SecurityQuestion)
	fmt.Fprintf(out, "Answer:    %s\n", report.MaskSecret(fc.SecurityAnswer))
	fmt.Fprintf(out, "Transaction:\n")
	fmt.Fprintf(out, "  Merchant: %s\n", fc.Transaction.Merchant)
	fmt.Fprintf(out, "  Amount:   %s\n", fc.Transaction.Amount)
	fmt.Fprintf(out, "  Time:     %s\n", fc.Transaction.Time)
	fmt.Fprintf(out, "  Category: %s\n", fc.Transaction.Category)
	fmt.Fprintf(out, "  Source:   %s\n", fc.Transaction.Source)
	fmt.Fprintf(out, "  Location: %s\n", fc.Transaction.Location)
	fmt.Fprintf(out, "Updated:   %s\n", fc.LastUpdated)
	if fc.OutcomeNote != "" {
		fmt.Fprintf(out, "Outcome:   %s\n", fc.OutcomeNote)
	}
	return nil
}
