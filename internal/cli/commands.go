package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitledger/internal/ledger"
)

func newBalancesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Print the net balance of every participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, group, err := opts.load(cmd)
			if err != nil {
				return err
			}
			balances := ledger.ComputeBalances(f.Expenses, f.Settlements, group)
			return printBalances(cmd.OutOrStdout(), balances)
		},
	}
}

func newPlanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Suggest the transfers that settle the group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, group, err := opts.load(cmd)
			if err != nil {
				return err
			}
			balances := ledger.ComputeBalances(f.Expenses, f.Settlements, group)
			transfers, err := ledger.ComputeSettlementPlan(balances)
			if err != nil {
				return describeUnbalanced(err)
			}
			return printTransfers(cmd.OutOrStdout(), transfers)
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every record and that balances net to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, group, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := ledger.ValidateGroup(f.Expenses, f.Settlements, group); err != nil {
				return err
			}
			balances := ledger.ComputeBalances(f.Expenses, f.Settlements, group)
			if err := ledger.CheckBalanced(balances); err != nil {
				return describeUnbalanced(err)
			}

			summary := ledger.Summarize(f.Expenses, f.Settlements, group)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: group %s, %d expenses, %d settlements\n",
				group, summary.ExpenseCount, summary.SettlementCount)
			return err
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print spending totals per participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, group, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), ledger.Summarize(f.Expenses, f.Settlements, group))
		},
	}
}

func printBalances(w io.Writer, balances []ledger.Balance) error {
	if len(balances) == 0 {
		_, err := fmt.Fprintln(w, "No activity.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERSON\tBALANCE\tSTATUS\t")
	for _, b := range balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", b.PersonID, money(b.Amount), b.Status())
	}
	return tw.Flush()
}

func printTransfers(w io.Writer, transfers []ledger.Transfer) error {
	if len(transfers) == 0 {
		_, err := fmt.Fprintln(w, "All settled up.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range transfers {
		fmt.Fprintf(tw, "%s\tpays\t%s\t%s\n", t.FromPersonID, t.ToPersonID, money(t.Amount))
	}
	return tw.Flush()
}

func printSummary(w io.Writer, s ledger.Summary) error {
	fmt.Fprintf(w, "Group:       %s\n", s.GroupID)
	fmt.Fprintf(w, "Total spent: %s\n", money(s.TotalSpent))
	fmt.Fprintf(w, "Expenses:    %d\n", s.ExpenseCount)
	fmt.Fprintf(w, "Settlements: %d\n", s.SettlementCount)
	if len(s.Members) == 0 {
		return nil
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERSON\tPAID\tOWED\tNET\t")
	for _, m := range s.Members {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", m.PersonID, money(m.Paid), money(m.Owed), money(m.Net()))
	}
	return tw.Flush()
}

// describeUnbalanced adds the unmatched balances to an unbalanced-ledger error.
func describeUnbalanced(err error) error {
	var unbalanced *ledger.UnbalancedLedgerError
	if !errors.As(err, &unbalanced) || len(unbalanced.Residuals) == 0 {
		return err
	}
	for _, r := range unbalanced.Residuals {
		err = fmt.Errorf("%w\n  %s left at %s", err, r.PersonID, money(r.Amount))
	}
	return err
}

func money(d decimal.Decimal) string {
	return d.StringFixed(ledger.Places)
}
