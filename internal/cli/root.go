// Package cli implements ledgerctl, an offline tool that computes balances
// and settlement plans from a TOML ledger file.
package cli

import (
	"fmt"
	"io"
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type options struct {
	file  string
	group string
}

// NewRootCmd builds the ledgerctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Balances and settlement plans for a shared-expense ledger",
		Long:          "ledgerctl reads a TOML ledger of expenses and settlements and reports\nwho owes whom within a group.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "ledger.toml", "ledger file, - for stdin")
	rootCmd.PersistentFlags().StringVarP(&opts.group, "group", "g", "", "group to report on (defaults to the file's group)")

	rootCmd.AddCommand(
		newBalancesCmd(opts),
		newPlanCmd(opts),
		newValidateCmd(opts),
		newSummaryCmd(opts),
	)
	return rootCmd
}

// Execute runs ledgerctl with the process arguments.
func Execute() error {
	rootCmd := NewRootCmd()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic,
		})
	}
	return rootCmd.Execute()
}

// load reads the ledger file and resolves the group to report on.
func (o *options) load(cmd *cobra.Command) (*File, string, error) {
	var r io.Reader
	if o.file == "-" {
		r = cmd.InOrStdin()
	} else {
		fh, err := os.Open(o.file)
		if err != nil {
			return nil, "", fmt.Errorf("open ledger file: %w", err)
		}
		defer fh.Close()
		r = fh
	}

	f, err := ReadFile(r)
	if err != nil {
		return nil, "", err
	}

	group := o.group
	if group == "" {
		group = f.GroupID
	}
	return f, group, nil
}
