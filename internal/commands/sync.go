package commands

import (
	"fmt"

	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/repository"
	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the local cache with the finance server",
	}

	cmd.AddCommand(newPullCommand())
	cmd.AddCommand(newPushCommand())

	return cmd
}

func newPullCommand() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch the account, the categories and the transactions of a period",
		Long:  "Fetch the account, all categories and the transactions of a period from the finance server into the local cache. Without --start and --end the current month is pulled.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := parsePeriod(start, end)
			if err != nil {
				return err
			}
			return runPull(cmd, period)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day of the period (YYYY-MM-DD)")
	cmd.MarkFlagsRequiredTogether("start", "end")

	return cmd
}

// parsePeriod returns the period between start and end, or the current
// month if both are empty.
func parsePeriod(start, end string) (types.Period, error) {
	if start == "" && end == "" {
		return types.CurrentMonth(), nil
	}

	s, err := types.ParseDate(start)
	if err != nil {
		return types.Period{}, fmt.Errorf("invalid --start: %w", err)
	}

	e, err := types.ParseDate(end)
	if err != nil {
		return types.Period{}, fmt.Errorf("invalid --end: %w", err)
	}

	return types.NewPeriod(s, e)
}

func runPull(cmd *cobra.Command, period types.Period) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := repository.Pull(cmd.Context(), a.accounts, a.categories, a.transactions, period)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account:      %s (%s %s)\n", report.Account.Name, report.Account.Balance.StringFixed(2), report.Account.Currency)
	fmt.Fprintf(out, "Categories:   %d\n", report.Categories)
	fmt.Fprintf(out, "Transactions: %d in %s\n", report.Transactions, report.Period)
	return nil
}

func newPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Send all unsynced transactions to the finance server",
		Args:  cobra.NoArgs,
		RunE:  runPush,
	}
}

func runPush(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.pusher.Push(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pushed: %d\n", report.Pushed)
	if report.Discarded > 0 {
		fmt.Fprintf(out, "Discarded: %d\n", report.Discarded)
	}
	fmt.Fprintf(out, "Failed: %d\n", report.Failed)
	for _, e := range report.Errors {
		fmt.Fprintf(out, "  %s\n", e)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d transactions could not be pushed", report.Failed)
	}
	return nil
}
