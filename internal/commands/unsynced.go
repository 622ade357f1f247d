package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/pocketledger/client/internal/types"
	"github.com/spf13/cobra"
)

func newUnsyncedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unsynced",
		Short: "List transactions that have not been confirmed by the server",
		Args:  cobra.NoArgs,
		RunE:  runUnsynced,
	}
}

func runUnsynced(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	transactions, err := a.store.SelectUnsynced(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(transactions) == 0 {
		fmt.Fprintln(out, "All transactions are synced.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOCAL ID\tDATE\tCATEGORY\tAMOUNT\tCOMMENT")
	for _, t := range transactions {
		comment := ""
		if t.Comment != nil {
			comment = *t.Comment
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", t.LocalID, types.DateOf(t.TransactionDate), t.CategoryID, t.Amount.StringFixed(2), comment)
	}
	return w.Flush()
}
