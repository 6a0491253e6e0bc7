package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/money"
)

type ledgerView struct {
	Lines []entity.DenominationLine `json:"lines"`
	Total int64                     `json:"total"`
}

func newLedgerCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show or edit the drawer count",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, err := a.ledger(cmd)
			if err != nil {
				return err
			}
			return printLedger(cmd.OutOrStdout(), format, ledger)
		},
	}
	show.Flags().StringVarP(&format, "format", "o", formatTable, "output format: table, json or yaml")

	set := &cobra.Command{
		Use:     "set DENOMINATION COUNT",
		Short:   "Record how many pieces of a denomination are in the drawer",
		Example: "  posctl ledger set 20000 4",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return apperror.NewFieldError("denomination", "Must be a whole number")
			}
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return apperror.NewFieldError("count", "Must be a whole number")
			}

			ledger, err := a.ledger(cmd)
			if err != nil {
				return err
			}
			if err := ledger.Set(cmd.Context(), value, count); err != nil {
				return err
			}
			return printLedger(cmd.OutOrStdout(), formatTable, ledger)
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Zero every count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, err := a.ledger(cmd)
			if err != nil {
				return err
			}
			if err := ledger.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Count reset")
			return nil
		},
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}

func (a *app) ledger(cmd *cobra.Command) (*service.DenominationLedger, error) {
	return service.LoadLedger(cmd.Context(), a.keyspace()(""), entity.CashoutCountsKey, a.log)
}

func printLedger(w io.Writer, format string, ledger *service.DenominationLedger) error {
	view := ledgerView{Lines: ledger.Counts().Lines(), Total: ledger.PhysicalTotal()}
	return render(w, format, view, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "DENOMINATION\tCOUNT\tSUBTOTAL\t")
		for _, l := range view.Lines {
			fmt.Fprintf(tw, "%s\t%d\t%s\t\n", l.Label, l.Count, money.FormatCurrency(l.Subtotal))
		}
		fmt.Fprintf(tw, "TOTAL\t\t%s\t\n", money.FormatCurrency(view.Total))
		return tw.Flush()
	})
}
