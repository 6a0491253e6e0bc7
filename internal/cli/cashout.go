package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/config"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/internal/infrastructure/client"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/money"
)

// offlinePrincipal reads a sales file; it sees every seller.
var offlinePrincipal = entity.Principal{UserID: "offline", Name: "offline", Role: enum.RoleAdmin}

type cashoutOptions struct {
	date     string
	allDates bool
	seller   string
	input    string
	format   string
	xlsx     string
	save     bool
}

func newCashoutCommand(a *app) *cobra.Command {
	var opts cashoutOptions

	cmd := &cobra.Command{
		Use:   "cashout",
		Short: "Reconcile the drawer against the day's sales",
		Long: `Fetch the day's sales, total them by payment method and compare the
expected cash with the drawer count recorded by "posctl ledger".

With --input the sales are read from a JSON file ("-" for stdin) instead
of the store API; such a cashout cannot be saved.`,
		Example: `  posctl cashout --date 2024-01-15
  posctl cashout --seller 7 --save
  posctl cashout --input ventas.json --format yaml --xlsx cuadratura.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCashout(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.date, "date", "", "business date YYYY-MM-DD (default today)")
	flags.BoolVar(&opts.allDates, "all-dates", false, "include sales of every date")
	flags.StringVar(&opts.seller, "seller", "", "restrict to one seller id")
	flags.StringVarP(&opts.input, "input", "i", "", "read sales from a JSON file instead of the API")
	flags.StringVarP(&opts.format, "format", "o", formatTable, "output format: table, json or yaml")
	flags.StringVar(&opts.xlsx, "xlsx", "", "also write the report as a workbook to this path")
	flags.BoolVar(&opts.save, "save", false, "close the daily box upstream")
	cmd.MarkFlagsMutuallyExclusive("date", "all-dates")
	return cmd
}

func (a *app) runCashout(cmd *cobra.Command, opts cashoutOptions) error {
	ctx := cmd.Context()

	var (
		gateway   repository.CashoutGateway
		sellers   service.SellerDirectory
		principal entity.Principal
	)
	if opts.input != "" {
		if opts.save {
			return errors.New("a cashout read from --input cannot be saved")
		}
		source, err := openSource(cmd, opts.input)
		if err != nil {
			return err
		}
		gateway, principal = source, offlinePrincipal
	} else {
		profile, err := a.auth.Profile(ctx, "")
		if err != nil {
			if errors.Is(err, apperror.ErrUnauthorized) {
				return errors.New(`not logged in; run "posctl login" first`)
			}
			return err
		}
		gateway, principal = a.api, *profile
		sellers = service.NewStaffService(a.api, 0, a.log)
		ctx = service.WithPrincipal(ctx, principal)
	}

	svc := service.NewCashoutService(gateway, sellers, a.keyspace(), a.cashoutSettings(), nil, a.log)
	filter := entity.CashoutFilter{Date: opts.date, SellerID: opts.seller}
	switch {
	case opts.allDates:
		filter.Date = ""
	case filter.Date == "":
		filter.Date = svc.Today()
	}

	report, err := svc.Open(ctx, principal, filter)
	if err != nil {
		return err
	}
	defer svc.Close(principal)

	if report.Notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", report.Notice)
	}
	if err := printReport(cmd.OutOrStdout(), opts.format, report); err != nil {
		return err
	}

	if opts.xlsx != "" {
		if err := a.writeWorkbook(opts.xlsx, report); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Wrote", opts.xlsx)
	}

	if !opts.save {
		return nil
	}
	result, err := svc.Save(ctx, principal)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Daily box closed for %s: %s\n", displayDate(result.Date), result.Status.Label())
	return nil
}

func openSource(cmd *cobra.Command, input string) (*client.FileSource, error) {
	if input == "-" {
		return client.NewReaderSource(cmd.InOrStdin())
	}
	return client.NewFileSource(input)
}

func (a *app) cashoutSettings() service.CashoutSettings {
	return service.CashoutSettings{
		BaseFloat: a.cfg.Cashout.BaseFloat,
		Location:  a.cfg.Cashout.Location(),
		// one fetch per run; the filter is applied locally
		FetchMode: config.FetchModeSnapshot,
	}
}

func (a *app) writeWorkbook(path string, report *service.CashoutReport) error {
	export := service.NewExportService(a.cfg.Cashout.Location())
	f, err := export.CashoutWorkbook(report)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := export.Write(out, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func printReport(w io.Writer, format string, report *service.CashoutReport) error {
	return render(w, format, report, func(w io.Writer) error {
		s, r := report.Summary, report.Reconciliation

		seller := "all sellers"
		if report.Filter.SellerName != "" {
			seller = report.Filter.SellerName
		} else if report.Filter.SellerID != "" {
			seller = "seller " + report.Filter.SellerID
		}
		fmt.Fprintf(w, "Cashout %s, %s (%d sales)\n\n", displayDate(report.Filter.Date), seller, s.SaleCount)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, row := range [][2]string{
			{"Total sold", money.FormatCurrency(s.TotalSold)},
			{"Cash", money.FormatCurrency(s.TotalCash)},
			{"Debit", money.FormatCurrency(s.TotalDebit)},
			{"Credit", money.FormatCurrency(s.TotalCredit)},
			{"", ""},
			{"Base float", money.FormatCurrency(r.BaseCashFloat)},
			{"Expected cash", money.FormatCurrency(r.ExpectedCash)},
			{"Counted cash", money.FormatCurrency(r.PhysicalCash)},
			{"Variance", money.FormatCurrency(r.Variance)},
			{"Status", r.Status.Label()},
		} {
			fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
		}
		return tw.Flush()
	})
}

func displayDate(date string) string {
	if date == "" {
		return "all dates"
	}
	return date
}
