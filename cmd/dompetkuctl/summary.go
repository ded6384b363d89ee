package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"dompetku/internal/backend"
	"dompetku/internal/core"
	"dompetku/internal/period"
	"dompetku/internal/services"
)

func summaryCmd() *cobra.Command {
	var token string
	var list bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the totals of one pay period",
		Long: `Print income, expense and balance for a pay period.

Without --period the period containing the current time is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			calc, err := cfg.Calculator()
			if err != nil {
				return err
			}

			start := calc.CurrentStart(time.Now())
			if token != "" {
				t, err := calc.ParseToken(token)
				if err != nil {
					return fmt.Errorf("invalid --period %q: %w", token, err)
				}
				start = calc.StartFor(t)
			}

			// Read-only: no change events.
			storeCfg := *cfg
			storeCfg.AMQPURL = ""
			bcfg, err := backend.FromAppConfig(&storeCfg)
			if err != nil {
				return err
			}
			res, err := backend.NewFactory(logger).CreateBackend(cmd.Context(), bcfg)
			if err != nil {
				return err
			}
			defer res.Cleanup()

			svc := services.NewTransactionService(res.Store, calc, time.Now, nil)
			s, err := svc.Summary(cmd.Context(), start)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), calc.OptionFor(start), s, cfg.CurrencySymbol, list)
		},
	}
	cmd.Flags().StringVarP(&token, "period", "p", "", "period start date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&list, "transactions", "t", false, "also list the period's transactions")
	return cmd
}

func writeSummary(w io.Writer, opt period.Option, s core.PeriodSummary, symbol string, list bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Period\t%s\n", opt.Label)
	fmt.Fprintf(tw, "Transactions\t%d\n", len(s.Transactions))
	fmt.Fprintf(tw, "Income\t%s\n", s.Income.Format(symbol))
	fmt.Fprintf(tw, "Expense\t%s\n", s.Expense.Format(symbol))
	fmt.Fprintf(tw, "Balance\t%s\n", s.Balance.Format(symbol))
	if list && len(s.Transactions) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION")
		for _, t := range s.Transactions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				t.Timestamp.In(opt.Start.Location()).Format("2006-01-02 15:04"),
				t.Type, t.Amount.Format(symbol), t.Category, t.Description)
		}
	}
	return tw.Flush()
}
