package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"dompetku/internal/period"
)

func periodsCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List the selectable pay periods, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			calc, err := cfg.Calculator()
			if err != nil {
				return err
			}
			if count <= 0 {
				count = cfg.PeriodOptions
			}
			return writePeriods(cmd.OutOrStdout(), calc.Options(time.Now(), count))
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of periods (default PERIOD_OPTIONS)")
	return cmd
}

func writePeriods(w io.Writer, opts []period.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VALUE\tLABEL\tCURRENT")
	for _, o := range opts {
		current := ""
		if o.IsCurrent {
			current = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Value, o.Label, current)
	}
	return tw.Flush()
}
