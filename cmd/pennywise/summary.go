package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pennywise-cli/pennywise/internal/cli"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <year> <month>",
		Short: "Monthly spending by category",
		Long: `Sum expense amounts grouped by category for one month. Only stored
categories are consulted; no categorization runs at summary time.

Example:
  pennywise summary 2025 5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1900 {
				return fmt.Errorf("invalid year %q", args[0])
			}
			monthNum, err := strconv.Atoi(args[1])
			if err != nil || monthNum < 1 || monthNum > 12 {
				return fmt.Errorf("invalid month %q (use 1-12)", args[1])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			totals, err := store.MonthlySpendingSummary(ctx, year, time.Month(monthNum), ownerScope())
			if err != nil {
				return fmt.Errorf("failed to compute summary: %w", err)
			}

			title := fmt.Sprintf("Spending for %04d-%02d", year, monthNum)
			fmt.Println(cli.FormatTitle(title))

			if len(totals) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses recorded for this month."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Spent"))
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 16), strings.Repeat("-", 10))

			var grand float64
			for _, ct := range totals {
				spent := math.Abs(ct.Total)
				grand += spent
				fmt.Fprintf(w, "%s\t%.2f\n", ct.Category, spent)
			}
			fmt.Fprintf(w, "%s\t%.2f\n", cli.HeaderStyle.Render("Total"), grand)

			return nil
		},
	}
}
