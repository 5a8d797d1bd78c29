package main

import (
	"fmt"

	"github.com/pennywise-cli/pennywise/internal/cli"
	"github.com/pennywise-cli/pennywise/internal/engine"
	"github.com/pennywise-cli/pennywise/internal/importer"
	"github.com/pennywise-cli/pennywise/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Import a bank statement (CSV, OFX, or QFX)",
		Long: `Parse a statement file, categorize every record against your active
rules and the built-in keywords, and save the results. Re-importing the
same file is safe: records already present are skipped.

Examples:
  pennywise import statement.csv
  pennywise import checking.ofx --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.ActiveRules(ctx, ownerScope())
			if err != nil {
				return fmt.Errorf("failed to load rules: %w", err)
			}

			imp := importer.New(engine.NewDefaultCategorizer())
			txns, err := imp.ImportFile(ctx, args[0], rules, ownerScope())
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}

			counts := make(map[model.Category]int)
			for _, txn := range txns {
				counts[txn.Category]++
			}

			if dryRun {
				fmt.Println(cli.FormatTitle(fmt.Sprintf("Dry run: %d transaction(s) parsed from %s", len(txns), args[0])))
				printCategoryCounts(counts)
				return nil
			}

			bar := progressbar.NewOptions(len(txns),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Saving transactions..."),
			)

			// Saved in one batch; the bar tracks the chunks we feed it.
			const chunkSize = 100
			for start := 0; start < len(txns); start += chunkSize {
				end := start + chunkSize
				if end > len(txns) {
					end = len(txns)
				}
				if err := store.SaveTransactions(ctx, txns[start:end]); err != nil {
					return fmt.Errorf("failed to save transactions: %w", err)
				}
				_ = bar.Add(end - start)
			}
			fmt.Println()

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transaction(s) from %s", len(txns), args[0])))
			printCategoryCounts(counts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and categorize without saving")

	return cmd
}

func printCategoryCounts(counts map[model.Category]int) {
	for _, category := range model.AllCategories() {
		if n, ok := counts[category]; ok {
			fmt.Printf("  %-15s %d\n", category, n)
		}
	}
}
