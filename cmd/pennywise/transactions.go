package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pennywise-cli/pennywise/internal/cli"
	"github.com/pennywise-cli/pennywise/internal/common"
	"github.com/pennywise-cli/pennywise/internal/engine"
	"github.com/pennywise-cli/pennywise/internal/model"
	"github.com/pennywise-cli/pennywise/internal/service"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "Manage transactions",
		Long:    `Add, list, and recategorize bank statement transactions.`,
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(recategorizeCmd())

	return cmd
}

func addTransactionCmd() *cobra.Command {
	var (
		dateStr  string
		rawText  string
		notes    string
		category string
		amount   float64
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a single transaction",
		Long: `Add a transaction. Unless --category is given, the transaction is
categorized automatically: positive amounts are Income, otherwise your
rules are evaluated first and the built-in keywords after.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn := model.Transaction{
				Date:        date,
				Description: args[0],
				Amount:      amount,
				RawText:     rawText,
				Notes:       notes,
				OwnerID:     ownerScope(),
			}

			if category != "" {
				explicit, parseErr := model.ParseCategory(category)
				if parseErr != nil {
					return parseErr
				}
				txn.Category = explicit
			}

			if txn.Category == "" || txn.Category == model.CategoryUncategorized {
				rules, rulesErr := store.ActiveRules(ctx, ownerScope())
				if rulesErr != nil {
					return fmt.Errorf("failed to load rules: %w", rulesErr)
				}
				categorizer := engine.NewDefaultCategorizer()
				txn.Category = categorizer.Categorize(txn.Description, txn.RawText, txn.Amount, rules)
			}

			if err := store.CreateTransaction(ctx, &txn); err != nil {
				return fmt.Errorf("failed to save transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %q as %s (%s)",
				txn.Description, txn.Category, txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", time.Now().Format("2006-01-02"), "transaction date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "signed amount (negative = expense)")
	cmd.Flags().StringVar(&rawText, "raw-text", "", "raw statement text, if available")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringVar(&category, "category", "", "explicit category (skips auto-categorization)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.ListTransactions(ctx, service.TransactionFilter{
				OwnerID: ownerScope(),
				Limit:   limit,
				Offset:  offset,
			})
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found. Use 'pennywise import' or 'pennywise transactions add'."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Description"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("ID"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10),
				strings.Repeat("-", 28),
				strings.Repeat("-", 10),
				strings.Repeat("-", 14),
				strings.Repeat("-", 36))

			for _, txn := range txns {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					txn.Description,
					txn.Amount,
					txn.Category,
					txn.ID)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of transactions to show (0 = all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of transactions to skip")

	return cmd
}

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize <transaction-id> <category>",
		Short: "Manually override a transaction's category",
		Long: `Overwrite the stored category of one transaction. Rules are not
re-evaluated; this is the manual correction path and affects no other
transaction.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			category, err := model.ParseCategory(args[1])
			if err != nil {
				return fmt.Errorf("%w (valid: %s)", err, categoryNames())
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateTransactionCategory(ctx, args[0], category); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("transaction %s not found", args[0]), nil)
				}
				return fmt.Errorf("failed to recategorize: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Transaction %s is now %s", args[0], category)))
			return nil
		},
	}
}

func categoryNames() string {
	names := make([]string, 0, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
