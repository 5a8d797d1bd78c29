package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/pennywise-cli/pennywise/internal/cli"
	"github.com/pennywise-cli/pennywise/internal/engine"
	"github.com/pennywise-cli/pennywise/internal/model"
	"github.com/pennywise-cli/pennywise/internal/service"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage categorization rules",
		Long: `List, add, update, and delete the pattern rules used to categorize
transactions. Rules are regular expressions matched case-insensitively
against a transaction's description and raw text; lower priority numbers
evaluate first.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())
	cmd.AddCommand(updateRuleCmd())
	cmd.AddCommand(deleteRuleCmd())
	cmd.AddCommand(testRuleCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.ListRules(ctx, ownerScope(), 0, 0)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No rules found. Use 'pennywise rules add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Pattern"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Priority"),
				cli.HeaderStyle.Render("Active"))

			for _, rule := range rules {
				active := cli.SuccessStyle.Render("yes")
				if !rule.IsActive {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					rule.ID, rule.Name, rule.Pattern, rule.Category, rule.Priority, active)
			}

			return nil
		},
	}
}

func addRuleCmd() *cobra.Command {
	var (
		pattern  string
		category string
		priority int
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new rule",
		Long: `Create a categorization rule. The pattern is a regular expression;
a pattern that fails to compile is stored but never matches, so check the
output of 'pennywise rules test' after adding complex patterns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cat, err := model.ParseCategory(category)
			if err != nil {
				return fmt.Errorf("%w (valid: %s)", err, categoryNames())
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule := model.Rule{
				Name:     args[0],
				Pattern:  pattern,
				Category: cat,
				Priority: priority,
				IsActive: !inactive,
				OwnerID:  ownerScope(),
			}

			if err := store.CreateRule(ctx, &rule); err != nil {
				return fmt.Errorf("failed to create rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created rule %d: %s -> %s (priority %d)",
				rule.ID, rule.Pattern, rule.Category, rule.Priority)))
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "regular expression to match against descriptions")
	cmd.Flags().StringVar(&category, "category", "", "target category")
	cmd.Flags().IntVar(&priority, "priority", model.DefaultRulePriority, "evaluation priority (lower = earlier)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the rule disabled")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func updateRuleCmd() *cobra.Command {
	var (
		name     string
		pattern  string
		category string
		priority int
		activate bool
		disable  bool
	)

	cmd := &cobra.Command{
		Use:   "update <rule-id>",
		Short: "Update an existing rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}
			if activate && disable {
				return fmt.Errorf("--activate and --disable are mutually exclusive")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule, err := store.GetRule(ctx, id)
			if err != nil {
				return err
			}

			if name != "" {
				rule.Name = name
			}
			if pattern != "" {
				rule.Pattern = pattern
			}
			if category != "" {
				cat, parseErr := model.ParseCategory(category)
				if parseErr != nil {
					return fmt.Errorf("%w (valid: %s)", parseErr, categoryNames())
				}
				rule.Category = cat
			}
			if cmd.Flags().Changed("priority") {
				rule.Priority = priority
			}
			if activate {
				rule.IsActive = true
			}
			if disable {
				rule.IsActive = false
			}

			if err := store.UpdateRule(ctx, rule); err != nil {
				return fmt.Errorf("failed to update rule: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated rule %d", rule.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&pattern, "pattern", "", "new pattern")
	cmd.Flags().StringVar(&category, "category", "", "new target category")
	cmd.Flags().IntVar(&priority, "priority", model.DefaultRulePriority, "new priority")
	cmd.Flags().BoolVar(&activate, "activate", false, "enable the rule")
	cmd.Flags().BoolVar(&disable, "disable", false, "disable the rule")

	return cmd
}

func deleteRuleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRule(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rule %d", id)))
			return nil
		},
	}
}

func testRuleCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "test <pattern>",
		Short: "Dry-run a pattern against stored transactions",
		Long: `Show which stored transactions a pattern would match, without
creating a rule or changing any categories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.ListTransactions(ctx, service.TransactionFilter{OwnerID: ownerScope()})
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			// Evaluate through the engine so matching semantics (including
			// the malformed-pattern policy) are exactly what a stored rule
			// would do.
			categorizer := engine.NewCategorizer(nil)
			probe := []model.Rule{{
				Pattern:  args[0],
				Category: model.CategoryOther,
				Priority: 1,
				IsActive: true,
			}}

			var matched int
			for _, txn := range txns {
				if txn.Amount > 0 {
					continue
				}
				if categorizer.Categorize(txn.Description, txn.RawText, txn.Amount, probe) != model.CategoryOther {
					continue
				}
				matched++
				if limit <= 0 || matched <= limit {
					fmt.Printf("%s  %-30s  %.2f\n",
						txn.Date.Format("2006-01-02"), txn.Description, txn.Amount)
				}
			}

			if matched == 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("Pattern %q matches no stored transactions (malformed patterns never match)", args[0])))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d transaction(s) match %q", matched, args[0])))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum matches to print (0 = all)")

	return cmd
}
