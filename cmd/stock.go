package main

import (
	"context"
	"stockscan/internal/config"
	"stockscan/pkg/stockapi"

	"github.com/spf13/cobra"
)

// stockCommand constructs the 'stock' subcommand grouping read and edit
// operations on the remote stock.
func stockCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Browses and edits the remote stock",
	}

	// withClient runs fn with a stock client bound to the request timeout.
	withClient := func(cmd *cobra.Command, fn func(ctx context.Context, c stockapi.Client) (any, error)) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.StockAPI.Timeout)
		defer cancel()

		c, closeClient := getStockClient(ctx, cfg)
		defer closeClient()

		v, err := fn(ctx, c)
		if err != nil {
			return err
		}
		if v == nil {
			return nil
		}

		return printJSON(v)
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "Lists the top-level categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c stockapi.Client) (any, error) {
				v, err := c.Categories(ctx)

				return v, err
			})
		},
	}

	category := &cobra.Command{
		Use:   "category <name>",
		Short: "Describes a category, e.g. 'Electronics>Audio'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c stockapi.Client) (any, error) {
				v, err := c.CategoryInfo(ctx, args[0])

				return v, err
			})
		},
	}

	item := &cobra.Command{
		Use:   "item <barcode>",
		Short: "Shows the stock record of a barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c stockapi.Client) (any, error) {
				v, err := c.ItemInfo(ctx, args[0])

				return v, err
			})
		},
	}

	update := &cobra.Command{
		Use:   "update <barcode>",
		Short: "Edits the stock record of a barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c stockapi.Client) (any, error) {
				current, err := c.ItemInfo(ctx, args[0])
				if err != nil {
					return nil, err
				}

				next := *current
				flags := cmd.Flags()
				if flags.Changed("title") {
					next.Title, _ = flags.GetString("title")
				}
				if flags.Changed("brand") {
					next.Brand, _ = flags.GetString("brand")
				}
				if flags.Changed("category") {
					next.Category, _ = flags.GetString("category")
				}
				if flags.Changed("quantity") {
					next.Quantity, _ = flags.GetInt("quantity")
				}

				if err := c.UpdateStockItem(ctx, args[0], next); err != nil {
					return nil, err
				}

				return next, nil
			})
		},
	}
	update.Flags().String("title", "", "New title")
	update.Flags().String("brand", "", "New brand")
	update.Flags().String("category", "", "New category path, e.g. 'Clothing>Dresses'")
	update.Flags().Int("quantity", 0, "New quantity")

	cmd.AddCommand(categories, category, item, update)

	return cmd
}
