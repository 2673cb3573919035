package main

import (
	"context"
	"encoding/json"
	"os"
	"stockscan/internal/config"
	"stockscan/internal/decoder"
	"stockscan/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// lookupCommand constructs the 'lookup' subcommand that prints the product
// behind a barcode.
func lookupCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <barcode>",
		Short: "Looks up the product behind a barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.StockAPI.LookupTimeout)
			defer cancel()

			stock, closeStock := getStockClient(ctx, cfg)
			defer closeStock()

			barcode := decoder.Normalize(args[0])
			p, err := stock.LookupBarcode(ctx, barcode)
			if err != nil {
				logger.Error(ctx, "lookup failed", zap.String("barcode", barcode), zap.Error(err))

				return err
			}

			return printJSON(p)
		},
	}
}
