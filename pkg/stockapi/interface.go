// Package stockapi defines the client of the remote stock REST API the scan
// station reconciles against. The API is opaque: only the request and response
// shapes used here are relied upon.
package stockapi

import (
	"context"
	"stockscan/pkg/domain"
)

// Client talks to the remote stock API.
//
//go:generate mockgen -package mockstockapi -source=interface.go -destination=mock/mockstockapi.go *
type Client interface {
	// LookupBarcode returns the display metadata of the product behind barcode.
	LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	// ScannedProductsInfo fetches the stock records of all barcodes in a single
	// request. history lets the server fill in records for barcodes that are not
	// stocked yet.
	ScannedProductsInfo(ctx context.Context, barcodes []string, history []domain.ScanEntry) ([]domain.StockRecord, error)
	// UpdateQuantities adds each product's Count to its stock in one request.
	UpdateQuantities(ctx context.Context, products []domain.AggregatedProduct) error

	// Categories lists the top-level categories.
	Categories(ctx context.Context) ([]domain.Category, error)
	// CategoryInfo describes a single category.
	CategoryInfo(ctx context.Context, category string) (*domain.CategoryInfo, error)
	// ItemInfo returns the stock record of barcode.
	ItemInfo(ctx context.Context, barcode string) (*domain.StockItem, error)
	// UpdateStockItem overwrites the stock record of barcode.
	UpdateStockItem(ctx context.Context, barcode string, item domain.StockItem) error
}
