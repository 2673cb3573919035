package domain

// Product is the display metadata returned by the barcode lookup.
type Product struct {
	Title       string `json:"title"`
	Brand       string `json:"brand"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// StockRecord is one row of the batched scanned-products info. FromScan is set
// when the barcode is not stocked yet and the record was built from scan
// metadata, in which case Quantity is zero.
type StockRecord struct {
	Barcode  string `json:"barcode"`
	Title    string `json:"title"`
	Brand    string `json:"brand,omitempty"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
	FromScan bool   `json:"fromScan"`
}

// AggregatedProduct groups the scan entries sharing a barcode. Count is the
// number of units to add to stock and is never below 1.
type AggregatedProduct struct {
	Barcode  string `json:"barcode"`
	Title    string `json:"title"`
	Brand    string `json:"brand,omitempty"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
	Count    int    `json:"count"`
	FromScan bool   `json:"fromScan"`
}
