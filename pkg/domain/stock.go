package domain

// Category is a top-level stock category with its summed item count.
type Category struct {
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// SubCategory is a direct child of a category with its summed quantity.
type SubCategory struct {
	Name        string `json:"categoryName"`
	SumQuantity int    `json:"sumQuantity"`
}

// CategoryInfo describes one category: its direct children, the barcodes of
// the items filed directly under it, and the quantity of the whole subtree.
type CategoryInfo struct {
	Categories       []SubCategory `json:"categories"`
	Items            []string      `json:"items"`
	SubTotalQuantity int           `json:"subTotalQuantity"`
}

// StockItem is the full stock record of one barcode.
type StockItem struct {
	Barcode  string `json:"barcode"`
	Title    string `json:"title"`
	Brand    string `json:"brand"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
	LastEdit string `json:"last_edit,omitempty"`
}
