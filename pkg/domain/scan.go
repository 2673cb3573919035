package domain

import (
	"time"
)

// Symbol is a decoded barcode payload, as produced by the frame decoder.
type Symbol struct {
	// Text is the normalized barcode string.
	Text string `json:"text"`
	// Format names the symbology (EAN_13, CODE_128, QR_CODE...). Empty for
	// symbols entered by hand or through a keyboard-wedge scanner.
	Format string `json:"format,omitempty"`
	// CapturedAt is when the frame carrying the symbol was captured.
	CapturedAt time.Time `json:"capturedAt"`
}

// ScanEntry is one user-confirmed scan. Entries are only created by an explicit
// confirmation, never by a decode event on its own.
type ScanEntry struct {
	Barcode     string    `json:"barcode"`
	Title       string    `json:"title"`
	Brand       string    `json:"brand"`
	Image       string    `json:"image"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewScanEntry builds an entry for barcode from the looked-up product.
func NewScanEntry(barcode string, p Product, at time.Time) ScanEntry {
	return ScanEntry{
		Barcode:     barcode,
		Title:       p.Title,
		Brand:       p.Brand,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
		Timestamp:   at,
	}
}
