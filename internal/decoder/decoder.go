// Package decoder turns camera frames into barcode symbols using gozxing.
package decoder

import (
	"errors"
	"fmt"
	"image"
	"stockscan/pkg/domain"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoSymbol is returned when a frame carries no readable symbol. It is not a
// failure; the frame is simply skipped.
var ErrNoSymbol = errors.New("no symbol in frame")

type symbology struct {
	format    gozxing.BarcodeFormat
	newReader func() gozxing.Reader
}

// symbologies lists the supported formats, 1D first.
var symbologies = []struct { //nolint: gochecknoglobals
	name string
	symbology
}{
	{"EAN_13", symbology{gozxing.BarcodeFormat_EAN_13, func() gozxing.Reader { return oned.NewEAN13Reader() }}},
	{"EAN_8", symbology{gozxing.BarcodeFormat_EAN_8, func() gozxing.Reader { return oned.NewEAN8Reader() }}},
	{"UPC_A", symbology{gozxing.BarcodeFormat_UPC_A, func() gozxing.Reader { return oned.NewUPCAReader() }}},
	{"UPC_E", symbology{gozxing.BarcodeFormat_UPC_E, func() gozxing.Reader { return oned.NewUPCEReader() }}},
	{"CODE_128", symbology{gozxing.BarcodeFormat_CODE_128, func() gozxing.Reader { return oned.NewCode128Reader() }}},
	{"CODE_39", symbology{gozxing.BarcodeFormat_CODE_39, func() gozxing.Reader { return oned.NewCode39Reader() }}},
	{"ITF", symbology{gozxing.BarcodeFormat_ITF, func() gozxing.Reader { return oned.NewITFReader() }}},
	{"QR_CODE", symbology{gozxing.BarcodeFormat_QR_CODE, func() gozxing.Reader { return qrcode.NewQRCodeReader() }}},
}

// FormatNames returns the names of every supported symbology.
func FormatNames() []string {
	names := make([]string, len(symbologies))
	for i, s := range symbologies {
		names[i] = s.name
	}

	return names
}

type reader struct {
	name   string
	reader gozxing.Reader
}

// Zxing decodes frames with the gozxing readers of the configured formats.
// gozxing readers keep scratch buffers, so decoding is serialized.
type Zxing struct {
	mu      sync.Mutex
	readers []reader
	hints   map[gozxing.DecodeHintType]any
}

// Option configures a Zxing decoder.
type Option func(*options)

type options struct {
	formats   []string
	tryHarder bool
}

// WithFormats restricts decoding to the named symbologies (see FormatNames).
func WithFormats(names ...string) Option {
	return func(o *options) { o.formats = names }
}

// WithTryHarder makes gozxing spend more time per frame.
func WithTryHarder(v bool) Option {
	return func(o *options) { o.tryHarder = v }
}

// New creates a decoder. Without WithFormats every supported format is tried.
func New(opts ...Option) (*Zxing, error) {
	o := options{formats: FormatNames(), tryHarder: true}
	for _, opt := range opts {
		opt(&o)
	}

	z := &Zxing{hints: make(map[gozxing.DecodeHintType]any)}
	formats := make([]gozxing.BarcodeFormat, 0, len(o.formats))
	for _, name := range o.formats {
		s, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("unsupported barcode format %q", name)
		}
		z.readers = append(z.readers, reader{name: name, reader: s.newReader()})
		formats = append(formats, s.format)
	}
	if len(z.readers) == 0 {
		return nil, errors.New("no barcode format configured")
	}

	z.hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = formats
	if o.tryHarder {
		z.hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	return z, nil
}

func lookup(name string) (symbology, bool) {
	for _, s := range symbologies {
		if s.name == name {
			return s.symbology, true
		}
	}

	return symbology{}, false
}

// Decode returns the first symbol found in img, or ErrNoSymbol. CapturedAt is
// left for the caller to fill in.
func (z *Zxing) Decode(img image.Image) (domain.Symbol, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return domain.Symbol{}, fmt.Errorf("could not binarize frame: %w", err)
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	for _, r := range z.readers {
		res, err := r.reader.Decode(bmp, z.hints)
		r.reader.Reset()
		if err != nil || res == nil {
			continue
		}

		text := Normalize(res.GetText())
		if text == "" {
			continue
		}

		return domain.Symbol{Text: text, Format: r.name}, nil
	}

	return domain.Symbol{}, ErrNoSymbol
}
