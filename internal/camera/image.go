package camera

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
)

// DefaultMaxFramePixels bounds the declared size of a decoded frame when no
// budget is configured.
const DefaultMaxFramePixels = 4096 * 4096

// ErrFrameTooLarge is returned for images declaring more pixels than allowed.
var ErrFrameTooLarge = errors.New("frame dimensions exceed the pixel budget")

// DecodeImage decodes a PNG, JPEG or GIF image from r. The header is checked
// first and images whose declared width*height exceeds maxPixels are rejected
// before any pixel buffer is allocated. maxPixels <= 0 selects
// DefaultMaxFramePixels.
func DecodeImage(r io.Reader, maxPixels int64) (image.Image, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxFramePixels
	}

	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("could not decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d > %d", ErrFrameTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	img, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}

	return img, nil
}
