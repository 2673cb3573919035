package decoder_test

import (
	"image"
	"image/color"
	"image/draw"
	"stockscan/internal/decoder"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
)

func blank(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	return img
}

func TestNew_unknownFormat(t *testing.T) {
	_, err := decoder.New(decoder.WithFormats("AZTEC"))
	require.Error(t, err)
}

func TestNew_noFormats(t *testing.T) {
	_, err := decoder.New(decoder.WithFormats())
	require.Error(t, err)
}

func TestZxing_blankFrame(t *testing.T) {
	dec, err := decoder.New()
	require.NoError(t, err)

	_, err = dec.Decode(blank(200, 100))
	require.ErrorIs(t, err, decoder.ErrNoSymbol)
}

func TestZxing_decodesQRCode(t *testing.T) {
	matrix, err := qrcode.NewQRCodeWriter().Encode("123456", gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	require.NoError(t, err)

	dec, err := decoder.New(decoder.WithFormats("QR_CODE"))
	require.NoError(t, err)

	sym, err := dec.Decode(matrix)
	require.NoError(t, err)
	require.Equal(t, "123456", sym.Text)
	require.Equal(t, "QR_CODE", sym.Format)

	// readers are reusable
	sym, err = dec.Decode(matrix)
	require.NoError(t, err)
	require.Equal(t, "123456", sym.Text)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{"plain", "123456", "123456"},
		{"surrounding whitespace", "  123456\r\n", "123456"},
		{"full-width digits", "１２３４５６", "123456"},
		{"control characters", "\x02PT234/C5\x03", "PT234/C5"},
		{"only whitespace", " \t ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, decoder.Normalize(tc.in))
		})
	}
}
