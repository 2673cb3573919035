package main

import (
	"errors"
	"fmt"
	"os"
	"stockscan/internal/camera"
	"stockscan/internal/config"
	"stockscan/internal/decoder"
	"stockscan/pkg/domain"

	"github.com/spf13/cobra"
)

// decodeCommand constructs the 'decode' subcommand that decodes the barcodes
// of image files without looking them up.
func decodeCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <image>...",
		Short: "Decodes the barcode of image files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, _ := cmd.Flags().GetStringSlice("formats")
			if len(formats) == 0 {
				formats = cfg.Camera.Formats
			}
			tryHarder, _ := cmd.Flags().GetBool("try-harder")

			dec, err := decoder.New(decoder.WithFormats(formats...), decoder.WithTryHarder(tryHarder))
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				sym, err := decodeFile(dec, path, cfg.Camera.MaxFramePixels)
				switch {
				case errors.Is(err, decoder.ErrNoSymbol):
					fmt.Fprintf(cmd.OutOrStdout(), "%s: no barcode found\n", path)
					failed++
				case err != nil:
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", path, sym.Format, sym.Text)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d images could not be decoded", failed, len(args))
			}

			return nil
		},
	}

	cmd.Flags().StringSlice("formats", nil, fmt.Sprintf("Symbologies to decode %v", decoder.FormatNames()))
	cmd.Flags().Bool("try-harder", false, "Spend more time looking for a barcode")

	return cmd
}

func decodeFile(dec *decoder.Zxing, path string, maxPixels int64) (domain.Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Symbol{}, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := camera.DecodeImage(f, maxPixels)
	if err != nil {
		return domain.Symbol{}, err
	}

	return dec.Decode(img)
}
