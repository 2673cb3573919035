package decoder

import (
	"context"
	"errors"
	"image"
	"stockscan/internal/camera"
	"stockscan/pkg/domain"
	"stockscan/pkg/logger"

	"go.uber.org/zap"
)

// FrameDecoder extracts a symbol from an image.
type FrameDecoder interface {
	Decode(img image.Image) (domain.Symbol, error)
}

// Sink receives every decoded symbol.
type Sink func(ctx context.Context, sym domain.Symbol)

// Pump decodes the frames of stream and hands symbols to sink until ctx is
// done or the stream ends. The stream is closed before Pump returns.
func Pump(ctx context.Context, stream camera.Stream, dec FrameDecoder, sink Sink) error {
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Warn(ctx, "could not release camera stream", zap.Error(err))
		}
	}()

	frames := stream.Frames()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return nil
			}

			sym, err := dec.Decode(f.Image)
			if errors.Is(err, ErrNoSymbol) {
				continue
			}
			if err != nil {
				logger.Debug(ctx, "could not decode frame", zap.String("source", f.Source), zap.Error(err))

				continue
			}

			sym.CapturedAt = f.CapturedAt
			sink(ctx, sym)
		}
	}
}
