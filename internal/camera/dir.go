package camera

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"stockscan/pkg/logger"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultFrameInterval = 100 * time.Millisecond

// DirDevice is a capture device writing snapshots into a directory, such as a
// fixed scanning-station camera or a phone syncing photos. Every image file
// that appears in the directory is delivered once, in name order.
type DirDevice struct {
	dir       string
	interval  time.Duration
	maxPixels int64
}

// DirOption configures a DirDevice.
type DirOption func(*DirDevice)

// WithMaxFramePixels skips snapshots declaring more than n pixels.
func WithMaxFramePixels(n int64) DirOption {
	return func(d *DirDevice) { d.maxPixels = n }
}

// NewDirDevice creates a device reading from dir, polling every interval.
func NewDirDevice(dir string, interval time.Duration, opts ...DirOption) *DirDevice {
	if interval <= 0 {
		interval = defaultFrameInterval
	}

	d := &DirDevice{dir: dir, interval: interval, maxPixels: DefaultMaxFramePixels}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Open checks the directory is readable and starts streaming.
func (d *DirDevice) Open(ctx context.Context) (Stream, error) {
	fi, err := os.Stat(d.dir)
	if err != nil {
		return nil, classify(err)
	}
	if !fi.IsDir() {
		return nil, classify(fmt.Errorf("%s is not a directory: %w", d.dir, os.ErrNotExist))
	}
	if _, err := os.ReadDir(d.dir); err != nil {
		return nil, classify(err)
	}

	// the stream outlives the request that opened it
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &dirStream{
		dir:       d.dir,
		interval:  d.interval,
		maxPixels: d.maxPixels,
		frames:    make(chan Frame),
		seen:      make(map[string]struct{}),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go s.run(logger.WithFields(streamCtx, zap.String("camera_dir", d.dir)))

	return s, nil
}

type dirStream struct {
	dir       string
	interval  time.Duration
	maxPixels int64
	frames    chan Frame
	seen      map[string]struct{}

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func (s *dirStream) Frames() <-chan Frame { return s.frames }

func (s *dirStream) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
	})

	return nil
}

func (s *dirStream) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.frames)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		name, ok := s.next(ctx)
		if !ok {
			continue
		}

		img, err := loadImage(filepath.Join(s.dir, name), s.maxPixels)
		if err != nil {
			logger.Warn(ctx, "could not read frame", zap.String("file", name), zap.Error(err))

			continue
		}

		select {
		case s.frames <- Frame{Image: img, CapturedAt: time.Now(), Source: name}:
		case <-ctx.Done():
			return
		}
	}
}

// next returns the first image file not delivered yet.
func (s *dirStream) next(ctx context.Context) (string, bool) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Warn(ctx, "could not list camera directory", zap.Error(err))

		return "", false
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		if _, ok := s.seen[e.Name()]; ok {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", false
	}

	slices.Sort(names)
	s.seen[names[0]] = struct{}{}

	return names[0], true
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	default:
		return false
	}
}

func loadImage(path string, maxPixels int64) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return DecodeImage(f, maxPixels)
}
