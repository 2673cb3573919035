package camera_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"stockscan/internal/camera"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pngHeader returns a PNG signature and IHDR chunk declaring a w x h
// grayscale image with no pixel data behind it.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	data := make([]byte, 13)
	binary.BigEndian.PutUint32(data[0:4], w)
	binary.BigEndian.PutUint32(data[4:8], h)
	data[8] = 8 // bit depth, color type 0 (gray)

	chunk := append([]byte("IHDR"), data...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))

	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	var small bytes.Buffer
	require.NoError(t, png.Encode(&small, image.NewGray(image.Rect(0, 0, 8, 4))))

	img, err := camera.DecodeImage(bytes.NewReader(small.Bytes()), 32)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())

	_, err = camera.DecodeImage(bytes.NewReader(small.Bytes()), 31)
	require.ErrorIs(t, err, camera.ErrFrameTooLarge)

	_, err = camera.DecodeImage(bytes.NewReader(pngHeader(60000, 60000)), 0)
	require.ErrorIs(t, err, camera.ErrFrameTooLarge)

	_, err = camera.DecodeImage(bytes.NewReader([]byte("not an image")), 0)
	require.Error(t, err)
	require.NotErrorIs(t, err, camera.ErrFrameTooLarge)
}

func TestDirDevice_skipsOversizedSnapshots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), pngHeader(60000, 60000), 0o600))
	writePNG(t, filepath.Join(dir, "b.png"))

	stream, err := camera.NewDirDevice(dir, time.Millisecond, camera.WithMaxFramePixels(1024)).
		Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.Close() })

	select {
	case f, ok := <-stream.Frames():
		require.True(t, ok)
		require.Equal(t, "b.png", f.Source)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}
