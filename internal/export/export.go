// Package export turns captured bitmaps into PNG bytes and hands them to
// the clipboard or the filesystem.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"golang.design/x/clipboard"

	"github.com/bryanchriswhite/snaploupe/internal/logger"
)

// EncodePNG encodes an RGBA bitmap as PNG bytes.
func EncodePNG(img *image.RGBA) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode png: nil image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNGFile writes PNG bytes to a file.
func WritePNGFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write png file: %w", err)
	}
	return nil
}

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// CopyPNGToClipboard places PNG bytes on the system clipboard as an
// image. Initialization happens once per process and its failure is
// remembered, so a headless environment fails fast on every call.
func CopyPNGToClipboard(data []byte) error {
	clipboardOnce.Do(func() {
		clipboardErr = clipboard.Init()
		if clipboardErr != nil {
			logger.WithComponent("export").Warn().Err(clipboardErr).Msg("clipboard unavailable")
		}
	})
	if clipboardErr != nil {
		return fmt.Errorf("clipboard init: %w", clipboardErr)
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
