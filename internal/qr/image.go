package qr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	qrencode "github.com/boombuler/barcode/qr"
)

// DefaultImageSize is the rendered label edge length in pixels.
const DefaultImageSize = 512

// RenderPNG encodes a URL as a QR bitmap and returns PNG bytes.
//
// High error correction keeps labels scannable after print wear.
func RenderPNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultImageSize
	}

	code, errEncode := qrencode.Encode(url, qrencode.H, qrencode.Auto)
	if errEncode != nil {
		return nil, fmt.Errorf("qr: encode: %w", errEncode)
	}

	scaled, errScale := barcode.Scale(code, size, size)
	if errScale != nil {
		return nil, fmt.Errorf("qr: scale: %w", errScale)
	}

	var buf bytes.Buffer
	if errPNG := png.Encode(&buf, scaled); errPNG != nil {
		return nil, fmt.Errorf("qr: png encode: %w", errPNG)
	}
	return buf.Bytes(), nil
}
