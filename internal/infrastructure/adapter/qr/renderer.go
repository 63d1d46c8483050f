package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// PNGRenderer renders QR content as a PNG data URL suitable for an <img>
// src attribute.
type PNGRenderer struct{}

// NewPNGRenderer creates a PNG QR renderer.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

// DataURL encodes content into a size x size PNG and returns it as a
// base64 data URL.
func (r *PNGRenderer) DataURL(content string, size int) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
