// Package qr renders account addresses as QR codes.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

// Render encodes address as a PNG QR code.
func Render(address string) ([]byte, error) {
	png, err := qrcode.Encode(address, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
