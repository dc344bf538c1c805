package http

import (
	qrcode "github.com/skip2/go-qrcode"
)

// QREncoder renders content as a square PNG image of size pixels
type QREncoder interface {
	Encode(content string, size int) ([]byte, error)
}

// PNGEncoder encodes QR codes with medium error recovery
type PNGEncoder struct{}

// Encode implements QREncoder
func (PNGEncoder) Encode(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}
