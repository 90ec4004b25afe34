package render

import (
	qrcode "github.com/skip2/go-qrcode"
)

// QREncoder turns a URL into a PNG image of the given pixel size. It is a
// function value so tests can stub encoding failures.
type QREncoder func(content string, size int) ([]byte, error)

// EncodeQR is the production encoder.
func EncodeQR(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}

const qrImageSizePx = 256

// QR box on the page, in points.
const (
	qrSizePt = 72.0
	qrLabel  = "Scan to verify"
)
