package utils

import (
	"encoding/base64"
	"html/template"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// PaymentQRCode encodes a upi://pay link as a PNG.
func PaymentQRCode(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, qrSize)
}

// PaymentQRDataURI returns the QR code as an inline image for HTML templates.
func PaymentQRDataURI(link string) (template.URL, error) {
	png, err := PaymentQRCode(link)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
