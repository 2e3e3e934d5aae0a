// Package qr builds stamp/redeem payloads and renders them as PNG codes.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	ActionStamp  = "stamp"
	ActionRedeem = "redeem"

	apiPrefix = "/api/v1"
	pngSize   = 512
)

// BuildText returns the QR payload for a card action:
// {host}/api/v1/customers/{customer_id}/cards/{card_id}/{action}.
// With an empty host only the path is encoded.
func BuildText(host, customerID, cardID, action string) string {
	path := fmt.Sprintf("%s/customers/%s/cards/%s/%s", apiPrefix, customerID, cardID, action)
	if host == "" {
		return path
	}
	return strings.TrimRight(host, "/") + path
}

// EncodePNG renders the payload as an in-memory PNG at medium error
// correction.
func EncodePNG(text string) ([]byte, error) {
	code, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	png, err := code.PNG(pngSize)
	if err != nil {
		return nil, fmt.Errorf("render qr png: %w", err)
	}
	return png, nil
}
