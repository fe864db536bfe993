// Package qr issues attendee check-in tokens and renders them as scannable
// QR images. The token is an opaque lookup key: the scanner-side decoded text
// must equal a stored token exactly.
package qr

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// TokenPrefix marks attendee check-in tokens.
const TokenPrefix = "ATTENDEE"

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewAttendeeToken synthesizes an opaque non-guessable token combining the
// current timestamp with a random suffix: ATTENDEE:<unix-millis>:<suffix>.
func NewAttendeeToken() (string, error) {
	suffix, err := randomSuffix(8)
	if err != nil {
		return "", fmt.Errorf("token suffix: %w", err)
	}
	return fmt.Sprintf("%s:%d:%s", TokenPrefix, time.Now().UnixMilli(), suffix), nil
}

// DataURL renders data as a 256x256 QR PNG and returns it as a base64 data URL
// suitable for direct embedding in an <img> tag.
func DataURL(data string) (string, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func randomSuffix(n int) (string, error) {
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b), nil
}
