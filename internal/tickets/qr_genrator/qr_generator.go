package qr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/Parshant679/event-booking/internal/models"
	"github.com/skip2/go-qrcode"
)

var ErrInvalidPayload = errors.New("invalid ticket payload")

type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// Payload is "<booking>.<event>.<customer>.<mac>" where mac is the
// base64url HMAC-SHA256 of the first three parts.
func (q *QRGenerator) Payload(booking models.Booking) string {
	body := booking.ID + "." + booking.EventID + "." + booking.UserID
	return body + "." + q.sign(body)
}

// Verify checks a scanned payload and returns the booking it names.
func (q *QRGenerator) Verify(payload string) (models.Booking, error) {
	i := strings.LastIndex(payload, ".")
	if i < 0 {
		return models.Booking{}, ErrInvalidPayload
	}
	body, mac := payload[:i], payload[i+1:]
	if !hmac.Equal([]byte(mac), []byte(q.sign(body))) {
		return models.Booking{}, ErrInvalidPayload
	}

	parts := strings.Split(body, ".")
	if len(parts) != 3 {
		return models.Booking{}, ErrInvalidPayload
	}
	return models.Booking{ID: parts[0], EventID: parts[1], UserID: parts[2]}, nil
}

// GeneratePNG encodes the signed payload as a 256px QR code.
func (q *QRGenerator) GeneratePNG(booking models.Booking) ([]byte, error) {
	return qrcode.Encode(q.Payload(booking), qrcode.Medium, 256)
}

func (q *QRGenerator) sign(body string) string {
	h := hmac.New(sha256.New, q.secret)
	h.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
