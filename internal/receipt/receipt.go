// Package receipt extracts expense details from receipt photos through an
// external AI service.
package receipt

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// FailureMessage is the single user-facing message for any scan failure.
const FailureMessage = "Failed to analyze the receipt. Please try again or enter details manually."

var (
	// ErrScanFailed wraps every failure of the external scanner.
	ErrScanFailed = errors.New("receipt scan failed")

	// ErrMalformedReceipt means the scanner answered with unusable data.
	ErrMalformedReceipt = errors.New("malformed receipt data")

	// ErrInvalidImage means the uploaded payload is not a usable image.
	ErrInvalidImage = errors.New("invalid receipt image")
)

// Scanner reads the merchant, total and date off a receipt image.
type Scanner interface {
	Scan(ctx context.Context, img Image) (Receipt, error)
}

// Receipt is what a scan yields; it pre-fills the expense form.
type Receipt struct {
	MerchantName    string  `json:"merchantName"`
	TotalAmount     float64 `json:"totalAmount"`
	TransactionDate string  `json:"transactionDate"` // YYYY-MM-DD
}

// Normalize trims fields, drops any time component from the date and checks
// the result is usable.
func (r Receipt) Normalize() (Receipt, error) {
	r.MerchantName = strings.TrimSpace(r.MerchantName)
	date, _, _ := strings.Cut(strings.TrimSpace(r.TransactionDate), "T")
	r.TransactionDate = date

	if r.MerchantName == "" {
		return Receipt{}, fmt.Errorf("%w: missing merchant name", ErrMalformedReceipt)
	}
	if math.IsNaN(r.TotalAmount) || math.IsInf(r.TotalAmount, 0) || r.TotalAmount <= 0 {
		return Receipt{}, fmt.Errorf("%w: total amount %v is not positive", ErrMalformedReceipt, r.TotalAmount)
	}
	if _, err := time.Parse(dateLayout, r.TransactionDate); err != nil {
		return Receipt{}, fmt.Errorf("%w: transaction date %q is not YYYY-MM-DD", ErrMalformedReceipt, r.TransactionDate)
	}
	return r, nil
}

// Image is a decoded receipt photo.
type Image struct {
	Data     []byte
	MIMEType string
}

// NewImage validates raw image bytes. An empty mimeType is sniffed from the data.
func NewImage(data []byte, mimeType string, maxBytes int64) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: image is empty", ErrInvalidImage)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Image{}, fmt.Errorf("%w: image is %d bytes, limit is %d", ErrInvalidImage, len(data), maxBytes)
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return Image{}, fmt.Errorf("%w: unsupported media type %q", ErrInvalidImage, mimeType)
	}
	return Image{Data: data, MIMEType: mimeType}, nil
}

// DecodeImage validates a base64 payload as sent by browsers (padded or not,
// optionally still carrying a data: URL prefix).
func DecodeImage(b64, mimeType string, maxBytes int64) (Image, error) {
	b64 = strings.TrimSpace(b64)
	if rest, ok := strings.CutPrefix(b64, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return Image{}, fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
		}
		if mimeType == "" {
			mimeType, _, _ = strings.Cut(header, ";")
		}
		b64 = payload
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(b64)
	}
	if err != nil {
		return Image{}, fmt.Errorf("%w: not valid base64", ErrInvalidImage)
	}
	return NewImage(data, mimeType, maxBytes)
}

// DataURL renders the image as an inline data: URL.
func (img Image) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
