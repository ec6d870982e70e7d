package receipt

import (
	"encoding/base64"
	"errors"
	"math"
	"strings"
	"testing"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func TestReceiptNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Receipt
		want    Receipt
		wantErr bool
	}{
		{
			name: "valid receipt",
			in:   Receipt{MerchantName: " Fresh Mart ", TotalAmount: 42.5, TransactionDate: "2024-07-10"},
			want: Receipt{MerchantName: "Fresh Mart", TotalAmount: 42.5, TransactionDate: "2024-07-10"},
		},
		{
			name: "timestamp is cut to the date",
			in:   Receipt{MerchantName: "Cinema", TotalAmount: 45, TransactionDate: "2024-07-15T19:30:00+05:30"},
			want: Receipt{MerchantName: "Cinema", TotalAmount: 45, TransactionDate: "2024-07-15"},
		},
		{name: "missing merchant", in: Receipt{TotalAmount: 1, TransactionDate: "2024-07-10"}, wantErr: true},
		{name: "zero total", in: Receipt{MerchantName: "X", TransactionDate: "2024-07-10"}, wantErr: true},
		{name: "negative total", in: Receipt{MerchantName: "X", TotalAmount: -3, TransactionDate: "2024-07-10"}, wantErr: true},
		{name: "NaN total", in: Receipt{MerchantName: "X", TotalAmount: math.NaN(), TransactionDate: "2024-07-10"}, wantErr: true},
		{name: "non-ISO date", in: Receipt{MerchantName: "X", TotalAmount: 1, TransactionDate: "10/07/2024"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedReceipt) {
					t.Errorf("error = %v, want ErrMalformedReceipt", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeImage(t *testing.T) {
	padded := base64.StdEncoding.EncodeToString(pngBytes)
	raw := base64.RawStdEncoding.EncodeToString(pngBytes)

	tests := []struct {
		name     string
		b64      string
		mime     string
		maxBytes int64
		wantMIME string
		wantErr  bool
	}{
		{name: "padded base64 with mime", b64: padded, mime: "image/png", wantMIME: "image/png"},
		{name: "raw base64", b64: raw, mime: "image/jpeg", wantMIME: "image/jpeg"},
		{name: "sniffed mime", b64: padded, mime: "", wantMIME: "image/png"},
		{name: "data URL", b64: "data:image/webp;base64," + padded, wantMIME: "image/webp"},
		{name: "mime parameters dropped", b64: padded, mime: "image/png; charset=binary", wantMIME: "image/png"},
		{name: "empty payload", b64: "", mime: "image/png", wantErr: true},
		{name: "not base64", b64: "!!!", mime: "image/png", wantErr: true},
		{name: "not an image", b64: base64.StdEncoding.EncodeToString([]byte("hello")), mime: "text/plain", wantErr: true},
		{name: "too large", b64: padded, mime: "image/png", maxBytes: 8, wantErr: true},
		{name: "broken data URL", b64: "data:image/png;base64", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage(tt.b64, tt.mime, tt.maxBytes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeImage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidImage) {
					t.Errorf("error = %v, want ErrInvalidImage", err)
				}
				return
			}
			if img.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", img.MIMEType, tt.wantMIME)
			}
			if len(img.Data) != len(pngBytes) {
				t.Errorf("decoded %d bytes, want %d", len(img.Data), len(pngBytes))
			}
		})
	}
}

func TestImageDataURL(t *testing.T) {
	img, err := NewImage(pngBytes, "image/png", 0)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	url := img.DataURL()
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("DataURL() = %q, want data:image/png;base64, prefix", url[:30])
	}

	back, err := DecodeImage(url, "", 0)
	if err != nil {
		t.Fatalf("DecodeImage(DataURL()) failed: %v", err)
	}
	if string(back.Data) != string(pngBytes) {
		t.Error("data URL did not round-trip")
	}
}
