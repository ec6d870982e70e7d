package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/roomies/internal/metrics"
	"github.com/mmynk/roomies/internal/receipt"
	"github.com/mmynk/roomies/pkg/api"
)

// ScanUnavailableMessage is returned when no scanner is configured.
const ScanUnavailableMessage = "Receipt scanning is not configured. Please enter the expense details manually."

// ScanReceipt extracts merchant, total and date from a receipt photo. The
// result only prefills the expense form; nothing is written to the ledger.
func (s *LedgerService) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	if s.scanner == nil {
		s.metrics.ScanFinished(metrics.ScanUnavailable)
		return nil, connect.NewError(connect.CodeUnavailable, errors.New(ScanUnavailableMessage))
	}

	img, err := receipt.DecodeImage(req.Msg.ImageBase64, req.Msg.MimeType, s.maxImageBytes)
	if err != nil {
		s.metrics.ScanFinished(metrics.ScanInvalid)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	select {
	case s.scanSem <- struct{}{}:
		defer func() { <-s.scanSem }()
	case <-ctx.Done():
		s.metrics.ScanFinished(metrics.ScanCanceled)
		return nil, connect.NewError(connect.CodeCanceled, ctx.Err())
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	defer cancel()

	result, err := receipt.Start(scanCtx, s.scanner, img).Await(ctx)
	if ctx.Err() != nil {
		s.metrics.ScanFinished(metrics.ScanCanceled)
		return nil, connect.NewError(connect.CodeCanceled, ctx.Err())
	}
	if err != nil {
		s.metrics.ScanFinished(metrics.ScanFailed)
		slog.Warn("Receipt scan failed", "mime_type", img.MIMEType, "bytes", len(img.Data), "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, errors.New(receipt.FailureMessage))
	}

	s.metrics.ScanFinished(metrics.ScanOK)
	slog.Info("Receipt scanned", "merchant", result.MerchantName, "total", result.TotalAmount)
	return connect.NewResponse(&api.ScanReceiptResponse{
		MerchantName:    result.MerchantName,
		TotalAmount:     result.TotalAmount,
		TransactionDate: result.TransactionDate,
	}), nil
}
