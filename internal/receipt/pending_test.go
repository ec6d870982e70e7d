package receipt

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scannerFunc func(ctx context.Context, img Image) (Receipt, error)

func (f scannerFunc) Scan(ctx context.Context, img Image) (Receipt, error) { return f(ctx, img) }

func TestPending_Result(t *testing.T) {
	want := Receipt{MerchantName: "Fresh Mart", TotalAmount: 12.5, TransactionDate: "2024-07-10"}
	p := Start(context.Background(), scannerFunc(func(context.Context, Image) (Receipt, error) {
		return want, nil
	}), Image{})

	got, err := p.Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if got != want {
		t.Errorf("Result() = %+v, want %+v", got, want)
	}

	select {
	case <-p.Done():
	default:
		t.Error("Done() should be closed after Result returns")
	}
}

func TestPending_AwaitDiscardsOnCallerCancel(t *testing.T) {
	started := make(chan struct{})
	scanCtxDone := make(chan struct{})
	p := Start(context.Background(), scannerFunc(func(ctx context.Context, _ Image) (Receipt, error) {
		close(started)
		<-ctx.Done()
		close(scanCtxDone)
		return Receipt{MerchantName: "too late"}, ctx.Err()
	}), Image{})

	<-started
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := p.Await(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Await() error = %v, want context.Canceled", err)
	}
	if got != (Receipt{}) {
		t.Errorf("Await() returned %+v, want the result discarded", got)
	}

	select {
	case <-scanCtxDone:
	case <-time.After(time.Second):
		t.Fatal("scan context was not cancelled")
	}
}

func TestPending_ParentCancelStopsScan(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Start(ctx, scannerFunc(func(ctx context.Context, _ Image) (Receipt, error) {
		<-ctx.Done()
		return Receipt{}, ctx.Err()
	}), Image{})

	cancel()
	if _, err := p.Result(); !errors.Is(err, context.Canceled) {
		t.Errorf("Result() error = %v, want context.Canceled", err)
	}
}
