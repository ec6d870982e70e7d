package receipt

import "context"

// Pending is an in-flight scan. Its result may be awaited or simply ignored;
// cancelling it (or the parent context) stops the underlying call.
type Pending struct {
	done   chan struct{}
	cancel context.CancelFunc
	result Receipt
	err    error
}

// Start runs scanner.Scan in the background and returns immediately.
func Start(ctx context.Context, scanner Scanner, img Image) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(p.done)
		defer cancel()
		p.result, p.err = scanner.Scan(ctx, img)
	}()
	return p
}

// Done is closed once the scan has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result blocks until the scan finishes.
func (p *Pending) Result() (Receipt, error) {
	<-p.done
	return p.result, p.err
}

// Cancel abandons the scan. A later Result reports whatever the scanner
// returned for the cancelled call.
func (p *Pending) Cancel() {
	p.cancel()
}

// Await waits for the scan or for ctx to end, whichever comes first. When ctx
// ends first the scan is cancelled and its result discarded.
func (p *Pending) Await(ctx context.Context) (Receipt, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		p.Cancel()
		return Receipt{}, ctx.Err()
	}
}
