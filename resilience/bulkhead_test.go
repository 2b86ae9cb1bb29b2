package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "turns", MaxConcurrent: 2})

	var inFlight, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent calls, saw %d", peak)
	}
	if b.InUse() != 0 || b.Available() != 2 {
		t.Errorf("slots leaked: inUse=%d available=%d", b.InUse(), b.Available())
	}
}

func TestBulkhead_NegativeWaitRejectsWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: -1})
	release, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	defer release()

	var rejected int32
	b.config.OnReject = func(string) { atomic.AddInt32(&rejected, 1) }
	if err := b.Execute(context.Background(), func() error { return nil }); !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
	if rejected != 1 {
		t.Errorf("expected OnReject to fire once, got %d", rejected)
	}
}

func TestBulkhead_BoundedWaitTimesOut(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})
	release, _ := b.Acquire(context.Background())
	defer release()

	if _, err := b.Acquire(context.Background()); !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestBulkhead_ZeroWaitBlocksUntilSlotFrees(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})
	release, _ := b.Acquire(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		release()
	}()

	release2, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected to get the slot after release, got %v", err)
	}
	release2()
}

func TestBulkhead_ZeroWaitStopsOnCancel(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1})
	release, _ := b.Acquire(context.Background())
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if _, err := b.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBulkhead_CancelledContextNeverAdmits(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 4})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := b.Execute(ctx, func() error { called = true; return nil })
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("expected cancelled admission, got err=%v called=%v", err, called)
	}
}

func TestBulkhead_ReleaseIsIdempotent(t *testing.T) {
	var released int32
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2, OnRelease: func(string) { atomic.AddInt32(&released, 1) }})
	release, _ := b.Acquire(context.Background())
	release()
	release()
	if b.InUse() != 0 || released != 1 {
		t.Errorf("expected a single release, inUse=%d released=%d", b.InUse(), released)
	}
}

func TestBulkhead_DefaultsToOneSlot(t *testing.T) {
	if NewBulkhead(BulkheadConfig{}).MaxConcurrent() != 1 {
		t.Error("expected MaxConcurrent to default to 1")
	}
}
