package utils

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecuteWithResultsAligned(t *testing.T) {
	fns := []func() (int, error){
		func() (int, error) { return 1, nil },
		func() (int, error) { return 0, errors.New("boom") },
		func() (int, error) { return 3, nil },
	}

	results, errs := ExecuteWithResults(context.Background(), 2, fns...)
	if results[0] != 1 || results[2] != 3 {
		t.Errorf("results misaligned: %v", results)
	}
	if errs[0] != nil || errs[2] != nil {
		t.Errorf("unexpected errors: %v", errs)
	}
	if errs[1] == nil {
		t.Error("expected error at index 1")
	}
}

func TestExecuteRespectsConcurrencyLimit(t *testing.T) {
	var current, peak int64
	fn := func() error {
		c := atomic.AddInt64(&current, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if c <= p || atomic.CompareAndSwapInt64(&peak, p, c) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return nil
	}

	fns := make([]func() error, 10)
	for i := range fns {
		fns[i] = fn
	}

	NewConcurrentExecutor(3).Execute(context.Background(), fns...)
	if p := atomic.LoadInt64(&peak); p > 3 {
		t.Errorf("peak concurrency %d exceeds limit 3", p)
	}
}

func TestExecuteRecoversPanic(t *testing.T) {
	errs := NewConcurrentExecutor(1).Execute(context.Background(), func() error {
		panic("kaboom")
	})
	var pe *PanicError
	if !errors.As(errs[0], &pe) {
		t.Fatalf("expected PanicError, got %v", errs[0])
	}
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int64
	errs := NewConcurrentExecutor(1).Execute(ctx,
		func() error { ran.Add(1); return nil },
		func() error { ran.Add(1); return nil },
	)

	// Cancellation takes priority over a free semaphore slot, so no
	// function starts after the context is already cancelled.
	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("errs[%d] = %v, want context.Canceled", i, err)
		}
	}
	if n := ran.Load(); n != 0 {
		t.Errorf("%d functions ran under a cancelled context", n)
	}
}

func TestExecuteWithResultsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := ExecuteWithResults(ctx, 2,
		func() (int, error) { return 1, nil },
		func() (int, error) { return 2, nil },
	)
	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("errs[%d] = %v, want context.Canceled", i, err)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1}, []float32{1, 2}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
