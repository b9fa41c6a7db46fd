package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_Create(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	if p.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", p.Workers())
	}
	if !p.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestPool_DefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -3} {
		p := NewPool(n)
		if p.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("NewPool(%d).Workers() = %d, want GOMAXPROCS", n, p.Workers())
		}
		p.Close()
	}
}

func TestPool_ForVisitsEveryIndex(t *testing.T) {
	p := NewPool(3)
	defer p.Close()

	const n = 1000
	var seen [n]atomic.Int32
	if err := p.For(context.Background(), n, func(i int) { seen[i].Add(1) }); err != nil {
		t.Fatalf("For() error = %v", err)
	}
	for i := range seen {
		if got := seen[i].Load(); got != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, got)
		}
	}
	if p.Completed() != n {
		t.Errorf("Completed() = %d, want %d", p.Completed(), n)
	}
}

func TestPool_ForZero(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	called := false
	if err := p.For(context.Background(), 0, func(int) { called = true }); err != nil {
		t.Fatalf("For(0) error = %v", err)
	}
	if called {
		t.Error("fn called for n = 0")
	}
}

func TestPool_ForCanceled(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Int32
	err := p.For(ctx, 10000, func(i int) {
		if ran.Add(1) == 10 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("For() error = %v, want context.Canceled", err)
	}
	if ran.Load() >= 10000 {
		t.Error("cancellation did not stop remaining jobs")
	}
}

func TestPool_ForAfterClose(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	if p.IsRunning() {
		t.Error("pool running after Close")
	}
	if err := p.For(context.Background(), 5, func(int) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("For() after Close error = %v, want ErrClosed", err)
	}
}

func TestPool_WorkStealing(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	// Index 0 is slow; the other workers must finish the rest meanwhile.
	start := time.Now()
	err := p.For(context.Background(), 64, func(i int) {
		if i == 0 {
			time.Sleep(50 * time.Millisecond)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("For took %v", elapsed)
	}
}

func TestPool_ConcurrentFor(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var total atomic.Int64
	done := make(chan error, 4)
	for range 4 {
		go func() {
			done <- p.For(context.Background(), 250, func(int) { total.Add(1) })
		}()
	}
	for range 4 {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
	if total.Load() != 1000 {
		t.Errorf("total = %d, want 1000", total.Load())
	}
}

func BenchmarkPool_For(b *testing.B) {
	p := NewPool(0)
	defer p.Close()
	ctx := context.Background()

	for b.Loop() {
		_ = p.For(ctx, 1200, func(int) {})
	}
}
