package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestManager_RunReturnsJobResult(t *testing.T) {
	m := New(func() JobFunc[int, int] {
		return func(_ context.Context, req int) (int, error) {
			return req * 2, nil
		}
	}, 2)

	got, err := m.Run(context.Background(), 21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestManager_FactoryCalledLazilyOnce(t *testing.T) {
	var calls atomic.Int32

	m := New(func() JobFunc[struct{}, struct{}] {
		calls.Add(1)
		return func(context.Context, struct{}) (struct{}, error) {
			return struct{}{}, nil
		}
	}, 1)

	// Factory не вызывается при конструировании.
	if n := calls.Load(); n != 0 {
		t.Fatalf("factory called %d times before first Run", n)
	}

	for range 5 {
		if _, err := m.Run(context.Background(), struct{}{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if n := calls.Load(); n != 1 {
		t.Errorf("factory should be called exactly once, got %d", n)
	}
}

func TestManager_BoundsAcceptanceConcurrency(t *testing.T) {
	const workers = 2

	var inFlight, peak atomic.Int32
	release := make(chan struct{})

	m := New(func() JobFunc[int, struct{}] {
		return func(context.Context, int) (struct{}, error) {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			<-release
			inFlight.Add(-1)
			return struct{}{}, nil
		}
	}, workers)

	var wg sync.WaitGroup
	for i := range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Run(context.Background(), i)
		}()
	}

	// Даём горутинам время упереться в пул.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if p := peak.Load(); p > workers {
		t.Errorf("acceptance concurrency %d exceeded pool size %d", p, workers)
	}
}

func TestManager_RunOnNilManager(t *testing.T) {
	var m *Manager[int, int]

	_, err := m.Run(context.Background(), 1)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestManager_Close(t *testing.T) {
	m := New(func() JobFunc[int, int] {
		return func(_ context.Context, req int) (int, error) {
			return req, nil
		}
	}, 1)

	if err := m.Close(); err != nil {
		t.Fatalf("first Close should succeed: %v", err)
	}

	// Повторный Close отклоняется.
	if err := m.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close: expected ErrClosed, got %v", err)
	}

	// После Close новые запросы не принимаются.
	if _, err := m.Run(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Run after Close: expected ErrClosed, got %v", err)
	}
}

func TestManager_CloseWaitsForActiveRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	m := New(func() JobFunc[struct{}, struct{}] {
		return func(context.Context, struct{}) (struct{}, error) {
			close(started)
			<-release
			finished.Store(true)
			return struct{}{}, nil
		}
	}, 1)

	go m.Run(context.Background(), struct{}{})
	<-started

	closed := make(chan struct{})
	go func() {
		m.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a Run was still active")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after active Run finished")
	}

	if !finished.Load() {
		t.Error("active Run should have completed before Close returned")
	}
}

func TestManager_RunHonorsContextWhilePoolFull(t *testing.T) {
	release := make(chan struct{})
	occupied := make(chan struct{})

	m := New(func() JobFunc[struct{}, struct{}] {
		return func(context.Context, struct{}) (struct{}, error) {
			close(occupied)
			<-release
			return struct{}{}, nil
		}
	}, 1)

	go m.Run(context.Background(), struct{}{})
	<-occupied

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := m.Run(ctx, struct{}{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded while pool is full, got %v", err)
	}

	close(release)
	m.Close()
}
