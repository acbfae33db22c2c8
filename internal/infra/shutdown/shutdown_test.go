package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.hooks == nil {
		t.Error("hooks should be initialized")
	}
	if h.done == nil {
		t.Error("done channel should be initialized")
	}
}

func TestHandler_OnShutdown(t *testing.T) {
	h := NewHandler(5 * time.Second)

	for i := 0; i < 3; i++ {
		h.OnShutdown(func(ctx context.Context) error { return nil })
	}

	h.mu.Lock()
	if len(h.hooks) != 3 {
		t.Errorf("expected 3 hooks, got %d", len(h.hooks))
	}
	h.mu.Unlock()
}

func TestHandler_Done(t *testing.T) {
	h := NewHandler(5 * time.Second)

	done := h.Done()
	if done == nil {
		t.Error("Done() should return a channel")
	}

	select {
	case <-done:
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func TestHandler_Wait_WithSignal(t *testing.T) {
	h := NewHandler(5 * time.Second)

	callOrder := make([]int, 0)
	var mu sync.Mutex

	// Registered 1, 2, 3; must run 3, 2, 1.
	for i := 1; i <= 3; i++ {
		n := i
		h.OnShutdown(func(ctx context.Context) error {
			mu.Lock()
			callOrder = append(callOrder, n)
			mu.Unlock()
			return nil
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait()
	}()

	// Give Wait time to set up the signal handler.
	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGINT)

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(callOrder) != 3 {
		t.Fatalf("expected 3 hooks called, got %d", len(callOrder))
	}
	if callOrder[0] != 3 || callOrder[1] != 2 || callOrder[2] != 1 {
		t.Errorf("hooks called in wrong order: %v, want [3, 2, 1]", callOrder)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Wait_HookError(t *testing.T) {
	h := NewHandler(5 * time.Second)

	expectedErr := errors.New("hook error")

	h.OnShutdown(func(ctx context.Context) error { return nil })
	h.OnShutdown(func(ctx context.Context) error { return expectedErr })
	h.OnShutdown(func(ctx context.Context) error { return nil })

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Wait()
	}()

	time.Sleep(50 * time.Millisecond)
	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != expectedErr {
			t.Errorf("Wait() returned %v, want %v", err, expectedErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(ctx context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	if len(h.hooks) != 10 {
		t.Errorf("expected 10 hooks, got %d", len(h.hooks))
	}
	h.mu.Unlock()
}
