package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunner_WaitDrainsAllTasks(t *testing.T) {
	r := NewRunner(zap.NewNop().Sugar(), 0)

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		r.Go("task", func(ctx context.Context) error {
			done.Add(1)
			return nil
		})
	}

	r.Wait()
	if got := done.Load(); got != 5 {
		t.Fatalf("expected 5 tasks finished after Wait, got %d", got)
	}
}

func TestRunner_FailureAndPanicDoNotPropagate(t *testing.T) {
	r := NewRunner(zap.NewNop().Sugar(), 0)

	r.Go("fails", func(ctx context.Context) error {
		return errors.New("boom")
	})
	r.Go("panics", func(ctx context.Context) error {
		panic("boom")
	})

	// si el panic escapara, el proceso de test moriría acá
	r.Wait()
}

func TestRunner_TasksGetBoundedContext(t *testing.T) {
	r := NewRunner(zap.NewNop().Sugar(), 10*time.Millisecond)

	var expired atomic.Bool
	r.Go("waits", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			expired.Store(true)
		case <-time.After(2 * time.Second):
		}
		return nil
	})

	r.Wait()
	if !expired.Load() {
		t.Fatalf("expected task context to expire at the configured timeout")
	}
}
