package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingTask struct {
	failures int32
	calls    atomic.Int32
	done     chan struct{}
}

func (t *countingTask) Name() string { return "counting" }

func (t *countingTask) Run(ctx context.Context) error {
	n := t.calls.Add(1)
	if n <= t.failures {
		return errors.New("temporary failure")
	}
	close(t.done)
	return nil
}

func TestWorkerPool(t *testing.T) {
	t.Run("Failed task is retried until it succeeds", func(t *testing.T) {
		pool := NewWorkerPool(2, 10)
		pool.SetRetry(3, time.Millisecond)
		pool.Start()
		defer pool.Stop()

		task := &countingTask{failures: 2, done: make(chan struct{})}
		assert.True(t, pool.AddTask(task))

		select {
		case <-task.done:
		case <-time.After(2 * time.Second):
			t.Fatal("task never succeeded")
		}
		assert.Equal(t, int32(3), task.calls.Load())
	})

	t.Run("Full queue rejects new tasks", func(t *testing.T) {
		pool := NewWorkerPool(1, 1)
		task := &countingTask{done: make(chan struct{})}

		assert.True(t, pool.AddTask(task))
		assert.False(t, pool.AddTask(task))
	})
}
