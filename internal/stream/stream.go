// Package stream turns a pull-based source of text fragments into a cancellable
// task that delivers fragments in order and reports how the stream ended.
package stream

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Source yields the next fragment on each Recv. io.EOF marks the end of the
// stream; any other error is a failure.
type Source interface {
	Recv() (string, error)
	Close() error
}

// Task pumps a Source on its own goroutine.
type Task struct {
	fragments chan string
	done      chan struct{}
	cancel    context.CancelFunc

	mu  sync.Mutex
	err error
}

// Start begins reading src. The source is closed once the task finishes.
func Start(ctx context.Context, src Source) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		fragments: make(chan string),
		done:      make(chan struct{}),
		cancel:    cancel,
	}
	go t.run(ctx, src)
	return t
}

func (t *Task) run(ctx context.Context, src Source) {
	defer close(t.done)
	defer close(t.fragments)
	defer t.cancel()

	// Recv may block past cancellation; closing the source unblocks it.
	stop := context.AfterFunc(ctx, func() { _ = src.Close() })
	defer func() {
		if stop() {
			_ = src.Close()
		}
	}()

	for {
		fragment, err := src.Recv()
		if err != nil {
			if ctx.Err() != nil {
				t.setErr(ctx.Err())
			} else if !errors.Is(err, io.EOF) {
				t.setErr(err)
			}
			return
		}
		if ctx.Err() != nil {
			t.setErr(ctx.Err())
			return
		}
		if fragment == "" {
			continue
		}
		select {
		case t.fragments <- fragment:
		case <-ctx.Done():
			t.setErr(ctx.Err())
			return
		}
	}
}

func (t *Task) setErr(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}

// Fragments delivers fragments in the order the source produced them. The
// channel is closed when the task ends for any reason.
func (t *Task) Fragments() <-chan string {
	return t.fragments
}

// Wait blocks until the task ends. It returns nil when the source was
// exhausted, and the failure (or the context error after Cancel) otherwise.
func (t *Task) Wait() error {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Cancel stops the task. Fragments not yet received are discarded.
func (t *Task) Cancel() {
	t.cancel()
}
