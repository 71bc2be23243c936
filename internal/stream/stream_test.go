package stream

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	fragments []string
	err       error
	closed    atomic.Int32
}

func (s *sliceSource) Recv() (string, error) {
	if len(s.fragments) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	f := s.fragments[0]
	s.fragments = s.fragments[1:]
	return f, nil
}

func (s *sliceSource) Close() error {
	s.closed.Add(1)
	return nil
}

// blockingSource never yields until closed.
type blockingSource struct {
	closed chan struct{}
}

func (b *blockingSource) Recv() (string, error) {
	<-b.closed
	return "", errors.New("use of closed stream")
}

func (b *blockingSource) Close() error {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
	return nil
}

func collect(t *Task) []string {
	var out []string
	for f := range t.Fragments() {
		out = append(out, f)
	}
	return out
}

func TestTask_DeliversInOrder(t *testing.T) {
	src := &sliceSource{fragments: []string{"Hel", "", "lo", " there"}}
	task := Start(context.Background(), src)

	require.Equal(t, []string{"Hel", "lo", " there"}, collect(task))
	require.NoError(t, task.Wait())
	require.EqualValues(t, 1, src.closed.Load())
}

func TestTask_ReportsFailureDistinctFromExhaustion(t *testing.T) {
	boom := errors.New("connection reset")
	src := &sliceSource{fragments: []string{"partial"}, err: boom}
	task := Start(context.Background(), src)

	require.Equal(t, []string{"partial"}, collect(task))
	require.ErrorIs(t, task.Wait(), boom)
}

func TestTask_CancelUnblocksRecv(t *testing.T) {
	src := &blockingSource{closed: make(chan struct{})}
	task := Start(context.Background(), src)

	task.Cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- task.Wait() }()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("task did not stop after Cancel")
	}
	require.Empty(t, collect(task))
}

func TestTask_ParentContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Start(ctx, &blockingSource{closed: make(chan struct{})})
	cancel()
	require.ErrorIs(t, task.Wait(), context.Canceled)
}
