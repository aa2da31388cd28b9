package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// loopWorker крутится до Stop
type loopWorker struct {
	*BaseWorker
	started atomic.Bool
}

func newLoopWorker(name string) *loopWorker {
	return &loopWorker{BaseWorker: NewBaseWorker(name, "group", zap.NewNop())}
}

func (w *loopWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	for w.Pause(5 * time.Millisecond) {
	}
	return nil
}

// stuckWorker игнорирует Stop
type stuckWorker struct {
	*BaseWorker
	release chan struct{}
}

func (w *stuckWorker) Start(ctx context.Context) error {
	<-w.release
	return nil
}

func TestManager_StartRequiresWorkers(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Second)
	assert.Error(t, m.Start(context.Background()))
}

func TestManager_StartStop(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Second)
	a, b := newLoopWorker("a"), newLoopWorker("b")
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	require.Eventually(t, func() bool { return a.started.Load() && b.started.Load() }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestManager_StopTimeout(t *testing.T) {
	m := NewManager(zap.NewNop(), 20*time.Millisecond)
	w := &stuckWorker{BaseWorker: NewBaseWorker("stuck", "", zap.NewNop()), release: make(chan struct{})}
	defer close(w.release)
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Stop())
}

func TestBaseWorker_StopIsIdempotent(t *testing.T) {
	w := NewBaseWorker("x", "g", zap.NewNop())
	assert.False(t, w.IsStopped())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())

	assert.True(t, w.IsStopped())
	assert.False(t, w.Pause(time.Hour))
	assert.Equal(t, "x", w.Name())
	assert.Equal(t, "g", w.ConsumerGroup())
}
