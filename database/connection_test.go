package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

type stubBackend struct {
	id     int
	closed atomic.Bool
}

func (b *stubBackend) ContactMessages() ContactMessageRepository { return nil }
func (b *stubBackend) Projects() ProjectRepository               { return nil }
func (b *stubBackend) Ping(context.Context) error                { return nil }
func (b *stubBackend) Migrate(context.Context) error             { return nil }
func (b *stubBackend) Close(context.Context) error {
	b.closed.Store(true)
	return nil
}

// gatedConnector blocks every connect until release is closed and counts calls.
type gatedConnector struct {
	attempts atomic.Int32
	release  chan struct{}
	err      error

	mu     sync.Mutex
	opened []*stubBackend
}

func newGatedConnector() *gatedConnector {
	return &gatedConnector{release: make(chan struct{})}
}

func (g *gatedConnector) connect(ctx context.Context, uri string) (Backend, error) {
	n := g.attempts.Add(1)
	<-g.release
	if g.err != nil {
		return nil, g.err
	}
	backend := &stubBackend{id: int(n)}
	g.mu.Lock()
	g.opened = append(g.opened, backend)
	g.mu.Unlock()
	return backend, nil
}

func (g *gatedConnector) openedBackends() []*stubBackend {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*stubBackend(nil), g.opened...)
}

func TestConnectionCache_MissingURI(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	connector := newGatedConnector()
	close(connector.release)
	cache := NewConnectionCache("   ", "MONGODB_URI", connector.connect)

	assert.False(t, cache.Configured())
	assert.True(t, errs.IsNotConfigured(cache.RequireConfigured()))

	backend, err := cache.Get(context.Background())
	assert.Nil(t, backend)
	require.Error(t, err)
	assert.True(t, errs.IsNotConfigured(err))
	assert.Equal(t, "Server not configured: MONGODB_URI is missing", err.Error())
	assert.Equal(t, int32(0), connector.attempts.Load(), "no connect may be attempted without a URI")
	assert.Equal(t, Disconnected, cache.State())
}

func TestConnectionCache_SingleFlight(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	connector := newGatedConnector()
	cache := NewConnectionCache("mongodb://localhost:27017", "MONGODB_URI", connector.connect)

	const callers = 25
	var wg sync.WaitGroup
	results := make([]Backend, callers)
	errList := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errList[i] = cache.Get(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool {
		return cache.State() == Connecting
	}, time.Second, time.Millisecond)
	// Give the remaining callers time to pile up behind the first attempt.
	time.Sleep(20 * time.Millisecond)
	close(connector.release)
	wg.Wait()

	assert.Equal(t, int32(1), connector.attempts.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errList[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, Connected, cache.State())

	again, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, results[0], again)
	assert.Equal(t, int32(1), connector.attempts.Load())
}

func TestConnectionCache_FailureIsNotCached(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	connector := newGatedConnector()
	connector.err = errors.New("server selection timeout")
	close(connector.release)
	cache := NewConnectionCache("mongodb://localhost:27017", "MONGODB_URI", connector.connect)

	_, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.True(t, errs.IsUpstream(err))
	assert.Equal(t, Disconnected, cache.State())

	connector.err = nil
	backend, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, backend)
	assert.Equal(t, int32(2), connector.attempts.Load())
	assert.Equal(t, Connected, cache.State())
}

func TestConnectionCache_CallerCancellationDoesNotAbortConnect(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	connector := newGatedConnector()
	cache := NewConnectionCache("mongodb://localhost:27017", "MONGODB_URI", connector.connect)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return connector.attempts.Load() == 1
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Get did not return after its context was cancelled")
	}

	close(connector.release)
	require.Eventually(t, func() bool {
		return cache.State() == Connected
	}, time.Second, time.Millisecond)

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), connector.attempts.Load())
}

func TestConnectionCache_CloseDuringConnect(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	connector := newGatedConnector()
	cache := NewConnectionCache("mongodb://localhost:27017", "MONGODB_URI", connector.connect)

	ctx, cancel := context.WithCancel(context.Background())
	getDone := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx)
		getDone <- err
	}()

	require.Eventually(t, func() bool {
		return connector.attempts.Load() == 1
	}, time.Second, time.Millisecond)
	cancel()
	require.Error(t, <-getDone)
	assert.Equal(t, Connecting, cache.State())

	closeDone := make(chan error, 1)
	go func() {
		closeDone <- cache.Close(context.Background())
	}()

	select {
	case err := <-closeDone:
		t.Fatalf("Close returned before the connect finished: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(connector.release)

	select {
	case err := <-closeDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the connect finished")
	}

	opened := connector.openedBackends()
	require.Len(t, opened, 1)
	assert.True(t, opened[0].closed.Load(), "backend opened during Close must be closed")
	assert.Equal(t, Disconnected, cache.State())

	backend, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, backend.(*stubBackend).id, "a later Get reconnects")
	require.NoError(t, cache.Close(context.Background()))
}

func TestConnectionCache_CloseGivesUpWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	connector := newGatedConnector()
	cache := NewConnectionCache("mongodb://localhost:27017", "MONGODB_URI", connector.connect)

	getDone := make(chan error, 1)
	go func() {
		_, err := cache.Get(context.Background())
		getDone <- err
	}()
	require.Eventually(t, func() bool {
		return connector.attempts.Load() == 1
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, cache.Close(ctx), context.DeadlineExceeded)

	close(connector.release)
	err := <-getDone
	require.Error(t, err)
	assert.ErrorIs(t, err, errCacheClosed)

	opened := connector.openedBackends()
	require.Len(t, opened, 1)
	assert.True(t, opened[0].closed.Load())
	assert.Equal(t, Disconnected, cache.State())
}

func TestConnectionCache_Close(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	connector := newGatedConnector()
	close(connector.release)
	cache := NewConnectionCache("mongodb://localhost:27017", "MONGODB_URI", connector.connect)

	require.NoError(t, cache.Close(context.Background()), "closing an unopened cache is a no-op")

	backend, err := cache.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, cache.Close(context.Background()))
	assert.True(t, backend.(*stubBackend).closed.Load())
	assert.Equal(t, Disconnected, cache.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "disconnecting", Disconnecting.String())
	assert.Equal(t, "unknown", State(42).String())
}
