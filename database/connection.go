package database

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/metrics"
)

// State mirrors the driver-agnostic lifecycle of the cached connection.
type State int

const (
	Disconnected State = iota
	Connected
	Connecting
	Disconnecting
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Connecting:
		return "connecting"
	case Disconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// Connector opens a backend for the given connection string.
type Connector func(ctx context.Context, uri string) (Backend, error)

const defaultConnectTimeout = 30 * time.Second

var errCacheClosed = errors.New("connection cache closed while connecting")

// ConnectionCache lazily opens one Backend and hands the same one to every
// caller for the life of the process. Callers that arrive while the first
// connect is in flight wait for that attempt instead of starting their own.
type ConnectionCache struct {
	uri            string
	uriKey         string
	connect        Connector
	connectTimeout time.Duration

	group singleflight.Group

	mu      sync.RWMutex
	backend Backend
	state   State
	// epoch is bumped by Close; a connect that started in an older epoch
	// closes what it opened instead of caching it.
	epoch    uint64
	inflight chan struct{}
}

// NewConnectionCache does no I/O. uriKey is the name of the setting uri came
// from and is used in configuration errors.
func NewConnectionCache(uri, uriKey string, connect Connector) *ConnectionCache {
	return &ConnectionCache{
		uri:            strings.TrimSpace(uri),
		uriKey:         uriKey,
		connect:        connect,
		connectTimeout: defaultConnectTimeout,
	}
}

// Configured reports whether a connection string is set.
func (c *ConnectionCache) Configured() bool {
	return c.uri != ""
}

// RequireConfigured returns a configuration error when no connection string
// is set. It never touches the network.
func (c *ConnectionCache) RequireConfigured() error {
	if !c.Configured() {
		return errs.NewConfigurationError(c.uriKey)
	}
	return nil
}

// Get returns the shared backend, connecting on first use. If ctx ends while
// waiting, Get returns early but the connect attempt keeps running for the
// callers that remain.
func (c *ConnectionCache) Get(ctx context.Context) (Backend, error) {
	if err := c.RequireConfigured(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	backend := c.backend
	c.mu.RUnlock()
	if backend != nil {
		return backend, nil
	}

	results := c.group.DoChan("connect", func() (any, error) {
		return c.establish(ctx)
	})

	select {
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Backend), nil
	case <-ctx.Done():
		return nil, errs.NewConnectionError(ctx.Err())
	}
}

// establish runs inside the single-flight group.
func (c *ConnectionCache) establish(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	if c.backend != nil {
		backend := c.backend
		c.mu.Unlock()
		return backend, nil
	}
	c.state = Connecting
	epoch := c.epoch
	done := make(chan struct{})
	c.inflight = done
	c.mu.Unlock()
	defer close(done)

	log.Info().Str("setting", c.uriKey).Msg("Connecting to database")

	connectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.connectTimeout)
	defer cancel()

	backend, err := c.connect(connectCtx, c.uri)

	c.mu.Lock()
	if c.inflight == done {
		c.inflight = nil
	}

	if err == nil && c.epoch != epoch {
		// Closed while connecting.
		c.state = Disconnected
		c.mu.Unlock()
		if closeErr := backend.Close(connectCtx); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing abandoned database connection")
		}
		return nil, errs.NewConnectionError(errCacheClosed)
	}
	defer c.mu.Unlock()

	if err != nil {
		c.state = Disconnected
		metrics.DBConnectAttempts.WithLabelValues("failure").Inc()
		log.Error().Err(err).Str("setting", c.uriKey).Msg("Database connection failed")
		return nil, errs.NewConnectionError(err)
	}

	c.backend = backend
	c.state = Connected
	metrics.DBConnectAttempts.WithLabelValues("success").Inc()
	log.Info().Msg("Database connected")
	return backend, nil
}

// State reports the current connection state without changing it.
func (c *ConnectionCache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Close disconnects the cached backend, if any. A connect still in flight is
// waited for (until ctx ends) and the backend it opens is closed rather than
// cached. A later Get reconnects.
func (c *ConnectionCache) Close(ctx context.Context) error {
	c.mu.Lock()
	c.epoch++
	inflight := c.inflight
	c.mu.Unlock()

	if inflight != nil {
		select {
		case <-inflight:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.mu.Lock()
	backend := c.backend
	if backend == nil {
		c.mu.Unlock()
		return nil
	}
	c.state = Disconnecting
	c.mu.Unlock()

	err := backend.Close(ctx)

	c.mu.Lock()
	c.backend = nil
	c.state = Disconnected
	c.mu.Unlock()

	return err
}
