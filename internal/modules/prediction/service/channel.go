package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	bclock "github.com/benbjohnson/clock"
	"github.com/hashicorp/go-hclog"

	"roictl/internal/modules/prediction/domain"
	predout "roictl/internal/modules/prediction/port/out"
	"roictl/internal/platform/clock"
)

type ReconnectPolicy string

const (
	// ReconnectAlways re-opens the stream after every close.
	ReconnectAlways ReconnectPolicy = "always"
	// ReconnectDesired re-opens only while a prediction start is in effect.
	ReconnectDesired ReconnectPolicy = "desired"
)

const DefaultReconnectDelay = time.Second

type ChannelOptions struct {
	Delay  time.Duration
	Policy ReconnectPolicy
}

// ChannelEvents is notified outside the channel lock.
type ChannelEvents interface {
	OnSocketState(domain.SocketState)
	OnFrame(raw []byte)
}

// Channel keeps one classification stream alive. Each dial is tagged with a
// generation so a stale reader cannot touch a newer connection.
type Channel struct {
	mu      sync.Mutex
	dialer  predout.Dialer
	clock   clock.Clock
	opts    ChannelOptions
	logger  hclog.Logger
	events  ChannelEvents
	state   domain.SocketState
	conn    predout.Conn
	gen     uint64
	desired bool
	timer   *bclock.Timer
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewChannel(dialer predout.Dialer, clk clock.Clock, opts ChannelOptions, logger hclog.Logger) *Channel {
	if opts.Delay <= 0 {
		opts.Delay = DefaultReconnectDelay
	}
	if opts.Policy == "" {
		opts.Policy = ReconnectAlways
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Channel{
		dialer: dialer,
		clock:  clk,
		opts:   opts,
		logger: logger.Named("channel"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Bind sets the event sink. It must be called before the first Open.
func (c *Channel) Bind(events ChannelEvents) {
	c.mu.Lock()
	c.events = events
	c.mu.Unlock()
}

func (c *Channel) State() domain.SocketState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetDesired records whether a prediction start is in effect.
func (c *Channel) SetDesired(desired bool) {
	c.mu.Lock()
	c.desired = desired
	c.mu.Unlock()
}

// Open dials unless a connection is already connecting or open.
func (c *Channel) Open() {
	c.mu.Lock()
	if c.stopped || c.state != domain.SocketClosed {
		c.mu.Unlock()
		return
	}
	c.state = domain.SocketConnecting
	c.gen++
	gen := c.gen
	events := c.events
	c.mu.Unlock()

	notifyState(events, domain.SocketConnecting)
	go c.run(gen)
}

// Close closes an open connection; the read loop then reports the close.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.state != domain.SocketOpen || c.conn == nil {
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	c.mu.Unlock()
	return conn.Close()
}

// Shutdown cancels pending reconnects and closes the connection for good.
// The connection is closed before the lifetime context is cancelled.
func (c *Channel) Shutdown() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	conn := c.conn
	c.conn = nil
	c.gen++
	c.state = domain.SocketClosed
	c.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	c.cancel()
	return err
}

func (c *Channel) run(gen uint64) {
	conn, err := c.dialer.Dial(c.ctx)
	if err != nil {
		c.logger.Warn("channel dial failed", "error", err)
		c.handleClose(gen, err)
		return
	}

	c.mu.Lock()
	if c.gen != gen || c.stopped {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.state = domain.SocketOpen
	events := c.events
	c.mu.Unlock()

	c.logger.Info("channel connected")
	notifyState(events, domain.SocketOpen)

	for {
		raw, err := conn.Read(c.ctx)
		if err != nil {
			c.handleClose(gen, err)
			return
		}
		if events != nil {
			events.OnFrame(raw)
		}
	}
}

func (c *Channel) handleClose(gen uint64, cause error) {
	c.mu.Lock()
	if c.gen != gen || c.stopped {
		c.mu.Unlock()
		return
	}
	c.state = domain.SocketClosed
	c.conn = nil
	switch {
	case errors.Is(cause, io.EOF):
		c.logger.Info("channel closed")
	default:
		c.logger.Warn("channel closed", "error", cause)
	}
	if c.timer == nil && c.shouldReconnect() {
		c.logger.Debug("channel reconnect scheduled", "delay", c.opts.Delay)
		c.timer = c.clock.AfterFunc(c.opts.Delay, c.reconnect)
	}
	events := c.events
	c.mu.Unlock()

	notifyState(events, domain.SocketClosed)
}

func (c *Channel) reconnect() {
	c.mu.Lock()
	c.timer = nil
	c.mu.Unlock()
	c.Open()
}

func (c *Channel) shouldReconnect() bool {
	if c.opts.Policy == ReconnectDesired {
		return c.desired
	}
	return true
}

func notifyState(events ChannelEvents, state domain.SocketState) {
	if events != nil {
		events.OnSocketState(state)
	}
}
