package network

import (
	"context"
	"sync"
	"time"

	"github.com/mlmikael/libbitcoin-node/chainsync/wire"
)

// FakeTimer is a manually-driven Timer for scripting rate-floor scenarios
// (S4 in spec.md §8) without a real clock: tests call Fire to deliver a
// tick instead of waiting on a real ticker.
type FakeTimer struct {
	mu      sync.Mutex
	handler func(error)
	stopped bool
}

func (t *FakeTimer) Start(period time.Duration, handler func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.handler = handler
	t.stopped = false
}

func (t *FakeTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
}

// Fire delivers one tick to the currently-armed handler, if any.
func (t *FakeTimer) Fire(err error) {
	t.mu.Lock()
	handler := t.handler
	stopped := t.stopped
	t.mu.Unlock()

	if handler != nil && !stopped {
		handler(err)
	}
}

// FakeChannel is an in-memory Channel double used to script an adversarial
// or cooperative peer's responses in chainsync tests, the same kind of
// hand-rolled collaborator double used elsewhere in this codebase's test
// suites for out-of-scope capabilities.
type FakeChannel struct {
	id         string
	addr       Authority
	startHeight uint64
	timer      *FakeTimer

	mu          sync.Mutex
	subscribers map[wire.MessageKind][]func(wire.Message, error)
	sent        []wire.Message
	stopErr     error
	sendErr     error
}

// NewFakeChannel constructs a channel double advertising startHeight.
func NewFakeChannel(id string, addr Authority, startHeight uint64) *FakeChannel {
	return &FakeChannel{
		id:          id,
		addr:        addr,
		startHeight: startHeight,
		timer:       &FakeTimer{},
		subscribers: make(map[wire.MessageKind][]func(wire.Message, error)),
	}
}

func (c *FakeChannel) ID() string               { return c.id }
func (c *FakeChannel) Authority() Authority     { return c.addr }
func (c *FakeChannel) PeerStartHeight() uint64  { return c.startHeight }
func (c *FakeChannel) Timer() Timer             { return c.timer }

// SetSendError makes every subsequent Send call fail with err.
func (c *FakeChannel) SetSendError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sendErr = err
}

func (c *FakeChannel) Send(ctx context.Context, msg wire.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendErr != nil {
		return c.sendErr
	}

	c.sent = append(c.sent, msg)

	return nil
}

// Sent returns every message sent so far, for test assertions.
func (c *FakeChannel) Sent() []wire.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]wire.Message, len(c.sent))
	copy(out, c.sent)

	return out
}

func (c *FakeChannel) Subscribe(kind wire.MessageKind, handler func(wire.Message, error)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subscribers[kind] = append(c.subscribers[kind], handler)
	idx := len(c.subscribers[kind]) - 1

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.subscribers[kind][idx] = nil
	}
}

// Deliver dispatches msg to every live subscriber of its kind, the way a
// real Channel would fan out a received wire message.
func (c *FakeChannel) Deliver(msg wire.Message, err error) {
	c.mu.Lock()
	handlers := append([]func(wire.Message, error){}, c.subscribers[msg.Kind()]...)
	c.mu.Unlock()

	for _, h := range handlers {
		if h != nil {
			h(msg, err)
		}
	}
}

func (c *FakeChannel) Stop(reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopErr = reason
	c.timer.Stop()
}

// Stopped reports whether Stop has been called, and with what reason.
func (c *FakeChannel) Stopped() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stopErr != nil, c.stopErr
}

// FakeConnector hands back pre-built channels (or errors) in the order
// scripted by Enqueue, modeling a sequence of dial attempts.
type FakeConnector struct {
	mu      sync.Mutex
	results []connectResult
}

type connectResult struct {
	channel *FakeChannel
	err     error
}

// Enqueue schedules the next Connect call to return channel (or err).
func (c *FakeConnector) Enqueue(channel *FakeChannel, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = append(c.results, connectResult{channel: channel, err: err})
}

func (c *FakeConnector) Connect(ctx context.Context, addr Authority) (Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.results) == 0 {
		return nil, ErrAddressBookExhausted
	}

	next := c.results[0]
	c.results = c.results[1:]

	if next.err != nil {
		return nil, next.err
	}

	if next.channel.id == "" {
		next.channel.id = NewChannelID()
	}

	return next.channel, nil
}
