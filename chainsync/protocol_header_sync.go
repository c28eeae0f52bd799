package chainsync

import (
	"context"
	"sync"

	ibderrors "github.com/mlmikael/libbitcoin-node/errors"
	"github.com/mlmikael/libbitcoin-node/chainsync/wire"
	"github.com/mlmikael/libbitcoin-node/network"
	"github.com/mlmikael/libbitcoin-node/ulogger"
)

// protocolState mirrors the Idle -> Requesting -> Receiving ->
// (Requesting | Done_Success | Done_Failure) state machine of spec.md §4.3,
// encoded explicitly rather than threaded through nested callbacks the way
// the source's protocol_timer continuation chain does.
type protocolState int

const (
	stateIdle protocolState = iota
	stateRequesting
	stateReceiving
	stateDoneSuccess
	stateDoneFailure
)

// HeaderSyncProtocol drives one peer channel to extend a shared HeaderChain
// from its current tip up to targetHeight, or fail. Grounded on
// protocol_header_sync.cpp.
type HeaderSyncProtocol struct {
	channel     network.Channel
	chain       *HeaderChain
	checkpoints *CheckpointSet
	timer       *RateTimer
	logger      ulogger.Logger

	minimumRate  uint32
	firstHeight  uint64
	targetHeight uint64

	mu            sync.Mutex
	state         protocolState
	currentSecond uint64
	startSize     int
	completed     bool
	unsubscribe   func()
}

// NewHeaderSyncProtocol constructs the protocol bound to channel. chain
// must already contain at least one seed hash (the resume anchor);
// asserting that precondition here matches the source's
// BITCOIN_ASSERT_MSG in its constructor.
func NewHeaderSyncProtocol(channel network.Channel, minimumRate uint32, firstHeight uint64, chain *HeaderChain, checkpoints *CheckpointSet, logger ulogger.Logger) (*HeaderSyncProtocol, error) {
	if chain == nil || chain.Len() == 0 {
		return nil, ibderrors.NewInvalidArgumentError("header sync protocol: chain must be seeded with the resume anchor")
	}

	target := syncTarget(firstHeight, chain.Len(), checkpoints)

	return &HeaderSyncProtocol{
		channel:      channel,
		chain:        chain,
		checkpoints:  checkpoints,
		timer:        NewRateTimer(channel.Timer(), oneSecond),
		logger:       logger.New(channel.ID()),
		minimumRate:  minimumRate,
		firstHeight:  firstHeight,
		targetHeight: target,
		state:        stateIdle,
		startSize:    chain.Len(),
	}, nil
}

// TargetHeight exposes the fixed sync target computed at construction.
func (p *HeaderSyncProtocol) TargetHeight() uint64 {
	return p.targetHeight
}

// Start arms the rate timer, subscribes to headers responses, and sends the
// initial get_headers request. handler is invoked exactly once, on
// completion, per spec.md §4.3's "Completion" paragraph.
func (p *HeaderSyncProtocol) Start(ctx context.Context, handler func(error)) {
	if p.channel.PeerStartHeight() < p.targetHeight {
		p.logger.Infof("start height (%d) below header sync target (%d) from [%s]",
			p.channel.PeerStartHeight(), p.targetHeight, p.channel.Authority())
		p.complete(ibderrors.ErrChannelStopped, handler)
		return
	}

	p.mu.Lock()
	p.state = stateRequesting
	p.unsubscribe = p.channel.Subscribe(wire.KindHeaders, func(msg wire.Message, err error) {
		p.handleReceive(ctx, msg, err, handler)
	})
	p.mu.Unlock()

	p.timer.Start(func(err error) {
		p.handleTick(err, handler)
	})

	p.sendGetHeaders(ctx, handler)
}

func (p *HeaderSyncProtocol) sendGetHeaders(ctx context.Context, handler func(error)) {
	if p.isStopped() {
		return
	}

	packet := wire.GetHeadersMsg{Locator: []HeaderHash{p.chain.Tip()}}

	if err := p.channel.Send(ctx, packet); err != nil {
		p.logger.Debugf("failure sending get_headers to sync [%s]: %v", p.channel.Authority(), err)
		p.complete(err, handler)
	}
}

func (p *HeaderSyncProtocol) handleReceive(ctx context.Context, msg wire.Message, err error, handler func(error)) {
	if p.isStopped() {
		return
	}

	if err != nil {
		p.logger.Debugf("failure receiving headers from sync [%s]: %v", p.channel.Authority(), err)
		p.complete(err, handler)
		return
	}

	headers, ok := msg.(wire.HeadersMsg)
	if !ok {
		return
	}

	if !p.merge(headers) {
		p.logger.Infof("failure merging headers from [%s]", p.channel.Authority())
		p.complete(ibderrors.ErrPreviousBlockInvalid, handler)
		return
	}

	p.logger.Infof("synced headers %d-%d from [%s]",
		p.chain.NextHeight()-uint64(len(headers.Elements)), p.chain.NextHeight(), p.channel.Authority())

	if len(headers.Elements) >= wire.FullHeaders {
		p.sendGetHeaders(ctx, handler)
		return
	}

	if p.chain.NextHeight() > p.targetHeight {
		p.complete(nil, handler)
		return
	}

	p.complete(ibderrors.ErrOperationFailed, handler)
}

// merge walks message elements in order, checking hash linkage against the
// running tip and checkpoint match at every height. On the first rejected
// element it rolls back the chain and returns false.
func (p *HeaderSyncProtocol) merge(message wire.HeadersMsg) bool {
	previous := p.chain.Tip()

	for _, e := range message.Elements {
		current := e.Hash()

		if e.PrevHash != previous || !p.checkpoints.Validate(current, p.chain.NextHeight()) {
			p.chain.Rollback(p.checkpoints)
			return false
		}

		p.chain.Push(current)
		previous = current
	}

	return true
}

func (p *HeaderSyncProtocol) handleTick(err error, handler func(error)) {
	if err != nil {
		if ibderrors.Is(err, ibderrors.ErrChannelStopped) {
			p.complete(err, handler)
			return
		}

		p.logger.Warnf("failure in header sync timer for [%s]: %v", p.channel.Authority(), err)
		p.complete(err, handler)
		return
	}

	p.mu.Lock()
	p.currentSecond++
	second := p.currentSecond
	grown := p.chain.Len() - p.startSize
	p.mu.Unlock()

	currentRate := uint32(uint64(grown) / second)

	if currentRate < p.minimumRate {
		p.logger.Infof("header sync rate (%d/sec) from [%s]", currentRate, p.channel.Authority())
		p.complete(ibderrors.ErrChannelTimeout, handler)
		return
	}

	p.timer.Start(func(err error) {
		p.handleTick(err, handler)
	})
}

// complete resolves handler exactly once, then stops the channel with
// ChannelStopped so the owning session observes a benign teardown rather
// than being forced to close the channel itself.
func (p *HeaderSyncProtocol) complete(err error, handler func(error)) {
	p.mu.Lock()
	if p.completed {
		p.mu.Unlock()
		return
	}
	p.completed = true
	if err == nil {
		p.state = stateDoneSuccess
	} else {
		p.state = stateDoneFailure
	}
	unsubscribe := p.unsubscribe
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	handler(err)

	p.timer.Stop()
	p.channel.Stop(ibderrors.ErrChannelStopped)
}

func (p *HeaderSyncProtocol) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.completed
}
