package chainsync

import (
	"context"
	"sync"
	"time"

	"github.com/ordishs/gocore"

	"github.com/mlmikael/libbitcoin-node/network"
	"github.com/mlmikael/libbitcoin-node/ulogger"
)

var headerSyncStat = gocore.NewStat("header_sync")

// HeaderSyncSession is the C4 BlockSyncSession specialized to the header
// phase, per spec.md's §4.4 wording ("BlockSyncSession... attach C3").
// Grounded on session_header_sync.cpp: it holds at most one channel open
// at a time and rotates peers until quorum successful completions of
// HeaderSyncProtocol are observed.
type HeaderSyncSession struct {
	net         network.Network
	chain       *HeaderChain
	checkpoints *CheckpointSet
	logger      ulogger.Logger

	startHeight      uint64
	headersPerSecond uint32
	quorum           uint32

	mu      sync.Mutex
	running bool
	votes   uint32
}

// NewHeaderSyncSession constructs a session bound to net, driving chain
// (already seeded with the resume anchor) against checkpoints.
func NewHeaderSyncSession(net network.Network, chain *HeaderChain, checkpoints *CheckpointSet, startHeight uint64, headersPerSecond, quorum uint32, logger ulogger.Logger) *HeaderSyncSession {
	return &HeaderSyncSession{
		net:              net,
		chain:            chain,
		checkpoints:      checkpoints,
		logger:           logger,
		startHeight:      startHeight,
		headersPerSecond: headersPerSecond,
		quorum:           quorum,
	}
}

// Start initializes the vote counter and begins drawing peer connections.
// handler is invoked at most once: with success once quorum is reached,
// with the address book's error if it runs out of peers first, or not at
// all if the session is stopped before quorum (spec.md §7's propagation
// policy — the host's stop path owns the final status then).
func (s *HeaderSyncSession) Start(ctx context.Context, handler func(error)) {
	s.mu.Lock()
	s.votes = 0
	s.running = true
	s.mu.Unlock()

	defer headerSyncStat.NewStat("Start").AddTime(time.Now())

	s.newConnection(ctx, handler)
}

// Stop marks the session stopped; any in-flight channel is allowed to
// complete naturally or be torn down by the transport layer.
func (s *HeaderSyncSession) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *HeaderSyncSession) stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.running
}

func (s *HeaderSyncSession) newConnection(ctx context.Context, handler func(error)) {
	if s.stopped() {
		s.logger.Debugf("suspending header sync session")
		return
	}

	addr, err := s.net.FetchAddress(ctx)
	if err != nil {
		s.logger.Warnf("header sync address book exhausted: %v", err)
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		handler(err)
		return
	}

	s.logger.Infof("contacting sync [%s]", addr)

	channel, err := s.net.Connector().Connect(ctx, addr)
	if err != nil {
		s.logger.Debugf("failure connecting [%s] sync: %v", addr, err)
		s.newConnection(ctx, handler)
		return
	}

	s.logger.Infof("connected to sync [%s]", channel.Authority())
	s.handleChannelStart(ctx, channel, handler)
}

func (s *HeaderSyncSession) handleChannelStart(ctx context.Context, channel network.Channel, handler func(error)) {
	protocol, err := NewHeaderSyncProtocol(channel, s.headersPerSecond, s.startHeight, s.chain, s.checkpoints, s.logger)
	if err != nil {
		s.handleComplete(ctx, err, handler)
		return
	}

	protocol.Start(ctx, func(ec error) {
		s.handleComplete(ctx, ec, handler)
	})
}

// handleComplete is the only success exit path: once votes reaches quorum
// the session invokes handler with nil and stops rotating peers.
func (s *HeaderSyncSession) handleComplete(ctx context.Context, ec error, handler func(error)) {
	s.mu.Lock()
	if ec == nil {
		s.votes++
	}
	votes := s.votes
	quorum := s.quorum
	s.mu.Unlock()

	if ec != nil || votes < quorum {
		s.newConnection(ctx, handler)
		return
	}

	handler(nil)
}
