package chainsync

import (
	"context"
	"sync"
	"time"

	"github.com/ordishs/gocore"

	"github.com/mlmikael/libbitcoin-node/network"
	"github.com/mlmikael/libbitcoin-node/ulogger"
)

var blockSyncStat = gocore.NewStat("block_sync")

// BlockSyncSession is the C4 BlockSyncSession driving the block-body
// companion protocol against a completed HeaderChain, structurally
// identical to HeaderSyncSession (both are session_block_sync.cpp /
// session_header_sync.cpp specializations of the same serial-peer driver).
type BlockSyncSession struct {
	net    network.Network
	chain  *HeaderChain
	sink   BlockSink
	logger ulogger.Logger

	startHeight     uint64
	blocksPerMinute uint32
	quorum          uint32

	mu      sync.Mutex
	running bool
	votes   uint32
}

// NewBlockSyncSession constructs a session bound to net, walking chain
// (already extended to the header target by a prior HeaderSyncSession run)
// and handing completed bodies to sink.
func NewBlockSyncSession(net network.Network, chain *HeaderChain, sink BlockSink, startHeight uint64, blocksPerMinute, quorum uint32, logger ulogger.Logger) *BlockSyncSession {
	return &BlockSyncSession{
		net:             net,
		chain:           chain,
		sink:            sink,
		logger:          logger,
		startHeight:     startHeight,
		blocksPerMinute: blocksPerMinute,
		quorum:          quorum,
	}
}

// Start begins drawing peer connections for the block-body phase.
func (s *BlockSyncSession) Start(ctx context.Context, handler func(error)) {
	defer blockSyncStat.NewStat("Start").AddTime(time.Now())

	s.mu.Lock()
	s.votes = 0
	s.running = true
	s.mu.Unlock()

	s.newConnection(ctx, handler)
}

// Stop marks the session stopped, same semantics as HeaderSyncSession.Stop.
func (s *BlockSyncSession) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *BlockSyncSession) stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.running
}

func (s *BlockSyncSession) newConnection(ctx context.Context, handler func(error)) {
	if s.stopped() {
		s.logger.Debugf("suspending block sync session")
		return
	}

	addr, err := s.net.FetchAddress(ctx)
	if err != nil {
		s.logger.Warnf("block sync address book exhausted: %v", err)
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

	protocol := NewBlockSyncProtocol(channel, s.blocksPerMinute, s.startHeight, s.chain, s.sink, s.logger)
	protocol.Start(ctx, func(ec error) {
		s.handleComplete(ctx, ec, handler)
	})
}

func (s *BlockSyncSession) handleComplete(ctx context.Context, ec error, handler func(error)) {
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
