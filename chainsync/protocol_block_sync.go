package chainsync

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	ibderrors "github.com/mlmikael/libbitcoin-node/errors"
	"github.com/mlmikael/libbitcoin-node/chainsync/wire"
	"github.com/mlmikael/libbitcoin-node/network"
	"github.com/mlmikael/libbitcoin-node/ulogger"
)

// maxGetDataInv batches requests the way build_maximal_request does.
const maxGetDataInv = wire.MaxGetDataInv

// BlockSink receives completed block bodies, each with its height, during
// the block-sync phase — the out-of-scope collaborator spec.md §1 calls "the
// blockchain database", consumed the same way the Network capability is.
// Blocks are handed over in batches; the StoreBlock calls within one batch
// run concurrently, so they may arrive in any order.
type BlockSink interface {
	StoreBlock(ctx context.Context, height uint64, block wire.BlockMsg) error
}

// BlockSyncProtocol walks a completed HeaderChain in get_data/block batches,
// bound to the same 1-tick rate-floor liveness contract as
// HeaderSyncProtocol but against blocksPerMinute. Grounded on
// protocol_block_sync.cpp; supplements spec.md §1's "assumed to follow the
// same session/protocol pattern" note.
type BlockSyncProtocol struct {
	channel network.Channel
	chain   *HeaderChain
	sink    BlockSink
	logger  ulogger.Logger
	timer   *RateTimer

	firstHeight uint64
	minimumRate uint32

	mu            sync.Mutex
	hashIndex     uint64
	currentMinute uint64
	completed     bool
	unsubscribe   func()

	pendingBlocks  []wire.BlockMsg
	pendingHeights []uint64
}

// storeBatchSize is how many received blocks accumulate before being
// flushed to the sink via fetchBodiesConcurrently. A batch's StoreBlock calls
// run concurrently rather than one per network message; the receive handler
// waits for the whole batch to be stored before it sends the next request.
const storeBatchSize = 128

// storeConcurrency bounds fetchBodiesConcurrently's in-flight StoreBlock
// calls per flush, independent of how many peer channels are open (there is
// only ever one, per the serial-session rule).
const storeConcurrency = 8

// NewBlockSyncProtocol constructs the protocol bound to channel, walking
// chain from firstHeight through chain.Tip().
func NewBlockSyncProtocol(channel network.Channel, minimumRate uint32, firstHeight uint64, chain *HeaderChain, sink BlockSink, logger ulogger.Logger) *BlockSyncProtocol {
	return &BlockSyncProtocol{
		channel:     channel,
		chain:       chain,
		sink:        sink,
		logger:      logger.New(channel.ID()),
		timer:       NewRateTimer(channel.Timer(), oneMinute),
		firstHeight: firstHeight,
		minimumRate: minimumRate,
	}
}

func (p *BlockSyncProtocol) currentHeight() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.firstHeight + p.hashIndex
}

// targetHeight is the height of the chain's last header.
func (p *BlockSyncProtocol) targetHeight() uint64 {
	return p.firstHeight + uint64(p.chain.Len()) - 1
}

// Start mirrors protocol_block_sync.cpp's start(): reject peers below
// target, arm the rate timer, subscribe to block messages, and issue the
// first maximal get_data batch.
func (p *BlockSyncProtocol) Start(ctx context.Context, handler func(error)) {
	if p.channel.PeerStartHeight() < p.targetHeight() {
		p.logger.Infof("start height (%d) below block sync target (%d) from [%s]",
			p.channel.PeerStartHeight(), p.targetHeight(), p.channel.Authority())
		p.complete(ibderrors.ErrChannelStopped, handler)
		return
	}

	p.mu.Lock()
	p.unsubscribe = p.channel.Subscribe(wire.KindBlock, func(msg wire.Message, err error) {
		p.handleReceive(ctx, msg, err, handler)
	})
	p.mu.Unlock()

	p.timer.Start(func(err error) {
		p.handleTick(err, handler)
	})

	p.sendGetBlocks(ctx, handler)
}

func (p *BlockSyncProtocol) buildMaximalRequest() wire.GetDataMsg {
	p.mu.Lock()
	defer p.mu.Unlock()

	unfilled := uint64(p.chain.Len()) - p.hashIndex
	count := unfilled
	if count > maxGetDataInv {
		count = maxGetDataInv
	}

	inv := make([]wire.InvVect, 0, count)
	for i := uint64(0); i < count; i++ {
		h, _ := p.chain.At(p.firstHeight + p.hashIndex + i)
		inv = append(inv, wire.InvVect{Type: wire.InvTypeBlock, Hash: h})
	}

	return wire.GetDataMsg{Inventory: inv}
}

func (p *BlockSyncProtocol) sendGetBlocks(ctx context.Context, handler func(error)) {
	if p.isStopped() {
		return
	}

	if p.currentHeight() > p.targetHeight() {
		if err := p.flushPending(ctx); err != nil {
			p.complete(err, handler)
			return
		}

		p.complete(nil, handler)
		return
	}

	packet := p.buildMaximalRequest()

	if err := p.channel.Send(ctx, packet); err != nil {
		p.logger.Debugf("failure sending get_data to sync [%s]: %v", p.channel.Authority(), err)
		p.complete(err, handler)
	}
}

func (p *BlockSyncProtocol) handleReceive(ctx context.Context, msg wire.Message, err error, handler func(error)) {
	if p.isStopped() {
		return
	}

	if err != nil {
		p.logger.Debugf("failure receiving block from sync [%s]: %v", p.channel.Authority(), err)
		p.complete(err, handler)
		return
	}

	block, ok := msg.(wire.BlockMsg)
	if !ok {
		return
	}

	current, _ := p.chain.At(p.currentHeight())
	if block.Header.Hash() != current {
		p.logger.Infof("out of order block %s from [%s] (ignored)", block.Header.Hash(), p.channel.Authority())
		return
	}

	p.mu.Lock()
	p.pendingBlocks = append(p.pendingBlocks, block)
	p.pendingHeights = append(p.pendingHeights, p.firstHeight+p.hashIndex)
	p.hashIndex++
	flush := len(p.pendingBlocks) >= storeBatchSize
	p.mu.Unlock()

	p.logger.Infof("synced block #%d from [%s]", p.currentHeight(), p.channel.Authority())

	if flush {
		if err := p.flushPending(ctx); err != nil {
			p.complete(err, handler)
			return
		}
	}

	p.sendGetBlocks(ctx, handler)
}

// flushPending persists whatever has accumulated since the last flush,
// bounded by storeConcurrency, and is also called once more at the end of
// the walk so a short final batch is never silently dropped.
func (p *BlockSyncProtocol) flushPending(ctx context.Context) error {
	p.mu.Lock()
	blocks := p.pendingBlocks
	heights := p.pendingHeights
	p.pendingBlocks = nil
	p.pendingHeights = nil
	p.mu.Unlock()

	if len(blocks) == 0 {
		return nil
	}

	return fetchBodiesConcurrently(ctx, p.sink, blocks, heights, storeConcurrency)
}

func (p *BlockSyncProtocol) handleTick(err error, handler func(error)) {
	if err != nil {
		if ibderrors.Is(err, ibderrors.ErrChannelStopped) {
			p.complete(err, handler)
			return
		}

		p.logger.Warnf("failure in block sync timer for [%s]: %v", p.channel.Authority(), err)
		p.complete(err, handler)
		return
	}

	p.mu.Lock()
	p.currentMinute++
	minute := p.currentMinute
	index := p.hashIndex
	p.mu.Unlock()

	currentRate := uint32(index / minute)

	if currentRate < p.minimumRate {
		p.logger.Infof("block sync rate (%d/min) from [%s]", currentRate, p.channel.Authority())
		p.complete(ibderrors.ErrChannelTimeout, handler)
		return
	}

	p.timer.Start(func(err error) {
		p.handleTick(err, handler)
	})
}

func (p *BlockSyncProtocol) complete(err error, handler func(error)) {
	p.mu.Lock()
	if p.completed {
		p.mu.Unlock()
		return
	}
	p.completed = true
	unsubscribe := p.unsubscribe
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	handler(err)

	p.timer.Stop()
	p.channel.Stop(ibderrors.ErrChannelStopped)
}

func (p *BlockSyncProtocol) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.completed
}

// fetchBodiesConcurrently is the errgroup-bounded fan-out that persists a
// batch of already-received blocks: it calls sink.StoreBlock for each block
// with at most limit calls in flight, the way netsync/handle_block.go bounds
// its own validation fan-out. It opens no peer connections and sends nothing
// on the channel; it returns the first StoreBlock error, if any.
func fetchBodiesConcurrently(ctx context.Context, sink BlockSink, blocks []wire.BlockMsg, heights []uint64, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range blocks {
		i := i
		g.Go(func() error {
			return sink.StoreBlock(ctx, heights[i], blocks[i])
		})
	}

	return g.Wait()
}
