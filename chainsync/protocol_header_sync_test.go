package chainsync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlmikael/libbitcoin-node/chainsync/wire"
	"github.com/mlmikael/libbitcoin-node/network"
	"github.com/mlmikael/libbitcoin-node/ulogger"
)

func newTestProtocol(t *testing.T, startHeight uint64, checkpoints *CheckpointSet) (*HeaderSyncProtocol, *network.FakeChannel, *HeaderChain) {
	t.Helper()

	chain, err := NewHeaderChain(100, []HeaderHash{hashByte(1)})
	require.NoError(t, err)

	channel := network.NewFakeChannel("peer-1", network.Authority{Host: "127.0.0.1", Port: 8333}, startHeight)

	protocol, err := NewHeaderSyncProtocol(channel, 0, 100, chain, checkpoints, ulogger.TestLogger{})
	require.NoError(t, err)

	return protocol, channel, chain
}

func TestHeaderSyncProtocolRejectsLowStartHeight(t *testing.T) {
	protocol, channel, _ := newTestProtocol(t, 50, nil)

	var got error
	done := make(chan struct{})
	protocol.Start(context.Background(), func(err error) {
		got = err
		close(done)
	})
	<-done

	require.Error(t, got)
	stopped, _ := channel.Stopped()
	assert.True(t, stopped)
}

func TestHeaderSyncProtocolSucceedsOnSingleBatch(t *testing.T) {
	protocol, channel, chain := newTestProtocol(t, 1000, nil)

	var got error
	done := make(chan struct{})
	protocol.Start(context.Background(), func(err error) {
		got = err
		close(done)
	})

	require.Len(t, channel.Sent(), 1)

	headers := wire.HeadersMsg{Elements: []wire.Header{
		wire.NewHeader(hashByte(2), hashByte(1)),
	}}
	channel.Deliver(headers, nil)

	<-done

	require.NoError(t, got)
	assert.Equal(t, 2, chain.Len())
	assert.Equal(t, hashByte(2), chain.Tip())
}

func TestHeaderSyncProtocolRequestsAgainOnFullBatch(t *testing.T) {
	protocol, channel, _ := newTestProtocol(t, 10000, nil)

	done := make(chan struct{})
	protocol.Start(context.Background(), func(err error) {
		close(done)
	})

	elements := make([]wire.Header, wire.FullHeaders)
	prev := hashByte(1)
	for i := range elements {
		h := HeaderHash{}
		h[0] = 2
		h[1] = byte(i)
		h[2] = byte(i >> 8)
		elements[i] = wire.NewHeader(h, prev)
		prev = h
	}

	channel.Deliver(wire.HeadersMsg{Elements: elements}, nil)

	select {
	case <-done:
		t.Fatal("protocol completed after a full batch instead of requesting more headers")
	default:
	}

	assert.Len(t, channel.Sent(), 2)
}

func TestHeaderSyncProtocolRollsBackOnBrokenLinkage(t *testing.T) {
	protocol, channel, chain := newTestProtocol(t, 1000, nil)

	var got error
	done := make(chan struct{})
	protocol.Start(context.Background(), func(err error) {
		got = err
		close(done)
	})

	headers := wire.HeadersMsg{Elements: []wire.Header{
		wire.NewHeader(hashByte(9), hashByte(8)),
	}}
	channel.Deliver(headers, nil)

	<-done

	require.Error(t, got)
	assert.Equal(t, 1, chain.Len())
}

func TestHeaderSyncProtocolRateFloorTimeout(t *testing.T) {
	protocol, channel, _ := newTestProtocol(t, 1000, nil)
	protocol.minimumRate = 100

	var got error
	done := make(chan struct{})
	protocol.Start(context.Background(), func(err error) {
		got = err
		close(done)
	})

	timer, ok := channel.Timer().(*network.FakeTimer)
	require.True(t, ok)
	timer.Fire(nil)

	<-done
	require.Error(t, got)
}

func TestHeaderSyncProtocolCompletesOnlyOnce(t *testing.T) {
	protocol, channel, _ := newTestProtocol(t, 1000, nil)

	calls := 0
	done := make(chan struct{}, 2)
	protocol.Start(context.Background(), func(err error) {
		calls++
		done <- struct{}{}
	})

	channel.Deliver(wire.HeadersMsg{Elements: []wire.Header{
		wire.NewHeader(hashByte(2), hashByte(1)),
	}}, nil)
	<-done

	channel.Deliver(wire.HeadersMsg{Elements: []wire.Header{
		wire.NewHeader(hashByte(3), hashByte(2)),
	}}, nil)

	assert.Equal(t, 1, calls)
}
