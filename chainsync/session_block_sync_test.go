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

func TestBlockSyncSessionRotatesOnFailureThenReachesQuorum(t *testing.T) {
	chain, err := NewHeaderChain(100, []HeaderHash{hashByte(1), hashByte(2)})
	require.NoError(t, err)

	connector := &network.FakeConnector{}

	badPeer := network.NewFakeChannel("bad", network.Authority{Host: "10.0.0.1"}, 50)
	goodPeer := network.NewFakeChannel("good", network.Authority{Host: "10.0.0.2"}, 1000)

	connector.Enqueue(badPeer, nil)
	connector.Enqueue(goodPeer, nil)

	book := network.NewMemoryAddressBook(connector,
		network.Authority{Host: "10.0.0.1"},
		network.Authority{Host: "10.0.0.2"},
	)

	sink := &recordingSink{}
	session := NewBlockSyncSession(book, chain, sink, 100, 0, 1, ulogger.TestLogger{})

	var got error
	done := make(chan struct{})
	session.Start(context.Background(), func(err error) {
		got = err
		close(done)
	})

	// badPeer is rejected synchronously (start height below target); the
	// session has already moved on to goodPeer, which is now waiting on a
	// get_data response.
	require.Len(t, goodPeer.Sent(), 1)

	goodPeer.Deliver(wire.BlockMsg{Header: wire.NewHeader(hashByte(1), HeaderHash{})}, nil)
	goodPeer.Deliver(wire.BlockMsg{Header: wire.NewHeader(hashByte(2), HeaderHash{})}, nil)

	<-done
	require.NoError(t, got)
	assert.Equal(t, 2, sink.count())
}

func TestBlockSyncSessionFailsWhenAddressBookExhausted(t *testing.T) {
	chain, err := NewHeaderChain(100, []HeaderHash{hashByte(1)})
	require.NoError(t, err)

	connector := &network.FakeConnector{}
	book := network.NewMemoryAddressBook(connector)

	session := NewBlockSyncSession(book, chain, &recordingSink{}, 100, 0, 1, ulogger.TestLogger{})

	var got error
	session.Start(context.Background(), func(err error) {
		got = err
	})

	assert.Error(t, got, "an exhausted address book should fail the overall start(handler) call")
	assert.True(t, session.stopped())
}
