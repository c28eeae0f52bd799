package wire

import (
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gowire "github.com/bsv-blockchain/go-wire"
)

func TestToGoWireGetHeadersCarriesLocatorAndStop(t *testing.T) {
	locator := chainhash.Hash{9}
	stop := chainhash.Hash{7}

	out := ToGoWireGetHeaders(GetHeadersMsg{Locator: []chainhash.Hash{locator}, Stop: stop})

	require.Len(t, out.BlockLocatorHashes, 1)
	assert.Equal(t, locator, *out.BlockLocatorHashes[0])
	assert.Equal(t, stop, out.HashStop)
}

func TestFromGoWireHeadersExtractsHashAndPrevHash(t *testing.T) {
	block := gowire.BlockHeader{PrevBlock: chainhash.Hash{3}}

	msg := &gowire.MsgHeaders{Headers: []*gowire.BlockHeader{&block}}

	out := FromGoWireHeaders(msg)

	require.Len(t, out.Elements, 1)
	assert.Equal(t, block.BlockHash(), out.Elements[0].Hash())
	assert.Equal(t, chainhash.Hash{3}, out.Elements[0].PrevHash)
}

func TestToGoWireGetDataMapsInventoryTypes(t *testing.T) {
	blockHash := chainhash.Hash{1}
	txHash := chainhash.Hash{2}

	out := ToGoWireGetData(GetDataMsg{Inventory: []InvVect{
		{Type: InvTypeBlock, Hash: blockHash},
		{Type: InvTypeTx, Hash: txHash},
	}})

	require.Len(t, out.InvList, 2)
	assert.Equal(t, gowire.InvTypeBlock, out.InvList[0].Type)
	assert.Equal(t, gowire.InvTypeTx, out.InvList[1].Type)
}
