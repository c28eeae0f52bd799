package wire

import (
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
)

func TestHeaderHashAndPrevHash(t *testing.T) {
	prev := chainhash.Hash{1}
	h := NewHeader(chainhash.Hash{2}, prev)

	assert.Equal(t, chainhash.Hash{2}, h.Hash())
	assert.Equal(t, prev, h.PrevHash)
}

func TestMessageKinds(t *testing.T) {
	assert.Equal(t, KindGetHeaders, GetHeadersMsg{}.Kind())
	assert.Equal(t, KindHeaders, HeadersMsg{}.Kind())
	assert.Equal(t, KindGetData, GetDataMsg{}.Kind())
	assert.Equal(t, KindInv, InvMsg{}.Kind())
	assert.Equal(t, KindBlock, BlockMsg{}.Kind())
}
