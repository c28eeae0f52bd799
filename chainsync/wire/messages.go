// Package wire defines the bitcoin P2P message shapes the sync engine
// exchanges with a peer: get_headers/headers for C3, get_data/inv for the
// block-body companion. Framing and the wire encoding themselves are
// delegated to github.com/bsv-blockchain/go-wire; codec.go converts between
// go-wire's MsgGetHeaders/MsgHeaders/MsgGetData types and the shapes this
// file defines, so chainsync does not need to import go-wire directly.
package wire

import "github.com/bsv-blockchain/go-bt/v2/chainhash"

// MessageKind identifies which wire message a Channel subscription is for.
type MessageKind int

const (
	KindHeaders MessageKind = iota
	KindGetHeaders
	KindGetData
	KindInv
	KindBlock
)

// Message is the common marker every wire message payload implements.
type Message interface {
	Kind() MessageKind
}

// FullHeaders is the element count at which a headers response is
// interpreted as "more available; poll again" rather than "caught up".
const FullHeaders = 2000

// MaxGetDataInv is the maximum inventory vectors libbitcoin batches into a
// single get_data request (protocol_block_sync.cpp's build_maximal_request).
const MaxGetDataInv = 50000

// Header is the minimal view of a block header the protocol needs: its own
// hash and its predecessor's, per spec.md's HeadersMessage data model.
type Header struct {
	PrevHash chainhash.Hash
	hash     chainhash.Hash
}

// NewHeader wraps a precomputed hash/previous-hash pair, the shape
// FromGoWireHeaders and test doubles both construct directly.
func NewHeader(hash, prevHash chainhash.Hash) Header {
	return Header{hash: hash, PrevHash: prevHash}
}

// Hash returns the header's own identifying hash.
func (h Header) Hash() chainhash.Hash {
	return h.hash
}

// GetHeadersMsg requests headers starting after the given locator, the way
// protocol_header_sync.cpp's send_get_headers always sends a single-element
// locator (the current chain tip).
type GetHeadersMsg struct {
	Locator []chainhash.Hash
	Stop    chainhash.Hash
}

func (GetHeadersMsg) Kind() MessageKind { return KindGetHeaders }

// HeadersMsg is a peer's response to GetHeadersMsg: an ordered, size-capped
// list of headers.
type HeadersMsg struct {
	Elements []Header
}

func (HeadersMsg) Kind() MessageKind { return KindHeaders }

// InvVectType distinguishes the kind of inventory item in a GetDataMsg/InvMsg.
type InvVectType int

const (
	InvTypeBlock InvVectType = iota
	InvTypeTx
)

// InvVect is one inventory item: a type tag plus the hash it announces.
type InvVect struct {
	Type InvVectType
	Hash chainhash.Hash
}

// GetDataMsg requests the full bodies for a batch of previously-announced
// or previously-synced block hashes.
type GetDataMsg struct {
	Inventory []InvVect
}

func (GetDataMsg) Kind() MessageKind { return KindGetData }

// InvMsg announces newly available blocks or transactions.
type InvMsg struct {
	Inventory []InvVect
}

func (InvMsg) Kind() MessageKind { return KindInv }

// BlockMsg carries one full block body, delivered in response to a
// GetDataMsg inventory request during the block-sync phase.
type BlockMsg struct {
	Header Header
	Body   []byte
}

func (BlockMsg) Kind() MessageKind { return KindBlock }
