package wire

import (
	gowire "github.com/bsv-blockchain/go-wire"
)

// ToGoWireGetHeaders adapts a GetHeadersMsg into the go-wire type a Channel
// implementation actually sends on the network, mirroring
// onheaders_handler.go's AddBlockLocatorHash/HashStop usage.
func ToGoWireGetHeaders(m GetHeadersMsg) *gowire.MsgGetHeaders {
	out := gowire.NewMsgGetHeaders()

	for i := range m.Locator {
		_ = out.AddBlockLocatorHash(&m.Locator[i])
	}

	out.HashStop = m.Stop

	return out
}

// FromGoWireHeaders adapts a received go-wire MsgHeaders into this
// package's HeadersMsg, extracting just the hash/prev-hash pair each
// element needs for merge().
func FromGoWireHeaders(m *gowire.MsgHeaders) HeadersMsg {
	elements := make([]Header, 0, len(m.Headers))

	for _, h := range m.Headers {
		elements = append(elements, NewHeader(h.BlockHash(), h.PrevBlock))
	}

	return HeadersMsg{Elements: elements}
}

// ToGoWireGetData adapts a GetDataMsg into its go-wire wire form, mirroring
// onHeaders' per-block wire.NewMsgGetData()/AddInvVect usage but batched.
func ToGoWireGetData(m GetDataMsg) *gowire.MsgGetData {
	out := gowire.NewMsgGetData()

	for _, inv := range m.Inventory {
		_ = out.AddInvVect(gowire.NewInvVect(toGoWireInvType(inv.Type), &inv.Hash))
	}

	return out
}

func toGoWireInvType(t InvVectType) gowire.InvType {
	if t == InvTypeTx {
		return gowire.InvTypeTx
	}

	return gowire.InvTypeBlock
}
