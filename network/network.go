// Package network defines the capability contract the sync engine consumes
// from the peer-to-peer transport layer. Connection establishment, framing,
// handshake, and address-book gossip themselves are out of scope (spec.md
// §1) — this package only names the interfaces chainsync programs against,
// plus an in-memory test double used to script scenarios without sockets.
package network

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlmikael/libbitcoin-node/chainsync/wire"
)

// NewChannelID mints a fresh channel/session correlation identifier for a
// newly-established Channel, the value HeaderSyncProtocol and
// BlockSyncProtocol pass to ulogger.Logger.New so every log line from one
// peer's sync round can be grepped out from the others.
func NewChannelID() string {
	return uuid.NewString()
}

// Authority identifies a peer endpoint, the way libbitcoin's
// config::authority identifies a host:port pair.
type Authority struct {
	Host string
	Port uint16
}

func (a Authority) String() string {
	if a.Port == 0 {
		return a.Host
	}

	return a.Host + ":" + itoa(int(a.Port))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// ParseAuthorities parses an operator-supplied "host:port,host:port" seed
// peer list, the same comma-separated multi-value convention
// chainsync.ParseCheckpoints uses for "height:hash" entries. A port-less
// entry is accepted and left at port 0 — MemoryAddressBook only needs a
// dialable host, the connector decides the default port.
func ParseAuthorities(raw []string) ([]Authority, error) {
	out := make([]Authority, 0, len(raw))

	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		host, portStr, found := strings.Cut(entry, ":")
		if !found {
			out = append(out, Authority{Host: host})
			continue
		}

		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("network: malformed seed peer port in %q: %w", entry, err)
		}

		out = append(out, Authority{Host: host, Port: uint16(port)})
	}

	return out, nil
}

// Network is the address-book capability BlockSyncSession draws candidate
// peers from, and the factory for connectors. Grounded on
// services/legacy/peer_manager.go's fetch-and-connect loop.
type Network interface {
	FetchAddress(ctx context.Context) (Authority, error)
	Connector() Connector
}

// Connector opens a Channel to a given peer address.
type Connector interface {
	Connect(ctx context.Context, addr Authority) (Channel, error)
}

// Channel is an established, full-duplex connection to one peer, capability
// enough for HeaderSyncProtocol to drive a header-sync round: send/receive
// wire messages, know the peer's advertised height, and own a periodic
// timer bound to the channel's serialization strand.
type Channel interface {
	ID() string
	Authority() Authority
	PeerStartHeight() uint64
	Send(ctx context.Context, msg wire.Message) error
	Subscribe(kind wire.MessageKind, handler func(wire.Message, error)) (unsubscribe func())
	Timer() Timer
	Stop(reason error)
}

// Timer is the periodic-tick capability (spec.md C5 RateTimer's transport
// binding): one call to Start arms one tick that invokes handler with nil on
// a legitimate timeout, or with a non-nil error on cancellation/stop. The
// caller re-arms by calling Start again.
type Timer interface {
	Start(period time.Duration, handler func(error))
	Stop()
}
