package settings

import (
	"github.com/mlmikael/libbitcoin-node/chainsync"
	"github.com/mlmikael/libbitcoin-node/network"
)

// SyncSettings is the configuration surface the sync engine reads from at
// startup. Every field has a gocore-backed default (mainnet, its baked-in
// checkpoints, quorum 3); SeedPeers defaults to empty, and cmd/ibdsync
// refuses to start until node_seed_peers or -peers supplies at least one.
type SyncSettings struct {
	Checkpoints      []chainsync.Checkpoint
	SeedPeers        []network.Authority
	Quorum           uint32
	HeadersPerSecond uint32
	BlocksPerMinute  uint32
	Network          string
}

// Settings is the root configuration object. It carries only the sync
// engine's own surface; the teacher's Policy/BlockAssembly/UtxoStore/Kafka
// blocks belong to microservices this module does not run.
type Settings struct {
	ClientName string
	DataFolder string
	Sync       SyncSettings
}
