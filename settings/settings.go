package settings

import (
	"github.com/mlmikael/libbitcoin-node/chainsync"
	"github.com/mlmikael/libbitcoin-node/network"
)

// NewSettings builds the sync engine's configuration from gocore.Config(),
// falling back to the checkpoint set baked into the named network's chain
// parameters when no explicit checkpoints are configured.
func NewSettings() *Settings {
	networkName := getString("network", "mainnet")

	checkpoints := checkpointsFromConfig()
	if len(checkpoints) == 0 {
		if params, err := network.ParamsFromName(networkName); err == nil {
			checkpoints = chainsync.CheckpointsFromParams(params)
		}
	}

	return &Settings{
		ClientName: getString("clientName", "ibdsync"),
		DataFolder: getString("dataFolder", "data"),
		Sync: SyncSettings{
			Checkpoints:      checkpoints,
			SeedPeers:        seedPeersFromConfig(),
			Quorum:           uint32(getInt("node_quorum", 3)),
			HeadersPerSecond: uint32(getInt("node_headers_per_second", 0)),
			BlocksPerMinute:  uint32(getInt("node_blocks_per_minute", 0)),
			Network:          networkName,
		},
	}
}

// seedPeersFromConfig parses an operator-supplied "host:port,host:port"
// seed peer list, the same comma-separated multi-value convention
// checkpointsFromConfig uses. A malformed entry makes the whole list be
// discarded silently (nil) rather than failing startup — the CLI's -peers
// flag is the supported way to guarantee a usable address book.
func seedPeersFromConfig() []network.Authority {
	raw := getMultiString("node_seed_peers", "")
	if len(raw) == 0 {
		return nil
	}

	peers, err := network.ParseAuthorities(raw)
	if err != nil {
		return nil
	}

	return peers
}

// checkpointsFromConfig parses an operator-supplied "height:hash,height:hash"
// checkpoint override, the same comma-separated multi-value convention the
// teacher uses for every other list-shaped setting (see getMultiString).
func checkpointsFromConfig() []chainsync.Checkpoint {
	raw := getMultiString("node_checkpoints", "")
	if len(raw) == 0 {
		return nil
	}

	checkpoints, err := chainsync.ParseCheckpoints(raw)
	if err != nil {
		return nil
	}

	return checkpoints
}
