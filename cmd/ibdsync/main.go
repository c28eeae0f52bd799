package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/bsv-blockchain/go-chaincfg"

	"github.com/mlmikael/libbitcoin-node/chainsync"
	"github.com/mlmikael/libbitcoin-node/chainsync/wire"
	"github.com/mlmikael/libbitcoin-node/network"
	"github.com/mlmikael/libbitcoin-node/settings"
	"github.com/mlmikael/libbitcoin-node/ulogger"
)

// loggingBlockSink is the stand-in for spec.md §1's out-of-scope
// "blockchain database" collaborator: a real deployment swaps this for a
// store-backed BlockSink without chainsync changing at all.
type loggingBlockSink struct {
	logger ulogger.Logger
}

func (s *loggingBlockSink) StoreBlock(_ context.Context, height uint64, block wire.BlockMsg) error {
	s.logger.Infof("received block #%d %s", height, block.Header.Hash())
	return nil
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	peers := flag.String("peers", "", "comma-separated host:port seed peer list, overrides node_seed_peers")
	flag.Parse()

	logger := ulogger.New("ibdsync")
	if *debug {
		logger.SetLogLevel("debug")
	}

	tSettings := settings.NewSettings()

	seedPeers := tSettings.Sync.SeedPeers
	if *peers != "" {
		parsed, err := network.ParseAuthorities(strings.Split(*peers, ","))
		if err != nil {
			logger.Fatalf("failure parsing -peers: %v", err)
			os.Exit(1)
		}

		seedPeers = parsed
	}

	if len(seedPeers) == 0 {
		logger.Fatalf("no seed peers configured: set node_seed_peers or pass -peers")
		os.Exit(1)
	}

	params, err := network.ParamsFromName(tSettings.Sync.Network)
	if err != nil {
		logger.Fatalf("failure resolving network params: %v", err)
		os.Exit(1)
	}

	checkpoints, err := chainsync.NewCheckpointSet(tSettings.Sync.Checkpoints)
	if err != nil {
		logger.Fatalf("failure building checkpoint set: %v", err)
		os.Exit(1)
	}

	resumeHeight, resumeHash := resumePoint(params)

	chain, err := chainsync.NewHeaderChain(resumeHeight, []chainsync.HeaderHash{resumeHash})
	if err != nil {
		logger.Fatalf("failure seeding header chain: %v", err)
		os.Exit(1)
	}

	// Peer discovery and channel establishment are out of scope (spec.md
	// §1's "Network ... is assumed"); ibdsync drives the real chainsync
	// state machines against an in-memory address book until a transport
	// package is wired in. The connector is seeded with one cooperative
	// channel per configured seed peer so Connect actually succeeds and the
	// protocol reaches its get_headers round instead of failing on the
	// first FetchAddress call.
	connector := &network.FakeConnector{}
	for _, peer := range seedPeers {
		connector.Enqueue(network.NewFakeChannel("", peer, ^uint64(0)), nil)
	}

	book := network.NewMemoryAddressBook(connector, seedPeers...)

	ctx := context.Background()

	headerSession := chainsync.NewHeaderSyncSession(book, chain, checkpoints, resumeHeight,
		tSettings.Sync.HeadersPerSecond, tSettings.Sync.Quorum, logger.New("header-sync"))

	headerSession.Start(ctx, func(err error) {
		if err != nil {
			logger.Fatalf("header sync failed: %v", err)
			os.Exit(1)
		}

		logger.Infof("header sync reached target height %d", chain.FirstHeight()+uint64(chain.Len())-1)

		sink := &loggingBlockSink{logger: logger.New("block-sink")}

		blockSession := chainsync.NewBlockSyncSession(book, chain, sink, resumeHeight,
			tSettings.Sync.BlocksPerMinute, tSettings.Sync.Quorum, logger.New("block-sync"))

		blockSession.Start(ctx, func(err error) {
			if err != nil {
				logger.Fatalf("block sync failed: %v", err)
				os.Exit(1)
			}

			logger.Infof("block sync complete")
		})
	})
}

// resumePoint returns the restart anchor: the network's genesis hash at
// height 0, or the zero hash when the params carry no genesis hash. No
// configured resume point is read; every run starts from genesis.
func resumePoint(params *chaincfg.Params) (uint64, chainsync.HeaderHash) {
	if params.GenesisHash != nil {
		return 0, *params.GenesisHash
	}

	return 0, chainsync.HeaderHash{}
}
