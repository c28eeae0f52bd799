package network

import (
	"fmt"

	"github.com/bsv-blockchain/go-chaincfg"
)

// ParamsFromName resolves a network name from configuration
// ("mainnet"/"testnet"/"regtest"/"stn") to its chaincfg.Params, the way the
// teacher's chaincfg.GetChainParams does for its own vendored params table.
func ParamsFromName(name string) (*chaincfg.Params, error) {
	switch name {
	case "mainnet", "":
		return &chaincfg.MainNetParams, nil
	case "testnet":
		return &chaincfg.TestNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "stn":
		return &chaincfg.StnParams, nil
	default:
		return nil, fmt.Errorf("network: unknown network %q", name)
	}
}
