package settings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()

	require.Equal(t, "ibdsync", s.ClientName)
	require.Equal(t, "data", s.DataFolder)
	require.Equal(t, "mainnet", s.Sync.Network)
	require.Equal(t, uint32(3), s.Sync.Quorum)
	require.NotEmpty(t, s.Sync.Checkpoints, "mainnet params carry a checkpoint list by default")
}

func TestCheckpointsFromConfigEmptyWithNoOverride(t *testing.T) {
	require.Nil(t, checkpointsFromConfig())
}

func TestSeedPeersFromConfigEmptyWithNoOverride(t *testing.T) {
	require.Nil(t, seedPeersFromConfig())
}
