package chainsync

// syncTarget computes target_height = max(back checkpoint height,
// first_height + len(seed hashes) - 1), fixed once at protocol construction.
func syncTarget(firstHeight uint64, seedLen int, checkpoints *CheckpointSet) uint64 {
	currentBlock := firstHeight + uint64(seedLen) - 1

	back, ok := checkpoints.BackHeight()
	if !ok || back < currentBlock {
		return currentBlock
	}

	return back
}
