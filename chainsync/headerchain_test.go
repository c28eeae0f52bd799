package chainsync

import "testing"

func TestNewHeaderChainRejectsEmptySeed(t *testing.T) {
	if _, err := NewHeaderChain(100, nil); err == nil {
		t.Fatal("expected error constructing a chain with no seed hashes")
	}
}

func TestHeaderChainPushAndTip(t *testing.T) {
	chain, err := NewHeaderChain(100, []HeaderHash{hashByte(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if chain.FirstHeight() != 100 {
		t.Errorf("expected first height 100, got %d", chain.FirstHeight())
	}

	if chain.NextHeight() != 101 {
		t.Errorf("expected next height 101, got %d", chain.NextHeight())
	}

	chain.Push(hashByte(2))

	if chain.Len() != 2 {
		t.Errorf("expected length 2, got %d", chain.Len())
	}

	if chain.Tip() != hashByte(2) {
		t.Error("expected tip to be the most recently pushed hash")
	}

	if chain.NextHeight() != 102 {
		t.Errorf("expected next height 102, got %d", chain.NextHeight())
	}
}

func TestHeaderChainAt(t *testing.T) {
	chain, err := NewHeaderChain(100, []HeaderHash{hashByte(1), hashByte(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, ok := chain.At(101)
	if !ok || h != hashByte(2) {
		t.Errorf("expected hash at height 101 to be the second seed hash")
	}

	if _, ok := chain.At(99); ok {
		t.Error("expected height below first height to be absent")
	}

	if _, ok := chain.At(200); ok {
		t.Error("expected height past the tip to be absent")
	}
}

func TestHeaderChainTipPanicsWhenEmpty(t *testing.T) {
	chain := &HeaderChain{firstHeight: 0}

	defer func() {
		if recover() == nil {
			t.Fatal("expected Tip to panic on an empty chain")
		}
	}()

	chain.Tip()
}

func TestHeaderChainRollbackToCheckpoint(t *testing.T) {
	checkpoints, err := NewCheckpointSet([]Checkpoint{
		{Height: 101, Hash: hashByte(2)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chain, err := NewHeaderChain(100, []HeaderHash{hashByte(1), hashByte(2), hashByte(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chain.Rollback(checkpoints)

	if chain.Len() != 2 {
		t.Fatalf("expected rollback to truncate after the checkpoint hash, got length %d", chain.Len())
	}

	if chain.Tip() != hashByte(2) {
		t.Error("expected tip to be the checkpoint hash after rollback")
	}
}

func TestHeaderChainRollbackToSeedWhenNoCheckpointMatches(t *testing.T) {
	checkpoints, err := NewCheckpointSet([]Checkpoint{
		{Height: 999, Hash: hashByte(9)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chain, err := NewHeaderChain(100, []HeaderHash{hashByte(1), hashByte(2), hashByte(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chain.Rollback(checkpoints)

	if chain.Len() != 1 {
		t.Fatalf("expected rollback to truncate to the seed element, got length %d", chain.Len())
	}

	if chain.Tip() != hashByte(1) {
		t.Error("expected tip to be the original seed hash after rollback")
	}
}

func TestSyncTarget(t *testing.T) {
	checkpoints, err := NewCheckpointSet([]Checkpoint{
		{Height: 500, Hash: hashByte(5)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := syncTarget(100, 3, checkpoints); got != 500 {
		t.Errorf("expected checkpoint to dominate target, got %d", got)
	}

	if got := syncTarget(490, 20, checkpoints); got != 509 {
		t.Errorf("expected seed length to dominate target, got %d", got)
	}

	if got := syncTarget(100, 3, nil); got != 102 {
		t.Errorf("expected target with no checkpoints to equal last seed height, got %d", got)
	}
}
