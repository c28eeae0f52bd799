package chainsync

import "fmt"

// HeaderChain is the shared, mutable, append-only (except for rollback)
// ordered sequence of header hashes, anchored at FirstHeight. It is owned by
// the session and lent to the currently-attached HeaderSyncProtocol for the
// duration of one peer connection; only one protocol instance mutates it at
// a time.
type HeaderChain struct {
	firstHeight uint64
	hashes      []HeaderHash
}

// NewHeaderChain seeds a chain with the resume anchor hashes. hashes must
// contain at least one element — the chain is never allowed to become empty.
func NewHeaderChain(firstHeight uint64, hashes []HeaderHash) (*HeaderChain, error) {
	if len(hashes) == 0 {
		return nil, fmt.Errorf("chainsync: header chain requires at least one seed hash")
	}

	seeded := make([]HeaderHash, len(hashes))
	copy(seeded, hashes)

	return &HeaderChain{
		firstHeight: firstHeight,
		hashes:      seeded,
	}, nil
}

// FirstHeight returns the block height of the chain's first element.
func (c *HeaderChain) FirstHeight() uint64 {
	return c.firstHeight
}

// Len returns the number of hashes currently held.
func (c *HeaderChain) Len() int {
	return len(c.hashes)
}

// Tip returns the last element. Panics if the chain is empty, which should
// never happen given the construction and rollback invariants.
func (c *HeaderChain) Tip() HeaderHash {
	if len(c.hashes) == 0 {
		panic("chainsync: header chain tip called on empty chain")
	}

	return c.hashes[len(c.hashes)-1]
}

// NextHeight is the height that would be assigned to the next pushed hash.
func (c *HeaderChain) NextHeight() uint64 {
	return c.firstHeight + uint64(len(c.hashes))
}

// Push appends h as the new tip.
func (c *HeaderChain) Push(h HeaderHash) {
	c.hashes = append(c.hashes, h)
}

// At returns the hash at the given absolute height, and whether the chain
// currently covers that height.
func (c *HeaderChain) At(height uint64) (HeaderHash, bool) {
	if height < c.firstHeight {
		return HeaderHash{}, false
	}

	idx := height - c.firstHeight
	if idx >= uint64(len(c.hashes)) {
		return HeaderHash{}, false
	}

	return c.hashes[idx], true
}

// Rollback re-anchors the chain after a rejected merge. It scans
// checkpoints from highest to lowest height; for the first checkpoint whose
// hash occurs in the chain, it truncates everything strictly after that
// hash. If no checkpoint hash is present in the chain, it truncates to
// exactly the first element (the original resume anchor).
func (c *HeaderChain) Rollback(checkpoints *CheckpointSet) {
	found := false

	checkpoints.Descending(func(cp Checkpoint) bool {
		for i, h := range c.hashes {
			if h.IsEqual(&cp.Hash) {
				c.hashes = c.hashes[:i+1]
				found = true
				return false
			}
		}

		return true
	})

	if !found {
		c.hashes = c.hashes[:1]
	}
}
