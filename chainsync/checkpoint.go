package chainsync

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-chaincfg"
)

// HeaderHash is the 32-byte identifier of a block header. Comparisons go
// through chainhash.Hash's fixed-size array equality, never a byte slice.
type HeaderHash = chainhash.Hash

// Checkpoint is a hard-coded (height, hash) anchor used to reject header
// chains that diverge from well-known history.
type Checkpoint struct {
	Height uint64
	Hash   HeaderHash
}

// CheckpointSet is the ascending-by-height ordering of a finite set of
// checkpoints. Duplicate heights are rejected at construction, matching the
// "fail-fast" resolution of the source's unspecified duplicate-height
// behaviour.
type CheckpointSet struct {
	byHeightAsc []Checkpoint
}

// NewCheckpointSet sorts checkpoints ascending by height and rejects
// duplicate heights.
func NewCheckpointSet(checkpoints []Checkpoint) (*CheckpointSet, error) {
	sorted := make([]Checkpoint, len(checkpoints))
	copy(sorted, checkpoints)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Height < sorted[j].Height
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Height == sorted[i-1].Height {
			return nil, fmt.Errorf("chainsync: duplicate checkpoint height %d", sorted[i].Height)
		}
	}

	return &CheckpointSet{byHeightAsc: sorted}, nil
}

// Validate is the checkpoint match predicate applied to every merged header:
// true iff no checkpoint exists at height, or the checkpoint at height
// matches hash exactly.
func (c *CheckpointSet) Validate(hash HeaderHash, height uint64) bool {
	if c == nil {
		return true
	}

	for _, cp := range c.byHeightAsc {
		if cp.Height == height {
			return cp.Hash.IsEqual(&hash)
		}
	}

	return true
}

// BackHeight returns the maximum checkpoint height, used for sync-target
// computation. ok is false for an empty set.
func (c *CheckpointSet) BackHeight() (height uint64, ok bool) {
	if c == nil || len(c.byHeightAsc) == 0 {
		return 0, false
	}

	last := c.byHeightAsc[len(c.byHeightAsc)-1]
	return last.Height, true
}

// Descending calls fn for each checkpoint from highest height to lowest,
// stopping early if fn returns false. This is the iteration order rollback
// needs: the first checkpoint hash found in the chain, scanning from the
// newest checkpoint backwards, is the correct re-anchor point.
func (c *CheckpointSet) Descending(fn func(Checkpoint) bool) {
	if c == nil {
		return
	}

	for i := len(c.byHeightAsc) - 1; i >= 0; i-- {
		if !fn(c.byHeightAsc[i]) {
			return
		}
	}
}

// Len reports the number of checkpoints in the set.
func (c *CheckpointSet) Len() int {
	if c == nil {
		return 0
	}

	return len(c.byHeightAsc)
}

// CheckpointsFromParams adapts a chaincfg.Params checkpoint list (as carried
// by github.com/bsv-blockchain/go-chaincfg for each named network) into this
// package's Checkpoint type.
func CheckpointsFromParams(params *chaincfg.Params) []Checkpoint {
	if params == nil {
		return nil
	}

	out := make([]Checkpoint, 0, len(params.Checkpoints))
	for _, cp := range params.Checkpoints {
		if cp.Hash == nil {
			continue
		}

		out = append(out, Checkpoint{
			Height: uint64(cp.Height),
			Hash:   *cp.Hash,
		})
	}

	return out
}

// ParseCheckpoints parses the "height:hash" operator-override format used by
// settings.NewSettings for a checkpoint list read from configuration.
func ParseCheckpoints(raw []string) ([]Checkpoint, error) {
	out := make([]Checkpoint, 0, len(raw))

	for _, entry := range raw {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("chainsync: malformed checkpoint %q, want height:hash", entry)
		}

		height, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chainsync: malformed checkpoint height in %q: %w", entry, err)
		}

		hash, err := chainhash.NewHashFromStr(parts[1])
		if err != nil {
			return nil, fmt.Errorf("chainsync: malformed checkpoint hash in %q: %w", entry, err)
		}

		out = append(out, Checkpoint{Height: height, Hash: *hash})
	}

	return out, nil
}
