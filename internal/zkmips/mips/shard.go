package mips

// ShardShape is the padded row ceiling for one chip name, the boundary
// that forces a shard cut once any chip's live-row count would exceed it
// on the next event (spec §4.1 "Sharding").
type ShardShape map[string]int

// ShardTracker counts live rows per chip within the shard currently being
// built and decides when a cut is required.
type ShardTracker struct {
	shape  ShardShape
	counts map[string]int
}

func NewShardTracker(shape ShardShape) *ShardTracker {
	return &ShardTracker{shape: shape, counts: make(map[string]int)}
}

// WouldOverflow reports whether adding n more rows to chip would exceed
// its configured ceiling.
func (t *ShardTracker) WouldOverflow(chip string, n int) bool {
	ceiling, ok := t.shape[chip]
	if !ok {
		return false
	}
	return t.counts[chip]+n > ceiling
}

func (t *ShardTracker) Add(chip string, n int) {
	t.counts[chip] += n
}

func (t *ShardTracker) Reset() {
	t.counts = make(map[string]int)
}

// Counts returns the current shard's live row count per chip, used to
// fold per-shard counts into a run-wide ExecutionReport.
func (t *ShardTracker) Counts() map[string]int {
	return t.counts
}
