package mips

// ExecutionReport is execute's no-proof output (spec §4.6 "execute
// (program_image, input_stream) -> (public_values, cycle_report)"),
// matching sp1_core_executor::ExecutionReport in spirit: total cycle
// count plus a per-chip row-count breakdown, useful for estimating
// proving cost before committing to a full prove call.
type ExecutionReport struct {
	TotalCycles uint64
	NumShards   uint64
	ChipRows    map[string]uint64
}

// Report summarizes a completed Run: total cycles, shard count, and the
// padded row ceiling each chip would need across every shard (the sum of
// ShardTracker's live counts at each shard cut, not yet rounded up to a
// power of two).
func (e *Executor) Report(shards []Shard) ExecutionReport {
	rows := make(map[string]uint64)
	for name, n := range e.chipRows {
		rows[name] = n
	}
	return ExecutionReport{
		TotalCycles: e.totalCycles,
		NumShards:   uint64(len(shards)),
		ChipRows:    rows,
	}
}
