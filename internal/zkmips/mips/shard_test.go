package mips

import "testing"

func TestShardTrackerOverflow(t *testing.T) {
	tr := NewShardTracker(ShardShape{"cpu": 4})
	if tr.WouldOverflow("cpu", 4) {
		t.Error("adding exactly to the ceiling should not overflow")
	}
	tr.Add("cpu", 4)
	if !tr.WouldOverflow("cpu", 1) {
		t.Error("one more row past the ceiling should overflow")
	}
}

func TestShardTrackerUnshapedChipNeverOverflows(t *testing.T) {
	tr := NewShardTracker(ShardShape{"cpu": 4})
	if tr.WouldOverflow("unshaped", 1<<20) {
		t.Error("a chip with no configured ceiling should never overflow")
	}
}

func TestShardTrackerReset(t *testing.T) {
	tr := NewShardTracker(ShardShape{"cpu": 1})
	tr.Add("cpu", 1)
	tr.Reset()
	if tr.WouldOverflow("cpu", 1) {
		t.Error("Reset should clear accumulated counts")
	}
}
