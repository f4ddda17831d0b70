package main

import (
	"errors"
	"testing"

	"github.com/zkmips/zkmips/pkg/zkmips"
)

func TestExitCodeForMapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{zkmips.WrapError(zkmips.ErrInvalidExecution, "bad opcode", nil), 2},
		{zkmips.WrapError(zkmips.ErrProofInvalid, "bad proof", nil), 1},
		{zkmips.WrapError(zkmips.ErrShardBoundaryMismatch, "boundary", nil), 1},
		{zkmips.WrapError(zkmips.ErrMemoryConsistencyFailure, "memory", nil), 1},
		{zkmips.WrapError(zkmips.ErrDeferredObligationUnfulfilled, "deferred", nil), 1},
		{zkmips.WrapError(zkmips.ErrSetupArtifactCorrupted, "corrupt", nil), 3},
		{errors.New("flag parse failure"), 3},
	}
	for _, c := range cases {
		if got := exitCodeFor(c.err); got != c.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
