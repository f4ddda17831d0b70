package recursion

import "fmt"

// ErrShardBoundaryMismatch mirrors spec §7's kind of the same name: two
// adjacent shards' (or reduce proofs') terminal/initial summaries
// disagree. Kept local rather than importing pkg/zkmips, matching the
// pattern mips/errors.go and the other internal packages already use;
// the host-API boundary wraps this into the closed *zkmips.Error kind.
var ErrShardBoundaryMismatch = fmt.Errorf("recursion: shard boundary mismatch")

// ErrMemoryConsistencyFailure mirrors spec §7: the multiset-hash
// accumulator chained across every absorbed shard is nonzero at the
// point the final reduce proof is produced.
var ErrMemoryConsistencyFailure = fmt.Errorf("recursion: memory consistency failure")

// ErrDeferredObligationUnfulfilled mirrors spec §7: a verify-zkm-proof
// syscall's nested receipt was not supplied, or failed its own
// verification, by the time the deferred recursion program runs.
var ErrDeferredObligationUnfulfilled = fmt.Errorf("recursion: deferred obligation unfulfilled")

// ErrProgramDigestMismatch signals that two reduce proofs being combined
// don't share the same program image, which would make "shard i+1" talk
// about a different program than "shard i".
var ErrProgramDigestMismatch = fmt.Errorf("recursion: program digest mismatch across reduce proofs")
