package mips

import "fmt"

// ErrInvalidExecution covers every non-memory-specific failure mode spec
// §4.1 groups under InvalidExecution: unknown syscall number, nested
// unconstrained regions, an exhausted hint stream, a taken TEQ trap, or a
// deferred-proof count over Config.MaxDeferredProofs.
var ErrInvalidExecution = fmt.Errorf("mips: invalid execution")
