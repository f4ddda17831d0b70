package zkmips

import "fmt"

// ErrorKind is the closed set of error kinds named in spec §7.
type ErrorKind int

const (
	// ErrUnknown is never returned by this package; it exists so the zero
	// value of ErrorKind is distinguishable from every real kind.
	ErrUnknown ErrorKind = iota

	// ErrInvalidExecution: undefined opcode, unknown syscall, unaligned
	// access requiring alignment, memory out of range, or exhausted cycle
	// budget without HALT.
	ErrInvalidExecution

	// ErrTraceConstraintViolation: the prover's own witness fails a
	// constraint it generated.
	ErrTraceConstraintViolation

	// ErrShardBoundaryMismatch: two adjacent shards' terminal/initial
	// summaries disagree.
	ErrShardBoundaryMismatch

	// ErrMemoryConsistencyFailure: multiset-hash accumulators are nonzero
	// at the end of global aggregation.
	ErrMemoryConsistencyFailure

	// ErrProofInvalid: Merkle path, FRI consistency, constraint opening,
	// or pairing check failed during verification.
	ErrProofInvalid

	// ErrVerifierSelectorMismatch: proof bytes prefix doesn't match the
	// verifier's expected VK hash prefix.
	ErrVerifierSelectorMismatch

	// ErrDeferredObligationUnfulfilled: a nested proof referenced by
	// verify-zkm-proof was not supplied or failed its own verification.
	ErrDeferredObligationUnfulfilled

	// ErrSetupArtifactCorrupted: proving/verifying key failed its
	// self-check digest.
	ErrSetupArtifactCorrupted

	// ErrInternalError: an invariant in a worker was violated (wrapped
	// panic).
	ErrInternalError
)

// String names the kind, used in error messages and CLI diagnostics.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidExecution:
		return "InvalidExecution"
	case ErrTraceConstraintViolation:
		return "TraceConstraintViolation"
	case ErrShardBoundaryMismatch:
		return "ShardBoundaryMismatch"
	case ErrMemoryConsistencyFailure:
		return "MemoryConsistencyFailure"
	case ErrProofInvalid:
		return "ProofInvalid"
	case ErrVerifierSelectorMismatch:
		return "VerifierSelectorMismatch"
	case ErrDeferredObligationUnfulfilled:
		return "DeferredObligationUnfulfilled"
	case ErrSetupArtifactCorrupted:
		return "SetupArtifactCorrupted"
	case ErrInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error is the package's single error type, following the teacher's
// VMError shape (Code + Message + wrapped Cause) so callers can use
// errors.Is/errors.As uniformly across every stage of the pipeline
// (spec §7 "Propagation policy").
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// NewError constructs an *Error with no wrapped cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError constructs an *Error wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("zkmips: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("zkmips: %s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Unwrap/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports kind-equality, so callers can write
// errors.Is(err, zkmips.NewError(zkmips.ErrProofInvalid, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
