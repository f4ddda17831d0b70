// Package transcript implements the Fiat-Shamir channel used to derive
// every verifier challenge in the STARK and recursion protocols (spec
// §4.3 "Fiat-Shamir"), following the shape of the teacher's
// utils.Channel (send/receive, running hash state) but driven by
// Poseidon2 over the base field rather than a byte-oriented hash, since
// the spec pins the transcript hash to Poseidon2.
package transcript

import (
	"encoding/binary"

	"github.com/zkmips/zkmips/internal/zkmips/core"
)

// Transcript is a sequential, non-forkable Fiat-Shamir channel. Per spec
// §5 ("Transcript state is strictly sequential within a single proof; no
// sharing"), a Transcript must not be shared across goroutines.
type Transcript struct {
	state [core.Poseidon2Width]core.Elem
	log   []string
}

// New returns a transcript seeded to the all-zero state.
func New() *Transcript {
	return &Transcript{}
}

// Absorb appends field elements into the transcript state and re-permutes,
// recording the step for debugging/reproducibility (mirrors the teacher's
// Channel.proof log).
func (t *Transcript) Absorb(label string, elems ...core.Elem) {
	for i, e := range elems {
		t.state[i%core.Poseidon2Width] = t.state[i%core.Poseidon2Width].Add(e)
	}
	core.Poseidon2Permute(&t.state)
	t.log = append(t.log, label)
}

// AbsorbDigest absorbs a Poseidon2 digest (e.g. a commitment root), used
// to feed the ordered sequence spec §4.3 specifies: "the program verifying
// key digest, the preprocessed-trace commitment, the main-trace
// commitment, the permutation-trace commitment, the quotient commitment,
// and the FRI commitments."
func (t *Transcript) AbsorbDigest(label string, d core.Digest) {
	t.Absorb(label, d[:]...)
}

// AbsorbBytes absorbs raw bytes by packing them 4-at-a-time into field
// elements (little-endian), used for ancillary byte-domain values such as
// the receipt selector.
func (t *Transcript) AbsorbBytes(label string, data []byte) {
	elems := make([]core.Elem, 0, (len(data)+3)/4)
	for i := 0; i < len(data); i += 4 {
		var buf [4]byte
		end := i + 4
		if end > len(data) {
			end = len(data)
		}
		copy(buf[:], data[i:end])
		elems = append(elems, core.NewElem(uint64(binary.LittleEndian.Uint32(buf[:]))))
	}
	t.Absorb(label, elems...)
}

// ChallengeBase squeezes one base-field challenge.
func (t *Transcript) ChallengeBase(label string) core.Elem {
	core.Poseidon2Permute(&t.state)
	t.log = append(t.log, "challenge:"+label)
	return t.state[0]
}

// ChallengeExt4 squeezes a degree-4 extension-field challenge, used for
// the LogUp challenges alpha and beta, the constraint-combination
// challenge gamma, the quotient weights, the FRI folding challenges and
// the opening point z
// (spec §4.3: "a random challenge z drawn from the degree-4 extension
// field").
func (t *Transcript) ChallengeExt4(label string) core.Ext4 {
	var out core.Ext4
	for i := range out {
		out[i] = t.ChallengeBase(label)
	}
	return out
}

// ChallengeIndex squeezes a query index in [0, bound), used to pick FRI
// query points (spec §4.3 "query repetitions").
func (t *Transcript) ChallengeIndex(label string, bound int) int {
	v := t.ChallengeBase(label)
	return int(uint32(v)) % bound
}

// Grind performs a proof-of-work grind against the current transcript
// state: it searches for a nonce such that absorbing it yields a
// challenge below a target threshold, the soundness-amplification step
// named in spec §4.3 ("a proof-of-work grind on the transcript").
func (t *Transcript) Grind(bits int) uint64 {
	if bits <= 0 {
		return 0
	}
	if bits > 30 {
		bits = 30
	}
	threshold := uint32(core.Modulus) >> uint(bits)
	nonce := uint64(0)
	for {
		trial := *t
		trial.Absorb("grind", core.NewElem(nonce))
		if trial.state[0].Uint32() < threshold {
			t.Absorb("grind", core.NewElem(nonce))
			return nonce
		}
		nonce++
	}
}

// Log returns the ordered list of absorb/challenge labels, for debugging
// and for reproducing a transcript trace in tests.
func (t *Transcript) Log() []string {
	return append([]string(nil), t.log...)
}
