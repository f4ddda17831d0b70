package fri

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkmips/zkmips/internal/zkmips/core"
	"github.com/zkmips/zkmips/internal/zkmips/transcript"
)

// constantCodeword returns an n-point codeword taking the base-field
// value v at every point, the evaluation of a constant polynomial and the
// simplest codeword a correctly-folding FRI instance should accept.
func constantCodeword(n int, v core.Elem) []core.Ext4 {
	codeword := make([]core.Ext4, n)
	for i := range codeword {
		codeword[i] = core.NewExt4FromBase(v)
	}
	return codeword
}

func TestProveVerifyRoundTripOnConstantCodeword(t *testing.T) {
	codeword := constantCodeword(16, core.NewElemFromInt64(7))
	cfg := Config{NumQueries: 4}

	proverTr := transcript.New()
	proof, err := Prove(codeword, cfg, proverTr)
	require.NoError(t, err)
	require.Equal(t, 4, len(proof.Commitments))
	require.True(t, proof.FinalValue.Equal(core.NewExt4FromBase(core.NewElemFromInt64(7))))

	verifierTr := transcript.New()
	require.NoError(t, Verify(proof, 4, cfg, verifierTr))
}

func TestVerifyRejectsTamperedFinalValue(t *testing.T) {
	codeword := constantCodeword(8, core.NewElemFromInt64(3))
	cfg := Config{NumQueries: 2}

	tr := transcript.New()
	proof, err := Prove(codeword, cfg, tr)
	require.NoError(t, err)

	proof.FinalValue = proof.FinalValue.Add(core.NewExt4FromBase(core.One))

	verifierTr := transcript.New()
	err = Verify(proof, 3, cfg, verifierTr)
	require.Error(t, err)
}

func TestVerifyRejectsWrongQueryIndex(t *testing.T) {
	codeword := constantCodeword(8, core.NewElemFromInt64(5))
	cfg := Config{NumQueries: 2}

	tr := transcript.New()
	proof, err := Prove(codeword, cfg, tr)
	require.NoError(t, err)
	require.NotEmpty(t, proof.Queries)

	proof.Queries[0].Index++

	verifierTr := transcript.New()
	err = Verify(proof, 3, cfg, verifierTr)
	require.Error(t, err)
}

func TestProveRejectsNonPowerOfTwoCodeword(t *testing.T) {
	codeword := constantCodeword(6, core.One)
	_, err := Prove(codeword, Config{NumQueries: 1}, transcript.New())
	require.Error(t, err)
}
