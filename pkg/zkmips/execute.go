package zkmips

import (
	"github.com/zkmips/zkmips/internal/zkmips/config"
	"github.com/zkmips/zkmips/internal/zkmips/mips"
)

// Execute runs a program to completion without proving it, returning its
// committed public values and a cost report (spec §4.6 "execute
// (program_image, input_stream) -> (public_values, cycle_report)"),
// the cheap call a caller uses to estimate proving cost before
// committing to Prove.
func Execute(programImage, inputStream []byte, cfg *config.Config) ([]byte, mips.ExecutionReport, error) {
	prog, err := mips.LoadELF(programImage)
	if err != nil {
		return nil, mips.ExecutionReport{}, WrapError(ErrInvalidExecution, "loading program image", err)
	}

	exec := mips.NewExecutor(cfg, inputStream)
	shards, err := exec.Run(prog)
	if err != nil {
		return nil, mips.ExecutionReport{}, WrapError(ErrInvalidExecution, "running program", err)
	}

	return exec.PublicValues(), exec.Report(shards), nil
}
