// Command zkmips-prover is the host-side CLI driving the five
// setup/execute/prove/verify/verify_bytes operations pkg/zkmips exposes
// (spec §4.6, §6). Grounded on
// _examples/PolyhedraZK-Expander/recursion/main.go's cobra.Command
// shape (PersistentFlags, MarkFlagRequired, a Run callback, a root
// Execute()/os.Exit(1) main).
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zkmips/zkmips/pkg/zkmips"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:          "zkmips-prover",
	Short:        "Prove and verify MIPS32r2 program execution",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if v := os.Getenv("ZKMIPS_LOG"); v != "" {
			if parsed, err := zerolog.ParseLevel(v); err == nil {
				level = parsed
			}
		}
		if verbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level logging (overrides ZKMIPS_LOG)")
	rootCmd.AddCommand(executeCmd, proveCmd, verifyCmd, verifyBytesCmd, vkeyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err.Error())
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to the spec §6 process exit codes:
// 0 success, 1 verification failed, 2 execution failed, 3 misuse.
func exitCodeFor(err error) int {
	zerr, ok := err.(*zkmips.Error)
	if !ok {
		return 3
	}
	switch zerr.Kind {
	case zkmips.ErrInvalidExecution:
		return 2
	case zkmips.ErrProofInvalid, zkmips.ErrVerifierSelectorMismatch,
		zkmips.ErrTraceConstraintViolation, zkmips.ErrShardBoundaryMismatch,
		zkmips.ErrMemoryConsistencyFailure, zkmips.ErrDeferredObligationUnfulfilled:
		return 1
	default:
		return 3
	}
}
