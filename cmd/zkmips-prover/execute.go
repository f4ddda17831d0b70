package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zkmips/zkmips/pkg/zkmips"
	"github.com/zkmips/zkmips/internal/zkmips/config"
)

var (
	execELFPath      string
	execN            uint32
	execNSet         bool
	execInputFile    string
	execPublicValOut string
	execMaxCycles    uint64
)

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Run a program to completion without proving it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		execNSet = cmd.Flags().Changed("n")
		image, err := readProgramImage(execELFPath)
		if err != nil {
			return err
		}
		input, err := buildInputStream(execN, execNSet, execInputFile)
		if err != nil {
			return err
		}

		cfg := config.DefaultConfig()
		if execMaxCycles > 0 {
			cfg.MaxCycles = execMaxCycles
		}

		publicValues, report, err := zkmips.Execute(image, input, cfg)
		if err != nil {
			return err
		}

		log.Info().Uint64("total_cycles", report.TotalCycles).Uint64("shards", report.NumShards).Msg("execution complete")

		reportBytes, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return zkmips.WrapError(zkmips.ErrInternalError, "encoding cycle report", err)
		}
		fmt.Println(string(reportBytes))

		if execPublicValOut != "" {
			if err := os.WriteFile(execPublicValOut, publicValues, 0o644); err != nil {
				return zkmips.WrapError(zkmips.ErrInternalError, "writing public values", err)
			}
		}
		return nil
	},
}

func init() {
	executeCmd.Flags().StringVar(&execELFPath, "elf", "", "path to the guest program's ELF image")
	executeCmd.Flags().Uint32Var(&execN, "n", 0, "packs a little-endian u32 input (e.g. a Fibonacci index)")
	executeCmd.Flags().StringVar(&execInputFile, "input-file", "", "raw input_stream bytes, read verbatim")
	executeCmd.Flags().StringVar(&execPublicValOut, "public-values-out", "", "file to write the guest's committed public values to")
	executeCmd.Flags().Uint64Var(&execMaxCycles, "max-cycles", 0, "override the default cycle budget (0 keeps the default)")
	executeCmd.MarkFlagRequired("elf")
}
