package main

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zkmips/zkmips/pkg/zkmips"
)

var (
	proveELFPath   string
	proveKeyDir    string
	proveN         uint32
	proveInputFile string
	proveOut       string
	proveCore      bool
	proveCompress  bool
	provePlonk     bool
	proveGroth16   bool
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Execute and prove a program, writing a receipt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := selectedMode()
		if err != nil {
			return zkmips.WrapError(zkmips.ErrInternalError, "selecting proof mode", err)
		}

		image, err := readProgramImage(proveELFPath)
		if err != nil {
			return err
		}
		nSet := cmd.Flags().Changed("n")
		input, err := buildInputStream(proveN, nSet, proveInputFile)
		if err != nil {
			return err
		}

		pk, _, _, err := zkmips.Load(proveKeyDir, image)
		if err != nil {
			return err
		}

		var receipt *zkmips.Receipt
		err = withSpinner("prove:"+string(mode), func() error {
			r, proveErr := zkmips.Prove(pk, input, mode)
			receipt = r
			return proveErr
		})
		if err != nil {
			return err
		}
		log.Info().Str("mode", string(mode)).Msg("proof complete")

		switch mode {
		case zkmips.ModePlonk, zkmips.ModeGroth16:
			encoded, err := zkmips.EncodeWrappedReceipt(receipt)
			if err != nil {
				return zkmips.WrapError(zkmips.ErrInternalError, "encoding wrapped receipt", err)
			}
			return os.WriteFile(proveOut, encoded, 0o644)
		default:
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(receipt); err != nil {
				return zkmips.WrapError(zkmips.ErrInternalError, "encoding receipt", err)
			}
			return os.WriteFile(proveOut, buf.Bytes(), 0o644)
		}
	},
}

func selectedMode() (zkmips.Mode, error) {
	set := 0
	if proveCore {
		set++
	}
	if proveCompress {
		set++
	}
	if provePlonk {
		set++
	}
	if proveGroth16 {
		set++
	}
	if set > 1 {
		return "", fmt.Errorf("at most one of --core/--compressed/--plonk/--groth16 may be set")
	}
	switch {
	case proveCompress:
		return zkmips.ModeCompressed, nil
	case provePlonk:
		return zkmips.ModePlonk, nil
	case proveGroth16:
		return zkmips.ModeGroth16, nil
	default:
		return zkmips.ModeCore, nil
	}
}

func init() {
	proveCmd.Flags().StringVar(&proveELFPath, "elf", "", "path to the guest program's ELF image")
	proveCmd.Flags().StringVar(&proveKeyDir, "key-dir", "", "directory written by a prior vkey run")
	proveCmd.Flags().Uint32Var(&proveN, "n", 0, "packs a little-endian u32 input (e.g. a Fibonacci index)")
	proveCmd.Flags().StringVar(&proveInputFile, "input-file", "", "raw input_stream bytes, read verbatim")
	proveCmd.Flags().StringVar(&proveOut, "out", "", "file to write the resulting receipt to")
	proveCmd.Flags().BoolVar(&proveCore, "core", false, "produce a core receipt (per-shard STARK proofs, the default)")
	proveCmd.Flags().BoolVar(&proveCompress, "compressed", false, "produce a compressed receipt (a single recursively-reduced STARK proof)")
	proveCmd.Flags().BoolVar(&provePlonk, "plonk", false, "produce a wrapped receipt using the Plonk backend")
	proveCmd.Flags().BoolVar(&proveGroth16, "groth16", false, "produce a wrapped receipt using the Groth16 backend")
	proveCmd.MarkFlagRequired("elf")
	proveCmd.MarkFlagRequired("key-dir")
	proveCmd.MarkFlagRequired("out")
}
