package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/zkmips/zkmips/internal/zkmips/config"
	"github.com/zkmips/zkmips/pkg/zkmips"
)

// readProgramImage loads the ELF bytes a --elf flag names.
func readProgramImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zkmips.WrapError(zkmips.ErrInternalError, "reading program image", err)
	}
	return data, nil
}

// buildInputStream assembles the guest input_stream from the CLI's two
// input flags: --n packs a little-endian uint32 (spec §6's "--n <u32>"
// flag, e.g. a Fibonacci index), and --input-file supplies an arbitrary
// raw byte stream read verbatim. Exactly one of them is expected to be
// set for a given guest program; both empty yields an empty stream.
func buildInputStream(n uint32, nSet bool, inputFile string) ([]byte, error) {
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, zkmips.WrapError(zkmips.ErrInternalError, "reading input file", err)
		}
		return data, nil
	}
	if nSet {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, n)
		return buf, nil
	}
	return nil, nil
}

func loadConfig(backend string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch backend {
	case "", "groth16":
		cfg = cfg.WithBackend(config.BackendGroth16)
	case "plonk":
		cfg = cfg.WithBackend(config.BackendPlonk)
	default:
		return nil, fmt.Errorf("zkmips-prover: unknown backend %q", backend)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("zkmips-prover: %w", err)
	}
	return cfg, nil
}

// withSpinner runs fn to completion while driving an indeterminate
// progress bar, the CLI's stand-in for per-shard proving progress (spec
// §6 lists proving as the long-running operation worth reporting on).
// Grounded on _examples/YolaYing-eonark-gpu/funcs.go's
// progressbar.DefaultBytes(contentLength, label) wrapping an io.Copy;
// proving has no byte-count to report against, so this drives the
// indeterminate variant on a fixed tick instead.
func withSpinner(label string, fn func() error) error {
	bar := progressbar.Default(-1, label)
	defer bar.Close()

	done := make(chan error, 1)
	go func() { done <- fn() }()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			_ = bar.Finish()
			return err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
