package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zkmips/zkmips/pkg/zkmips"
	"github.com/zkmips/zkmips/internal/zkmips/core"
)

// parseDigestHex rebuilds a core.Digest from its Bytes() encoding (4
// little-endian bytes per limb), the inverse of Digest.Bytes, for the
// rare case a caller supplies --vk-digest from a value recorded
// outside the key-dir this run also has on hand.
func parseDigestHex(s string) (core.Digest, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return core.Digest{}, err
	}
	if len(raw) != core.DigestWidth*4 {
		return core.Digest{}, fmt.Errorf("zkmips-prover: digest must be %d bytes, got %d", core.DigestWidth*4, len(raw))
	}
	var d core.Digest
	for i := range d {
		d[i] = core.NewElem(uint64(binary.LittleEndian.Uint32(raw[i*4 : i*4+4])))
	}
	return d, nil
}

var (
	vbELFPath       string
	vbKeyDir        string
	vbProofFile     string
	vbPublicValFile string
	vbVKDigestHex   string
)

// verifyBytesCmd exercises verify_bytes (spec §4.6
// "verify_bytes(verifying_key_digest, public_values_bytes, proof_bytes)
// -> ok | ErrorKind"), the standalone entry point for a wrapped
// (Plonk/Groth16) receipt's tagged byte blob, independent of any
// gob-encoded Receipt value.
var verifyBytesCmd = &cobra.Command{
	Use:   "verify-bytes",
	Short: "Verify a wrapped (plonk/groth16) receipt's raw proof bytes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := readProgramImage(vbELFPath)
		if err != nil {
			return err
		}
		_, vk, vkDigest, err := zkmips.Load(vbKeyDir, image)
		if err != nil {
			return err
		}

		digest := vkDigest
		if vbVKDigestHex != "" {
			d, err := parseDigestHex(vbVKDigestHex)
			if err != nil {
				return zkmips.WrapError(zkmips.ErrInternalError, "parsing --vk-digest", err)
			}
			digest = d
		}

		proofBytes, err := os.ReadFile(vbProofFile)
		if err != nil {
			return zkmips.WrapError(zkmips.ErrInternalError, "reading proof bytes", err)
		}
		publicValues, err := os.ReadFile(vbPublicValFile)
		if err != nil {
			return zkmips.WrapError(zkmips.ErrInternalError, "reading public values", err)
		}

		if err := zkmips.VerifyBytes(vk, digest, publicValues, proofBytes); err != nil {
			return err
		}
		log.Info().Msg("wrapped receipt verified")
		return nil
	},
}

func init() {
	verifyBytesCmd.Flags().StringVar(&vbELFPath, "elf", "", "path to the guest program's ELF image")
	verifyBytesCmd.Flags().StringVar(&vbKeyDir, "key-dir", "", "directory written by a prior vkey run")
	verifyBytesCmd.Flags().StringVar(&vbProofFile, "proof", "", "raw wrapped receipt bytes (EncodeWrappedReceipt's output)")
	verifyBytesCmd.Flags().StringVar(&vbPublicValFile, "public-values", "", "the guest's committed public values bytes")
	verifyBytesCmd.Flags().StringVar(&vbVKDigestHex, "vk-digest", "", "hex verifying-key digest; defaults to the one in --key-dir")
	verifyBytesCmd.MarkFlagRequired("elf")
	verifyBytesCmd.MarkFlagRequired("key-dir")
	verifyBytesCmd.MarkFlagRequired("proof")
	verifyBytesCmd.MarkFlagRequired("public-values")
}
