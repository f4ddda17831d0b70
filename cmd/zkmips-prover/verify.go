package main

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zkmips/zkmips/pkg/zkmips"
)

var (
	verifyELFPath string
	verifyKeyDir  string
	verifyReceipt string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a receipt against a verifying key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := readProgramImage(verifyELFPath)
		if err != nil {
			return err
		}
		_, vk, _, err := zkmips.Load(verifyKeyDir, image)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(verifyReceipt)
		if err != nil {
			return zkmips.WrapError(zkmips.ErrInternalError, "reading receipt", err)
		}
		var receipt zkmips.Receipt
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&receipt); err != nil {
			return zkmips.WrapError(zkmips.ErrProofInvalid, "decoding receipt", err)
		}

		if err := zkmips.Verify(vk, &receipt); err != nil {
			return err
		}
		log.Info().Str("mode", string(receipt.Mode)).Msg("receipt verified")
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyELFPath, "elf", "", "path to the guest program's ELF image")
	verifyCmd.Flags().StringVar(&verifyKeyDir, "key-dir", "", "directory written by a prior vkey run")
	verifyCmd.Flags().StringVar(&verifyReceipt, "receipt", "", "gob-encoded core or compressed receipt to verify")
	verifyCmd.MarkFlagRequired("elf")
	verifyCmd.MarkFlagRequired("key-dir")
	verifyCmd.MarkFlagRequired("receipt")
}
