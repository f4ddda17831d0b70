package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zkmips/zkmips/pkg/zkmips"
)

var (
	vkeyELFPath   string
	vkeyKeyDir    string
	vkeyBackend   string
	vkeyDigestOut string
)

var vkeyCmd = &cobra.Command{
	Use:   "vkey",
	Short: "Run setup for a program image and persist its proving/verifying key pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := readProgramImage(vkeyELFPath)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(vkeyBackend)
		if err != nil {
			return zkmips.WrapError(zkmips.ErrInternalError, "building config", err)
		}

		var digest []byte
		err = withSpinner("setup", func() error {
			pk, _, d, setupErr := zkmips.Setup(image, cfg)
			if setupErr != nil {
				return setupErr
			}
			digest = d.Bytes()
			return zkmips.Save(vkeyKeyDir, pk)
		})
		if err != nil {
			return err
		}

		log.Info().Str("key_dir", vkeyKeyDir).Msg("setup complete")
		if vkeyDigestOut != "" {
			if err := os.WriteFile(vkeyDigestOut, []byte(fmt.Sprintf("%x\n", digest)), 0o644); err != nil {
				return zkmips.WrapError(zkmips.ErrInternalError, "writing vk digest", err)
			}
		} else {
			fmt.Printf("%x\n", digest)
		}
		return nil
	},
}

func init() {
	vkeyCmd.Flags().StringVar(&vkeyELFPath, "elf", "", "path to the guest program's ELF image")
	vkeyCmd.Flags().StringVar(&vkeyKeyDir, "key-dir", "", "directory to persist the proving/verifying key pair into")
	vkeyCmd.Flags().StringVar(&vkeyBackend, "backend", "groth16", "snark wrap backend: groth16 or plonk")
	vkeyCmd.Flags().StringVar(&vkeyDigestOut, "out", "", "file to write the verifying-key digest (hex) to; defaults to stdout")
	vkeyCmd.MarkFlagRequired("elf")
	vkeyCmd.MarkFlagRequired("key-dir")
}
