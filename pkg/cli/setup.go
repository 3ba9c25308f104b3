package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CanNotCode2/COMP530-Lab5/pkg/engine"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/layout"
)

var (
	setupTarget string
	setupSize   int64
	setupSparse bool
)

var setupCmd = &cobra.Command{
	Use:          "setup",
	Short:        "Provision a benchmark target file ahead of time.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if setupSize <= 0 {
			return fmt.Errorf("invalid size: %d", setupSize)
		}
		if err := layout.Ensure(setupTarget, setupSize, !setupSparse); err != nil {
			return err
		}
		fmt.Printf("Provisioned %s (%d bytes)\n", setupTarget, setupSize)
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVarP(&setupTarget, "device", "d", "", "target file to provision")
	setupCmd.Flags().Int64VarP(&setupSize, "size", "s", engine.DefaultBudget, "target size in bytes")
	setupCmd.Flags().BoolVar(&setupSparse, "sparse", false, "reserve space only, do not write fill data")
	setupCmd.MarkFlagRequired("device")
	rootCmd.AddCommand(setupCmd)
}
