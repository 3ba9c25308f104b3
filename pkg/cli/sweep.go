package cli

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/CanNotCode2/COMP530-Lab5/pkg/config"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/engine"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/sweep"
)

var planFile string

var sweepCmd = &cobra.Command{
	Use:          "sweep",
	Short:        "Run a YAML plan of benchmark grids.",
	Long: `sweep expands a YAML plan into a grid of configurations (every I/O size
crossed with every stride, per job) and runs each for the configured number
of iterations, appending one CSV row per iteration.`,
	SilenceUsage: true,
	RunE:         runSweep,
}

func init() {
	sweepCmd.Flags().StringVarP(&planFile, "plan", "f", "", "path to the YAML sweep plan")
	sweepCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	plan, err := config.Load(planFile)
	if err != nil {
		return err
	}
	if debug {
		spew.Dump(plan)
	}

	eng, err := engine.New(plan.Engine)
	if err != nil {
		return err
	}
	return sweep.New(eng, plan, rng).Run()
}
