// Package cli wires the benchmark driver to the command line.
package cli

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/CanNotCode2/COMP530-Lab5/pkg/engine"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/layout"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/output"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/stats"
)

// program flags defined as global variables for access across functions
var (
	device      string // device or file to test
	ioSize      int    // bytes per transfer
	strideSize  int    // gap between sequential transfers
	rangeBytes  int64  // extent offsets are drawn from
	writeTest   bool   // write instead of read
	randomTest  bool   // random instead of sequential offsets
	iterations  int    // independent passes per configuration
	outputFile  string // CSV output file
	engineKind  string // I/O backend
	buffered    bool   // disable O_DIRECT
	budgetBytes int64  // bytes transferred per pass
	debug       bool   // dump resolved configuration
)

// rng is seeded once per process and shared across passes, so repeated
// passes never replay identical offset sequences.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

var rootCmd = &cobra.Command{
	Use:          "benchmark",
	Short:        "Measure raw storage throughput under configurable access patterns.",
	Long: `benchmark performs timed, unbuffered I/O against a device or file and
reports per-iteration and aggregate throughput statistics. Throughput is
reported in MB/s where one MB is 2^20 bytes.

Concurrent invocations against the same target corrupt the measurements
and are unsupported.`,
	SilenceUsage: true,
	RunE:         runBenchmark,
}

// Execute runs the command tree. It is the only place the process exits
// from; the engine and driver propagate errors up instead of terminating.
func Execute() {
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		cmd.Usage()
		os.Exit(2)
	})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&device, "device", "d", "", "device or file to test (e.g. /dev/sda2)")
	rootCmd.Flags().IntVarP(&ioSize, "io-size", "s", 4096, "I/O size in bytes")
	rootCmd.Flags().IntVarP(&strideSize, "stride", "t", 0, "stride between sequential I/Os in bytes")
	rootCmd.Flags().Int64VarP(&rangeBytes, "range", "r", engine.DefaultBudget, "offset range in bytes")
	rootCmd.Flags().BoolVarP(&writeTest, "write", "w", false, "perform write test (default is read)")
	rootCmd.Flags().BoolVarP(&randomTest, "random", "R", false, "perform random I/Os (default is sequential)")
	rootCmd.Flags().IntVarP(&iterations, "iterations", "n", 5, "number of iterations")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output CSV file")
	rootCmd.Flags().StringVar(&engineKind, "engine", "sync", "I/O engine: 'sync' or 'uring'")
	rootCmd.Flags().BoolVar(&buffered, "buffered", false, "use the page cache instead of O_DIRECT")
	rootCmd.Flags().Int64Var(&budgetBytes, "budget", engine.DefaultBudget, "bytes transferred per pass")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "dump the resolved configuration")

	rootCmd.MarkFlagRequired("device")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	if iterations < 1 {
		return &engine.ConfigError{Field: "iterations", Reason: fmt.Sprintf("%d is less than 1", iterations)}
	}

	params := engine.Params{
		Target:  device,
		IOSize:  ioSize,
		Stride:  strideSize,
		Range:   rangeBytes,
		Write:   writeTest,
		Rand:    randomTest,
		Budget:  budgetBytes,
		Direct:  !buffered,
		Backend: engineKind,
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if debug {
		spew.Dump(params)
	}

	eng, err := engine.New(engineKind)
	if err != nil {
		return err
	}

	// Read passes need real data inside the range; write passes only need
	// the space reserved. Provisioning happens before any timing starts.
	if err := layout.Ensure(device, rangeBytes, !writeTest); err != nil {
		return err
	}

	var w *output.CSVWriter
	if outputFile != "" {
		w, err = output.NewCSVWriter(outputFile)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	output.PrintConfig(device, ioSize, strideSize, rangeBytes, params.Op(), randomTest, iterations, eng.Name())

	var st stats.Running
	for i := 1; i <= iterations; i++ {
		res, err := eng.Run(params, rng)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}

		mbps := res.ThroughputMBps()
		if err := st.Update(mbps); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		output.PrintIteration(i, mbps, res.MeanLatency, res.P99Latency)

		if w != nil {
			mean, _ := st.Mean()
			sd, _ := st.Stddev()
			ci, _ := st.CI95()
			v, _ := st.Variance()
			row := output.Row{
				Operation:  params.Op(),
				IOSize:     ioSize,
				Stride:     strideSize,
				Random:     randomTest,
				Iteration:  i,
				Throughput: mbps,
				Mean:       mean,
				Stddev:     sd,
				CI95:       ci,
				Variance:   v,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	output.PrintSummary(&st)
	return nil
}
