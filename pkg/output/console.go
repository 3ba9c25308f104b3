package output

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/CanNotCode2/COMP530-Lab5/pkg/stats"
)

var (
	headerColor  = color.New(color.Bold)
	resultColor  = color.New(color.FgGreen)
	summaryColor = color.New(color.FgGreen, color.Bold)
)

// PrintConfig echoes the resolved configuration before the first pass.
func PrintConfig(target string, ioSize, stride int, extent int64, op string, random bool, iterations int, engine string) {
	pattern := "Sequential"
	if random {
		pattern = "Random"
	}
	headerColor.Println("\nRunning benchmark with following configuration:")
	fmt.Printf("Device: %s\n", target)
	fmt.Printf("I/O Size: %d bytes\n", ioSize)
	fmt.Printf("Stride Size: %d bytes\n", stride)
	fmt.Printf("Range: %d bytes\n", extent)
	fmt.Printf("Operation: %s\n", op)
	fmt.Printf("Pattern: %s\n", pattern)
	fmt.Printf("Engine: %s\n", engine)
	fmt.Printf("Iterations: %d\n\n", iterations)
}

// PrintIteration reports one completed pass.
func PrintIteration(iteration int, mbps float64, meanLat, p99Lat time.Duration) {
	fmt.Printf("Iteration %d: ", iteration)
	resultColor.Printf("%.2f MB/s", mbps)
	fmt.Printf("  (lat mean %v, p99 %v)\n", meanLat, p99Lat)
}

// PrintSummary reports the aggregate statistics after the last pass.
func PrintSummary(s *stats.Running) {
	mean, err := s.Mean()
	if err != nil {
		return
	}
	sd, _ := s.Stddev()
	ci, _ := s.CI95()
	min, _ := s.Min()
	max, _ := s.Max()

	fmt.Println()
	summaryColor.Printf("Average throughput: %.2f MB/s", mean)
	fmt.Printf("  (stddev %.2f, 95%% CI ±%.2f, min %.2f, max %.2f)\n", sd, ci, min, max)
}
