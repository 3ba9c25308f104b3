// Package sweep runs a grid of benchmark configurations from a plan and
// accumulates their results into CSV files.
package sweep

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/CanNotCode2/COMP530-Lab5/pkg/config"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/engine"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/layout"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/output"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/progress"
	"github.com/CanNotCode2/COMP530-Lab5/pkg/stats"
)

type Runner struct {
	eng  engine.Engine
	plan *config.Plan
	rng  *rand.Rand
}

func New(eng engine.Engine, plan *config.Plan, rng *rand.Rand) *Runner {
	return &Runner{eng: eng, plan: plan, rng: rng}
}

// Run executes every configuration in the plan. One RunningStats
// accumulator and one CSV row per iteration per configuration; any engine
// error aborts the whole sweep, since partial results would not be
// comparable across configurations.
func (r *Runner) Run() error {
	if err := r.provision(); err != nil {
		return err
	}

	var total int64
	for _, j := range r.plan.Jobs {
		total += int64(len(j.IOSizes) * len(j.Strides) * j.Iterations)
	}

	bar := progress.NewBar(total)
	var summaries []string

	for _, job := range r.plan.Jobs {
		csvPath := job.Output
		if r.plan.OutputDir != "" {
			csvPath = filepath.Join(r.plan.OutputDir, job.Output)
		}
		w, err := output.NewCSVWriter(csvPath)
		if err != nil {
			bar.Finish()
			return fmt.Errorf("job %q: %w", job.Name, err)
		}

		for _, ioSize := range job.IOSizes {
			for _, stride := range job.Strides {
				summary, err := r.runConfig(job, ioSize, stride, w, bar)
				if err != nil {
					w.Close()
					bar.Finish()
					return fmt.Errorf("job %q io_size=%d stride=%d: %w", job.Name, ioSize, stride, err)
				}
				summaries = append(summaries, summary)
			}
		}
		if err := w.Close(); err != nil {
			bar.Finish()
			return fmt.Errorf("job %q: %w", job.Name, err)
		}
	}
	bar.Finish()

	for _, s := range summaries {
		fmt.Println(s)
	}
	return nil
}

func (r *Runner) runConfig(job config.Job, ioSize, stride int, w *output.CSVWriter, bar *progress.Bar) (string, error) {
	bar.SetCaption(fmt.Sprintf("%s io=%d stride=%d", job.Name, ioSize, stride))

	params := engine.Params{
		Target: r.plan.Target,
		IOSize: ioSize,
		Stride: stride,
		Range:  job.Range,
		Write:  job.Write(),
		Rand:   job.Random(),
		Budget: r.plan.Budget,
		Direct: !r.plan.Buffered,
	}
	if err := params.Validate(); err != nil {
		return "", err
	}

	var st stats.Running
	for i := 1; i <= job.Iterations; i++ {
		res, err := r.eng.Run(params, r.rng)
		if err != nil {
			return "", fmt.Errorf("iteration %d: %w", i, err)
		}
		sample := res.ThroughputMBps()
		if err := st.Update(sample); err != nil {
			return "", fmt.Errorf("iteration %d: %w", i, err)
		}

		mean, _ := st.Mean()
		sd, _ := st.Stddev()
		ci, _ := st.CI95()
		v, _ := st.Variance()
		row := output.Row{
			Operation:  params.Op(),
			IOSize:     ioSize,
			Stride:     stride,
			Random:     params.Rand,
			Iteration:  i,
			Throughput: sample,
			Mean:       mean,
			Stddev:     sd,
			CI95:       ci,
			Variance:   v,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
		bar.Increment()
	}

	mean, _ := st.Mean()
	ci, _ := st.CI95()
	return fmt.Sprintf("[%s] io_size=%d stride=%d -> %.2f MB/s (±%.2f)", job.Name, ioSize, stride, mean, ci), nil
}

// provision makes sure the target covers the largest range any job will
// address. Read jobs need real data on disk, not reserved holes.
func (r *Runner) provision() error {
	var size int64
	fill := false
	for _, j := range r.plan.Jobs {
		if j.Range > size {
			size = j.Range
		}
		if !j.Write() {
			fill = true
		}
	}
	if err := layout.Ensure(r.plan.Target, size, fill); err != nil {
		return fmt.Errorf("failed to provision %s: %w", r.plan.Target, err)
	}
	return nil
}
