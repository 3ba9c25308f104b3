// Package config loads YAML sweep plans.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CanNotCode2/COMP530-Lab5/pkg/engine"
)

// Plan is the top-level configuration for a sweep run: shared settings
// plus a list of jobs, each expanding into a grid of configurations.
type Plan struct {
	Target     string `yaml:"target"`
	Range      int64  `yaml:"range"`      // default 1 GiB
	Budget     int64  `yaml:"budget"`     // bytes per pass, default 1 GiB
	Iterations int    `yaml:"iterations"` // default 5
	Engine     string `yaml:"engine"`     // "sync" or "uring"
	Buffered   bool   `yaml:"buffered"`   // disable O_DIRECT (test environments)
	OutputDir  string `yaml:"output_dir"`
	Jobs       []Job  `yaml:"jobs"`
}

// Job describes one grid: every io_size is crossed with every stride.
type Job struct {
	Name      string `yaml:"name"`
	Operation string `yaml:"operation"` // "read" or "write"
	Pattern   string `yaml:"pattern"`   // "sequential" or "random"
	IOSizes   []int  `yaml:"io_sizes"`
	Strides   []int  `yaml:"strides,omitempty"`
	Output    string `yaml:"output,omitempty"` // CSV file, default <name>.csv

	// Per-job overrides; 0 inherits the plan value.
	Range      int64 `yaml:"range,omitempty"`
	Iterations int   `yaml:"iterations,omitempty"`
}

func (j *Job) Write() bool  { return j.Operation == "write" }
func (j *Job) Random() bool { return j.Pattern == "random" }

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}

	// Set defaults
	if plan.Range == 0 {
		plan.Range = engine.DefaultBudget
	}
	if plan.Iterations == 0 {
		plan.Iterations = 5
	}
	if plan.Engine == "" {
		plan.Engine = "sync"
	}

	if plan.Target == "" {
		return nil, fmt.Errorf("plan has no target")
	}
	if len(plan.Jobs) == 0 {
		return nil, fmt.Errorf("plan has no jobs")
	}

	for i := range plan.Jobs {
		j := &plan.Jobs[i]
		if j.Name == "" {
			return nil, fmt.Errorf("job %d has no name", i)
		}
		switch j.Operation {
		case "read", "write":
		default:
			return nil, fmt.Errorf("job %q: unknown operation %q", j.Name, j.Operation)
		}
		switch j.Pattern {
		case "sequential", "random":
		default:
			return nil, fmt.Errorf("job %q: unknown pattern %q", j.Name, j.Pattern)
		}
		if len(j.IOSizes) == 0 {
			return nil, fmt.Errorf("job %q: no io_sizes", j.Name)
		}
		if len(j.Strides) == 0 {
			j.Strides = []int{0}
		}
		if j.Random() && (len(j.Strides) > 1 || j.Strides[0] != 0) {
			return nil, fmt.Errorf("job %q: strides are meaningless for random I/O", j.Name)
		}
		if j.Output == "" {
			j.Output = j.Name + ".csv"
		}
		if j.Range == 0 {
			j.Range = plan.Range
		}
		if j.Iterations == 0 {
			j.Iterations = plan.Iterations
		}
		if j.Iterations < 1 {
			return nil, fmt.Errorf("job %q: iterations must be at least 1", j.Name)
		}
	}
	return &plan, nil
}
