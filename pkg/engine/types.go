package engine

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MinAlign is the minimum transfer alignment for unbuffered I/O.
	// Transfer sizes, strides, and every offset the engine produces are
	// multiples of this.
	MinAlign = 512

	// BufAlign is the memory alignment required for O_DIRECT buffers.
	BufAlign = 4096

	// DefaultBudget is the total number of bytes transferred per pass.
	DefaultBudget = 1 << 30

	MaxIOSize = 100 << 20
	MaxStride = 100 << 20
	MaxRange  = int64(1) << 40
)

// Params defines one benchmark configuration. The engine never mutates it.
type Params struct {
	Target  string // Path to the device or file
	IOSize  int    // Size of each transfer in bytes
	Stride  int    // Gap between consecutive sequential transfers
	Range   int64  // Addressable byte extent offsets are drawn from
	Write   bool   // True for write, false for read
	Rand    bool   // True for random, false for sequential
	Budget  int64  // Bytes to transfer per pass; 0 means DefaultBudget
	Direct  bool   // Use O_DIRECT
	Backend string // "sync" (default) or "uring"
}

// Op returns the operation name as it appears in CSV output.
func (p *Params) Op() string {
	if p.Write {
		return "write"
	}
	return "read"
}

func (p *Params) budget() int64 {
	if p.Budget <= 0 {
		return DefaultBudget
	}
	return p.Budget
}

// Validate checks the configuration before any I/O happens. A violation
// fails the whole configuration, not just one iteration.
func (p *Params) Validate() error {
	if p.Target == "" {
		return &ConfigError{Field: "target", Reason: "no device or file given"}
	}
	if p.IOSize < MinAlign || p.IOSize > MaxIOSize {
		return &ConfigError{Field: "io_size", Reason: fmt.Sprintf("%d is outside [%d, %d]", p.IOSize, MinAlign, MaxIOSize)}
	}
	if p.IOSize%MinAlign != 0 {
		return &ConfigError{Field: "io_size", Reason: fmt.Sprintf("%d is not a multiple of %d", p.IOSize, MinAlign)}
	}
	if p.Stride < 0 || p.Stride > MaxStride {
		return &ConfigError{Field: "stride_size", Reason: fmt.Sprintf("%d is outside [0, %d]", p.Stride, MaxStride)}
	}
	if p.Stride%MinAlign != 0 {
		return &ConfigError{Field: "stride_size", Reason: fmt.Sprintf("%d is not a multiple of %d", p.Stride, MinAlign)}
	}
	if p.Range < int64(p.IOSize) {
		return &ConfigError{Field: "range", Reason: fmt.Sprintf("%d is smaller than io_size %d", p.Range, p.IOSize)}
	}
	if p.Range > MaxRange {
		return &ConfigError{Field: "range", Reason: fmt.Sprintf("%d exceeds maximum %d", p.Range, MaxRange)}
	}
	return nil
}

// Result contains the metrics for a single pass.
type Result struct {
	BytesTransferred uint64
	Elapsed          time.Duration
	Transfers        int64

	// Per-transfer latency, from the pass-local histogram.
	MeanLatency time.Duration
	P50Latency  time.Duration
	P99Latency  time.Duration
}

// ThroughputMBps returns the pass throughput in MB/s, where one MB is
// 2^20 bytes (consistent with the 4096-byte buffer-alignment unit).
func (r *Result) ThroughputMBps() float64 {
	return float64(r.BytesTransferred) / r.Elapsed.Seconds() / (1 << 20)
}

// ConfigError reports an invalid benchmark parameter, caught before any
// file is opened.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrDirectIONotSupported is returned when the target filesystem rejects
// O_DIRECT. The engine never silently falls back to buffered I/O; buffered
// runs must be requested explicitly.
var ErrDirectIONotSupported = errors.New("direct I/O not supported on target")

// PassError wraps a failure inside a pass. A failed transfer makes the
// run's numbers meaningless, so these are fatal to the configuration.
type PassError struct {
	Op  string // "open", "read", "write", "fsync", ...
	Err error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PassError) Unwrap() error { return e.Err }
