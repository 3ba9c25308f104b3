// Package engine performs timed, unbuffered I/O passes against a device or
// file using a configurable access pattern.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"syscall"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/sys/unix"
)

// Engine runs one benchmark pass per call. Implementations are single
// threaded: every transfer completes before the next begins.
type Engine interface {
	Name() string
	// Run executes one pass and returns elapsed time and bytes moved.
	// The RNG is owned by the process and shared across passes so that
	// repeated passes do not replay identical offset sequences.
	Run(params Params, rng *rand.Rand) (*Result, error)
}

// New returns the engine for the given backend name.
func New(kind string) (Engine, error) {
	switch kind {
	case "", "sync":
		return &SyncEngine{}, nil
	case "uring":
		return NewUring(), nil
	}
	return nil, fmt.Errorf("unknown engine %q (want 'sync' or 'uring')", kind)
}

// openTarget opens the target with O_DIRECT unless buffered I/O was
// explicitly requested. An EINVAL from the direct open means the filesystem
// does not support it; that is surfaced, never papered over.
func openTarget(p Params) (*os.File, error) {
	flags := os.O_RDONLY
	if p.Write {
		flags = os.O_WRONLY
	}
	if p.Direct {
		flags |= syscall.O_DIRECT
	}

	f, err := os.OpenFile(p.Target, flags, 0644)
	if err != nil {
		if p.Direct && (errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTSUP)) {
			return nil, &PassError{Op: "open", Err: fmt.Errorf("%w: %v", ErrDirectIONotSupported, err)}
		}
		return nil, &PassError{Op: "open", Err: err}
	}
	return f, nil
}

// allocBuffer returns one transfer buffer of exactly size bytes, aligned
// for O_DIRECT, and a release function. Write buffers carry a fixed fill
// byte; content is irrelevant to throughput measurement.
func allocBuffer(size int, write bool) ([]byte, func(), error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, &PassError{Op: "alloc", Err: fmt.Errorf("failed to allocate aligned memory: %v", err)}
	}
	if write {
		for i := range buf {
			buf[i] = 'A'
		}
	}
	return buf, func() { _ = unix.Munmap(buf) }, nil
}

func newLatencyHistogram() *hdrhistogram.Histogram {
	// 1us to 1h, 3 significant figures
	return hdrhistogram.New(1, 3600000000, 3)
}

func fillLatency(res *Result, hist *hdrhistogram.Histogram) {
	res.MeanLatency = time.Duration(hist.Mean()) * time.Microsecond
	res.P50Latency = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
	res.P99Latency = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond
}
