package engine

import (
	"fmt"
	"io"
	"math/rand"
	"time"
)

// SyncEngine performs one blocking pread/pwrite per transfer.
type SyncEngine struct {
}

func (e *SyncEngine) Name() string { return "sync" }

// Run executes a single pass: transfers of exactly IOSize bytes until the
// byte budget is met. The timed interval brackets only the offset-and-
// transfer loop (plus the pass-end fsync for writes); open, buffer
// allocation, and close are excluded.
func (e *SyncEngine) Run(p Params, rng *rand.Rand) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	budget := p.budget()

	f, err := openTarget(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, release, err := allocBuffer(p.IOSize, p.Write)
	if err != nil {
		return nil, err
	}
	defer release()

	seq := p.offsets(rng)
	hist := newLatencyHistogram()

	var done int64
	var transfers int64

	start := time.Now()
	for done < budget {
		off := seq.next()

		ioStart := time.Now()
		var n int
		if p.Write {
			n, err = f.WriteAt(buf, off)
		} else {
			n, err = f.ReadAt(buf, off)
		}
		if n != p.IOSize {
			// Short transfers are fatal: the throughput number would be
			// meaningless, so there is no retry and no skip.
			return nil, &PassError{Op: p.Op(), Err: fmt.Errorf("short transfer at offset %d: %d of %d bytes (%v)", off, n, p.IOSize, err)}
		}
		if err != nil && err != io.EOF {
			return nil, &PassError{Op: p.Op(), Err: fmt.Errorf("offset %d: %w", off, err)}
		}
		_ = hist.RecordValue(time.Since(ioStart).Microseconds())

		done += int64(n)
		transfers++
	}
	if p.Write {
		// One flush at pass end; per-write sync is never mixed in, so
		// durability cost is counted exactly once.
		if err := f.Sync(); err != nil {
			return nil, &PassError{Op: "fsync", Err: err}
		}
	}
	elapsed := time.Since(start)

	res := &Result{
		BytesTransferred: uint64(done),
		Elapsed:          elapsed,
		Transfers:        transfers,
	}
	fillLatency(res, hist)
	return res, nil
}
