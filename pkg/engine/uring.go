//go:build linux

package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"syscall"
	"time"

	"github.com/godzie44/go-uring/uring"
)

// UringEngine submits transfers through io_uring with a queue depth of
// one: submit, wait, complete, then the next offset. The pass stays fully
// synchronous; the ring only changes the syscall path.
type UringEngine struct {
}

func NewUring() *UringEngine {
	return &UringEngine{}
}

func (e *UringEngine) Name() string { return "uring" }

func (e *UringEngine) Run(p Params, rng *rand.Rand) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	budget := p.budget()

	f, err := openTarget(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring, err := uring.New(1)
	if err != nil {
		return nil, &PassError{Op: "uring setup", Err: err}
	}
	defer ring.Close()

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

		var op uring.Operation
		if p.Write {
			op = uring.Write(f.Fd(), buf, uint64(off))
		} else {
			op = uring.Read(f.Fd(), buf, uint64(off))
		}

		ioStart := time.Now()
		if err := ring.QueueSQE(op, 0, 0); err != nil {
			return nil, &PassError{Op: "queue sqe", Err: err}
		}
		for {
			_, err = ring.Submit()
			if err == nil || !isEINTR(err) {
				break
			}
		}
		if err != nil {
			return nil, &PassError{Op: "submit", Err: err}
		}

		var cqe *uring.CQEvent
		for {
			cqe, err = ring.WaitCQEvents(1)
			if err == nil || !isEINTR(err) {
				break
			}
		}
		if err != nil {
			return nil, &PassError{Op: "wait cqe", Err: err}
		}
		if cqe.Res < 0 {
			ring.SeenCQE(cqe)
			return nil, &PassError{Op: p.Op(), Err: fmt.Errorf("offset %d: %w", off, syscall.Errno(-cqe.Res))}
		}
		n := int(cqe.Res)
		ring.SeenCQE(cqe)
		if n != p.IOSize {
			return nil, &PassError{Op: p.Op(), Err: fmt.Errorf("short transfer at offset %d: %d of %d bytes", off, n, p.IOSize)}
		}
		_ = hist.RecordValue(time.Since(ioStart).Microseconds())

		done += int64(n)
		transfers++
	}
	if p.Write {
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

func isEINTR(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EINTR) {
		return true
	}
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		return sysErr.Err == syscall.EINTR
	}
	return false
}
