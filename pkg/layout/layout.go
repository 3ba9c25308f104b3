// Package layout provisions benchmark target files before any timed I/O.
package layout

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const fillChunk = 1 << 20

// Ensure makes sure the target regular file exists and is at least size
// bytes long. With fill set, the extent is written out with fixed data so
// later reads hit real blocks instead of holes; otherwise the space is
// only reserved. Block devices are used as-is. Runs entirely outside the
// engine's timed interval.
func Ensure(path string, size int64, fill bool) error {
	fi, err := os.Stat(path)
	if err == nil {
		if !fi.Mode().IsRegular() {
			return nil
		}
		if fi.Size() >= size {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to create target: %w", err)
	}
	defer f.Close()

	if err := reserve(f, size); err != nil {
		return err
	}
	if fill {
		if err := fillFile(f, size); err != nil {
			return err
		}
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync target: %w", err)
	}
	return nil
}

func reserve(f *os.File, size int64) error {
	err := unix.Fallocate(int(f.Fd()), 0, 0, size)
	if err == nil {
		return nil
	}
	// Some filesystems (tmpfs variants, network mounts) lack fallocate.
	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.ENOSYS) {
		if terr := f.Truncate(size); terr != nil {
			return fmt.Errorf("failed to grow target: %w", terr)
		}
		return nil
	}
	return fmt.Errorf("failed to allocate target space: %w", err)
}

func fillFile(f *os.File, size int64) error {
	buf := make([]byte, fillChunk)
	for i := range buf {
		buf[i] = 'A'
	}
	for pos := int64(0); pos < size; pos += fillChunk {
		n := int64(fillChunk)
		if size-pos < n {
			n = size - pos
		}
		if _, err := f.WriteAt(buf[:n], pos); err != nil {
			return fmt.Errorf("failed to initialize target: %w", err)
		}
	}
	return nil
}
