package engine

import (
	"errors"
	"math/rand"
	"os"
	"testing"
)

func testTarget(t *testing.T, size int64) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "bench-test")
	if err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Truncate(size); err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestSyncEngineReadPass(t *testing.T) {
	target := testTarget(t, 1<<20)

	eng := &SyncEngine{}
	params := Params{
		Target: target,
		IOSize: 4096,
		Range:  1 << 20,
		Rand:   true,
		Budget: 1 << 20,
		Direct: false, // O_DIRECT might not work on tmpfs
	}

	rng := rand.New(rand.NewSource(1))
	res, err := eng.Run(params, rng)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.BytesTransferred < uint64(params.Budget) {
		t.Errorf("transferred %d bytes, want at least %d", res.BytesTransferred, params.Budget)
	}
	if res.Elapsed <= 0 {
		t.Errorf("expected positive elapsed time, got %v", res.Elapsed)
	}
	if res.Transfers != int64(params.Budget)/int64(params.IOSize) {
		t.Errorf("expected %d transfers, got %d", params.Budget/int64(params.IOSize), res.Transfers)
	}
	t.Logf("throughput: %.2f MB/s, p99 latency: %v", res.ThroughputMBps(), res.P99Latency)
}

func TestSyncEngineWritePass(t *testing.T) {
	target := testTarget(t, 1<<20)

	eng := &SyncEngine{}
	params := Params{
		Target: target,
		IOSize: 4096,
		Stride: 4096,
		Range:  1 << 20,
		Write:  true,
		Budget: 512 << 10,
		Direct: false,
	}

	rng := rand.New(rand.NewSource(1))
	res, err := eng.Run(params, rng)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.BytesTransferred < uint64(params.Budget) {
		t.Errorf("transferred %d bytes, want at least %d", res.BytesTransferred, params.Budget)
	}
}

func TestValidateRejectsUnalignedIOSize(t *testing.T) {
	// The target path does not exist: validation must fail before any
	// open is attempted.
	params := Params{
		Target: "/nonexistent/bench-target",
		IOSize: 100,
		Range:  1 << 20,
	}

	eng := &SyncEngine{}
	_, err := eng.Run(params, rand.New(rand.NewSource(1)))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "io_size" {
		t.Errorf("expected io_size violation, got %q", cfgErr.Field)
	}
}

func TestValidateRejectsRangeSmallerThanIOSize(t *testing.T) {
	params := Params{
		Target: "/nonexistent/bench-target",
		IOSize: 4096,
		Range:  2048,
	}

	var cfgErr *ConfigError
	if err := params.Validate(); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestValidateRejectsUnalignedStride(t *testing.T) {
	params := Params{
		Target: "t",
		IOSize: 4096,
		Stride: 100,
		Range:  1 << 20,
	}

	var cfgErr *ConfigError
	if err := params.Validate(); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "stride_size" {
		t.Errorf("expected stride_size violation, got %q", cfgErr.Field)
	}
}

func TestShortTransferIsFatal(t *testing.T) {
	// A file smaller than the configured range forces a short read.
	target := testTarget(t, 8192)

	eng := &SyncEngine{}
	params := Params{
		Target: target,
		IOSize: 4096,
		Range:  1 << 20,
		Budget: 1 << 20,
		Direct: false,
	}

	_, err := eng.Run(params, rand.New(rand.NewSource(1)))
	var passErr *PassError
	if !errors.As(err, &passErr) {
		t.Fatalf("expected PassError for short transfer, got %v", err)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	if _, err := New("libaio"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	eng, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if eng.Name() != "sync" {
		t.Errorf("default engine is %q, want sync", eng.Name())
	}
}
