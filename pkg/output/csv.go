// Package output writes benchmark results to CSV files and the console.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Row is one CSV record: the throughput of a single iteration together
// with the running statistics over all iterations up to and including it.
// Throughput fields are MB/s with MB = 2^20 bytes.
type Row struct {
	Operation  string
	IOSize     int
	Stride     int
	Random     bool
	Iteration  int
	Throughput float64
	Mean       float64
	Stddev     float64
	CI95       float64
	Variance   float64
}

var header = []string{
	"operation", "io_size", "stride_size", "is_random", "iteration",
	"throughput", "mean", "stddev", "ci95", "variance",
}

// CSVWriter appends iteration rows to a results file. The header is
// written only when the file is created empty, so repeated invocations
// accumulate configurations in one file without rewriting it.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}

	w := &CSVWriter{f: f, w: csv.NewWriter(f)}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() == 0 {
		if err := w.w.Write(header); err != nil {
			f.Close()
			return nil, err
		}
		w.w.Flush()
		if err := w.w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return w, nil
}

// Write appends one row and flushes it, so rows written before an aborted
// configuration survive.
func (w *CSVWriter) Write(r Row) error {
	random := "0"
	if r.Random {
		random = "1"
	}
	record := []string{
		r.Operation,
		strconv.Itoa(r.IOSize),
		strconv.Itoa(r.Stride),
		random,
		strconv.Itoa(r.Iteration),
		fmt.Sprintf("%.2f", r.Throughput),
		fmt.Sprintf("%.2f", r.Mean),
		fmt.Sprintf("%.2f", r.Stddev),
		fmt.Sprintf("%.2f", r.CI95),
		fmt.Sprintf("%.2f", r.Variance),
	}
	if err := w.w.Write(record); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

func (w *CSVWriter) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
