// Package benchmark times labelled runs and appends each result to a shared log file.
package benchmark

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrNotStarted is returned by Stop when Start was never called.
var ErrNotStarted = errors.New("benchmark: stopped before start")

// DefaultLogPath is used when a benchmark has no explicit log path.
const DefaultLogPath = "benchmark/log.txt"

// logMu serialises appends to benchmark logs across all benchmarks.
var logMu sync.Mutex

// Benchmark measures wall time between Start and Stop.
type Benchmark struct {
	label    string
	unit     time.Duration
	logPath  string
	observer prometheus.Observer

	start time.Time
	end   time.Time
}

// New creates a benchmark that reports durations in the given unit.
func New(label string, unit time.Duration) *Benchmark {
	if unit <= 0 {
		unit = time.Microsecond
	}
	return &Benchmark{
		label:   label,
		unit:    unit,
		logPath: DefaultLogPath,
	}
}

// WithLogPath sets the file results are appended to. An empty path
// disables the log; durations still reach the observer.
func (b *Benchmark) WithLogPath(path string) *Benchmark {
	b.logPath = path
	return b
}

// WithObserver feeds every measured duration, in seconds, to o.
func (b *Benchmark) WithObserver(o prometheus.Observer) *Benchmark {
	b.observer = o
	return b
}

// Label returns the benchmark label.
func (b *Benchmark) Label() string { return b.label }

// Start records the start time.
func (b *Benchmark) Start() {
	b.start = time.Now()
	b.end = time.Time{}
}

// Stop records the end time and appends a record to the log file.
func (b *Benchmark) Stop() (time.Duration, error) {
	if b.start.IsZero() {
		return 0, ErrNotStarted
	}
	b.end = time.Now()
	total := b.end.Sub(b.start)

	if b.observer != nil {
		b.observer.Observe(total.Seconds())
	}

	if err := b.appendLog(total); err != nil {
		return total, err
	}

	slog.Debug("benchmark",
		"label", b.label,
		"elapsed", total.String(),
	)
	return total, nil
}

// Record formats the log entry for a run.
func (b *Benchmark) Record(total time.Duration) string {
	s := fmt.Sprintf("Benchmark:  %s\n", b.label)
	s += fmt.Sprintf("Started at:  %s\n", b.start.Format(time.ANSIC))
	s += fmt.Sprintf("Completed at:  %s\n", b.end.Format(time.ANSIC))
	if total == 0 {
		s += "Internal clock did not tick during benchmark"
	} else {
		s += fmt.Sprintf("Total time:  %d %s", int64(total/b.unit), UnitName(b.unit))
	}
	return s + "\n\n"
}

func (b *Benchmark) appendLog(total time.Duration) error {
	if b.logPath == "" {
		return nil
	}
	record := b.Record(total)

	logMu.Lock()
	defer logMu.Unlock()

	if dir := filepath.Dir(b.logPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating benchmark log directory: %w", err)
		}
	}

	f, err := os.OpenFile(b.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening benchmark log: %w", err)
	}
	if _, err := f.WriteString(record); err != nil {
		f.Close()
		return fmt.Errorf("writing benchmark log: %w", err)
	}
	return f.Close()
}

// UnitName returns the log name of a duration unit.
func UnitName(unit time.Duration) string {
	switch unit {
	case time.Nanosecond:
		return "nanoseconds"
	case time.Microsecond:
		return "microseconds"
	case time.Millisecond:
		return "milliseconds"
	case time.Second:
		return "seconds"
	case time.Minute:
		return "minutes"
	case time.Hour:
		return "hours"
	default:
		return "units"
	}
}
