package sink

import (
	"io"
	"sync"
)

// CountingWriter drops everything written to it while counting bytes. Access
// is serialised so the writer behaves like a real destination on the hot path.
// An optional tee receives a copy; tee failures are counted and returned.
type CountingWriter struct {
	mu       sync.Mutex
	sum      int64
	writes   int64
	failures uint64
	tee      io.Writer
}

// NewCountingWriter returns an empty CountingWriter.
func NewCountingWriter() *CountingWriter {
	return &CountingWriter{}
}

func (w *CountingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	w.sum += int64(len(p))
	w.writes++
	tee := w.tee
	w.mu.Unlock()

	if tee != nil {
		n, err := tee.Write(p)
		if err == nil && n != len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			w.mu.Lock()
			w.failures++
			w.mu.Unlock()
			return n, err
		}
	}
	return len(p), nil
}

// Sync satisfies zapcore.WriteSyncer.
func (w *CountingWriter) Sync() error {
	return nil
}

// Reset zeroes the counters.
func (w *CountingWriter) Reset() {
	w.mu.Lock()
	w.sum = 0
	w.writes = 0
	w.failures = 0
	w.mu.Unlock()
}

// BytesWritten returns the bytes accepted since the last Reset.
func (w *CountingWriter) BytesWritten() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sum
}

// Writes returns the number of Write calls since the last Reset.
func (w *CountingWriter) Writes() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// Failures returns the number of failed tee writes since the last Reset.
func (w *CountingWriter) Failures() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}

// SetTee installs (or, with nil, removes) the tee destination.
func (w *CountingWriter) SetTee(tee io.Writer) {
	w.mu.Lock()
	w.tee = tee
	w.mu.Unlock()
}
