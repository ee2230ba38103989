// Package telemetry records per-file spans with OpenTelemetry and forwards
// them, with any transform output, to the active renderer.
package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultBatchSize is the buffered byte count that forces a flush.
	DefaultBatchSize = 4096
	// DefaultBatchDelay is the longest a write waits before it is flushed.
	DefaultBatchDelay = 50 * time.Millisecond
)

var errBatcherClosed = zerr.New("batcher is closed")

// Batcher coalesces small writes into chunks. A chunk is handed to the flush
// callback once it reaches the size limit or the first buffered byte is older
// than the delay. No goroutine runs while the buffer is empty.
type Batcher struct {
	size  int
	delay time.Duration
	flush func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	timer  *time.Timer
	closed bool
}

// NewBatcher creates a Batcher. Non-positive limits select the defaults.
func NewBatcher(size int, delay time.Duration, flush func([]byte)) *Batcher {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if delay <= 0 {
		delay = DefaultBatchDelay
	}
	return &Batcher{size: size, delay: delay, flush: flush}
}

// Write buffers p.
func (b *Batcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errBatcherClosed
	}

	n, _ := b.buf.Write(p)
	switch {
	case b.buf.Len() >= b.size:
		b.flushLocked()
	case b.timer == nil:
		b.timer = time.AfterFunc(b.delay, b.Flush)
	}
	return n, nil
}

// Flush hands any buffered bytes to the callback.
func (b *Batcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.flushLocked()
	}
}

// Close flushes the remainder and rejects further writes.
func (b *Batcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.flushLocked()
	b.closed = true
	return nil
}

// flushLocked must be called with mu held. The callback runs under the lock
// so chunks reach it in write order.
func (b *Batcher) flushLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if b.buf.Len() == 0 {
		return
	}

	data := bytes.Clone(b.buf.Bytes())
	b.buf.Reset()
	if b.flush != nil {
		b.flush(data)
	}
}
