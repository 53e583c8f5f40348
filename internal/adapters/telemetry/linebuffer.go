package telemetry

import (
	"bytes"
	"sync"
	"time"
)

// DefaultFlushInterval bounds how long a partial line waits before it is delivered.
const DefaultFlushInterval = 100 * time.Millisecond

// LineBuffer forwards complete lines as soon as they are written and delivers
// a trailing partial line after the flush interval or on Close.
// It is safe for concurrent use.
type LineBuffer struct {
	interval time.Duration
	onFlush  func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	timer  *time.Timer
	closed bool
}

// NewLineBuffer returns a LineBuffer calling onFlush with each delivered chunk.
func NewLineBuffer(interval time.Duration, onFlush func([]byte)) *LineBuffer {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &LineBuffer{interval: interval, onFlush: onFlush}
}

// Write buffers p and delivers every complete line it finishes.
func (lb *LineBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.closed {
		return len(p), nil
	}

	lb.buf.Write(p)

	if i := bytes.LastIndexByte(lb.buf.Bytes(), '\n'); i >= 0 {
		chunk := make([]byte, i+1)
		copy(chunk, lb.buf.Bytes()[:i+1])
		lb.buf.Next(i + 1)
		lb.deliver(chunk)
	}

	if lb.buf.Len() > 0 && lb.timer == nil {
		lb.timer = time.AfterFunc(lb.interval, lb.Flush)
	}
	return len(p), nil
}

// Flush delivers any buffered partial line.
func (lb *LineBuffer) Flush() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.flushLocked()
}

// Close delivers the remainder and drops later writes.
func (lb *LineBuffer) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.closed {
		return nil
	}
	lb.flushLocked()
	lb.closed = true
	return nil
}

// flushLocked must be called with mu held.
func (lb *LineBuffer) flushLocked() {
	if lb.timer != nil {
		lb.timer.Stop()
		lb.timer = nil
	}
	if lb.closed || lb.buf.Len() == 0 {
		return
	}
	chunk := make([]byte, lb.buf.Len())
	copy(chunk, lb.buf.Bytes())
	lb.buf.Reset()
	lb.deliver(chunk)
}

func (lb *LineBuffer) deliver(chunk []byte) {
	if lb.onFlush != nil {
		lb.onFlush(chunk)
	}
}
