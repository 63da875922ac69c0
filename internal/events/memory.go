package events

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity is the number of events kept by NewMemoryFeed(0).
const DefaultMemoryCapacity = 256

// MemoryFeed keeps the most recent events in a fixed-size ring.
type MemoryFeed struct {
	mu     sync.Mutex
	buf    []ChangeEvent
	next   int
	filled bool
}

// NewMemoryFeed creates a feed holding up to capacity events.
func NewMemoryFeed(capacity int) *MemoryFeed {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryFeed{buf: make([]ChangeEvent, capacity)}
}

// Publish appends ev, evicting the oldest event when full.
func (f *MemoryFeed) Publish(ctx context.Context, ev ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf[f.next] = ev
	f.next = (f.next + 1) % len(f.buf)
	if f.next == 0 {
		f.filled = true
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (f *MemoryFeed) Recent(ctx context.Context, limit int) ([]ChangeEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	size := f.next
	if f.filled {
		size = len(f.buf)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]ChangeEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.buf)) % len(f.buf)
		out = append(out, f.buf[idx])
	}
	return out, nil
}

// Ping always succeeds.
func (f *MemoryFeed) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (f *MemoryFeed) Close() error { return nil }
