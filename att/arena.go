package att

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrReleased is returned when a Buffer is released more than once.
var ErrReleased = errors.New("buffer already released")

// An Arena is a pre-allocated pool of fixed-size response buffers.
// All buffers point into a single backing array; the free list is a buffered
// channel of slot indices.
type Arena struct {
	buf      []byte
	slotSize int
	slots    int
	free     chan int

	allocs   int
	releases int
}

// NewArena creates an arena with the given number of slots and bytes per slot.
func NewArena(slots, slotSize int) *Arena {
	a := &Arena{
		buf:      make([]byte, slots*slotSize),
		slotSize: slotSize,
		slots:    slots,
		free:     make(chan int, slots),
	}
	for i := 0; i < slots; i++ {
		a.free <- i
	}
	return a
}

// Allocate returns an empty buffer able to hold n bytes.
// It returns false when the arena is exhausted or n exceeds the slot size.
func (a *Arena) Allocate(n int) (*Buffer, bool) {
	if n < 0 || n > a.slotSize {
		return nil, false
	}
	select {
	case idx := <-a.free:
		a.allocs++
		off := idx * a.slotSize
		return &Buffer{arena: a, idx: idx, b: a.buf[off : off : off+n]}, true
	default:
		return nil, false
	}
}

func (a *Arena) release(idx int) {
	a.releases++
	a.free <- idx
}

// SlotSize returns the largest buffer the arena can hand out.
func (a *Arena) SlotSize() int { return a.slotSize }

// ArenaStats is a snapshot of the arena's bookkeeping.
type ArenaStats struct {
	Slots    int
	InUse    int
	Allocs   int
	Releases int
}

// Stats returns the arena's bookkeeping.
func (a *Arena) Stats() ArenaStats {
	return ArenaStats{
		Slots:    a.slots,
		InUse:    a.slots - len(a.free),
		Allocs:   a.allocs,
		Releases: a.releases,
	}
}

func (s ArenaStats) String() string {
	return fmt.Sprintf("arena: %d/%d slots in use, %d allocs, %d releases", s.InUse, s.Slots, s.Allocs, s.Releases)
}

// A Buffer is a response buffer on loan from an Arena.
// Whoever holds it last must call Release exactly once; the buffer must not be
// touched afterwards.
type Buffer struct {
	arena    *Arena
	idx      int
	b        []byte
	released bool
}

func (b *Buffer) live() {
	if b.released {
		panic("att: use of released buffer")
	}
}

// Len returns the number of bytes written to the buffer.
func (b *Buffer) Len() int { b.live(); return len(b.b) }

// Cap returns the capacity requested at allocation.
func (b *Buffer) Cap() int { b.live(); return cap(b.b) }

// Available returns the number of bytes that can still be appended.
func (b *Buffer) Available() int { b.live(); return cap(b.b) - len(b.b) }

// Bytes returns the written bytes. The slice is only valid until Release.
func (b *Buffer) Bytes() []byte { b.live(); return b.b }

// Append appends p to the buffer. Nothing is written if p does not fit.
func (b *Buffer) Append(p ...[]byte) bool {
	b.live()
	n := 0
	for _, s := range p {
		n += len(s)
	}
	if n > b.Available() {
		return false
	}
	for _, s := range p {
		b.b = append(b.b, s...)
	}
	return true
}

// Release returns the buffer to its arena.
func (b *Buffer) Release() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	b.b = nil
	b.arena.release(b.idx)
	return nil
}
