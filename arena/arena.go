// Package arena is a bump allocator over one fixed buffer. Allocations are released all at once by Reset.
package arena

import (
	"errors"
	"fmt"

	micrortu "github.com/yobol/go-micrortu"
)

var ErrOutOfMemory = errors.New("arena out of memory")

type Arena struct {
	buf []byte
	off int
}

func New(size int) *Arena {
	return &Arena{buf: make([]byte, size)}
}

// NewFrom allocates from buf. Alignment is relative to the start of buf.
func NewFrom(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// Alloc returns size zeroed bytes whose offset is a multiple of align. align must be a power of two. It panics
// with an error wrapping ErrOutOfMemory when the buffer is exhausted.
func (a *Arena) Alloc(size, align int) []byte {
	if align <= 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("arena: alignment %d is not a power of two", align))
	}
	if size < 0 {
		panic(fmt.Sprintf("arena: negative size %d", size))
	}
	start := (a.off + align - 1) &^ (align - 1)
	if start+size > len(a.buf) {
		micrortu.Logger().Errorf("arena out of memory: %d bytes at %d, capacity %d", size, start, len(a.buf))
		panic(fmt.Errorf("%w: %d bytes requested, %d remaining", ErrOutOfMemory, size, a.Remaining()))
	}
	p := a.buf[start : start+size : start+size]
	clear(p)
	a.off = start + size
	return p
}

// Reset releases every allocation. Earlier slices alias the memory handed out next.
func (a *Arena) Reset() {
	a.off = 0
}

// Used is the number of bytes consumed, padding included.
func (a *Arena) Used() int { return a.off }

func (a *Arena) Remaining() int { return len(a.buf) - a.off }

// Bytes returns the used prefix of the buffer.
func (a *Arena) Bytes() []byte { return a.buf[:a.off] }
