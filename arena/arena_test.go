package arena

import (
	"errors"
	"testing"
)

func TestArena_Alloc(t *testing.T) {
	a := New(32)
	tests := []struct {
		name      string
		size      int
		align     int
		wantStart int
	}{
		{"first byte", 1, 1, 0},
		{"aligned to 4", 4, 4, 4},
		{"aligned to 8", 3, 8, 8},
		{"zero size", 0, 16, 16},
		{"packed", 2, 1, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := a.Used()
			p := a.Alloc(tt.size, tt.align)
			if len(p) != tt.size || cap(p) != tt.size {
				t.Errorf("Alloc() = len %d cap %d", len(p), cap(p))
			}
			if a.Used() != tt.wantStart+tt.size {
				t.Errorf("Used() = %d after %d, want %d", a.Used(), before, tt.wantStart+tt.size)
			}
		})
	}
	if a.Remaining() != 32-18 {
		t.Errorf("Remaining() = %d", a.Remaining())
	}
}

func TestArena_OutOfMemory(t *testing.T) {
	a := New(8)
	a.Alloc(5, 1)
	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, ErrOutOfMemory) {
				t.Errorf("Alloc() panicked with %v", r)
			}
		}()
		a.Alloc(4, 4)
		t.Errorf("Alloc() past the end did not panic")
	}()
	if a.Used() != 5 {
		t.Errorf("failed Alloc() moved the cursor to %d", a.Used())
	}
}

func TestArena_Reset(t *testing.T) {
	buf := make([]byte, 4)
	a := NewFrom(buf)
	p := a.Alloc(4, 2)
	copy(p, "abcd")
	if string(a.Bytes()) != "abcd" {
		t.Errorf("Bytes() = %q", a.Bytes())
	}
	a.Reset()
	q := a.Alloc(2, 1)
	if q[0] != 0 || q[1] != 0 || a.Used() != 2 {
		t.Errorf("Alloc() after Reset() = %v", q)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Alloc() with alignment 3 did not panic")
		}
	}()
	a.Alloc(1, 3)
}
