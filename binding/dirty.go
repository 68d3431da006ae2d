package binding

import (
	"fmt"
	"math/bits"
	"strings"
)

// Dirty records which output elements a step wrote. Bit positions are handed out by Parse over the out and in-out
// fields in declaration order, one per element. The zero value is empty and grows on Set.
type Dirty struct {
	words []uint64
}

// DirtyFromUint64 returns a set holding the 64 low positions of v.
func DirtyFromUint64(v uint64) *Dirty {
	return &Dirty{words: []uint64{v}}
}

func (d *Dirty) Set(i int) {
	if i < 0 {
		return
	}
	w := i / 64
	for len(d.words) <= w {
		d.words = append(d.words, 0)
	}
	d.words[w] |= 1 << (i % 64)
}

func (d *Dirty) IsSet(i int) bool {
	if d == nil || i < 0 || i/64 >= len(d.words) {
		return false
	}
	return d.words[i/64]&(1<<(i%64)) != 0
}

func (d *Dirty) Clear() {
	if d == nil {
		return
	}
	clear(d.words)
}

// Count is the number of set positions.
func (d *Dirty) Count() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, w := range d.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Indexes lists the set positions in ascending order.
func (d *Dirty) Indexes() []int {
	if d == nil {
		return nil
	}
	var out []int
	for wi, w := range d.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, wi*64+b)
			w &^= 1 << b
		}
	}
	return out
}

// Uint64 returns the 64 low positions. ok is false when a higher position is set.
func (d *Dirty) Uint64() (v uint64, ok bool) {
	if d == nil || len(d.words) == 0 {
		return 0, true
	}
	for _, w := range d.words[1:] {
		if w != 0 {
			return d.words[0], false
		}
	}
	return d.words[0], true
}

func (d *Dirty) String() string {
	idx := d.Indexes()
	s := make([]string, len(idx))
	for i, v := range idx {
		s[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(s, ",") + "}"
}
