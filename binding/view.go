package binding

import (
	"fmt"
	"iter"

	micrortu "github.com/yobol/go-micrortu"
)

// view is a window over the elements of one field inside a region. Element i occupies
// data[i*stride+offset : i*stride+offset+size].
type view struct {
	def     Definition
	data    []byte
	stride  int
	offset  int
	size    int
	count   int
	present bool

	dirty *Dirty
	base  int
}

func (v view) Name() string { return v.def.Name }

func (v view) Definition() Definition { return v.def }

// Len is the number of elements the host supplied.
func (v view) Len() int { return v.count }

// Present is false for an optional field the host left empty.
func (v view) Present() bool { return v.present }

func (v view) slot(i int) ([]byte, error) {
	if !v.present {
		return nil, fmt.Errorf("%s: %w", v.def.Name, ErrAbsent)
	}
	if i < 0 || i >= v.count {
		return nil, fmt.Errorf("%s[%d] of %d: %w", v.def.Name, i, v.count, ErrIndexOutOfBounds)
	}
	start := i*v.stride + v.offset
	return v.data[start : start+v.size], nil
}

func (v view) at(i int) (micrortu.SmallIE, error) {
	p, err := v.slot(i)
	if err != nil {
		return micrortu.SmallIE{}, err
	}
	ie, _ := micrortu.DefaultForTypeID(v.def.TypeID)
	copy(ie.MutBytes(), p)
	return ie, nil
}

func (v view) all() iter.Seq2[int, micrortu.SmallIE] {
	return func(yield func(int, micrortu.SmallIE) bool) {
		for i := 0; i < v.count; i++ {
			ie, _ := v.at(i)
			if !yield(i, ie) {
				return
			}
		}
	}
}

func (v view) values() []micrortu.SmallIE {
	out := make([]micrortu.SmallIE, 0, v.count)
	for _, ie := range v.all() {
		out = append(out, ie)
	}
	return out
}

// update reads element i, lets fn change it, then writes it back and marks it dirty. Writes to an absent optional
// field are dropped.
func (v view) update(i int, fn func(ie *micrortu.SmallIE) error) error {
	if !v.present {
		return nil
	}
	p, err := v.slot(i)
	if err != nil {
		return err
	}
	ie, _ := micrortu.DefaultForTypeID(v.def.TypeID)
	copy(ie.MutBytes(), p)
	if err := fn(&ie); err != nil {
		return fmt.Errorf("%s[%d]: %w", v.def.Name, i, err)
	}
	copy(p, ie.MutBytes())
	v.dirty.Set(v.base + i)
	return nil
}

func (v view) set(i int, value micrortu.SmallIE) error {
	return v.update(i, func(ie *micrortu.SmallIE) error {
		return ie.UpdateFrom(value)
	})
}

func (v view) setValue(i int, value any) error {
	return v.update(i, func(ie *micrortu.SmallIE) error {
		return ie.UpdateFromValue(value)
	})
}

func (v view) setAll(values []micrortu.SmallIE) error {
	if !v.present {
		return nil
	}
	if v.def.Single() && len(values) > 1 {
		return fmt.Errorf("%s: %d values: %w", v.def.Name, len(values), MultiplePointsForSingular)
	}
	if len(values) != v.count {
		return fmt.Errorf("%s: %d values for %d elements: %w", v.def.Name, len(values), v.count, ErrIndexOutOfBounds)
	}
	for i, value := range values {
		if err := v.set(i, value); err != nil {
			return err
		}
	}
	return nil
}

// Input is a read only field.
type Input struct{ view }

// Get returns the first element. Use it for fields with exactly one element.
func (in Input) Get() (micrortu.SmallIE, error) { return in.at(0) }

func (in Input) At(i int) (micrortu.SmallIE, error) { return in.at(i) }

// All iterates over the elements in order.
func (in Input) All() iter.Seq2[int, micrortu.SmallIE] { return in.all() }

// Values copies every element out.
func (in Input) Values() []micrortu.SmallIE { return in.values() }

// Output is a write only field. Every write marks the element dirty, including writes of an unchanged value.
type Output struct{ view }

// Set updates the first element from value, keeping the declared kind. See micrortu.SmallIE.UpdateFrom.
func (out Output) Set(value micrortu.SmallIE) error { return out.set(0, value) }

func (out Output) SetAt(i int, value micrortu.SmallIE) error { return out.set(i, value) }

// SetValue updates the first element from a plain Go value. See micrortu.SmallIE.UpdateFromValue.
func (out Output) SetValue(value any) error { return out.setValue(0, value) }

func (out Output) SetValueAt(i int, value any) error { return out.setValue(i, value) }

// SetAll updates every element; len(values) must equal Len.
func (out Output) SetAll(values []micrortu.SmallIE) error { return out.setAll(values) }

// InOut is a field the block both reads and writes.
type InOut struct{ view }

func (io InOut) Get() (micrortu.SmallIE, error) { return io.at(0) }
func (io InOut) At(i int) (micrortu.SmallIE, error) { return io.at(i) }
func (io InOut) All() iter.Seq2[int, micrortu.SmallIE] { return io.all() }
func (io InOut) Values() []micrortu.SmallIE { return io.values() }
func (io InOut) Set(value micrortu.SmallIE) error { return io.set(0, value) }
func (io InOut) SetAt(i int, value micrortu.SmallIE) error { return io.set(i, value) }
func (io InOut) SetValue(value any) error { return io.setValue(0, value) }
func (io InOut) SetValueAt(i int, value any) error { return io.setValue(i, value) }
func (io InOut) SetAll(values []micrortu.SmallIE) error { return io.setAll(values) }

// Update applies fn to element i in place and marks it dirty.
func (io InOut) Update(i int, fn func(ie *micrortu.SmallIE) error) error { return io.update(i, fn) }
