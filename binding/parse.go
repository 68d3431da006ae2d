package binding

import (
	"encoding/binary"
	"fmt"

	micrortu "github.com/yobol/go-micrortu"
)

/*
HeaderEntrySize is the size of one header entry. A region starts with one entry per definition, in declaration order,
followed by the payloads:

	| pad [2B] | length [2B] | ... | pad | payload 0 | pad | payload 1 | ...

pad is the number of bytes skipped before the payload, length the payload size in bytes. A payload is length/size
packed elements of the definition's kind, without type identification. Integers are little endian.
*/
const HeaderEntrySize = 4

// Bindings are the fields of one region, bound to their definitions.
type Bindings struct {
	views  []view
	byName map[string]int
	dirty  *Dirty
	next   int
}

func newBindings(defs []Definition, dirty *Dirty) (*Bindings, error) {
	if dirty == nil {
		dirty = &Dirty{}
	}
	b := &Bindings{
		views:  make([]view, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
		dirty:  dirty,
	}
	for i, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := b.byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: %s declared twice", ErrDefinition, d.Name)
		}
		b.byName[d.Name] = i
	}
	return b, nil
}

// add checks count against d and appends the view. Dirty positions are assigned to writable fields only.
func (b *Bindings) add(i int, d Definition, data []byte, stride, offset, count int) error {
	v := view{
		def:     d,
		data:    data,
		stride:  stride,
		offset:  offset,
		size:    d.TypeID.Size(),
		count:   count,
		present: true,
	}
	switch {
	case count == 0 && !d.Required:
		v.present = false
		v.data = nil
	case count < int(d.Min):
		return fieldError(d, i, NotEnoughData)
	case d.Max != 0 && count > int(d.Max):
		return fieldError(d, i, TooMuchData)
	}
	if d.Direction.Writable() {
		v.dirty = b.dirty
		v.base = b.next
		b.next += count
	}
	b.views = append(b.views, v)
	return nil
}

// Parse binds a header and payload region to defs. Writes through the returned views go straight to region and
// mark dirty. A nil dirty gets a fresh set, available from Bindings.Dirty.
func Parse(defs []Definition, region []byte, dirty *Dirty) (*Bindings, error) {
	b, err := newBindings(defs, dirty)
	if err != nil {
		return nil, err
	}
	hdr := len(defs) * HeaderEntrySize
	if len(region) < hdr {
		return nil, fmt.Errorf("%w: header needs %d bytes, region has %d", BadHeader, hdr, len(region))
	}
	cursor := hdr
	for i, d := range defs {
		entry := region[i*HeaderEntrySize:]
		pad := int(binary.LittleEndian.Uint16(entry[0:]))
		n := int(binary.LittleEndian.Uint16(entry[2:]))
		size := d.TypeID.Size()
		start := cursor + pad
		end := start + n
		if end > len(region) {
			return nil, fieldError(d, i, BadHeader)
		}
		if size == 0 || n%size != 0 {
			return nil, fieldError(d, i, InvalidData)
		}
		if err := b.add(i, d, region[start:end:end], size, 0, n/size); err != nil {
			return nil, err
		}
		cursor = end
	}
	return b, nil
}

// ParseTerminated binds a region of IEBuf slots. Each field is a list of slots of its kind closed by a
// terminator slot. Writes keep the type identification byte of every slot.
func ParseTerminated(defs []Definition, region []byte, dirty *Dirty) (*Bindings, error) {
	b, err := newBindings(defs, dirty)
	if err != nil {
		return nil, err
	}
	if len(region)%micrortu.IEBufSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of slots", BadHeader, len(region))
	}
	slots := len(region) / micrortu.IEBufSize
	slot := 0
	for i, d := range defs {
		first := slot
		for {
			if slot >= slots {
				return nil, fieldError(d, i, NotTerminated)
			}
			buf := micrortu.IEBufFromBytes(region[slot*micrortu.IEBufSize:])
			if buf.IsTerminator() {
				break
			}
			if buf.TypeID() != d.TypeID {
				return nil, fieldError(d, i, fmt.Errorf("%w: slot %d holds %s", InvalidData, slot, buf.TypeID()))
			}
			slot++
		}
		data := region[first*micrortu.IEBufSize : slot*micrortu.IEBufSize]
		if err := b.add(i, d, data, micrortu.IEBufSize, 1, slot-first); err != nil {
			return nil, err
		}
		slot++
	}
	return b, nil
}

func (b *Bindings) lookup(name string) (view, error) {
	i, ok := b.byName[name]
	if !ok {
		return view{}, fmt.Errorf("%w: %s", ErrNoSuchField, name)
	}
	return b.views[i], nil
}

// In returns a readable field.
func (b *Bindings) In(name string) (Input, error) {
	v, err := b.lookup(name)
	if err == nil && !v.def.Direction.Readable() {
		err = fmt.Errorf("%w: %s is %s", ErrWrongDirection, name, v.def.Direction)
	}
	return Input{v}, err
}

// Out returns a writable field.
func (b *Bindings) Out(name string) (Output, error) {
	v, err := b.lookup(name)
	if err == nil && !v.def.Direction.Writable() {
		err = fmt.Errorf("%w: %s is %s", ErrWrongDirection, name, v.def.Direction)
	}
	return Output{v}, err
}

// InOut returns a field declared in_out.
func (b *Bindings) InOut(name string) (InOut, error) {
	v, err := b.lookup(name)
	if err == nil && v.def.Direction != InOut {
		err = fmt.Errorf("%w: %s is %s", ErrWrongDirection, name, v.def.Direction)
	}
	return InOut{v}, err
}

// Values reads every element of a field regardless of its direction. Hosts use it to collect outputs.
func (b *Bindings) Values(name string) ([]micrortu.SmallIE, error) {
	v, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	return v.values(), nil
}

// Changed lists the elements of a field marked dirty.
func (b *Bindings) Changed(name string) ([]int, error) {
	v, err := b.lookup(name)
	if err != nil {
		return nil, err
	}
	var out []int
	if v.dirty == nil {
		return out, nil
	}
	for i := 0; i < v.count; i++ {
		if v.dirty.IsSet(v.base + i) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (b *Bindings) Definitions() []Definition {
	defs := make([]Definition, len(b.views))
	for i, v := range b.views {
		defs[i] = v.def
	}
	return defs
}

func (b *Bindings) Dirty() *Dirty { return b.dirty }

// DirtyLen is the number of dirty positions assigned.
func (b *Bindings) DirtyLen() int { return b.next }
