package registry

import (
	"encoding/json"
	"fmt"

	"github.com/yobol/go-micrortu/binding"
)

// Span selects Count consecutive records starting at First.
type Span struct {
	First uint16 `json:"first"`
	Count uint16 `json:"count"`
}

// BlockRecord locates a block's name in the string table and its bindings in the binding table.
type BlockRecord struct {
	NameOffset uint16 `json:"name_offset"`
	NameLen    uint8  `json:"name_len"`
	Ports      Span   `json:"ports"`
	Params     Span   `json:"params"`
}

// Blob is the frozen output of a registry: one interned string table, one record per block and one binding
// definition per port and parameter.
type Blob struct {
	Strings  []byte
	Blocks   []BlockRecord
	Bindings []binding.BindingDefinition

	meta []Block
}

type interner struct {
	table []byte
	index map[string]int
}

func (in *interner) intern(s string) (int, error) {
	if off, ok := in.index[s]; ok {
		return off, nil
	}
	off := len(in.table)
	if off+len(s) > 0xffff {
		return 0, fmt.Errorf("string table full at %q", s)
	}
	in.table = append(in.table, s...)
	in.index[s] = off
	return off, nil
}

func newBlob(blocks []Block) (*Blob, error) {
	in := &interner{index: make(map[string]int)}
	blob := &Blob{meta: blocks}

	span := func(ports []Port) (Span, error) {
		if len(blob.Bindings)+len(ports) > 0xffff {
			return Span{}, fmt.Errorf("binding table full at %d records", len(blob.Bindings))
		}
		s := Span{First: uint16(len(blob.Bindings)), Count: uint16(len(ports))}
		for _, p := range ports {
			off, err := in.intern(p.Name)
			if err != nil {
				return s, err
			}
			bd, err := binding.NewBindingDefinition(p.Definition(), off)
			if err != nil {
				return s, err
			}
			blob.Bindings = append(blob.Bindings, bd)
		}
		return s, nil
	}

	for _, b := range blocks {
		off, err := in.intern(b.Name)
		if err != nil {
			return nil, err
		}
		rec := BlockRecord{NameOffset: uint16(off), NameLen: uint8(len(b.Name))}
		if rec.Ports, err = span(b.Ports); err != nil {
			return nil, fmt.Errorf("block %s: %w", b.Name, err)
		}
		if rec.Params, err = span(b.Params); err != nil {
			return nil, fmt.Errorf("block %s: %w", b.Name, err)
		}
		blob.Blocks = append(blob.Blocks, rec)
	}
	blob.Strings = in.table
	return blob, nil
}

func (b *Blob) name(rec BlockRecord) string {
	return string(b.Strings[rec.NameOffset : int(rec.NameOffset)+int(rec.NameLen)])
}

func (b *Blob) record(block string) (BlockRecord, error) {
	for _, rec := range b.Blocks {
		if b.name(rec) == block {
			return rec, nil
		}
	}
	return BlockRecord{}, fmt.Errorf("%w: %s", ErrNotFound, block)
}

func (b *Blob) resolve(s Span) ([]binding.Definition, error) {
	end := int(s.First) + int(s.Count)
	if end > len(b.Bindings) {
		return nil, fmt.Errorf("%w: span %d+%d past %d bindings", binding.BadHeader, s.First, s.Count, len(b.Bindings))
	}
	defs := make([]binding.Definition, 0, s.Count)
	for _, bd := range b.Bindings[s.First:end] {
		d, err := bd.Resolve(b.Strings)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Ports resolves the port definitions of block from the tables.
func (b *Blob) Ports(block string) ([]binding.Definition, error) {
	rec, err := b.record(block)
	if err != nil {
		return nil, err
	}
	return b.resolve(rec.Ports)
}

// Params resolves the parameter definitions of block from the tables.
func (b *Blob) Params(block string) ([]binding.Definition, error) {
	rec, err := b.record(block)
	if err != nil {
		return nil, err
	}
	return b.resolve(rec.Params)
}

// BindingTable is the concatenation of the binding definition records.
func (b *Blob) BindingTable() []byte {
	out := make([]byte, 0, len(b.Bindings)*binding.BindingDefinitionSize)
	for _, bd := range b.Bindings {
		p, _ := bd.MarshalBinary()
		out = append(out, p...)
	}
	return out
}

// MarshalJSON emits the block metadata, {"blocks": [...]}.
func (b *Blob) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Blocks []Block `json:"blocks"`
	}{b.meta})
}
