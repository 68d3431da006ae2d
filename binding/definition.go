package binding

import (
	"encoding/binary"
	"fmt"
	"strings"

	micrortu "github.com/yobol/go-micrortu"
)

// Direction of a port or parameter as seen from the block.
type Direction uint8

const (
	In    Direction = 0 // read by the block
	Out   Direction = 1 // written by the block
	InOut Direction = 2 // read and written by the block
)

func (d Direction) Readable() bool { return d == In || d == InOut }
func (d Direction) Writable() bool { return d == Out || d == InOut }
func (d Direction) Valid() bool { return d <= InOut }

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	case InOut:
		return "in_out"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return In, nil
	case "out":
		return Out, nil
	case "in_out", "inout", "in-out":
		return InOut, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Definition describes one port or parameter of a block: its name, direction, element kind and how many elements
// the host may supply. Max 0 means unbounded.
type Definition struct {
	Name      string
	Direction Direction
	Required  bool
	TypeID    micrortu.TypeID
	Min       uint16
	Max       uint16
}

// Single reports whether exactly one element is expected.
func (d Definition) Single() bool {
	return d.Min == 1 && d.Max == 1
}

func (d Definition) Validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: empty name", ErrDefinition)
	case !d.Direction.Valid():
		return fmt.Errorf("%w: %s: %s", ErrDefinition, d.Name, d.Direction)
	case !d.TypeID.Known():
		return fmt.Errorf("%w: %s: unsupported %s", ErrDefinition, d.Name, d.TypeID)
	case d.Min == 0:
		return fmt.Errorf("%w: %s: min must be at least 1", ErrDefinition, d.Name)
	case d.Max != 0 && d.Max < d.Min:
		return fmt.Errorf("%w: %s: max %d below min %d", ErrDefinition, d.Name, d.Max, d.Min)
	}
	return nil
}

func (d Definition) String() string {
	bounds := fmt.Sprintf("%d..", d.Min)
	if d.Max != 0 {
		bounds += fmt.Sprint(d.Max)
	}
	opt := ""
	if !d.Required {
		opt = " optional"
	}
	return fmt.Sprintf("%s: %s %s [%s]%s", d.Name, d.Direction, d.TypeID, bounds, opt)
}

/*
BindingDefinition is the fixed size record a registry emits for each port and parameter. Names are interned in one
string table shared by all records.

	| name offset [2B] | name length [1B] | flags [1B] | type id [1B] | direction [1B] | min [2B] | max [2B] |

Flags bit 0 is set for required bindings. Max 0 means unbounded. Integers are little endian.
*/
type BindingDefinition struct {
	NameOffset uint16
	NameLen    uint8
	Flags      uint8
	TypeID     micrortu.TypeID
	Direction  Direction
	Min        uint16
	Max        uint16
}

const (
	BindingDefinitionSize = 10
	FlagRequired          = 0x01
)

// NewBindingDefinition builds the record of d whose name starts at offset in the string table.
func NewBindingDefinition(d Definition, offset int) (BindingDefinition, error) {
	if offset < 0 || offset > 0xffff || len(d.Name) > 0xff {
		return BindingDefinition{}, fmt.Errorf("%w: %s: name does not fit the string table", ErrDefinition, d.Name)
	}
	bd := BindingDefinition{
		NameOffset: uint16(offset),
		NameLen:    uint8(len(d.Name)),
		TypeID:     d.TypeID,
		Direction:  d.Direction,
		Min:        d.Min,
		Max:        d.Max,
	}
	if d.Required {
		bd.Flags |= FlagRequired
	}
	return bd, nil
}

func (bd BindingDefinition) MarshalBinary() ([]byte, error) {
	b := make([]byte, BindingDefinitionSize)
	binary.LittleEndian.PutUint16(b[0:], bd.NameOffset)
	b[2] = bd.NameLen
	b[3] = bd.Flags
	b[4] = byte(bd.TypeID)
	b[5] = byte(bd.Direction)
	binary.LittleEndian.PutUint16(b[6:], bd.Min)
	binary.LittleEndian.PutUint16(b[8:], bd.Max)
	return b, nil
}

func (bd *BindingDefinition) UnmarshalBinary(b []byte) error {
	if len(b) < BindingDefinitionSize {
		return fmt.Errorf("%w: binding definition needs %d bytes, got %d", BadHeader, BindingDefinitionSize, len(b))
	}
	*bd = BindingDefinition{
		NameOffset: binary.LittleEndian.Uint16(b[0:]),
		NameLen:    b[2],
		Flags:      b[3],
		TypeID:     micrortu.TypeID(b[4]),
		Direction:  Direction(b[5]),
		Min:        binary.LittleEndian.Uint16(b[6:]),
		Max:        binary.LittleEndian.Uint16(b[8:]),
	}
	return nil
}

// Resolve looks the name up in strings and validates the result.
func (bd BindingDefinition) Resolve(strings []byte) (Definition, error) {
	end := int(bd.NameOffset) + int(bd.NameLen)
	if end > len(strings) {
		return Definition{}, fmt.Errorf("%w: name %d..%d outside string table of %d bytes", ErrDefinition, bd.NameOffset, end, len(strings))
	}
	d := Definition{
		Name:      string(strings[bd.NameOffset:end]),
		Direction: bd.Direction,
		Required:  bd.Flags&FlagRequired != 0,
		TypeID:    bd.TypeID,
		Min:       bd.Min,
		Max:       bd.Max,
	}
	return d, d.Validate()
}

// DecodeBindingDefinitions reads consecutive records from b and resolves them against strings.
func DecodeBindingDefinitions(b, strings []byte) ([]Definition, error) {
	if len(b)%BindingDefinitionSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of binding definitions", BadHeader, len(b))
	}
	defs := make([]Definition, 0, len(b)/BindingDefinitionSize)
	for off := 0; off < len(b); off += BindingDefinitionSize {
		var bd BindingDefinition
		if err := bd.UnmarshalBinary(b[off:]); err != nil {
			return nil, err
		}
		d, err := bd.Resolve(strings)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}
