package micrortu

import (
	"fmt"
	"strconv"
	"strings"
)

/*
TypeID (Type Identification, 1 byte) identifies the kind of an information element. It is the first byte of every
IEBuf and the discriminant of SmallIE.
- value range:
  - 0 is not used, an IEBuf starting with 0 is the terminator;
  - 1-127 is used for standard IEC 101 definitions:
    | Type ID | Group                                    |
    | 1-40    | Process information in monitor direction |
    | 45-51   | Process information in control direction |
    | 110-113 | Parameter in control direction           |
  - 128-135 is reserved for message routing;
  - 136-255 for special use, the wide integer kinds below live there.

Only the kinds listed here are supported. Anything else is rejected with ErrDeserialization.
*/
type TypeID uint8

const (
	// Process information in monitor direction

	// MSpNa1 indicates single point information.
	// InformationElement Format: SIQ
	MSpNa1 TypeID = 0x1
	// MDpNa1 indicates double point information.
	// InformationElement Format: DIQ
	MDpNa1 TypeID = 0x3
	// MMeNb1 indicates measured value, scaled value.
	// InformationElement Format: SVA + QDS
	MMeNb1 TypeID = 0xb // 11
	// MMeNc1 indicates measured value, short floating point number.
	// InformationElement Format: IEEE STD 754 + QDS
	MMeNc1 TypeID = 0xd // 13

	// Process information in control direction

	// CScNa1 indicates single command.
	// InformationElement Format: SCO
	CScNa1 TypeID = 0x2d // 45
	// CDcNa1 indicates double command.
	// InformationElement Format: DCO
	CDcNa1 TypeID = 0x2e // 46
	// CSeNb1 indicates set-point command, scaled value.
	// InformationElement Format: SVA + QOS
	CSeNb1 TypeID = 0x31 // 49
	// CSeNc1 indicates set-point command, short floating point number.
	// InformationElement Format: IEEE STD 754 + QOS
	CSeNc1 TypeID = 0x32 // 50

	// Parameter in control direction

	// PMeNc1 indicates parameter of measured value, short floating point number.
	// InformationElement Format: IEEE STD 754 + QPM
	PMeNc1 TypeID = 0x70 // 112

	// Special use, monitor direction

	// MMeU32 indicates measured value, unsigned 32 bit integer.
	// InformationElement Format: U32 + QDS
	MMeU32 TypeID = 0x88 // 136
	// MMeI32 indicates measured value, signed 32 bit integer.
	// InformationElement Format: I32 + QDS
	MMeI32 TypeID = 0x89 // 137
	// MMeU64 indicates measured value, unsigned 64 bit integer.
	// InformationElement Format: U64 + QDS
	MMeU64 TypeID = 0x8a // 138
	// MMeI64 indicates measured value, signed 64 bit integer.
	// InformationElement Format: I64 + QDS
	MMeI64 TypeID = 0x8b // 139

	// Special use, control direction

	// CSeU32 indicates set-point command, unsigned 32 bit integer.
	// InformationElement Format: U32 + QOS
	CSeU32 TypeID = 0xc8 // 200
	// CSeI32 indicates set-point command, signed 32 bit integer.
	// InformationElement Format: I32 + QOS
	CSeI32 TypeID = 0xc9 // 201
	// CSeU64 indicates set-point command, unsigned 64 bit integer.
	// InformationElement Format: U64 + QOS
	CSeU64 TypeID = 0xca // 202
	// CSeI64 indicates set-point command, signed 64 bit integer.
	// InformationElement Format: I64 + QOS
	CSeI64 TypeID = 0xcb // 203
)

const (
	// MaxElementSize is the payload size of the largest supported element.
	MaxElementSize = 9
	// IEBufSize is the size of IEBuf and SmallIE: the type identification followed by the largest payload.
	IEBufSize = 1 + MaxElementSize
)

type qualityKind uint8

const (
	qualityNone qualityKind = iota
	qualitySIQ
	qualityDIQ
	qualityQDS
)

type catalogEntry struct {
	name    string
	size    int
	quality qualityKind
	// monitor is the kind a value of this kind is reported as in monitor direction, zero if there is none.
	monitor TypeID
	zero    InformationElement
}

var catalog = func() (c [256]*catalogEntry) {
	for _, e := range []catalogEntry{
		{"M_SP_NA_1", 1, qualitySIQ, MSpNa1, SinglePoint{}},
		{"M_DP_NA_1", 1, qualityDIQ, MDpNa1, DoublePoint{}},
		{"M_ME_NB_1", 3, qualityQDS, MMeNb1, ScaledValue{}},
		{"M_ME_NC_1", 5, qualityQDS, MMeNc1, FloatValue{}},
		{"C_SC_NA_1", 1, qualityNone, MSpNa1, SingleCommand{}},
		{"C_DC_NA_1", 1, qualityNone, MDpNa1, DoubleCommand{}},
		{"C_SE_NB_1", 3, qualityNone, MMeNb1, ScaledSetpoint{}},
		{"C_SE_NC_1", 5, qualityNone, MMeNc1, FloatSetpoint{}},
		{"P_ME_NC_1", 5, qualityNone, 0, FloatParameter{}},
		{"M_ME_U32", 5, qualityQDS, MMeU32, Uint32Value{}},
		{"M_ME_I32", 5, qualityQDS, MMeI32, Int32Value{}},
		{"M_ME_U64", 9, qualityQDS, MMeU64, Uint64Value{}},
		{"M_ME_I64", 9, qualityQDS, MMeI64, Int64Value{}},
		{"C_SE_U32", 5, qualityNone, MMeU32, Uint32Setpoint{}},
		{"C_SE_I32", 5, qualityNone, MMeI32, Int32Setpoint{}},
		{"C_SE_U64", 9, qualityNone, MMeU64, Uint64Setpoint{}},
		{"C_SE_I64", 9, qualityNone, MMeI64, Int64Setpoint{}},
	} {
		e := e
		if e.zero.Size() != e.size {
			panic(fmt.Sprintf("catalog: %s declares %d bytes, element encodes %d", e.name, e.size, e.zero.Size()))
		}
		c[e.zero.TypeID()] = &e
	}
	return c
}()

func lookup(id TypeID) (*catalogEntry, bool) {
	e := catalog[id]
	return e, e != nil
}

// Known reports whether id is a supported type identification.
func (id TypeID) Known() bool {
	_, ok := lookup(id)
	return ok
}

// Size returns the payload size of the kind, or 0 if the kind is unknown.
func (id TypeID) Size() int {
	if e, ok := lookup(id); ok {
		return e.size
	}
	return 0
}

func (id TypeID) String() string {
	if e, ok := lookup(id); ok {
		return e.name
	}
	return fmt.Sprintf("TI%d", uint8(id))
}

// TypeIDs lists the supported type identifications in ascending order.
func TypeIDs() []TypeID {
	ids := make([]TypeID, 0, 17)
	for i, e := range catalog {
		if e != nil {
			ids = append(ids, TypeID(i))
		}
	}
	return ids
}

// ParseTypeID accepts the mnemonic (M_ME_NC_1), the decimal code (13) or the code prefixed with TI (ti13).
func ParseTypeID(s string) (TypeID, error) {
	for _, id := range TypeIDs() {
		if id.String() == s {
			return id, nil
		}
	}
	code := s
	if len(code) > 2 && strings.EqualFold(code[:2], "ti") {
		code = code[2:]
	}
	if n, err := strconv.ParseUint(code, 10, 8); err == nil && TypeID(n).Known() {
		return TypeID(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrDeserialization, s)
}

func (id TypeID) MarshalText() ([]byte, error) {
	if !id.Known() {
		return nil, fmt.Errorf("%w: %d", ErrDeserialization, uint8(id))
	}
	return []byte(id.String()), nil
}

func (id *TypeID) UnmarshalText(text []byte) error {
	v, err := ParseTypeID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
