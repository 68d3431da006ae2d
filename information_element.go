package micrortu

import (
	"encoding/binary"
	"math"
)

/*
InformationElement is a building block used to transmit information. Format and length of each information element
differs and is given by its TypeID. All elements are byte packed and little endian, the value comes first and the
quality or qualifier byte last:

	| <-                 8 bits                  -> |
	| Value (0, 2, 4 or 8 bytes, little endian)     |
	| Quality descriptor / qualifier (1 byte)       |

Elements are plain values: the zero value of every element is valid, and no element validates itself. Validity is
a property of the TypeID carried next to it in SmallIE and IEBuf.
*/
type InformationElement interface {
	TypeID() TypeID
	// Size is the packed payload size in bytes.
	Size() int
	// PutBytes writes the payload into b, which must hold at least Size bytes.
	PutBytes(b []byte)

	informationElement()
}

// SinglePoint is the element of M_SP_NA_1.
type SinglePoint struct {
	SIQ SIQ
}

func (SinglePoint) TypeID() TypeID { return MSpNa1 }
func (SinglePoint) Size() int { return 1 }
func (e SinglePoint) PutBytes(b []byte) { b[0] = byte(e.SIQ.RawQualityDescriptor) }
func (SinglePoint) informationElement() {}
func (e SinglePoint) Value() bool { return e.SIQ.SPI() }
func (e SinglePoint) Bool() (bool, error) { return e.SIQ.SPI(), nil }

// DoublePoint is the element of M_DP_NA_1.
type DoublePoint struct {
	DIQ DIQ
}

func (DoublePoint) TypeID() TypeID { return MDpNa1 }
func (DoublePoint) Size() int { return 1 }
func (e DoublePoint) PutBytes(b []byte) { b[0] = byte(e.DIQ.RawQualityDescriptor) }
func (DoublePoint) informationElement() {}
func (e DoublePoint) Value() DPI { return e.DIQ.DPI() }
func (e DoublePoint) Bool() (bool, error) { return e.DIQ.DPI().Bool() }

// ScaledValue is the element of M_ME_NB_1.
type ScaledValue struct {
	Value int16
	QDS   QDS
}

func (ScaledValue) TypeID() TypeID { return MMeNb1 }
func (ScaledValue) Size() int { return 3 }
func (ScaledValue) informationElement() {}

func (e ScaledValue) PutBytes(b []byte) {
	binary.LittleEndian.PutUint16(b, uint16(e.Value))
	b[2] = byte(e.QDS.RawQualityDescriptor)
}

// FloatValue is the element of M_ME_NC_1.
type FloatValue struct {
	Value float32
	QDS   QDS
}

func (FloatValue) TypeID() TypeID { return MMeNc1 }
func (FloatValue) Size() int { return 5 }
func (FloatValue) informationElement() {}

func (e FloatValue) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(e.Value))
	b[4] = byte(e.QDS.RawQualityDescriptor)
}

// Uint32Value is the element of M_ME_U32.
type Uint32Value struct {
	Value uint32
	QDS   QDS
}

func (Uint32Value) TypeID() TypeID { return MMeU32 }
func (Uint32Value) Size() int { return 5 }
func (Uint32Value) informationElement() {}

func (e Uint32Value) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b, e.Value)
	b[4] = byte(e.QDS.RawQualityDescriptor)
}

// Int32Value is the element of M_ME_I32.
type Int32Value struct {
	Value int32
	QDS   QDS
}

func (Int32Value) TypeID() TypeID { return MMeI32 }
func (Int32Value) Size() int { return 5 }
func (Int32Value) informationElement() {}

func (e Int32Value) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b, uint32(e.Value))
	b[4] = byte(e.QDS.RawQualityDescriptor)
}

// Uint64Value is the element of M_ME_U64.
type Uint64Value struct {
	Value uint64
	QDS   QDS
}

func (Uint64Value) TypeID() TypeID { return MMeU64 }
func (Uint64Value) Size() int { return 9 }
func (Uint64Value) informationElement() {}

func (e Uint64Value) PutBytes(b []byte) {
	binary.LittleEndian.PutUint64(b, e.Value)
	b[8] = byte(e.QDS.RawQualityDescriptor)
}

// Int64Value is the element of M_ME_I64.
type Int64Value struct {
	Value int64
	QDS   QDS
}

func (Int64Value) TypeID() TypeID { return MMeI64 }
func (Int64Value) Size() int { return 9 }
func (Int64Value) informationElement() {}

func (e Int64Value) PutBytes(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(e.Value))
	b[8] = byte(e.QDS.RawQualityDescriptor)
}

// SingleCommand is the element of C_SC_NA_1.
type SingleCommand struct {
	SCO SCO
}

func (SingleCommand) TypeID() TypeID { return CScNa1 }
func (SingleCommand) Size() int { return 1 }
func (e SingleCommand) PutBytes(b []byte) { b[0] = byte(e.SCO.RawQualifierOfCommand) }
func (SingleCommand) informationElement() {}
func (e SingleCommand) Value() bool { return e.SCO.SCS() }
func (e SingleCommand) Bool() (bool, error) { return e.SCO.SCS(), nil }

// DoubleCommand is the element of C_DC_NA_1.
type DoubleCommand struct {
	DCO DCO
}

func (DoubleCommand) TypeID() TypeID { return CDcNa1 }
func (DoubleCommand) Size() int { return 1 }
func (e DoubleCommand) PutBytes(b []byte) { b[0] = byte(e.DCO.RawQualifierOfCommand) }
func (DoubleCommand) informationElement() {}
func (e DoubleCommand) Value() DCS { return e.DCO.DCS() }
func (e DoubleCommand) Bool() (bool, error) { return e.DCO.DCS().Bool() }

// ScaledSetpoint is the element of C_SE_NB_1.
type ScaledSetpoint struct {
	Value int16
	QOS   QOS
}

func (ScaledSetpoint) TypeID() TypeID { return CSeNb1 }
func (ScaledSetpoint) Size() int { return 3 }
func (ScaledSetpoint) informationElement() {}

func (e ScaledSetpoint) PutBytes(b []byte) {
	binary.LittleEndian.PutUint16(b, uint16(e.Value))
	b[2] = byte(e.QOS)
}

// FloatSetpoint is the element of C_SE_NC_1.
type FloatSetpoint struct {
	Value float32
	QOS   QOS
}

func (FloatSetpoint) TypeID() TypeID { return CSeNc1 }
func (FloatSetpoint) Size() int { return 5 }
func (FloatSetpoint) informationElement() {}

func (e FloatSetpoint) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(e.Value))
	b[4] = byte(e.QOS)
}

// Uint32Setpoint is the element of C_SE_U32.
type Uint32Setpoint struct {
	Value uint32
	QOS   QOS
}

func (Uint32Setpoint) TypeID() TypeID { return CSeU32 }
func (Uint32Setpoint) Size() int { return 5 }
func (Uint32Setpoint) informationElement() {}

func (e Uint32Setpoint) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b, e.Value)
	b[4] = byte(e.QOS)
}

// Int32Setpoint is the element of C_SE_I32.
type Int32Setpoint struct {
	Value int32
	QOS   QOS
}

func (Int32Setpoint) TypeID() TypeID { return CSeI32 }
func (Int32Setpoint) Size() int { return 5 }
func (Int32Setpoint) informationElement() {}

func (e Int32Setpoint) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b, uint32(e.Value))
	b[4] = byte(e.QOS)
}

// Uint64Setpoint is the element of C_SE_U64.
type Uint64Setpoint struct {
	Value uint64
	QOS   QOS
}

func (Uint64Setpoint) TypeID() TypeID { return CSeU64 }
func (Uint64Setpoint) Size() int { return 9 }
func (Uint64Setpoint) informationElement() {}

func (e Uint64Setpoint) PutBytes(b []byte) {
	binary.LittleEndian.PutUint64(b, e.Value)
	b[8] = byte(e.QOS)
}

// Int64Setpoint is the element of C_SE_I64.
type Int64Setpoint struct {
	Value int64
	QOS   QOS
}

func (Int64Setpoint) TypeID() TypeID { return CSeI64 }
func (Int64Setpoint) Size() int { return 9 }
func (Int64Setpoint) informationElement() {}

func (e Int64Setpoint) PutBytes(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(e.Value))
	b[8] = byte(e.QOS)
}

// FloatParameter is the element of P_ME_NC_1.
type FloatParameter struct {
	Value float32
	QPM   QPM
}

func (FloatParameter) TypeID() TypeID { return PMeNc1 }
func (FloatParameter) Size() int { return 5 }
func (FloatParameter) informationElement() {}

func (e FloatParameter) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(e.Value))
	b[4] = byte(e.QPM)
}

// decodeElement reads the element of kind id from p. The caller guarantees id is known and len(p) >= id.Size().
func decodeElement(id TypeID, p []byte) InformationElement {
	le := binary.LittleEndian
	switch id {
	case MSpNa1:
		return SinglePoint{SIQ{RawQualityDescriptor(p[0])}}
	case MDpNa1:
		return DoublePoint{DIQ{RawQualityDescriptor(p[0])}}
	case MMeNb1:
		return ScaledValue{int16(le.Uint16(p)), QDS{RawQualityDescriptor(p[2])}}
	case MMeNc1:
		return FloatValue{math.Float32frombits(le.Uint32(p)), QDS{RawQualityDescriptor(p[4])}}
	case MMeU32:
		return Uint32Value{le.Uint32(p), QDS{RawQualityDescriptor(p[4])}}
	case MMeI32:
		return Int32Value{int32(le.Uint32(p)), QDS{RawQualityDescriptor(p[4])}}
	case MMeU64:
		return Uint64Value{le.Uint64(p), QDS{RawQualityDescriptor(p[8])}}
	case MMeI64:
		return Int64Value{int64(le.Uint64(p)), QDS{RawQualityDescriptor(p[8])}}
	case CScNa1:
		return SingleCommand{SCO{RawQualifierOfCommand(p[0])}}
	case CDcNa1:
		return DoubleCommand{DCO{RawQualifierOfCommand(p[0])}}
	case CSeNb1:
		return ScaledSetpoint{int16(le.Uint16(p)), QOS(p[2])}
	case CSeNc1:
		return FloatSetpoint{math.Float32frombits(le.Uint32(p)), QOS(p[4])}
	case CSeU32:
		return Uint32Setpoint{le.Uint32(p), QOS(p[4])}
	case CSeI32:
		return Int32Setpoint{int32(le.Uint32(p)), QOS(p[4])}
	case CSeU64:
		return Uint64Setpoint{le.Uint64(p), QOS(p[8])}
	case CSeI64:
		return Int64Setpoint{int64(le.Uint64(p)), QOS(p[8])}
	case PMeNc1:
		return FloatParameter{math.Float32frombits(le.Uint32(p)), QPM(p[4])}
	}
	panic("micrortu: decodeElement called with unknown type identification " + id.String())
}
