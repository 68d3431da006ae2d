package micrortu

import (
	"cmp"
	"fmt"
)

/*
RawQualifierOfCommand (QOC) is the qualifier byte of single and double commands.

	| <-                 8 bits                 -> |
	------------------------------------------------
	| S/E |             QU              |  x  |  x  |

- S/E: 0 execute, 1 select.
- QU: qualifier of command, see QU.
The two low bits carry the command state and belong to the element that owns the byte.
*/
type RawQualifierOfCommand uint8

const (
	qocSE     RawQualifierOfCommand = 1 << 7
	qocQUMask RawQualifierOfCommand = 0b11111 << 2
	qocMask   RawQualifierOfCommand = 0xfc
)

// Select reports whether the command is a select (true) or an execute (false).
func (q RawQualifierOfCommand) Select() bool { return q&qocSE == qocSE }

func (q *RawQualifierOfCommand) SetSelect(v bool) {
	if v {
		*q |= qocSE
	} else {
		*q &^= qocSE
	}
}

func (q RawQualifierOfCommand) QU() QU { return QU(q&qocQUMask) >> 2 }

func (q *RawQualifierOfCommand) SetQU(qu QU) {
	*q = *q&^qocQUMask | RawQualifierOfCommand(qu&0b11111)<<2
}

// Compare orders qualifiers by their S/E and QU bits, reversed, ignoring the command state.
func (q RawQualifierOfCommand) Compare(other RawQualifierOfCommand) int {
	return cmp.Compare(other&qocMask, q&qocMask)
}

// QU (qualifier of command) is a five bit field. Values above PersistentOutput are reserved and are kept as-is so
// that a byte read from the wire is written back unchanged.
type QU uint8

const (
	QUDefault          QU = iota // no additional definition
	QUShortPulse                 // short pulse duration (circuit-breaker), duration determined by a system parameter
	QULongPulse                  // long pulse duration, duration determined by a system parameter
	QUPersistentOutput           // persistent output
)

// QUReserved returns the reserved qualifier v, masked to five bits.
func QUReserved(v uint8) QU {
	return QU(v & 0b11111)
}

// Reserved returns the raw value and true when qu is not one of the defined qualifiers.
func (qu QU) Reserved() (uint8, bool) {
	if qu > QUPersistentOutput {
		return uint8(qu), true
	}
	return 0, false
}

func (qu QU) String() string {
	switch qu {
	case QUDefault:
		return "default"
	case QUShortPulse:
		return "short pulse"
	case QULongPulse:
		return "long pulse"
	case QUPersistentOutput:
		return "persistent output"
	default:
		return fmt.Sprintf("reserved(%d)", uint8(qu))
	}
}

/*
SCO indicates single command.

	| S/E |             QU              |  0  | SCS |
*/
type SCO struct{ RawQualifierOfCommand }

// SCS is the single command state, true for on.
func (c SCO) SCS() bool { return c.RawQualifierOfCommand&0b1 == 0b1 }

func (c *SCO) SetSCS(v bool) {
	if v {
		c.RawQualifierOfCommand |= 0b1
	} else {
		c.RawQualifierOfCommand &^= 0b1
	}
}

func (c SCO) Compare(other SCO) int {
	return c.RawQualifierOfCommand.Compare(other.RawQualifierOfCommand)
}

/*
DCO indicates double command.

	| S/E |             QU              |    DCS    |
*/
type DCO struct{ RawQualifierOfCommand }

// DCS is the double command state. It shares its encoding with DPI.
type DCS = DPI

func (c DCO) DCS() DCS { return DCS(c.RawQualifierOfCommand & 0b11) }

func (c *DCO) SetDCS(v DCS) {
	c.RawQualifierOfCommand = c.RawQualifierOfCommand&^0b11 | RawQualifierOfCommand(v&0b11)
}

func (c DCO) Compare(other DCO) int {
	return c.RawQualifierOfCommand.Compare(other.RawQualifierOfCommand)
}

/*
QOS indicates qualifier of set-point command.

	| S/E |                   QL                    |

QL 0 is the default, 1..63 are reserved for the standard and 64..127 for special use.
*/
type QOS uint8

const (
	qosSE QOS = 1 << 7
	qosQL QOS = 0x7f
)

func (q QOS) Select() bool { return q&qosSE == qosSE }

func (q *QOS) SetSelect(v bool) {
	if v {
		*q |= qosSE
	} else {
		*q &^= qosSE
	}
}

func (q QOS) QL() uint8 { return uint8(q & qosQL) }

func (q *QOS) SetQL(v uint8) {
	*q = *q&^qosQL | QOS(v)&qosQL
}

/*
QPM indicates qualifier of parameter of measured values.

	| POP | LPC |               KPA               |

- POP: 0 operation, 1 not in operation.
- LPC: 0 no change, 1 change.
*/
type QPM uint8

const (
	qpmPOP QPM = 1 << 7
	qpmLPC QPM = 1 << 6
	qpmKPA QPM = 0x3f
)

func (q QPM) POP() bool { return q&qpmPOP == qpmPOP }

func (q *QPM) SetPOP(v bool) { q.set(qpmPOP, v) }

func (q QPM) LPC() bool { return q&qpmLPC == qpmLPC }

func (q *QPM) SetLPC(v bool) { q.set(qpmLPC, v) }

func (q QPM) KPA() KPA { return KPA(q & qpmKPA) }

func (q *QPM) SetKPA(k KPA) {
	*q = *q&^qpmKPA | QPM(k)&qpmKPA
}

func (q *QPM) set(bit QPM, v bool) {
	if v {
		*q |= bit
	} else {
		*q &^= bit
	}
}

// KPA (kind of parameter). Values 5..31 are reserved for the standard and 32..63 for special use.
type KPA uint8

const (
	KPAUnused KPA = iota
	KPAThresholdValue
	KPASmoothingFactor
	KPALowLimitForTx
	KPAHighLimitForTx
)

func (k KPA) String() string {
	switch k {
	case KPAUnused:
		return "unused"
	case KPAThresholdValue:
		return "threshold value"
	case KPASmoothingFactor:
		return "smoothing factor"
	case KPALowLimitForTx:
		return "low limit for transmission"
	case KPAHighLimitForTx:
		return "high limit for transmission"
	default:
		return fmt.Sprintf("reserved(%d)", uint8(k))
	}
}
