package micrortu

import "cmp"

/*
RawQualityDescriptor is the quality byte shared by SIQ, DIQ and QDS.

	| <-                 8 bits                 -> |
	------------------------------------------------
	| IV  | NT  | SB  | BL |  x  |  x  |  x  |  x  |

The low nibble carries the value (SPI, DPI) or the overflow flag, depending on the element that owns the byte.
- BL (blocked): the value is blocked for transmission and keeps the state it had before it was blocked.
- SB (substituted): the value was provided by an operator or an automatic source instead of the acquisition.
- NT (not topical): the most recent update was unsuccessful.
- IV (invalid): the value was incorrectly acquired.
*/
type RawQualityDescriptor uint8

const (
	OV RawQualityDescriptor = 1 << 0 // overflow, QDS only
	BL RawQualityDescriptor = 1 << 4 // blocked
	SB RawQualityDescriptor = 1 << 5 // substituted
	NT RawQualityDescriptor = 1 << 6 // not topical
	IV RawQualityDescriptor = 1 << 7 // invalid

	qualityNibble RawQualityDescriptor = 0xf0
)

func (q RawQualityDescriptor) Blocked() bool { return q&BL == BL }
func (q RawQualityDescriptor) Substituted() bool { return q&SB == SB }
func (q RawQualityDescriptor) NotTopical() bool { return q&NT == NT }
func (q RawQualityDescriptor) Invalid() bool { return q&IV == IV }

func (q *RawQualityDescriptor) SetBlocked(v bool) { q.set(BL, v) }
func (q *RawQualityDescriptor) SetSubstituted(v bool) { q.set(SB, v) }
func (q *RawQualityDescriptor) SetNotTopical(v bool) { q.set(NT, v) }
func (q *RawQualityDescriptor) SetInvalid(v bool) { q.set(IV, v) }

func (q *RawQualityDescriptor) set(bit RawQualityDescriptor, v bool) {
	if v {
		*q |= bit
	} else {
		*q &^= bit
	}
}

// Compare orders quality bytes by their quality nibble only, worse quality first. Bytes that differ only in the
// value bits compare equal.
//
// The ordering is taken as-is from the field devices and has not been confirmed by the product owner.
func (q RawQualityDescriptor) Compare(other RawQualityDescriptor) int {
	return cmp.Compare(other&qualityNibble, q&qualityNibble)
}

// overflow and setOverflow are the single accessor for the OV bit. capable is the per-type constant reported by
// HasOverflowBit.
func (q RawQualityDescriptor) overflow(capable bool) bool {
	return capable && q&OV == OV
}

func (q *RawQualityDescriptor) setOverflow(capable bool, v bool) {
	if capable {
		q.set(OV, v)
	}
}

func (q RawQualityDescriptor) isBad(capable bool) bool {
	return q&qualityNibble != 0 || q.overflow(capable)
}

// QualityDescriptor is implemented by *SIQ, *DIQ and *QDS.
type QualityDescriptor interface {
	HasOverflowBit() bool
	Overflow() bool
	SetOverflow(v bool)
	Blocked() bool
	SetBlocked(v bool)
	Substituted() bool
	SetSubstituted(v bool)
	NotTopical() bool
	SetNotTopical(v bool)
	Invalid() bool
	SetInvalid(v bool)
	IsGood() bool
	IsBad() bool
	Raw() RawQualityDescriptor
}

const (
	siqHasOverflow = false
	diqHasOverflow = false
	qdsHasOverflow = true
)

// SIQ indicates single-point information with quality descriptor.
//
//	| IV  | NT  | SB  | BL |  0  |  0  |  0  | SPI |
type SIQ struct{ RawQualityDescriptor }

func (q SIQ) SPI() bool { return q.RawQualityDescriptor&0b1 == 0b1 }

func (q *SIQ) SetSPI(v bool) { q.set(0b1, v) }

func (q SIQ) HasOverflowBit() bool { return siqHasOverflow }
func (q SIQ) Overflow() bool { return q.overflow(siqHasOverflow) }
func (q *SIQ) SetOverflow(v bool) { q.setOverflow(siqHasOverflow, v) }
func (q SIQ) IsBad() bool { return q.isBad(siqHasOverflow) }
func (q SIQ) IsGood() bool { return !q.IsBad() }
func (q SIQ) Raw() RawQualityDescriptor { return q.RawQualityDescriptor }
func (q SIQ) Compare(other SIQ) int { return q.RawQualityDescriptor.Compare(other.RawQualityDescriptor) }
func (q SIQ) String() string { return qualityString(q.RawQualityDescriptor, siqHasOverflow) }

/*
DIQ indicates double-point information with quality descriptor.

	| IV  | NT  | SB  | BL |  0  |  0  |    DPI    |
*/
type DIQ struct{ RawQualityDescriptor }

func (q DIQ) DPI() DPI { return DPI(q.RawQualityDescriptor & 0b11) }

func (q *DIQ) SetDPI(v DPI) {
	q.RawQualityDescriptor = q.RawQualityDescriptor&^0b11 | RawQualityDescriptor(v&0b11)
}

func (q DIQ) HasOverflowBit() bool { return diqHasOverflow }
func (q DIQ) Overflow() bool { return q.overflow(diqHasOverflow) }
func (q *DIQ) SetOverflow(v bool) { q.setOverflow(diqHasOverflow, v) }
func (q DIQ) IsBad() bool { return q.isBad(diqHasOverflow) }
func (q DIQ) IsGood() bool { return !q.IsBad() }
func (q DIQ) Raw() RawQualityDescriptor { return q.RawQualityDescriptor }
func (q DIQ) Compare(other DIQ) int { return q.RawQualityDescriptor.Compare(other.RawQualityDescriptor) }
func (q DIQ) String() string { return qualityString(q.RawQualityDescriptor, diqHasOverflow) }

/*
QDS indicates quality descriptor of a measured value.

	| IV  | NT  | SB  | BL |  0  |  0  |  0  | OV  |
*/
type QDS struct{ RawQualityDescriptor }

func (q QDS) HasOverflowBit() bool { return qdsHasOverflow }
func (q QDS) Overflow() bool { return q.overflow(qdsHasOverflow) }
func (q *QDS) SetOverflow(v bool) { q.setOverflow(qdsHasOverflow, v) }
func (q QDS) IsBad() bool { return q.isBad(qdsHasOverflow) }
func (q QDS) IsGood() bool { return !q.IsBad() }
func (q QDS) Raw() RawQualityDescriptor { return q.RawQualityDescriptor }
func (q QDS) Compare(other QDS) int { return q.RawQualityDescriptor.Compare(other.RawQualityDescriptor) }
func (q QDS) String() string { return qualityString(q.RawQualityDescriptor, qdsHasOverflow) }

func qualityString(q RawQualityDescriptor, capable bool) string {
	s := "["
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"IV", q.Invalid()},
		{"NT", q.NotTopical()},
		{"SB", q.Substituted()},
		{"BL", q.Blocked()},
		{"OV", q.overflow(capable)},
	} {
		if f.set {
			if len(s) > 1 {
				s += " "
			}
			s += f.name
		}
	}
	return s + "]"
}

// DPI (double point information) is the two bit state of a double point.
type DPI uint8

const (
	DPIIndeterminate0 DPI = iota // intermediate state
	DPIOff                       // determined state off
	DPIOn                        // determined state on
	DPIIndeterminate1            // indeterminate state
)

// Bool returns the determined state. Both indeterminate values return ErrInvalidState.
func (d DPI) Bool() (bool, error) {
	switch d & 0b11 {
	case DPIOff:
		return false, nil
	case DPIOn:
		return true, nil
	default:
		return false, ErrInvalidState
	}
}

func DPIFromBool(v bool) DPI {
	if v {
		return DPIOn
	}
	return DPIOff
}

func (d DPI) String() string {
	switch d & 0b11 {
	case DPIOff:
		return "off"
	case DPIOn:
		return "on"
	case DPIIndeterminate0:
		return "indeterminate(0)"
	default:
		return "indeterminate(3)"
	}
}
