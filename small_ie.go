package micrortu

import (
	"bytes"
	"fmt"
)

/*
SmallIE holds exactly one information element of any supported kind.

Its representation is the type identification followed by the packed payload:

	| TypeID [1B] | payload [TypeID.Size() B] | unused |

so raw[0] always equals TypeID() for values built by NewSmallIE, DefaultForTypeID or read from an IEBuf. The
default element is DefaultForTypeID(MSpNa1). The Go zero value behaves as that element in every method but keeps
raw[0] at 0 until it is written, so it is not == to the default.

Compare elements with Equal, not ==. The unused tail is never interpreted and never compared.
*/
type SmallIE struct {
	raw [IEBufSize]byte
}

// NewSmallIE wraps e.
func NewSmallIE(e InformationElement) SmallIE {
	var ie SmallIE
	ie.raw[0] = byte(e.TypeID())
	e.PutBytes(ie.raw[1:])
	return ie
}

// DefaultForTypeID returns the zeroed element of kind id, or false if id is not supported.
func DefaultForTypeID(id TypeID) (SmallIE, bool) {
	if !id.Known() {
		return SmallIE{}, false
	}
	var ie SmallIE
	ie.raw[0] = byte(id)
	return ie, true
}

func (ie SmallIE) TypeID() TypeID {
	if ie.raw[0] == 0 {
		return MSpNa1
	}
	return TypeID(ie.raw[0])
}

func (ie SmallIE) entry() *catalogEntry {
	if e, ok := lookup(ie.TypeID()); ok {
		return e
	}
	// Only reachable when the IEBuf behind a view is overwritten with garbage after View returned.
	return catalog[MSpNa1]
}

// Size is the payload size of the held element.
func (ie SmallIE) Size() int {
	return ie.entry().size
}

// Bytes returns a copy of the payload, excluding the type identification.
func (ie SmallIE) Bytes() []byte {
	return bytes.Clone(ie.raw[1 : 1+ie.Size()])
}

// MutBytes returns the payload of ie in place. Writes through it change ie.
func (ie *SmallIE) MutBytes() []byte {
	ie.normalize()
	return ie.raw[1 : 1+ie.Size()]
}

// CopyTo copies the payload into dst, which must hold at least Size bytes.
func (ie SmallIE) CopyTo(dst []byte) error {
	n := ie.Size()
	if len(dst) < n {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrBufferTooSmall, n, len(dst))
	}
	copy(dst, ie.raw[1:1+n])
	return nil
}

// Element decodes the held element.
func (ie SmallIE) Element() InformationElement {
	return decodeElement(ie.entry().zero.TypeID(), ie.raw[1:])
}

// Set replaces the held element, kind included.
func (ie *SmallIE) Set(e InformationElement) {
	*ie = NewSmallIE(e)
}

// Equal compares kind and payload.
func (ie SmallIE) Equal(other SmallIE) bool {
	if ie.TypeID() != other.TypeID() {
		return false
	}
	n := ie.Size()
	return bytes.Equal(ie.raw[1:1+n], other.raw[1:1+n])
}

func (ie SmallIE) String() string {
	return fmt.Sprintf("%s%+v", ie.TypeID(), ie.Element())
}

func (ie *SmallIE) normalize() {
	if ie.raw[0] == 0 {
		ie.raw[0] = byte(MSpNa1)
	}
}

// Quality returns a copy of the quality descriptor of monitor direction kinds. Command and parameter kinds carry a
// qualifier instead and return false.
func (ie SmallIE) Quality() (QualityDescriptor, bool) {
	e := ie.entry()
	raw := RawQualityDescriptor(ie.raw[e.size])
	switch e.quality {
	case qualitySIQ:
		return &SIQ{raw}, true
	case qualityDIQ:
		return &DIQ{raw}, true
	case qualityQDS:
		return &QDS{raw}, true
	default:
		return nil, false
	}
}

// UpdateQuality applies fn to the quality descriptor and stores the result. It reports false, without calling fn,
// for kinds without a quality descriptor.
func (ie *SmallIE) UpdateQuality(fn func(q QualityDescriptor)) bool {
	q, ok := ie.Quality()
	if !ok {
		return false
	}
	fn(q)
	ie.normalize()
	ie.raw[ie.Size()] = byte(q.Raw())
	return true
}

// ToMonitorDirection returns the element reported back in monitor direction for a command: the single command
// becomes a single point, set-points become measured values of the same width. Monitor direction kinds are returned
// unchanged. Parameters have no monitor direction counterpart.
func (ie SmallIE) ToMonitorDirection() (SmallIE, error) {
	e := ie.entry()
	if e.monitor == 0 {
		return SmallIE{}, conversionErrorf("%s has no monitor direction counterpart", ie.TypeID())
	}
	if e.monitor == ie.TypeID() {
		return ie, nil
	}
	switch v := ie.Element().(type) {
	case SingleCommand:
		return NewSmallIE(NewSinglePoint(v.SCO.SCS())), nil
	case DoubleCommand:
		var dp DoublePoint
		dp.DIQ.SetDPI(v.DCO.DCS())
		return NewSmallIE(dp), nil
	}
	// Set-points share the value layout of their measured value, only the trailing qualifier differs.
	out, _ := DefaultForTypeID(e.monitor)
	copy(out.raw[1:e.size], ie.raw[1:e.size])
	return out, nil
}
