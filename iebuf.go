package micrortu

import (
	"unsafe"
)

/*
IEBuf is the fixed size slot an element occupies in memory shared with the host:

	| TypeID [1B] | payload, little endian [TypeID.Size() B] | unused, not guaranteed zero |

An IEBuf is either a valid element, when its first byte is a supported TypeID, or the terminator, all zero, which ends
a list of slots. Any other first byte is invalid and every conversion of it fails with ErrDeserialization.

IEBuf and SmallIE share one underlying type, so a *IEBuf converts to a *SmallIE without copying once View has checked
the first byte.
*/
type IEBuf struct {
	raw [IEBufSize]byte
}

// Both types must keep the same layout for View.
var (
	_ = [1]struct{}{}[unsafe.Sizeof(IEBuf{})-unsafe.Sizeof(SmallIE{})]
	_ = [1]struct{}{}[unsafe.Alignof(IEBuf{})-unsafe.Alignof(SmallIE{})]
)

// NewIEBuf encodes ie. The unused tail is zeroed.
func NewIEBuf(ie SmallIE) IEBuf {
	var b IEBuf
	b.raw[0] = byte(ie.TypeID())
	n := ie.Size()
	copy(b.raw[1:1+n], ie.raw[1:1+n])
	return b
}

// IEBufFromBytes copies up to IEBufSize bytes of p. Missing bytes are zero. The result is not validated.
func IEBufFromBytes(p []byte) IEBuf {
	var b IEBuf
	copy(b.raw[:], p)
	return b
}

// Terminator returns the all zero end of list marker.
func Terminator() IEBuf {
	return IEBuf{}
}

func (b IEBuf) IsTerminator() bool {
	return b == IEBuf{}
}

// IsValid reports whether the first byte is a supported TypeID.
func (b IEBuf) IsValid() bool {
	return TypeID(b.raw[0]).Known()
}

// TypeID returns the first byte as is, valid or not.
func (b IEBuf) TypeID() TypeID {
	return TypeID(b.raw[0])
}

// Bytes returns the full slot, type identification included.
func (b *IEBuf) Bytes() []byte {
	return b.raw[:]
}

// SmallIE decodes the slot by value.
func (b IEBuf) SmallIE() (SmallIE, error) {
	ie, err := b.View()
	if err != nil {
		return SmallIE{}, err
	}
	out, _ := DefaultForTypeID(ie.TypeID())
	n := ie.Size()
	copy(out.raw[1:1+n], ie.raw[1:1+n])
	return out, nil
}

// View returns the slot as a SmallIE in place: writes through the result change b. The first byte is checked
// before the conversion.
func (b *IEBuf) View() (*SmallIE, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	return (*SmallIE)(b), nil
}

// check is the only gate between raw bytes and SmallIE.
func (b *IEBuf) check() error {
	if !b.IsValid() {
		_lg.Debugf("reject ie buffer: [% X]", b.raw[:])
		return ErrDeserialization
	}
	return nil
}

func (b IEBuf) String() string {
	if b.IsTerminator() {
		return "terminator"
	}
	ie, err := b.SmallIE()
	if err != nil {
		return TypeID(b.raw[0]).String() + "(invalid)"
	}
	return ie.String()
}
