package micrortu

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	IOALength = 3
	CALength  = 2
)

/*
IOA (Information Object Address, 3 bytes) identifies a data point within a station. It is transmitted little endian;
the dotted form used in configuration writes the most significant byte first, so 0x010203 is "1.2.3".
*/
type IOA uint32

// MaxIOA is the largest address that fits the three byte field.
const MaxIOA IOA = 0xffffff

// ParseIOA parses the dotted form "a.b.c".
func ParseIOA(s string) (IOA, error) {
	b, err := parseDotted(s, IOALength)
	if err != nil {
		return 0, fmt.Errorf("invalid ioa %q: %w", s, err)
	}
	return IOA(b[0])<<16 | IOA(b[1])<<8 | IOA(b[2]), nil
}

// IOAFromBytes reads the three byte little endian form.
func IOAFromBytes(data []byte) IOA {
	// don't use IOA(binary.LittleEndian.Uint32(append(data, 0x00)))!
	return IOA(binary.LittleEndian.Uint32([]byte{data[0], data[1], data[2], 0x00}))
}

// PutBytes writes the three byte little endian form.
func (a IOA) PutBytes(b []byte) {
	b[0], b[1], b[2] = byte(a), byte(a>>8), byte(a>>16)
}

// Inc returns the next address, wrapping within three bytes.
func (a IOA) Inc() IOA {
	return (a + 1) & MaxIOA
}

func (a IOA) String() string {
	return fmt.Sprintf("%d.%d.%d", byte(a>>16), byte(a>>8), byte(a))
}

/*
CA (Common Address of ASDU, 2 bytes) is normally interpreted as a station address.
- 0 is not used;
- 1-65534 means a station address;
- 65535 is the global (broadcast) address.
*/
type CA uint16

const BroadcastCA CA = 0xffff

// ParseCA parses the dotted form "a.b".
func ParseCA(s string) (CA, error) {
	b, err := parseDotted(s, CALength)
	if err != nil {
		return 0, fmt.Errorf("invalid ca %q: %w", s, err)
	}
	return CA(b[0])<<8 | CA(b[1]), nil
}

func (c CA) IsBroadcast() bool {
	return c == BroadcastCA
}

// Matches reports whether an ASDU sent to filter is addressed to c.
func (c CA) Matches(filter CA) bool {
	return filter.IsBroadcast() || c == filter
}

func (c CA) String() string {
	return fmt.Sprintf("%d.%d", byte(c>>8), byte(c))
}

func parseDotted(s string, n int) ([]byte, error) {
	parts := strings.Split(s, ".")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d dot separated bytes, got %d", n, len(parts))
	}
	out := make([]byte, n)
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}
