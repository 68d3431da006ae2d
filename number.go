package micrortu

import (
	"math"
	"strconv"
)

type numberKind uint8

const (
	numberInt numberKind = iota
	numberUint
	numberFloat
)

// number is a Go numeric value widened without loss so range checks can be done against the target field.
type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func intNumber(v int64) number { return number{kind: numberInt, i: v} }
func uintNumber(v uint64) number { return number{kind: numberUint, u: v} }
func floatNumber(v float64) number { return number{kind: numberFloat, f: v} }

func numberOf[N Number](v N) number {
	var one N = 1
	switch {
	case one/2 != 0:
		return floatNumber(float64(v))
	case -one < 0:
		return intNumber(int64(v))
	default:
		return uintNumber(uint64(v))
	}
}

func (n number) isZero() bool {
	switch n.kind {
	case numberInt:
		return n.i == 0
	case numberUint:
		return n.u == 0
	default:
		return n.f == 0
	}
}

// toInt converts n to a signed integer of the given width.
func (n number) toInt(bits int) (int64, bool) {
	lo, hi := int64(-1)<<(bits-1), int64(uint64(1)<<(bits-1)-1)
	switch n.kind {
	case numberInt:
		return n.i, n.i >= lo && n.i <= hi
	case numberUint:
		return int64(n.u), n.u <= uint64(hi)
	default:
		limit := math.Ldexp(1, bits-1)
		if !integral(n.f) || n.f < -limit || n.f >= limit {
			return 0, false
		}
		return int64(n.f), true
	}
}

// toUint converts n to an unsigned integer of the given width.
func (n number) toUint(bits int) (uint64, bool) {
	hi := uint64(math.MaxUint64) >> (64 - bits)
	switch n.kind {
	case numberInt:
		return uint64(n.i), n.i >= 0 && uint64(n.i) <= hi
	case numberUint:
		return n.u, n.u <= hi
	default:
		if !integral(n.f) || n.f < 0 || n.f >= math.Ldexp(1, bits) {
			return 0, false
		}
		return uint64(n.f), true
	}
}

// toFloat32 rounds to the nearest float32. Finite values outside the float32 range fail; NaN and infinities pass.
func (n number) toFloat32() (float32, bool) {
	switch n.kind {
	case numberInt:
		return float32(n.i), true
	case numberUint:
		return float32(n.u), true
	default:
		if !math.IsInf(n.f, 0) && !math.IsNaN(n.f) && math.Abs(n.f) > math.MaxFloat32 {
			return 0, false
		}
		return float32(n.f), true
	}
}

func (n number) String() string {
	switch n.kind {
	case numberInt:
		return strconv.FormatInt(n.i, 10)
	case numberUint:
		return strconv.FormatUint(n.u, 10)
	default:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
}
