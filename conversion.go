package micrortu

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Number is any Go numeric type an element can be updated from.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Float32 reads any element as a number: booleans as 0 or 1, double points and double commands as the raw DPI
// ordinal, everything else as its value. Wide integers may lose precision.
func (ie SmallIE) Float32() float32 {
	switch e := ie.Element().(type) {
	case SinglePoint:
		return b2f(e.Value())
	case SingleCommand:
		return b2f(e.Value())
	case DoublePoint:
		return float32(e.Value())
	case DoubleCommand:
		return float32(e.Value())
	case ScaledValue:
		return float32(e.Value)
	case ScaledSetpoint:
		return float32(e.Value)
	case FloatValue:
		return e.Value
	case FloatSetpoint:
		return e.Value
	case FloatParameter:
		return e.Value
	case Uint32Value:
		return float32(e.Value)
	case Uint32Setpoint:
		return float32(e.Value)
	case Int32Value:
		return float32(e.Value)
	case Int32Setpoint:
		return float32(e.Value)
	case Uint64Value:
		return float32(e.Value)
	case Uint64Setpoint:
		return float32(e.Value)
	case Int64Value:
		return float32(e.Value)
	case Int64Setpoint:
		return float32(e.Value)
	}
	return 0
}

func b2f(v bool) float32 {
	if v {
		return 1
	}
	return 0
}

// Bool reads single and double points and commands. Indeterminate double states and every other kind fail with
// ErrConversion.
func (ie SmallIE) Bool() (bool, error) {
	e := ie.Element()
	b, ok := e.(interface{ Bool() (bool, error) })
	if !ok {
		return false, conversionErrorf("%s is not boolean", e.TypeID())
	}
	v, err := b.Bool()
	if err != nil {
		return false, conversionErrorf("%s: %v", e.TypeID(), err)
	}
	return v, nil
}

// Uint32 reads integer valued kinds. Booleans read as 0 or 1 and double states as their DPI ordinal. Negative values,
// values above math.MaxUint32 and floating point kinds fail with ErrConversion.
func (ie SmallIE) Uint32() (uint32, error) {
	var n number
	switch e := ie.Element().(type) {
	case SinglePoint, SingleCommand, DoublePoint, DoubleCommand:
		return uint32(ie.Float32()), nil
	case ScaledValue:
		n = intNumber(int64(e.Value))
	case ScaledSetpoint:
		n = intNumber(int64(e.Value))
	case Uint32Value:
		return e.Value, nil
	case Uint32Setpoint:
		return e.Value, nil
	case Int32Value:
		n = intNumber(int64(e.Value))
	case Int32Setpoint:
		n = intNumber(int64(e.Value))
	case Uint64Value:
		n = uintNumber(e.Value)
	case Uint64Setpoint:
		n = uintNumber(e.Value)
	case Int64Value:
		n = intNumber(e.Value)
	case Int64Setpoint:
		n = intNumber(e.Value)
	default:
		return 0, conversionErrorf("%s is not integer valued", ie.TypeID())
	}
	u, ok := n.toUint(32)
	if !ok {
		return 0, conversionErrorf("%s value %s does not fit uint32", ie.TypeID(), n)
	}
	return uint32(u), nil
}

// UpdateFromNumber sets the value of ie from v, keeping its kind and its quality or qualifier byte.
//
// Single points and single commands become v != 0. Double points and double commands take v as a DPI ordinal and
// fail outside 0..3. Integer kinds fail when v does not fit or has a fractional part. Floating point kinds fail when
// a finite v is outside the float32 range.
func UpdateFromNumber[N Number](ie *SmallIE, v N) error {
	return ie.updateFromNumber(numberOf(v))
}

func (ie *SmallIE) updateFromNumber(n number) error {
	fail := func() error {
		return conversionErrorf("%s cannot hold %s", ie.TypeID(), n)
	}
	var el InformationElement
	switch e := ie.Element().(type) {
	case SinglePoint:
		e.SIQ.SetSPI(!n.isZero())
		el = e
	case SingleCommand:
		e.SCO.SetSCS(!n.isZero())
		el = e
	case DoublePoint:
		d, ok := n.toUint(8)
		if !ok || d > uint64(DPIIndeterminate1) {
			return fail()
		}
		e.DIQ.SetDPI(DPI(d))
		el = e
	case DoubleCommand:
		d, ok := n.toUint(8)
		if !ok || d > uint64(DPIIndeterminate1) {
			return fail()
		}
		e.DCO.SetDCS(DCS(d))
		el = e
	case ScaledValue:
		i, ok := n.toInt(16)
		if !ok {
			return fail()
		}
		e.Value = int16(i)
		el = e
	case ScaledSetpoint:
		i, ok := n.toInt(16)
		if !ok {
			return fail()
		}
		e.Value = int16(i)
		el = e
	case Int32Value:
		i, ok := n.toInt(32)
		if !ok {
			return fail()
		}
		e.Value = int32(i)
		el = e
	case Int32Setpoint:
		i, ok := n.toInt(32)
		if !ok {
			return fail()
		}
		e.Value = int32(i)
		el = e
	case Int64Value:
		i, ok := n.toInt(64)
		if !ok {
			return fail()
		}
		e.Value = i
		el = e
	case Int64Setpoint:
		i, ok := n.toInt(64)
		if !ok {
			return fail()
		}
		e.Value = i
		el = e
	case Uint32Value:
		u, ok := n.toUint(32)
		if !ok {
			return fail()
		}
		e.Value = uint32(u)
		el = e
	case Uint32Setpoint:
		u, ok := n.toUint(32)
		if !ok {
			return fail()
		}
		e.Value = uint32(u)
		el = e
	case Uint64Value:
		u, ok := n.toUint(64)
		if !ok {
			return fail()
		}
		e.Value = u
		el = e
	case Uint64Setpoint:
		u, ok := n.toUint(64)
		if !ok {
			return fail()
		}
		e.Value = u
		el = e
	case FloatValue:
		f, ok := n.toFloat32()
		if !ok {
			return fail()
		}
		e.Value = f
		el = e
	case FloatSetpoint:
		f, ok := n.toFloat32()
		if !ok {
			return fail()
		}
		e.Value = f
		el = e
	case FloatParameter:
		f, ok := n.toFloat32()
		if !ok {
			return fail()
		}
		e.Value = f
		el = e
	default:
		return fail()
	}
	ie.Set(el)
	return nil
}

// UpdateFromValue is UpdateFromNumber for loosely typed input such as decoded JSON or TOML values and command line
// arguments. Besides Go numbers it accepts bool, json.Number, numeric strings, SmallIE and InformationElement.
func (ie *SmallIE) UpdateFromValue(v any) error {
	switch x := v.(type) {
	case SmallIE:
		return ie.UpdateFrom(x)
	case *SmallIE:
		return ie.UpdateFrom(*x)
	case InformationElement:
		return ie.UpdateFrom(NewSmallIE(x))
	case int:
		return UpdateFromNumber(ie, x)
	case int8:
		return UpdateFromNumber(ie, x)
	case int16:
		return UpdateFromNumber(ie, x)
	case int32:
		return UpdateFromNumber(ie, x)
	case int64:
		return UpdateFromNumber(ie, x)
	case uint:
		return UpdateFromNumber(ie, x)
	case uint8:
		return UpdateFromNumber(ie, x)
	case uint16:
		return UpdateFromNumber(ie, x)
	case uint32:
		return UpdateFromNumber(ie, x)
	case uint64:
		return UpdateFromNumber(ie, x)
	case float32:
		return UpdateFromNumber(ie, x)
	case float64:
		return UpdateFromNumber(ie, x)
	case bool:
		if x {
			return UpdateFromNumber(ie, 1)
		}
		return UpdateFromNumber(ie, 0)
	case string:
		return ie.updateFromString(x)
	case json.Number:
		return ie.updateFromString(x.String())
	}
	// Pointers and other loosely typed numbers.
	if f, err := cast.ToFloat64E(v); err == nil {
		return UpdateFromNumber(ie, f)
	}
	if b, err := cast.ToBoolE(v); err == nil {
		return ie.UpdateFromValue(b)
	}
	return conversionErrorf("%s cannot hold %T %v", ie.TypeID(), v, v)
}

// updateFromString keeps integers exact instead of going through float64.
func (ie *SmallIE) updateFromString(s string) error {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return UpdateFromNumber(ie, i)
	}
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return UpdateFromNumber(ie, u)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return UpdateFromNumber(ie, f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return ie.UpdateFromValue(b)
	}
	return conversionErrorf("%s cannot hold %q", ie.TypeID(), s)
}

// UpdateFrom sets ie from another element. Elements of the same kind are copied. A single point and a double point
// update each other: the whole quality byte is copied verbatim, then the state bits are derived, DPI on being true. Any other pair
// fails with ErrConversion and leaves ie unchanged.
func (ie *SmallIE) UpdateFrom(other SmallIE) error {
	dst, src := ie.TypeID(), other.TypeID()
	switch {
	case dst == src:
		ie.normalize()
		n := ie.Size()
		copy(ie.raw[1:1+n], other.raw[1:1+n])
		return nil
	case dst == MSpNa1 && src == MDpNa1:
		dp := other.Element().(DoublePoint)
		sp := SinglePoint{SIQ{dp.DIQ.RawQualityDescriptor}}
		sp.SIQ.SetSPI(dp.Value() == DPIOn)
		ie.Set(sp)
		return nil
	case dst == MDpNa1 && src == MSpNa1:
		sp := other.Element().(SinglePoint)
		dp := DoublePoint{DIQ{sp.SIQ.RawQualityDescriptor}}
		dp.DIQ.SetDPI(DPIFromBool(sp.Value()))
		ie.Set(dp)
		return nil
	}
	return conversionErrorf("cannot update %s from %s", dst, src)
}

// NewSinglePoint returns a good single point with state v.
func NewSinglePoint(v bool) SinglePoint {
	var e SinglePoint
	e.SIQ.SetSPI(v)
	return e
}

// NewSingleCommand returns an execute single command with state v and the default qualifier.
func NewSingleCommand(v bool) SingleCommand {
	var e SingleCommand
	e.SCO.SetSCS(v)
	return e
}

// NewFloatValue returns a good floating point measurement.
func NewFloatValue(v float32) FloatValue {
	return FloatValue{Value: v}
}

// NewFloatSetpoint returns an execute set-point with the default qualifier.
func NewFloatSetpoint(v float32) FloatSetpoint {
	return FloatSetpoint{Value: v}
}

// DoublePointFromUint8 fails for values above DPIIndeterminate1.
func DoublePointFromUint8(v uint8) (DoublePoint, error) {
	if DPI(v) > DPIIndeterminate1 {
		return DoublePoint{}, conversionErrorf("%d is not a double point state", v)
	}
	var e DoublePoint
	e.DIQ.SetDPI(DPI(v))
	return e, nil
}

// SinglePointFromFloat accepts exactly 0 and 1.
func SinglePointFromFloat(v float32) (SinglePoint, error) {
	if !integral(float64(v)) || v < 0 || v > 1 {
		return SinglePoint{}, conversionErrorf("%v is not a single point state", v)
	}
	return NewSinglePoint(v != 0), nil
}

// SingleCommandFromFloat accepts exactly 0 and 1.
func SingleCommandFromFloat(v float32) (SingleCommand, error) {
	if !integral(float64(v)) || v < 0 || v > 1 {
		return SingleCommand{}, conversionErrorf("%v is not a single command state", v)
	}
	return NewSingleCommand(v != 0), nil
}

// DoublePointFromFloat accepts whole numbers in 0..255 that are also valid DPI ordinals.
func DoublePointFromFloat(v float32) (DoublePoint, error) {
	if !integral(float64(v)) || v < 0 || v > 255 {
		return DoublePoint{}, conversionErrorf("%v is not a double point state", v)
	}
	return DoublePointFromUint8(uint8(v))
}

// FloatParameterFromFloat never fails.
func FloatParameterFromFloat(v float32) (FloatParameter, error) {
	return FloatParameter{Value: v}, nil
}

func integral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}
