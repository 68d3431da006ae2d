package binding

import (
	"fmt"
	"iter"
	"reflect"
	"strconv"
	"strings"

	micrortu "github.com/yobol/go-micrortu"
)

const TagName = "bind"

var (
	inputType = reflect.TypeFor[Input]()
	outType   = reflect.TypeFor[Output]()
	inOutType = reflect.TypeFor[InOut]()
)

/*
Declare derives definitions from the Input, Output and InOut fields of the struct ptr points to. Each field needs a
bind tag:

	type Ports struct {
		Count binding.InOut  `bind:"count,type=M_ME_NC_1"`
		Reset binding.Input  `bind:"reset,type=1,optional"`
		Trace binding.Output `bind:"trace,type=M_ME_NC_1,min=1,max=0"`
	}

The first element is the name. type accepts a mnemonic or a number. min defaults to 1 and max to min; max=0 is
unbounded. optional clears Required. The direction follows the field type. Fields without a tag, or tagged "-", are
skipped.
*/
func Declare(ptr any) ([]Definition, error) {
	t, err := structOf(ptr)
	if err != nil {
		return nil, err
	}
	var defs []Definition
	for f := range fields(t) {
		d, err := parseTag(f)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Bind declares ptr, parses region against the definitions and stores the views in the tagged fields.
func Bind(ptr any, region []byte, dirty *Dirty) (*Bindings, error) {
	defs, err := Declare(ptr)
	if err != nil {
		return nil, err
	}
	b, err := Parse(defs, region, dirty)
	if err != nil {
		return nil, err
	}
	return b, b.assign(ptr)
}

// assign stores the views of b in ptr, in declaration order.
func (b *Bindings) assign(ptr any) error {
	t, _ := structOf(ptr)
	rv := reflect.ValueOf(ptr).Elem()
	i := 0
	for f := range fields(t) {
		if i >= len(b.views) {
			return fmt.Errorf("%w: %s has more fields than bindings", ErrDefinition, t)
		}
		v := b.views[i]
		switch f.Type {
		case inputType:
			rv.FieldByIndex(f.Index).Set(reflect.ValueOf(Input{v}))
		case outType:
			rv.FieldByIndex(f.Index).Set(reflect.ValueOf(Output{v}))
		case inOutType:
			rv.FieldByIndex(f.Index).Set(reflect.ValueOf(InOut{v}))
		}
		i++
	}
	return nil
}

func structOf(ptr any) (reflect.Type, error) {
	t := reflect.TypeOf(ptr)
	if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: want pointer to struct, got %T", ErrDefinition, ptr)
	}
	return t.Elem(), nil
}

// fields yields the tagged exported fields of t.
func fields(t reflect.Type) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag, ok := f.Tag.Lookup(TagName)
			if !ok || tag == "-" || !f.IsExported() {
				continue
			}
			if !yield(f) {
				return
			}
		}
	}
}

func parseTag(f reflect.StructField) (Definition, error) {
	d := Definition{Required: true, Min: 1}
	switch f.Type {
	case inputType:
		d.Direction = In
	case outType:
		d.Direction = Out
	case inOutType:
		d.Direction = InOut
	default:
		return d, fmt.Errorf("%w: field %s has type %s", ErrDefinition, f.Name, f.Type)
	}

	parts := strings.Split(f.Tag.Get(TagName), ",")
	d.Name = strings.TrimSpace(parts[0])
	maxSet := false
	for _, p := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(p), "=")
		var err error
		switch key {
		case "type":
			d.TypeID, err = micrortu.ParseTypeID(val)
		case "min":
			d.Min, err = parseBound(val)
		case "max":
			d.Max, err = parseBound(val)
			maxSet = true
		case "optional":
			d.Required = false
		default:
			err = fmt.Errorf("unknown option %q", key)
		}
		if err != nil {
			return d, fmt.Errorf("%w: field %s: %v", ErrDefinition, f.Name, err)
		}
	}
	if !maxSet {
		d.Max = d.Min
	}
	return d, d.Validate()
}

func parseBound(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	return uint16(v), err
}
