package binding

import (
	"encoding/binary"
	"fmt"
	"time"

	micrortu "github.com/yobol/go-micrortu"
)

// Payload is one field of a region as the host lays it out.
type Payload struct {
	TypeID micrortu.TypeID
	Pad    uint16
	Values []micrortu.SmallIE
}

// Payloads lays out values for defs. Fields missing from values get Min zeroed elements when required and stay
// empty otherwise.
func Payloads(defs []Definition, values map[string][]micrortu.SmallIE) []Payload {
	out := make([]Payload, len(defs))
	for i, d := range defs {
		p := Payload{TypeID: d.TypeID, Values: values[d.Name]}
		if _, ok := values[d.Name]; !ok && d.Required {
			zero, _ := micrortu.DefaultForTypeID(d.TypeID)
			for range d.Min {
				p.Values = append(p.Values, zero)
			}
		}
		out[i] = p
	}
	return out
}

// convert brings every value to kind id.
func (p Payload) convert() ([]micrortu.SmallIE, error) {
	out := make([]micrortu.SmallIE, len(p.Values))
	for i, v := range p.Values {
		ie, ok := micrortu.DefaultForTypeID(p.TypeID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", InvalidData, p.TypeID)
		}
		if err := ie.UpdateFrom(v); err != nil {
			return nil, err
		}
		out[i] = ie
	}
	return out, nil
}

// EncodeRegion builds the header and payload layout Parse reads.
func EncodeRegion(payloads []Payload) ([]byte, error) {
	region := make([]byte, len(payloads)*HeaderEntrySize)
	for i, p := range payloads {
		values, err := p.convert()
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}
		n := len(values) * p.TypeID.Size()
		if n > 0xffff {
			return nil, fmt.Errorf("payload %d: %w: %d bytes", i, TooMuchData, n)
		}
		entry := region[i*HeaderEntrySize:]
		binary.LittleEndian.PutUint16(entry[0:], p.Pad)
		binary.LittleEndian.PutUint16(entry[2:], uint16(n))
		region = append(region, make([]byte, p.Pad)...)
		for _, v := range values {
			region = append(region, v.Bytes()...)
		}
	}
	return region, nil
}

// EncodeTerminated builds the slot layout ParseTerminated reads. Pad is ignored.
func EncodeTerminated(payloads []Payload) ([]byte, error) {
	var region []byte
	for i, p := range payloads {
		values, err := p.convert()
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}
		for _, v := range values {
			buf := micrortu.NewIEBuf(v)
			region = append(region, buf.Bytes()...)
		}
		end := micrortu.Terminator()
		region = append(region, end.Bytes()...)
	}
	return region, nil
}

// Shared is what a host hands a block for one step: the parameter and port regions, their dirty sets and the
// control period.
type Shared struct {
	Params        []byte
	Ports         []byte
	DirtyParams   Dirty
	DirtyPorts    Dirty
	ControlPeriod time.Duration
}

// Bind parses both regions. Writes through the views land in s and mark s's dirty sets.
func (s *Shared) Bind(params, ports []Definition) (*Bindings, *Bindings, error) {
	pb, err := Parse(params, s.Params, &s.DirtyParams)
	if err != nil {
		return nil, nil, fmt.Errorf("params: %w", err)
	}
	qb, err := Parse(ports, s.Ports, &s.DirtyPorts)
	if err != nil {
		return nil, nil, fmt.Errorf("ports: %w", err)
	}
	return pb, qb, nil
}

// ClearDirty forgets the writes of the previous step.
func (s *Shared) ClearDirty() {
	s.DirtyParams.Clear()
	s.DirtyPorts.Clear()
}
