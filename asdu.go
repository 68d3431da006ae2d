package micrortu

import (
	"fmt"
)

/*
ASDU (Application Service Data Unit) carries information elements of one kind between a station and the host.

The ASDU contains two main sections:
- the data unit identifier (with the fixed length of six bytes):
  - defining the specific type of data;
  - providing addressing to identify the specific data;
  - including information as cause of transmission.
- the data itself, made up of one or more information objects of the same kind, at most 127.

The format of ASDU:

	| <-              8 bits              -> |
	| Type Identification                    |  --------------------
	| SQ | Number of objects                 |           |
	| T  | P/N | Cause of transmission (COT) |           |
	| Original address (ORG)                 |  Data Unit Identifier
	| ASDU address fields                    |           |
	| ASDU address fields                    |  --------------------
	| Information object address (IOA)       |  --------------------
	| Information object address (IOA)       |           |
	| Information object address (IOA)       |  Information Object 1
	| Information Element                    |  --------------------
	| Information Object 2                   |
	| Information Object N                   |

Information elements are the payloads of SmallIE, without the type identification byte: the kind is given once by
the header. Time tagged kinds are not supported.
*/
type ASDU struct {
	TypeID TypeID
	SQ     SQ
	T      T
	PN     PN
	COT    COT
	ORG    ORG
	CA     CA

	Objects []InformationObject
}

const (
	AsduHeaderLen = 6
	MaxObjects    = 127
)

// InformationObject is one addressed element.
type InformationObject struct {
	IOA IOA
	IE  SmallIE
}

// NewASDU builds an ASDU with SQ=0 from objects, which must all share one kind.
func NewASDU(cot COT, ca CA, objects ...InformationObject) (*ASDU, error) {
	if len(objects) == 0 || len(objects) > MaxObjects {
		return nil, fmt.Errorf("asdu holds 1..%d objects, got %d", MaxObjects, len(objects))
	}
	id := objects[0].IE.TypeID()
	for _, o := range objects[1:] {
		if o.IE.TypeID() != id {
			return nil, fmt.Errorf("%w: asdu of %s cannot hold %s", ErrConversion, id, o.IE.TypeID())
		}
	}
	return &ASDU{TypeID: id, COT: cot, CA: ca, Objects: objects}, nil
}

func (asdu *ASDU) Parse(data []byte) error {
	if len(data) < AsduHeaderLen {
		return fmt.Errorf("invalid asdu header: % X", data)
	}

	// the 1st byte
	asdu.TypeID = parseTypeID(data[0])
	if !asdu.TypeID.Known() {
		return fmt.Errorf("%w: asdu of %s", ErrDeserialization, asdu.TypeID)
	}
	// the 2nd byte
	asdu.SQ = parseSQ(data[1])
	n := int(parseNOO(data[1]))
	// the 3rd byte
	asdu.T = parseT(data[2])
	asdu.PN = parsePN(data[2])
	asdu.COT = parseCOT(data[2])
	// the 4th byte
	asdu.ORG = ORG(data[3])
	// the 5th and 6th bytes
	asdu.CA = parseCA(data[4:AsduHeaderLen])

	return asdu.parseInformationObjects(data[AsduHeaderLen:], n)
}

func (asdu *ASDU) parseInformationObjects(body []byte, n int) error {
	size := asdu.TypeID.Size()
	want := n * (IOALength + size)
	if asdu.SQ {
		want = IOALength + n*size
	}
	if n == 0 || len(body) != want {
		return fmt.Errorf("invalid asdu body: %d objects of %s need %d bytes, got %d", n, asdu.TypeID, want, len(body))
	}

	asdu.Objects = make([]InformationObject, 0, n)
	ioa := IOAFromBytes(body)
	for i := 0; i < n; i++ {
		var payload []byte
		if asdu.SQ {
			payload = body[IOALength+i*size:]
		} else {
			ioa = IOAFromBytes(body[i*(IOALength+size):])
			payload = body[i*(IOALength+size)+IOALength:]
		}
		ie, _ := DefaultForTypeID(asdu.TypeID)
		copy(ie.MutBytes(), payload[:size])
		asdu.Objects = append(asdu.Objects, InformationObject{IOA: ioa, IE: ie})
		if asdu.SQ {
			ioa = ioa.Inc()
		}
	}
	_lg.Debugf("parse asdu: %s cot=%s ca=%s objects=%d", asdu.TypeID, asdu.COT, asdu.CA, n)
	return nil
}

// Data encodes the ASDU. With SQ set only the first address is written and the others must follow it by one.
func (asdu *ASDU) Data() ([]byte, error) {
	n := len(asdu.Objects)
	if n == 0 || n > MaxObjects {
		return nil, fmt.Errorf("asdu holds 1..%d objects, got %d", MaxObjects, n)
	}
	data := make([]byte, 0, AsduHeaderLen+n*(IOALength+MaxElementSize))
	// the 1st byte
	data = append(data, byte(asdu.TypeID))
	// the 2nd byte
	nObjs := byte(n)
	if asdu.SQ {
		nObjs |= 1 << 7
	}
	data = append(data, nObjs)
	// the 3rd byte
	cot := byte(asdu.COT) & 0b111111
	if asdu.T {
		cot |= 1 << 7
	}
	if asdu.PN {
		cot |= 1 << 6
	}
	data = append(data, cot)
	// the 4th byte
	data = append(data, byte(asdu.ORG))
	// the 5th and 6th bytes
	data = append(data, byte(asdu.CA), byte(asdu.CA>>8))

	var ioa [IOALength]byte
	for i, o := range asdu.Objects {
		if o.IE.TypeID() != asdu.TypeID {
			return nil, fmt.Errorf("%w: asdu of %s cannot hold %s", ErrConversion, asdu.TypeID, o.IE.TypeID())
		}
		if !asdu.SQ || i == 0 {
			o.IOA.PutBytes(ioa[:])
			data = append(data, ioa[:]...)
		} else if o.IOA != asdu.Objects[i-1].IOA.Inc() {
			return nil, fmt.Errorf("asdu with sq=1 needs consecutive addresses, %s follows %s", o.IOA, asdu.Objects[i-1].IOA)
		}
		data = append(data, o.IE.Bytes()...)
	}
	return data, nil
}

func parseTypeID(data byte) TypeID {
	return TypeID(data)
}

/*
SQ (Structure Qualifier, 1 bit) specifies how information objects or elements are addressed.
- SQ=0 (false): each information object has its own information object address (IOA).
- SQ=1  (true): there is just one information object address, which is the address of the first information element,
  the following information elements are identified by numbers continuous by +1 from this offset.
*/
type SQ bool

func parseSQ(data byte) SQ {
	return (data & (1 << 7)) == 1<<7
}

/*
NOO (Number of Objects/Elements, 7 bits).
*/
type NOO = uint8

func parseNOO(data byte) NOO {
	return data & 0b1111111
}

/*
T (Test, 1 bit) defines ASDUs which generated during test conditions. That is to say, it is not intended to control the
process or change the system state.
*/
type T bool // Test

func parseT(data byte) T {
	return (data & (1 << 7)) == 1<<7
}

/*
PN (Positive/Negative, 1 bit) indicates the positive or negative confirmation of an activation requested by a primary
application function.
- PN=0 (false): positive confirm.
- PN=1  (true): negative confirm.
*/
type PN bool

func parsePN(data byte) PN {
	return (data & (1 << 6)) == 1<<6
}

/*
COT (Cause of Transmission, 6 bits) tells the receiver why the ASDU was sent.
- 0 is not defined;
- 1-47 is used for standard IEC 101 definitions;
- 48-63 is for special use (private range).
*/
type COT uint8

const (
	CotPer      COT = 1  // periodic, cyclic
	CotBack     COT = 2  // background scan
	CotSpt      COT = 3  // spontaneous
	CotInit     COT = 4  // initialized
	CotReq      COT = 5  // request or requested
	CotAct      COT = 6  // activation
	CotActCon   COT = 7  // activation confirmation
	CotDeact    COT = 8  // deactivation
	CotDeactCon COT = 9  // deactivation confirmation
	CotActTerm  COT = 10 // activation termination
	CotRetRem   COT = 11 // return information caused by a remote command
	CotRetLoc   COT = 12 // return information caused by a local command
	CotInrogen  COT = 20 // interrogated by general interrogation
	CotUnType   COT = 44 // unknown type
	CotUnCause  COT = 45 // unknown cause
	CotUnCA     COT = 46 // unknown common address
	CotUnIOA    COT = 47 // unknown object address
)

var cotNames = map[COT]string{
	CotPer:      "per/cyc",
	CotBack:     "back",
	CotSpt:      "spont",
	CotInit:     "init",
	CotReq:      "req",
	CotAct:      "act",
	CotActCon:   "actcon",
	CotDeact:    "deact",
	CotDeactCon: "deactcon",
	CotActTerm:  "actterm",
	CotRetRem:   "retrem",
	CotRetLoc:   "retloc",
	CotInrogen:  "inrogen",
	CotUnType:   "unknown type",
	CotUnCause:  "unknown cause",
	CotUnCA:     "unknown ca",
	CotUnIOA:    "unknown ioa",
}

func (c COT) String() string {
	if s, ok := cotNames[c]; ok {
		return s
	}
	return fmt.Sprintf("cot(%d)", uint8(c))
}

func parseCOT(data byte) COT {
	return COT(data & 0b111111)
}

/*
ORG (Originator Address, 1 byte) provides a method for a controlling station to explicitly identify itself. It is zero
when there is only one controlling station.
*/
type ORG uint8

func parseCA(data []byte) CA {
	return CA(data[0]) | CA(data[1])<<8
}
