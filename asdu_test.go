package micrortu

import (
	"bytes"
	"testing"
)

func TestParseSQ(t *testing.T) {
	type args struct {
		data byte
	}
	tests := []struct {
		name string
		args args
		want SQ
	}{
		{
			"all bits are 0",
			args{
				0b00000000,
			},
			false,
		},
		{
			"all bits are 1",
			args{
				0b11111111,
			},
			true,
		},
		{
			"only first bit is 0",
			args{
				0b01111111,
			},
			false,
		},
		{
			"only first bit is 1",
			args{
				0b10000000,
			},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSQ(tt.args.data); got != tt.want {
				t.Errorf("parseSQ() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNOO(t *testing.T) {
	type args struct {
		data byte
	}
	tests := []struct {
		name string
		args args
		want NOO
	}{
		{
			"all bits are 0",
			args{
				0b00000000,
			},
			0,
		},
		{
			"all bits are 1",
			args{
				0b11111111,
			},
			127,
		},
		{
			"only first bit is 1",
			args{
				0b10000000,
			},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNOO(tt.args.data); got != tt.want {
				t.Errorf("parseNOO() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTPNCOT(t *testing.T) {
	type args struct {
		data byte
	}
	tests := []struct {
		name    string
		args    args
		wantT   T
		wantPN  PN
		wantCOT COT
	}{
		{
			"all bits are 0",
			args{
				0b00000000,
			},
			false, false, 0,
		},
		{
			"all bits are 1",
			args{
				0b11111111,
			},
			true, true, 63,
		},
		{
			"test activation",
			args{
				0b10000110,
			},
			true, false, CotAct,
		},
		{
			"negative activation confirmation",
			args{
				0b01000111,
			},
			false, true, CotActCon,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseT(tt.args.data); got != tt.wantT {
				t.Errorf("parseT() = %v, want %v", got, tt.wantT)
			}
			if got := parsePN(tt.args.data); got != tt.wantPN {
				t.Errorf("parsePN() = %v, want %v", got, tt.wantPN)
			}
			if got := parseCOT(tt.args.data); got != tt.wantCOT {
				t.Errorf("parseCOT() = %v, want %v", got, tt.wantCOT)
			}
		})
	}
}

func TestParseCA(t *testing.T) {
	type args struct {
		data []byte
	}
	tests := []struct {
		name string
		args args
		want CA
	}{
		{
			"all bits are 0",
			args{
				[]byte{0x00, 0x00},
			},
			0,
		},
		{
			"broadcast",
			args{
				[]byte{0xff, 0xff},
			},
			BroadcastCA,
		},
		{
			"little endian",
			args{
				[]byte{0x01, 0x02},
			},
			0x0201,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseCA(tt.args.data); got != tt.want {
				t.Errorf("parseCA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestASDU_Parse(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
		want    []InformationObject
	}{
		{
			"single point, sq=0",
			[]byte{0x01, 0x02, 0x14, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x01, 0x02, 0x00, 0x00, 0x80},
			false,
			[]InformationObject{
				{1, NewSmallIE(NewSinglePoint(true))},
				{2, NewSmallIE(SinglePoint{SIQ{IV}})},
			},
		},
		{
			"float, sq=1",
			[]byte{0x0d, 0x82, 0x03, 0x00, 0x01, 0x00, 0x0a, 0x00, 0x00,
				0x00, 0x00, 0x80, 0x3f, 0x00,
				0x00, 0x00, 0x00, 0x40, 0x10},
			false,
			[]InformationObject{
				{10, NewSmallIE(FloatValue{Value: 1})},
				{11, NewSmallIE(FloatValue{Value: 2, QDS: QDS{BL}})},
			},
		},
		{
			"unknown type",
			[]byte{0x02, 0x01, 0x03, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00},
			true,
			nil,
		},
		{
			"short body",
			[]byte{0x0d, 0x01, 0x03, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x00},
			true,
			nil,
		},
		{
			"short header",
			[]byte{0x0d, 0x01},
			true,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asdu := &ASDU{}
			err := asdu.Parse(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(asdu.Objects) != len(tt.want) {
				t.Fatalf("Parse() objects = %d, want %d", len(asdu.Objects), len(tt.want))
			}
			for i, o := range asdu.Objects {
				if o.IOA != tt.want[i].IOA || !o.IE.Equal(tt.want[i].IE) {
					t.Errorf("Parse() object %d = %v %v, want %v %v", i, o.IOA, o.IE, tt.want[i].IOA, tt.want[i].IE)
				}
			}
			data, err := asdu.Data()
			if err != nil {
				t.Fatalf("Data() error = %v", err)
			}
			if !bytes.Equal(data, tt.data) {
				t.Errorf("Data() = [% X], want [% X]", data, tt.data)
			}
		})
	}
}

func TestASDU_DataRejectsMixedKinds(t *testing.T) {
	asdu := &ASDU{
		TypeID: MSpNa1,
		Objects: []InformationObject{
			{1, NewSmallIE(NewSinglePoint(true))},
			{2, NewSmallIE(NewFloatValue(1))},
		},
	}
	if _, err := asdu.Data(); !IsErrConversion(err) {
		t.Errorf("Data() error = %v, want conversion error", err)
	}
	if _, err := NewASDU(CotSpt, 1, asdu.Objects...); !IsErrConversion(err) {
		t.Errorf("NewASDU() error = %v, want conversion error", err)
	}
}
