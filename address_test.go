package micrortu

import "testing"

func TestIOAFromBytes(t *testing.T) {
	type args struct {
		data []byte
	}
	tests := []struct {
		name string
		args args
		want IOA
	}{
		{
			"all bits are 1",
			args{
				[]byte{0x11, 0x11, 0x11, 0xff},
			},
			IOA(0x111111),
		},
		{
			"all bits are 0",
			args{
				[]byte{0x00, 0x00, 0x00, 0xff},
			},
			IOA(0x000000),
		},
		{
			"only first byte bits are 1",
			args{
				[]byte{0x11, 0x00, 0x00, 0xff},
			},
			IOA(0x000011),
		},
		{
			"only first bit are 0",
			args{
				[]byte{0x7f, 0xff, 0xff, 0xff},
			},
			IOA(0xffff7f),
		},
		{
			"1024",
			args{
				[]byte{0x00, 0x04, 0x00, 0xff},
			},
			IOA(1024),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IOAFromBytes(tt.args.data); got != tt.want {
				t.Errorf("IOAFromBytes() = %v, want %v", got, tt.want)
			}
			if tt.args.data[3] != 0xff {
				t.Errorf("reading IOA can't change data[3], it must be 0xff!")
			}
			b := make([]byte, 4)
			b[3] = 0xff
			tt.want.PutBytes(b)
			if IOAFromBytes(b) != tt.want || b[3] != 0xff {
				t.Errorf("PutBytes() = [% X]", b)
			}
		})
	}
}

func TestParseIOA(t *testing.T) {
	tests := []struct {
		in      string
		want    IOA
		wantErr bool
	}{
		{"0.0.1", 1, false},
		{"1.2.3", 0x010203, false},
		{"255.255.255", MaxIOA, false},
		{"1.2", 0, true},
		{"1.2.256", 0, true},
		{"a.b.c", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIOA(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseIOA() = %v, %v, want %v", got, err, tt.want)
			}
			if !tt.wantErr && got.String() != tt.in {
				t.Errorf("String() = %s, want %s", got, tt.in)
			}
		})
	}
	if MaxIOA.Inc() != 0 || IOA(0x0000ff).Inc() != 0x000100 {
		t.Errorf("Inc() does not carry within three bytes")
	}
}

func TestCA(t *testing.T) {
	ca, err := ParseCA("1.2")
	if err != nil || ca != 0x0102 || ca.String() != "1.2" {
		t.Fatalf("ParseCA() = %v, %v", ca, err)
	}
	if !ca.Matches(BroadcastCA) || !ca.Matches(ca) || ca.Matches(3) {
		t.Errorf("Matches() broken for %s", ca)
	}
	if _, err := ParseCA("1.2.3"); err == nil {
		t.Errorf("ParseCA() accepted three bytes")
	}
}
