package micrortu

import "testing"

func TestRawQualityDescriptor_Bits(t *testing.T) {
	type want struct {
		bl, sb, nt, iv bool
	}
	tests := []struct {
		name string
		raw  RawQualityDescriptor
		want want
	}{
		{"all bits are 0", 0b00000000, want{}},
		{"all bits are 1", 0b11111111, want{true, true, true, true}},
		{"only BL", 0b00010000, want{bl: true}},
		{"only SB", 0b00100000, want{sb: true}},
		{"only NT", 0b01000000, want{nt: true}},
		{"only IV", 0b10000000, want{iv: true}},
		{"value bits only", 0b00001111, want{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := want{tt.raw.Blocked(), tt.raw.Substituted(), tt.raw.NotTopical(), tt.raw.Invalid()}
			if got != tt.want {
				t.Errorf("bits of %08b = %+v, want %+v", uint8(tt.raw), got, tt.want)
			}
		})
	}
}

func TestRawQualityDescriptor_Setters(t *testing.T) {
	for raw := 0; raw <= 255; raw++ {
		q := RawQualityDescriptor(raw)
		q.SetBlocked(true)
		q.SetInvalid(false)
		if want := RawQualityDescriptor(raw)&^IV | BL; q != want {
			t.Fatalf("setters on %08b = %08b, want %08b", raw, uint8(q), uint8(want))
		}
	}
}

func TestOverflowCapability(t *testing.T) {
	siq := SIQ{0}
	siq.SetOverflow(true)
	if siq.Overflow() || siq.RawQualityDescriptor != 0 || siq.HasOverflowBit() {
		t.Errorf("SIQ overflow = %v, raw = %08b", siq.Overflow(), uint8(siq.RawQualityDescriptor))
	}
	// the SPI bit shares the position of OV
	siq = SIQ{1}
	if siq.Overflow() || siq.IsBad() {
		t.Errorf("SIQ with SPI set reports overflow")
	}

	diq := DIQ{0b11}
	diq.SetOverflow(false)
	if diq.DPI() != DPIIndeterminate1 || diq.Overflow() || diq.HasOverflowBit() {
		t.Errorf("DIQ overflow handling changed DPI: %v", diq.DPI())
	}

	qds := QDS{0}
	qds.SetOverflow(true)
	if !qds.Overflow() || !qds.IsBad() || qds.RawQualityDescriptor != OV || !qds.HasOverflowBit() {
		t.Errorf("QDS overflow = %v, raw = %08b", qds.Overflow(), uint8(qds.RawQualityDescriptor))
	}
}

func TestIsGood(t *testing.T) {
	tests := []struct {
		name string
		q    QualityDescriptor
		want bool
	}{
		{"good SIQ", &SIQ{1}, true},
		{"blocked SIQ", &SIQ{BL}, false},
		{"good DIQ", &DIQ{RawQualityDescriptor(DPIOn)}, true},
		{"not topical DIQ", &DIQ{NT}, false},
		{"good QDS", &QDS{0}, true},
		{"overflow QDS", &QDS{OV}, false},
		{"substituted QDS", &QDS{SB}, false},
		{"invalid QDS", &QDS{IV}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.IsGood(); got != tt.want {
				t.Errorf("IsGood() = %v, want %v", got, tt.want)
			}
			if tt.q.IsBad() == tt.q.IsGood() {
				t.Errorf("IsBad() == IsGood()")
			}
		})
	}
}

func TestRawQualityDescriptor_Compare(t *testing.T) {
	// bytes that differ only in the low nibble compare equal
	for hi := 0; hi < 16; hi++ {
		for lo := 0; lo < 16; lo++ {
			a := RawQualityDescriptor(hi<<4 | lo)
			b := RawQualityDescriptor(hi << 4)
			if a.Compare(b) != 0 {
				t.Fatalf("Compare(%08b, %08b) = %d, want 0", uint8(a), uint8(b), a.Compare(b))
			}
		}
	}
	// a superset of bad bits sorts first
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			if x == y || x&y != y {
				continue
			}
			worse := RawQualityDescriptor(x << 4)
			better := RawQualityDescriptor(y << 4)
			if worse.Compare(better) != -1 || better.Compare(worse) != 1 {
				t.Fatalf("Compare(%08b, %08b) = %d, want -1", uint8(worse), uint8(better), worse.Compare(better))
			}
		}
	}
	if (QDS{IV}).Compare(QDS{0}) != -1 {
		t.Errorf("invalid QDS does not sort before good QDS")
	}
}

func TestDPI_Bool(t *testing.T) {
	tests := []struct {
		dpi     DPI
		want    bool
		wantErr bool
	}{
		{DPIIndeterminate0, false, true},
		{DPIOff, false, false},
		{DPIOn, true, false},
		{DPIIndeterminate1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.dpi.String(), func(t *testing.T) {
			got, err := tt.dpi.Bool()
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("Bool() = %v, %v, want %v", got, err, tt.want)
			}
			if tt.wantErr && !IsErrInvalidState(err) {
				t.Errorf("Bool() error = %v, want invalid state", err)
			}

			ie := NewSmallIE(DoublePoint{DIQ{IV | RawQualityDescriptor(tt.dpi)}})
			got, err = ie.Bool()
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("SmallIE.Bool() = %v, %v, want %v", got, err, tt.want)
			}
			if tt.wantErr && !IsErrConversion(err) {
				t.Errorf("SmallIE.Bool() error = %v, want conversion error", err)
			}
		})
	}
}

func TestDIQ_SetDPI(t *testing.T) {
	q := DIQ{IV | SB}
	q.SetDPI(DPIOn | 0b100)
	if q.DPI() != DPIOn || q.RawQualityDescriptor != IV|SB|0b10 {
		t.Errorf("SetDPI() raw = %08b", uint8(q.RawQualityDescriptor))
	}
}
