package micrortu

import "testing"

func TestRawQualifierOfCommand(t *testing.T) {
	tests := []struct {
		name       string
		raw        RawQualifierOfCommand
		wantSelect bool
		wantQU     QU
	}{
		{"all bits are 0", 0b00000000, false, QUDefault},
		{"all bits are 1", 0b11111111, true, QUReserved(31)},
		{"select short pulse", 0b10000100, true, QUShortPulse},
		{"long pulse", 0b00001000, false, QULongPulse},
		{"persistent output", 0b00001100, false, QUPersistentOutput},
		{"reserved 9", 0b00100100, false, QUReserved(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.raw.Select(); got != tt.wantSelect {
				t.Errorf("Select() = %v, want %v", got, tt.wantSelect)
			}
			if got := tt.raw.QU(); got != tt.wantQU {
				t.Errorf("QU() = %v, want %v", got, tt.wantQU)
			}
		})
	}
}

func TestQU_ReservedRoundTrip(t *testing.T) {
	for v := uint8(0); v < 32; v++ {
		var q RawQualifierOfCommand = 0b10000011
		q.SetQU(QUReserved(v))
		if q.QU() != QU(v) {
			t.Fatalf("SetQU(%d) read back %d", v, q.QU())
		}
		if q&0b10000011 != 0b10000011 {
			t.Fatalf("SetQU(%d) disturbed S/E or state bits: %08b", v, uint8(q))
		}
		raw, reserved := q.QU().Reserved()
		if reserved != (v > 3) || (reserved && raw != v) {
			t.Fatalf("QU(%d).Reserved() = %d, %v", v, raw, reserved)
		}
	}
	if QUReserved(0xff) != QU(31) {
		t.Errorf("QUReserved() does not mask to five bits")
	}
}

func TestRawQualifierOfCommand_Compare(t *testing.T) {
	a := RawQualifierOfCommand(0b10000101)
	b := RawQualifierOfCommand(0b10000100)
	if a.Compare(b) != 0 {
		t.Errorf("qualifiers differing in state bits compare %d", a.Compare(b))
	}
	if (SCO{0b10000000}).Compare(SCO{0}) != -1 {
		t.Errorf("select does not sort before execute")
	}
}

func TestSCO_DCO(t *testing.T) {
	var sco SCO
	sco.SetSelect(true)
	sco.SetQU(QULongPulse)
	sco.SetSCS(true)
	if sco.RawQualifierOfCommand != 0b10001001 || !sco.SCS() {
		t.Errorf("SCO = %08b", uint8(sco.RawQualifierOfCommand))
	}
	sco.SetSCS(false)
	if sco.SCS() || sco.QU() != QULongPulse || !sco.Select() {
		t.Errorf("SetSCS(false) disturbed other bits: %08b", uint8(sco.RawQualifierOfCommand))
	}

	dco := DCO{0b11111100}
	dco.SetDCS(DPIOn)
	if dco.DCS() != DPIOn || dco.QU() != QUReserved(31) {
		t.Errorf("DCO = %08b", uint8(dco.RawQualifierOfCommand))
	}
}

func TestQOS(t *testing.T) {
	var q QOS
	q.SetQL(0xff)
	if q.QL() != 0x7f || q.Select() {
		t.Errorf("SetQL(0xff) = %08b", uint8(q))
	}
	q.SetSelect(true)
	q.SetQL(3)
	if q != 0b10000011 {
		t.Errorf("QOS = %08b", uint8(q))
	}
}

func TestQPM(t *testing.T) {
	var q QPM
	q.SetPOP(true)
	q.SetKPA(KPAHighLimitForTx)
	if !q.POP() || q.LPC() || q.KPA() != KPAHighLimitForTx || q != 0b10000100 {
		t.Errorf("QPM = %08b", uint8(q))
	}
	q.SetLPC(true)
	q.SetKPA(0xff)
	if q.KPA() != 0x3f || !q.POP() || !q.LPC() {
		t.Errorf("SetKPA(0xff) = %08b", uint8(q))
	}
	if KPA(40).String() != "reserved(40)" {
		t.Errorf("KPA(40) = %s", KPA(40))
	}
}
