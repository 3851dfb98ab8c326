package parser

import "testing"

func TestPlainTextGoesToOnPrint(t *testing.T) {
	var got []rune
	p := &Parser{OnPrint: func(r rune) { got = append(got, r) }}
	p.Parse([]byte("hi"))
	if string(got) != "hi" {
		t.Fatalf("got %q, want %q", string(got), "hi")
	}
}

func TestControlByteGoesToOnExecute(t *testing.T) {
	var got byte
	p := &Parser{OnExecute: func(b byte) { got = b }}
	p.Parse([]byte{'\r'})
	if got != '\r' {
		t.Fatalf("got %q, want CR", got)
	}
}

func TestCSIDispatchWithParams(t *testing.T) {
	var gotPriv bool
	var gotParams []int
	var gotFinal byte
	p := &Parser{OnCSI: func(priv bool, params []int, intermediate []byte, final byte) {
		gotPriv, gotParams, gotFinal = priv, params, final
	}}
	p.Parse([]byte("\x1b[12;34H"))
	if gotPriv {
		t.Fatalf("expected non-private CSI")
	}
	if len(gotParams) != 2 || gotParams[0] != 12 || gotParams[1] != 34 {
		t.Fatalf("params = %v, want [12 34]", gotParams)
	}
	if gotFinal != 'H' {
		t.Fatalf("final = %q, want 'H'", gotFinal)
	}
}

func TestCSIPrivateMarker(t *testing.T) {
	var gotPriv bool
	var gotParams []int
	p := &Parser{OnCSI: func(priv bool, params []int, intermediate []byte, final byte) {
		gotPriv, gotParams = priv, params
	}}
	p.Parse([]byte("\x1b[?25l"))
	if !gotPriv {
		t.Fatalf("expected private CSI marker")
	}
	if len(gotParams) != 1 || gotParams[0] != 25 {
		t.Fatalf("params = %v, want [25]", gotParams)
	}
}

func TestCSIOmittedParamDefaultsToZero(t *testing.T) {
	var gotParams []int
	p := &Parser{OnCSI: func(priv bool, params []int, intermediate []byte, final byte) {
		gotParams = params
	}}
	p.Parse([]byte("\x1b[H"))
	if len(gotParams) != 1 || gotParams[0] != 0 {
		t.Fatalf("params = %v, want [0] for bare CSI H", gotParams)
	}
}

func TestEscapeSequenceDispatch(t *testing.T) {
	var got byte
	p := &Parser{OnEscape: func(final byte) { got = final }}
	p.Parse([]byte("\x1bc"))
	if got != 'c' {
		t.Fatalf("got %q, want 'c'", got)
	}
}

func TestOSCDispatchOnBEL(t *testing.T) {
	var got []byte
	p := &Parser{OnOSC: func(body []byte) { got = append([]byte(nil), body...) }}
	p.Parse([]byte("\x1b]0;window title\a"))
	if string(got) != "0;window title" {
		t.Fatalf("got %q, want %q", got, "0;window title")
	}
}

func TestOSCDispatchOnST(t *testing.T) {
	var got []byte
	p := &Parser{OnOSC: func(body []byte) { got = append([]byte(nil), body...) }}
	p.Parse([]byte("\x1b]2;title\x1b\\"))
	if string(got) != "2;title" {
		t.Fatalf("got %q, want %q", got, "2;title")
	}
}

func TestUTF8SplitAcrossWrites(t *testing.T) {
	var got []rune
	p := &Parser{OnPrint: func(r rune) { got = append(got, r) }}
	full := []byte("中")
	p.Parse(full[:1])
	p.Parse(full[1:])
	if string(got) != "中" {
		t.Fatalf("got %q, want %q", string(got), "中")
	}
}

func TestCharsetDesignate(t *testing.T) {
	var gotSlot int
	var gotFinal byte
	p := &Parser{OnCharsetDesignate: func(slot int, final byte) { gotSlot, gotFinal = slot, final }}
	p.Parse([]byte("\x1b(0"))
	if gotSlot != 0 || gotFinal != '0' {
		t.Fatalf("got slot=%d final=%q, want slot=0 final='0'", gotSlot, gotFinal)
	}
}

func TestCANAbortsCSIWithoutDispatch(t *testing.T) {
	dispatched := false
	p := &Parser{OnCSI: func(priv bool, params []int, intermediate []byte, final byte) { dispatched = true }}
	p.Parse([]byte("\x1b[1;2\x18H")) // CAN mid-CSI, then stray 'H' prints in ground state
	if dispatched {
		t.Fatalf("expected CSI to be aborted by CAN, not dispatched")
	}
}

func TestSOSTAbortsStringWithoutDispatch(t *testing.T) {
	dispatched := false
	p := &Parser{OnOSC: func(body []byte) { dispatched = true }}
	p.Parse([]byte("\x1b]0;abc\x1a"))
	if dispatched {
		t.Fatalf("expected OSC to be aborted by SUB, not dispatched")
	}
}
