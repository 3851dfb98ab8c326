package input

import "testing"

func TestArrowKeyUsesCSIWithoutAppCursor(t *testing.T) {
	k := DefaultKeymap()
	seq, ok := k.Translate(KeyUp, ModAny, Modes{})
	if !ok || seq != "\033[A" {
		t.Fatalf("Translate(Up) = %q,%v, want \\033[A,true", seq, ok)
	}
}

func TestArrowKeyUsesSS3WithAppCursor(t *testing.T) {
	k := DefaultKeymap()
	seq, ok := k.Translate(KeyUp, ModAny, Modes{AppCursor: true})
	if !ok || seq != "\033OA" {
		t.Fatalf("Translate(Up, appcursor) = %q,%v, want \\033OA,true", seq, ok)
	}
}

func TestEnterRespectsCRLFMode(t *testing.T) {
	k := DefaultKeymap()
	seq, ok := k.Translate(KeyEnter, ModAny, Modes{CRLF: false})
	if !ok || seq != "\r" {
		t.Fatalf("Translate(Enter) = %q,%v, want \\r,true", seq, ok)
	}
	seq, ok = k.Translate(KeyEnter, ModAny, Modes{CRLF: true})
	if !ok || seq != "\r\n" {
		t.Fatalf("Translate(Enter, crlf) = %q,%v, want \\r\\n,true", seq, ok)
	}
}

func TestKeypadPlusOnlyUnderAppKeypad(t *testing.T) {
	k := DefaultKeymap()
	if _, ok := k.Translate(KeypadPlus, ModAny, Modes{AppKeypad: false}); ok {
		t.Fatalf("expected no binding for keypad + outside app keypad mode")
	}
	seq, ok := k.Translate(KeypadPlus, ModAny, Modes{AppKeypad: true})
	if !ok || seq != "\033Ok" {
		t.Fatalf("Translate(KeypadPlus, appkeypad) = %q,%v, want \\033Ok,true", seq, ok)
	}
}

func TestEmptyKeymapReturnsNotOK(t *testing.T) {
	k := &Keymap{}
	if _, ok := k.Translate(KeyF1, ModAny, Modes{}); ok {
		t.Fatalf("expected no binding in an empty keymap")
	}
}

func TestTristateMatches(t *testing.T) {
	if !Any.matches(true) || !Any.matches(false) {
		t.Fatalf("Any should match both states")
	}
	if !Require.matches(true) || Require.matches(false) {
		t.Fatalf("Require should match only true")
	}
	if Forbid.matches(true) || !Forbid.matches(false) {
		t.Fatalf("Forbid should match only false")
	}
}
