package codec

import "testing"

func TestDecodeASCII(t *testing.T) {
	r, n := Decode([]byte("A"))
	if r != 'A' || n != 1 {
		t.Fatalf("got %q/%d, want 'A'/1", r, n)
	}
}

func TestDecodeMultiByte(t *testing.T) {
	cases := []struct {
		in   string
		want rune
		n    int
	}{
		{"é", 'é', 2},
		{"中", '中', 3},
		{"\U0001F600", '\U0001F600', 4},
	}
	for _, c := range cases {
		r, n := Decode([]byte(c.in))
		if r != c.want || n != c.n {
			t.Errorf("Decode(%q) = %q/%d, want %q/%d", c.in, r, n, c.want, c.n)
		}
	}
}

func TestDecodeIncompleteReturnsZero(t *testing.T) {
	// lead byte of a 3-byte sequence with only one continuation byte present
	b := []byte{0xE4, 0xB8}
	r, n := Decode(b)
	if n != 0 || r != 0 {
		t.Fatalf("Decode(%x) = %q/%d, want 0/0 (incomplete)", b, r, n)
	}
}

func TestDecodeMalformedLeadByte(t *testing.T) {
	r, n := Decode([]byte{0xFF, 'A'})
	if r != ReplacementChar || n != 1 {
		t.Fatalf("got %q/%d, want U+FFFD/1", r, n)
	}
}

func TestDecodeBadContinuation(t *testing.T) {
	// 2-byte lead followed by a non-continuation byte
	r, n := Decode([]byte{0xC3, 0x41})
	if r != ReplacementChar || n != 1 {
		t.Fatalf("got %q/%d, want U+FFFD/1", r, n)
	}
}

func TestDecodeOverlong(t *testing.T) {
	// overlong encoding of '/' (0x2F) as a 2-byte sequence
	r, n := Decode([]byte{0xC0, 0xAF})
	if r != ReplacementChar || n != 1 {
		t.Fatalf("got %q/%d, want U+FFFD/1", r, n)
	}
}

func TestDecodeSurrogate(t *testing.T) {
	// U+D800 encoded as a 3-byte sequence: ED A0 80
	r, n := Decode([]byte{0xED, 0xA0, 0x80})
	if r != ReplacementChar || n != 1 {
		t.Fatalf("got %q/%d, want U+FFFD/1", r, n)
	}
}

func TestDecodeEmpty(t *testing.T) {
	r, n := Decode(nil)
	if r != 0 || n != 0 {
		t.Fatalf("Decode(nil) = %q/%d, want 0/0", r, n)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	runes := []rune{'A', 'é', '中', '\U0001F600', 0x7F, 0x80, 0x7FF, 0x800, 0xFFFF, 0x10000, 0x10FFFF}
	for _, want := range runes {
		buf := EncodeString(want)
		got, n := Decode(buf)
		if got != want || n != len(buf) {
			t.Errorf("round trip %U: got %U/%d, want %U/%d", want, got, n, want, len(buf))
		}
	}
}

func TestEncodeSurrogateRejected(t *testing.T) {
	buf := EncodeString(0xD800)
	got, n := Decode(buf)
	if got != ReplacementChar {
		t.Fatalf("Encode(surrogate) round-tripped to %U, want U+FFFD", got)
	}
	_ = n
}
