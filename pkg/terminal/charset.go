package terminal

// Charset identifies which of the four G0-G3 slots is designated to a
// trantbl entry, mirroring st.c's CS_USA / CS_GRAPHIC0 constants.
type Charset int

const (
	CharsetUSA Charset = iota
	CharsetGraphic0
)

// vt100Graphics is the DEC special graphics / line-drawing character set
// designated by ESC ( 0. Index 0 corresponds to ASCII 0x41 ('A'); entries
// left as 0 pass the original rune through unchanged. Table stolen from
// rxvt, same as st.c's tsetchar.
var vt100Graphics = [...]rune{
	'↑', '↓', '→', '←', '█', '▚', '☃', // A-G
	0, 0, 0, 0, 0, 0, 0, 0, // H-O
	0, 0, 0, 0, 0, 0, 0, 0, // P-W
	0, 0, 0, 0, 0, 0, 0, ' ', // X-_
	'◆', '▒', '␉', '␌', '␍', '␊', '°', '±', // `-g
	'␤', '␋', '┘', '┐', '┌', '└', '┼', '⎺', // h-o
	'⎻', '─', '⎼', '⎽', '├', '┤', '┴', '┬', // p-w
	'│', '≤', '≥', 'π', '≠', '£', '·', // x-~
}

// translateRune applies the active G-set translation to r, mirroring the
// vt100_0 lookup inside st.c's tsetchar.
func translateRune(cs Charset, r rune) rune {
	if cs != CharsetGraphic0 || r < 0x41 || r > 0x7e {
		return r
	}
	if repl := vt100Graphics[r-0x41]; repl != 0 {
		return repl
	}
	return r
}

// Translator holds the G0-G3 designation table and the locking-shift state
// (SI/SO, LS2/LS3) that selects which slot is currently active. Mirrors
// st.c's term.trantbl/term.charset/term.icharset fields.
type Translator struct {
	Slots   [4]Charset
	Active  int // index into Slots, 0-3
	Pending int // slot targeted by the next ESC ( / ) / * / + designator
}

// NewTranslator returns a translator with all four slots set to USA ASCII,
// matching treset's memset(term.trantbl, CS_USA, ...).
func NewTranslator() *Translator {
	return &Translator{}
}

// Designate assigns charset to the pending G-set slot selected by a prior
// ESC ( / ) / * / + and clears Pending back to G0. c is the final byte of
// the designator escape ('0' for the line-drawing set, 'B' for US ASCII).
func (t *Translator) Designate(c byte) bool {
	var cs Charset
	switch c {
	case '0':
		cs = CharsetGraphic0
	case 'B':
		cs = CharsetUSA
	default:
		return false
	}
	t.Slots[t.Pending] = cs
	return true
}

// SetPending records which slot (0-3) the next Designate call affects,
// driven by the ESC ( / ) / * / + intermediate byte.
func (t *Translator) SetPending(slot int) {
	t.Pending = slot
}

// LockShift switches the active G-set, implementing SO/SI (LS0/LS1) and
// ESC n / ESC o (LS2/LS3).
func (t *Translator) LockShift(slot int) {
	t.Active = slot
}

// Translate maps r through the currently active G-set.
func (t *Translator) Translate(r rune) rune {
	return translateRune(t.Slots[t.Active], r)
}
