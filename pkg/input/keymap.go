// Package input translates host key and mouse events into the byte
// sequences a terminal application expects on the pty, mirroring
// x.c's kmap/kpress/match and mousereport.
package input

// Tristate models st.c's "signed char: 0 indifferent, 1 on, -1 off"
// convention as an explicit enum, per the three-valued-logic redesign.
type Tristate int

const (
	Any Tristate = iota
	Require
	Forbid
)

// matches reports whether a Tristate condition holds given whether the
// corresponding mode is currently active.
func (t Tristate) matches(active bool) bool {
	switch t {
	case Require:
		return active
	case Forbid:
		return !active
	default:
		return true
	}
}

// Mod is a bitmask of modifier keys, mirroring the X11 ShiftMask/
// ControlMask/Mod1Mask/Mod4Mask state bits st.c tests in match().
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// ModAny matches a binding regardless of which modifiers are held,
// mirroring XK_ANY_MOD in st.c's match().
const ModAny Mod = 0xff

// Key identifies a non-printable key symbol (cursor keys, function
// keys, editing keys, keypad keys). Printable keys are delivered to
// Translate as their decoded rune instead.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
	KeypadEnter
	KeypadPlus
	KeypadMinus
	KeypadMultiply
	KeypadDivide
	KeypadComma
)

// binding is one row of the key translation table: a key symbol, the
// modifier mask it must match, a tri-state condition per engine mode,
// and the literal byte sequence to emit.
type binding struct {
	key       Key
	mask      Mod
	appkey    Tristate
	appcursor Tristate
	crlf      Tristate
	seq       string
}

// Keymap holds the ordered binding table searched by Translate, mirroring
// st.c's static `key[]` array searched by kmap().
type Keymap struct {
	bindings []binding
}

// DefaultKeymap returns the built-in cursor/function/keypad key table,
// grounded on st.c's config.def.h key[] array (the canonical VT220/
// xterm-compatible bindings: SS3-prefixed cursor keys in application
// cursor mode, CSI-prefixed otherwise; SS3-prefixed keypad in
// application keypad mode).
func DefaultKeymap() *Keymap {
	k := &Keymap{}
	add := func(key Key, mask Mod, appkey, appcursor, crlf Tristate, seq string) {
		k.bindings = append(k.bindings, binding{key, mask, appkey, appcursor, crlf, seq})
	}

	add(KeyUp, ModAny, Any, Forbid, Any, "\033[A")
	add(KeyUp, ModAny, Any, Require, Any, "\033OA")
	add(KeyDown, ModAny, Any, Forbid, Any, "\033[B")
	add(KeyDown, ModAny, Any, Require, Any, "\033OB")
	add(KeyRight, ModAny, Any, Forbid, Any, "\033[C")
	add(KeyRight, ModAny, Any, Require, Any, "\033OC")
	add(KeyLeft, ModAny, Any, Forbid, Any, "\033[D")
	add(KeyLeft, ModAny, Any, Require, Any, "\033OD")

	add(KeyHome, ModAny, Any, Forbid, Any, "\033[1~")
	add(KeyHome, ModAny, Any, Require, Any, "\033OH")
	add(KeyEnd, ModAny, Any, Forbid, Any, "\033[4~")
	add(KeyEnd, ModAny, Any, Require, Any, "\033OF")

	add(KeyInsert, ModAny, Any, Any, Any, "\033[2~")
	add(KeyDelete, ModAny, Any, Any, Any, "\033[3~")
	add(KeyPageUp, ModAny, Any, Any, Any, "\033[5~")
	add(KeyPageDown, ModAny, Any, Any, Any, "\033[6~")

	add(KeyF1, ModAny, Any, Any, Any, "\033OP")
	add(KeyF2, ModAny, Any, Any, Any, "\033OQ")
	add(KeyF3, ModAny, Any, Any, Any, "\033OR")
	add(KeyF4, ModAny, Any, Any, Any, "\033OS")
	add(KeyF5, ModAny, Any, Any, Any, "\033[15~")
	add(KeyF6, ModAny, Any, Any, Any, "\033[17~")
	add(KeyF7, ModAny, Any, Any, Any, "\033[18~")
	add(KeyF8, ModAny, Any, Any, Any, "\033[19~")
	add(KeyF9, ModAny, Any, Any, Any, "\033[20~")
	add(KeyF10, ModAny, Any, Any, Any, "\033[21~")
	add(KeyF11, ModAny, Any, Any, Any, "\033[23~")
	add(KeyF12, ModAny, Any, Any, Any, "\033[24~")

	add(KeyBackspace, ModAny, Any, Any, Any, "\177")
	add(KeyTab, ModAny, Any, Any, Any, "\t")
	add(KeyEnter, ModAny, Any, Any, Forbid, "\r")
	add(KeyEnter, ModAny, Any, Any, Require, "\r\n")
	add(KeyEscape, ModAny, Any, Any, Any, "\033")

	add(KeypadEnter, ModAny, Require, Any, Forbid, "\033OM")
	add(KeypadEnter, ModAny, Require, Any, Require, "\033OM")
	add(KeypadEnter, ModAny, Forbid, Any, Forbid, "\r")
	add(KeypadEnter, ModAny, Forbid, Any, Require, "\r\n")
	add(KeypadPlus, ModAny, Require, Any, Any, "\033Ok")
	add(KeypadMinus, ModAny, Require, Any, Any, "\033Om")
	add(KeypadMultiply, ModAny, Require, Any, Any, "\033Oj")
	add(KeypadDivide, ModAny, Require, Any, Any, "\033Oo")
	add(KeypadComma, ModAny, Require, Any, Any, "\033Ol")

	return k
}

// Modes is the subset of engine mode state the keymap needs to resolve
// a tri-state binding, decoupled from pkg/terminal by a plain struct
// (the engine fills it in from its Mode bitfield each keypress).
type Modes struct {
	AppKeypad bool
	AppCursor bool
	CRLF      bool
}

// Translate resolves a key event to the byte sequence it should send
// to the pty, mirroring kmap's scan of the key[] table plus its
// three-valued-logic filtering by engine mode. ok is false when no
// binding matches (the caller falls back to literal rune encoding).
func (k *Keymap) Translate(key Key, mod Mod, m Modes) (seq string, ok bool) {
	for _, b := range k.bindings {
		if b.key != key {
			continue
		}
		if !matchMask(b.mask, mod) {
			continue
		}
		if !b.appkey.matches(m.AppKeypad) {
			continue
		}
		if !b.appcursor.matches(m.AppCursor) {
			continue
		}
		if !b.crlf.matches(m.CRLF) {
			continue
		}
		return b.seq, true
	}
	return "", false
}

// matchMask mirrors st.c's match(): ModAny matches unconditionally,
// otherwise the held modifiers must equal the binding's mask exactly.
func matchMask(mask, held Mod) bool {
	return mask == ModAny || mask == held
}
