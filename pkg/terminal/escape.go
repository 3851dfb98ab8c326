package terminal

// HandleEscape dispatches a plain ESC sequence (one that is neither a CSI
// introducer, a string-sequence introducer, nor a charset designator —
// the parser resolves those forms itself and calls the more specific
// methods below). Mirrors the tail of st.c's eschandle.
func (e *Engine) HandleEscape(final byte) {
	switch final {
	case 'n': // LS2
		e.Trans.LockShift(2)
	case 'o': // LS3
		e.Trans.LockShift(3)
	case 'D': // IND
		e.Index()
	case 'E': // NEL
		e.Newline(true)
	case 'H': // HTS
		e.SetTabStop()
	case 'M': // RI
		e.ReverseIndex()
	case 'Z': // DECID
		e.reply([]byte(vtIdentity))
	case 'c': // RIS
		e.Reset()
	case '=': // DECPAM
		e.Mode |= ModeAppKeypad
	case '>': // DECPNM
		e.Mode &^= ModeAppKeypad
	case '7': // DECSC
		e.SaveCursor()
	case '8': // DECRC
		e.RestoreCursor()
	default:
		// unrecognized escape, ignored
	}
}

// HandleControlCode applies a C0/C1 control byte outside of any escape or
// string sequence (HT, BS, CR, LF, etc). The parser is responsible for
// the ESC_STR short-circuit in st.c's tputc (a control byte arriving
// mid-string-sequence behaves differently); this covers the plain
// ground-state dispatch from st.c's tcontrolcode.
func (e *Engine) HandleControlCode(b byte) {
	switch b {
	case '\t':
		e.PutTab(1)
	case '\b':
		g := e.active()
		e.MoveTo(g.Cursor.X-1, g.Cursor.Y)
	case '\r':
		g := e.active()
		e.MoveTo(0, g.Cursor.Y)
	case '\f', '\v', '\n':
		e.Newline(e.Mode&ModeCRLF != 0)
	case '\a':
		if e.OnBell != nil {
			e.OnBell()
		}
	case 0x0E: // SO, LS1
		e.Trans.LockShift(1)
	case 0x0F: // SI, LS0
		e.Trans.LockShift(0)
	case 0x85: // NEL
		e.Newline(true)
	case 0x88: // HTS
		e.SetTabStop()
	case 0x9a: // DECID
		e.reply([]byte(vtIdentity))
	default:
		// ENQ, NUL, XON, XOFF, DEL and other unhandled C1 bytes: no-op
	}
}

// DesignateCharset applies an ESC ( / ) / * / + <final> sequence: slot
// selects the G-set (0-3, derived from the intermediate byte) and final
// names the charset ('0' line-drawing, 'B' ASCII). Mirrors st.c's
// tdeftran.
func (e *Engine) DesignateCharset(slot int, final byte) {
	e.Trans.SetPending(slot)
	e.Trans.Designate(final)
}

// SetTitle is invoked by OSC 0/1/2 handling to notify the host of a new
// window/tab title.
func (e *Engine) SetTitle(title string) {
	if e.OnTitle != nil {
		e.OnTitle(title)
	}
}
