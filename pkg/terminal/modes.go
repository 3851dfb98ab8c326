package terminal

// SetMode applies a DECSET/DECRST (priv) or SM/RM (non-priv) mode change,
// mirroring st.c's tsetmode. set is true for SET (CSI h), false for RESET
// (CSI l). Unrecognized mode numbers are ignored, matching the original's
// stderr-only diagnostic with no state change.
func (e *Engine) SetMode(priv, set bool, args []int) {
	for _, a := range args {
		if priv {
			e.setPrivateMode(a, set)
		} else {
			e.setANSIMode(a, set)
		}
	}
}

func modbit(mode *Mode, set bool, bit Mode) {
	if set {
		*mode |= bit
	} else {
		*mode &^= bit
	}
}

func (e *Engine) setPrivateMode(n int, set bool) {
	g := e.active()
	switch n {
	case 1: // DECCKM
		modbit(&e.Mode, set, ModeAppCursor)
	case 5: // DECSCNM
		modbit(&e.Mode, set, ModeReverse)
	case 6: // DECOM
		modbit(&e.Mode, set, ModeOrigin)
		e.moveToAbs(0, 0)
	case 7: // DECAWM
		modbit(&e.Mode, set, ModeWrap)
	case 0, 2, 3, 4, 8, 18, 19, 42, 12:
		// ignored: error / DECANM / DECCOLM / DECSCLM / DECARM /
		// DECPFF / DECPEX / DECNRCM / blinking cursor
	case 25: // DECTCEM
		modbit(&e.Mode, !set, ModeHide)
	case 9:
		modbit(&e.Mode, false, ModeMouse)
		modbit(&e.Mode, set, ModeMouseX10)
	case 1000:
		modbit(&e.Mode, false, ModeMouse)
		modbit(&e.Mode, set, ModeMouseBtn)
	case 1002:
		modbit(&e.Mode, false, ModeMouse)
		modbit(&e.Mode, set, ModeMouseMotion)
	case 1003:
		modbit(&e.Mode, false, ModeMouse)
		modbit(&e.Mode, set, ModeMouseMany)
	case 1004: // focus events
		modbit(&e.Mode, set, ModeFocus)
	case 1006: // SGR mouse encoding
		modbit(&e.Mode, set, ModeMouseSGR)
	case 1034:
		modbit(&e.Mode, set, Mode8Bit)
	case 1049:
		if !e.AllowAltScreen {
			return
		}
		if set {
			g.Cursor.Save()
		} else {
			g.Cursor.Restore()
		}
		e.swapScreenFor1047(set)
	case 47, 1047:
		if !e.AllowAltScreen {
			return
		}
		e.swapScreenFor1047(set)
	case 1048:
		if set {
			g.Cursor.Save()
		} else {
			g.Cursor.Restore()
		}
	case 2004: // bracketed paste
		modbit(&e.Mode, set, ModeBrcktPaste)
	case 1001, 1005, 1015:
		// unsupported mouse protocols, left unimplemented deliberately
	default:
		// unrecognized private mode, ignored
	}
}

// swapScreenFor1047 implements the shared tail of DECSET 47/1047/1049:
// clear the alt screen before leaving it, then swap if the requested state
// differs from the current one.
func (e *Engine) swapScreenFor1047(set bool) {
	alt := e.Mode&ModeAltScreen != 0
	if alt {
		e.ClearRegion(0, 0, e.Cols()-1, e.Rows()-1)
	}
	if set != alt {
		e.SwapScreen()
	}
}

func (e *Engine) setANSIMode(n int, set bool) {
	switch n {
	case 0: // ignored
	case 2: // KAM
		modbit(&e.Mode, set, ModeKbdLock)
	case 4: // IRM
		modbit(&e.Mode, set, ModeInsert)
	case 12: // SRM
		modbit(&e.Mode, !set, ModeEcho)
	case 20: // LNM
		modbit(&e.Mode, set, ModeCRLF)
	default:
		// unrecognized mode, ignored
	}
}
