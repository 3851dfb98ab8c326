package terminal

// SetAttr applies an SGR parameter list to the current pen, mirroring
// st.c's tsetattr.
func (e *Engine) SetAttr(args []int) {
	g := e.active()
	pen := &g.Cursor.Pen

	for i := 0; i < len(args); i++ {
		switch a := args[i]; a {
		case 0:
			pen.Mode &^= AttrBold | AttrFaint | AttrItalic | AttrUnderline |
				AttrBlink | AttrReverse | AttrInvisible | AttrStruck
			pen.FG = DefaultFG
			pen.BG = DefaultBG
		case 1:
			pen.Mode |= AttrBold
		case 2:
			pen.Mode |= AttrFaint
		case 3:
			pen.Mode |= AttrItalic
		case 4:
			pen.Mode |= AttrUnderline
		case 5, 6: // slow / rapid blink
			pen.Mode |= AttrBlink
		case 7:
			pen.Mode |= AttrReverse
		case 8:
			pen.Mode |= AttrInvisible
		case 9:
			pen.Mode |= AttrStruck
		case 22:
			pen.Mode &^= AttrBold | AttrFaint
		case 23:
			pen.Mode &^= AttrItalic
		case 24:
			pen.Mode &^= AttrUnderline
		case 25:
			pen.Mode &^= AttrBlink
		case 27:
			pen.Mode &^= AttrReverse
		case 28:
			pen.Mode &^= AttrInvisible
		case 29:
			pen.Mode &^= AttrStruck
		case 38:
			c, consumed, ok := parseExtendedColor(args, i)
			if ok {
				pen.FG = c
			}
			i += consumed
		case 39:
			pen.FG = DefaultFG
		case 48:
			c, consumed, ok := parseExtendedColor(args, i)
			if ok {
				pen.BG = c
			}
			i += consumed
		case 49:
			pen.BG = DefaultBG
		default:
			switch {
			case a >= 30 && a <= 37:
				pen.FG = Color(a - 30)
			case a >= 40 && a <= 47:
				pen.BG = Color(a - 40)
			case a >= 90 && a <= 97:
				pen.FG = Color(a - 90 + 8)
			case a >= 100 && a <= 107:
				pen.BG = Color(a - 100 + 8)
			}
			// anything else is an unrecognized SGR code, ignored
		}
	}
}

// parseExtendedColor decodes the 256-color (5;n) or truecolor (2;r;g;b)
// forms that follow an SGR 38/48 code, mirroring st.c's tdefcolor. i is the
// index of the 38/48 parameter itself; it returns how many extra
// parameters were consumed beyond that index.
func parseExtendedColor(args []int, i int) (Color, int, bool) {
	if i+1 >= len(args) {
		return 0, 0, false
	}
	switch args[i+1] {
	case 2: // direct RGB
		if i+4 >= len(args) {
			return 0, 0, false
		}
		r, g, b := args[i+2], args[i+3], args[i+4]
		if !inByte(r) || !inByte(g) || !inByte(b) {
			return 0, 4, false
		}
		return Truecolor(uint8(r), uint8(g), uint8(b)), 4, true
	case 5: // palette index
		if i+2 >= len(args) {
			return 0, 0, false
		}
		idx := args[i+2]
		if !inByte(idx) {
			return 0, 2, false
		}
		return Color(idx), 2, true
	default:
		return 0, 0, false
	}
}

func inByte(v int) bool { return v >= 0 && v <= 255 }
