// Package selection tracks a terminal text selection (linear or
// rectangular, with word/line snapping) over a grid the host provides
// through the Source interface, independent of any windowing toolkit.
package selection

// DefaultWordDelimiters mirrors st's config.def.h worddelimiters: runes
// that end a word for SNAP_WORD snapping.
const DefaultWordDelimiters = " \x00'\"()[]{}"

// Mode tracks the selection lifecycle, mirroring st.h's selection_mode.
type Mode int

const (
	Idle Mode = iota
	Empty
	Ready
)

// Type distinguishes a linear (stream) selection from a column-bounded
// rectangular one, mirroring st.h's selection_type.
type Type int

const (
	Regular Type = iota + 1
	Rectangular
)

// Snap is the word/line snapping behavior applied when a selection starts,
// mirroring st.h's selection_snap.
type Snap int

const (
	SnapNone Snap = iota
	SnapWord
	SnapLine
)

// point is a single (col, row) grid coordinate.
type point struct{ X, Y int }

// Source is the grid the selection reads from: a rectangle of runes with
// per-cell wide/wrap attribute bits. Implemented by *terminal.Engine's
// adapter in the host package.
type Source interface {
	Cols() int
	Rows() int
	RuneAt(x, y int) rune
	IsWideDummy(x, y int) bool
	IsWrapped(y int) bool // true if the line's last cell carries AttrWrap
}

// Selection tracks one in-progress or completed selection over a Source.
// Coordinates ob/oe are the original (unordered) endpoints as the user
// dragged them; nb/ne are the normalized, snapped bounds actually used
// for hit-testing and text extraction. Mirrors st.h's Selection struct.
type Selection struct {
	src   Source
	Mode  Mode
	Type  Type
	Snap  Snap
	Delim string

	ob, oe point
	nb, ne point

	onChange func(text string)
}

// New creates a tracker reading cells from src.
func New(src Source) *Selection {
	return &Selection{src: src, Mode: Idle, Delim: DefaultWordDelimiters, ob: point{-1, 0}}
}

// OnChange registers a callback invoked with the selected text any time
// the selection's normalized bounds change (start, extend, or clear).
func (s *Selection) OnChange(f func(text string)) { s.onChange = f }

// Clear drops the selection, mirroring st.c's selclear.
func (s *Selection) Clear() {
	s.ob.X = -1
	s.Mode = Idle
	if s.onChange != nil {
		s.onChange("")
	}
}

// Active reports whether a selection start point has ever been recorded.
func (s *Selection) Active() bool { return s.ob.X != -1 }

// Start begins a new selection at (x, y) with the given type and snap
// behavior, mirroring st.c's bpress handling before the drag begins.
func (s *Selection) Start(x, y int, typ Type, snap Snap) {
	s.Mode = Empty
	s.Type = typ
	s.Snap = snap
	s.ob = point{x, y}
	s.oe = point{x, y}
	s.normalize()
	if snap != SnapNone {
		s.Mode = Ready
	}
}

// Extend moves the selection's free endpoint to (x, y), mirroring
// st.c's getbuttoninfo drag handling.
func (s *Selection) Extend(x, y int) {
	if !s.Active() {
		return
	}
	s.Mode = Ready
	s.oe = point{x, y}
	s.normalize()
}

// Bounds returns the normalized (post-snap) selection rectangle.
func (s *Selection) Bounds() (nbx, nby, nex, ney int) {
	return s.nb.X, s.nb.Y, s.ne.X, s.ne.Y
}

func (s *Selection) lineLen(y int) int {
	cols := s.src.Cols()
	if s.src.IsWrapped(y) {
		return cols
	}
	i := cols
	for i > 0 && s.src.RuneAt(i-1, y) == ' ' {
		i--
	}
	return i
}

// normalize recomputes nb/ne from ob/oe, applying word/line snapping and
// the line-break expansion rule, mirroring st.c's selnormalize.
func (s *Selection) normalize() {
	if s.Type == Regular && s.ob.Y != s.oe.Y {
		if s.ob.Y < s.oe.Y {
			s.nb.X, s.ne.X = s.ob.X, s.oe.X
		} else {
			s.nb.X, s.ne.X = s.oe.X, s.ob.X
		}
	} else {
		s.nb.X = min(s.ob.X, s.oe.X)
		s.ne.X = max(s.ob.X, s.oe.X)
	}
	s.nb.Y = min(s.ob.Y, s.oe.Y)
	s.ne.Y = max(s.ob.Y, s.oe.Y)

	s.snapPoint(&s.nb.X, &s.nb.Y, -1)
	s.snapPoint(&s.ne.X, &s.ne.Y, 1)

	if s.Type != Rectangular {
		if l := s.lineLen(s.nb.Y); l < s.nb.X {
			s.nb.X = l
		}
		if s.lineLen(s.ne.Y) <= s.ne.X {
			s.ne.X = s.src.Cols() - 1
		}
	}

	if s.onChange != nil {
		s.onChange(s.Text())
	}
}

func (s *Selection) isDelim(r rune) bool {
	for _, d := range s.Delim {
		if d == r {
			return true
		}
	}
	return false
}

// snapPoint applies SNAP_WORD/SNAP_LINE expansion in direction (-1 or +1)
// from (*x, *y), mirroring st.c's selsnap.
func (s *Selection) snapPoint(x, y *int, direction int) {
	cols, rows := s.src.Cols(), s.src.Rows()
	switch s.Snap {
	case SnapWord:
		prevDelim := s.isDelim(s.src.RuneAt(*x, *y))
		prevRune := s.src.RuneAt(*x, *y)
		for {
			newx := *x + direction
			newy := *y
			if newx < 0 || newx >= cols {
				newy += direction
				newx = ((newx % cols) + cols) % cols
				if newy < 0 || newy >= rows {
					return
				}
				var wy int
				if direction > 0 {
					wy = *y
				} else {
					wy = newy
				}
				if !s.src.IsWrapped(wy) {
					return
				}
			}
			if newx >= s.lineLen(newy) {
				return
			}
			r := s.src.RuneAt(newx, newy)
			delim := s.isDelim(r)
			if !s.src.IsWideDummy(newx, newy) && (delim != prevDelim || (delim && r != prevRune)) {
				return
			}
			*x, *y = newx, newy
			prevRune = r
			prevDelim = delim
		}
	case SnapLine:
		if direction < 0 {
			*x = 0
			for *y > 0 && s.src.IsWrapped(*y-1) {
				*y += direction
			}
		} else if direction > 0 {
			*x = cols - 1
			for *y < rows-1 && s.src.IsWrapped(*y) {
				*y += direction
			}
		}
	}
}

// Selected reports whether (x, y) falls inside the current selection,
// mirroring st.c's selected.
func (s *Selection) Selected(x, y int) bool {
	if s.Mode == Empty || !s.Active() {
		return false
	}
	if y < s.nb.Y || y > s.ne.Y {
		return false
	}
	if s.Type == Rectangular {
		return x >= s.nb.X && x <= s.ne.X
	}
	if y == s.nb.Y && x < s.nb.X {
		return false
	}
	if y == s.ne.Y && x > s.ne.X {
		return false
	}
	return true
}

// Text extracts the selected region as a string, joining wrapped lines
// without a newline and appending one after any line that isn't a hard
// wrap continuation. Mirrors st.c's getsel.
func (s *Selection) Text() string {
	if !s.Active() {
		return ""
	}
	var out []rune
	for y := s.nb.Y; y <= s.ne.Y; y++ {
		lineLen := s.lineLen(y)

		var startX, lastX int
		if s.Type == Rectangular {
			startX, lastX = s.nb.X, s.ne.X
		} else {
			if s.nb.Y == y {
				startX = s.nb.X
			}
			if s.ne.Y == y {
				lastX = s.ne.X
			} else {
				lastX = s.src.Cols() - 1
			}
		}
		if lastX >= lineLen {
			lastX = lineLen - 1
		}
		for lastX >= startX && s.src.RuneAt(lastX, y) == ' ' {
			lastX--
		}

		wrapped := false
		for x := startX; x <= lastX; x++ {
			if s.src.IsWideDummy(x, y) {
				continue
			}
			out = append(out, s.src.RuneAt(x, y))
			wrapped = x == lastX && s.src.IsWrapped(y)
		}
		if (y < s.ne.Y || lastX >= lineLen) && !wrapped {
			out = append(out, '\n')
		}
	}
	return string(out)
}

// ClearIfTouched drops the selection if any cell in [x1,y1]-[x2,y2]
// intersects it, mirroring st.c's tclearregion calling selclear when a
// cleared cell was selected.
func (s *Selection) ClearIfTouched(x1, y1, x2, y2 int) {
	if !s.Active() {
		return
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if s.Selected(x, y) {
				s.Clear()
				return
			}
		}
	}
}

// Scroll shifts the selection by n rows when lines [top,bot] scroll,
// clearing it if it scrolls entirely off screen. Mirrors st.c's
// selscroll.
func (s *Selection) Scroll(top, bot, n int) {
	if !s.Active() {
		return
	}
	if !(between(s.ob.Y, top, bot) || between(s.oe.Y, top, bot)) {
		return
	}
	s.ob.Y += n
	s.oe.Y += n
	if s.ob.Y > bot || s.oe.Y < top {
		s.Clear()
		return
	}
	if s.Type == Rectangular {
		if s.ob.Y < top {
			s.ob.Y = top
		}
		if s.oe.Y > bot {
			s.oe.Y = bot
		}
	} else {
		if s.ob.Y < top {
			s.ob.Y = top
			s.ob.X = 0
		}
		if s.oe.Y > bot {
			s.oe.Y = bot
			s.oe.X = s.src.Cols()
		}
	}
	s.normalize()
}

func between(v, lo, hi int) bool { return lo <= v && v <= hi }

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
