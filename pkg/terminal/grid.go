package terminal

import "github.com/mattn/go-runewidth"

// Mode is the terminal-wide mode bitfield, mirroring st.h's term_mode enum.
type Mode uint32

const (
	ModeWrap Mode = 1 << iota
	ModeInsert
	ModeAppKeypad
	ModeAltScreen
	ModeCRLF
	ModeMouseBtn
	ModeMouseMotion
	ModeReverse
	ModeKbdLock
	ModeHide
	ModeEcho
	ModeAppCursor
	ModeMouseSGR
	Mode8Bit
	ModeBlink
	ModeFBlink
	ModeFocus
	ModeMouseX10
	ModeMouseMany
	ModeBrcktPaste
	ModePrint
	ModeUTF8
	ModeOrigin
	ModeCursorVisible
)

const ModeMouse = ModeMouseBtn | ModeMouseMotion | ModeMouseX10 | ModeMouseMany

// Cursor tracks position, pen, and the saved-cursor slot used by
// DECSC/DECRC, mirroring st.h's TCursor plus its "state" save flag.
type Cursor struct {
	X, Y     int
	Pen      Pen
	Wrapnext bool

	saved     *Cursor
	hasSaved  bool
}

// Save stores the current position/pen/wrap flag for a later Restore
// (DECSC). Matches st.c's tcursor(CURSOR_SAVE).
func (c *Cursor) Save() {
	c.saved = &Cursor{X: c.X, Y: c.Y, Pen: c.Pen, Wrapnext: c.Wrapnext}
	c.hasSaved = true
}

// Restore loads back a previously Saved cursor (DECRC). If nothing was ever
// saved, st.c resets to origin instead of leaving the cursor untouched.
func (c *Cursor) Restore() {
	if c.hasSaved {
		saved := c.saved
		c.X, c.Y, c.Pen, c.Wrapnext = saved.X, saved.Y, saved.Pen, saved.Wrapnext
		return
	}
	c.X, c.Y, c.Wrapnext = 0, 0, false
	c.Pen = DefaultPen()
}

// Grid is one screen buffer: a rectangle of lines, scroll-region bounds,
// and per-line dirty tracking. The engine keeps two of these (primary and
// alternate) and swaps which is active on DECSET 1049 / smcup-style calls.
type Grid struct {
	Cols, Rows int
	Lines      [][]Glyph
	Dirty      []bool
	Tabs       []bool
	Top, Bot   int // scroll region, inclusive, 0-based
	Cursor     Cursor
}

// NewGrid allocates a blank grid of the given size with a default 8-column
// tab stop pattern and a full-screen scroll region.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{Cols: cols, Rows: rows}
	g.Lines = make([][]Glyph, rows)
	g.Dirty = make([]bool, rows)
	for i := range g.Lines {
		g.Lines[i] = blankLine(cols, DefaultPen())
	}
	g.resetTabs()
	g.Top, g.Bot = 0, rows-1
	return g
}

func blankLine(cols int, pen Pen) []Glyph {
	line := make([]Glyph, cols)
	blank := pen.Blank()
	for i := range line {
		line[i] = blank
	}
	return line
}

func (g *Grid) resetTabs() {
	g.Tabs = make([]bool, g.Cols)
	for i := 8; i < g.Cols; i += 8 {
		g.Tabs[i] = true
	}
}

// MarkDirty flags row as changed, matching st.c's tsetdirt per-line marker.
func (g *Grid) MarkDirty(row int) {
	if row >= 0 && row < g.Rows {
		g.Dirty[row] = true
	}
}

// MarkDirtyRange flags rows [from, to] inclusive.
func (g *Grid) MarkDirtyRange(from, to int) {
	if from > to {
		from, to = to, from
	}
	for y := from; y <= to; y++ {
		g.MarkDirty(y)
	}
}

// ClearDirty resets all dirty flags, called after a snapshot is taken.
func (g *Grid) ClearDirty() {
	for i := range g.Dirty {
		g.Dirty[i] = false
	}
}

// Reset clears the grid to blanks, resets the scroll region to full
// screen, and drops tab stops back to their default pattern. Mirrors
// st.c's treset.
func (g *Grid) Reset() {
	pen := DefaultPen()
	for y := 0; y < g.Rows; y++ {
		g.Lines[y] = blankLine(g.Cols, pen)
	}
	g.resetTabs()
	g.Top, g.Bot = 0, g.Rows-1
	g.Cursor = Cursor{}
	g.MarkDirtyRange(0, g.Rows-1)
}

// Resize grows or shrinks the grid in place, preserving as much existing
// content as fits and clamping the cursor and scroll region into the new
// bounds. Mirrors st.c's tresize, including its handling of a scroll
// region that no longer fits and trailing wide-dummy cells left dangling
// at a new right edge.
func (g *Grid) Resize(cols, rows int) {
	if cols == g.Cols && rows == g.Rows {
		return
	}

	pen := DefaultPen()
	newLines := make([][]Glyph, rows)
	minRows := min(rows, g.Rows)
	minCols := min(cols, g.Cols)

	for y := 0; y < rows; y++ {
		newLines[y] = blankLine(cols, pen)
		if y < minRows {
			copy(newLines[y][:minCols], g.Lines[y][:minCols])
			if minCols < g.Cols && minCols > 0 && newLines[y][minCols-1].IsWide() {
				// the wide glyph's dummy half was truncated away; drop the
				// wide flag so the lead cell doesn't claim a phantom pair
				newLines[y][minCols-1].Mode &^= AttrWide
			}
		}
	}

	g.Lines = newLines
	g.Cols, g.Rows = cols, rows
	g.Dirty = make([]bool, rows)
	g.resetTabs()

	if g.Top >= rows {
		g.Top = rows - 1
	}
	if g.Bot >= rows || g.Bot == 0 {
		g.Bot = rows - 1
	}
	if g.Top > g.Bot {
		g.Top, g.Bot = 0, rows-1
	}

	g.Cursor.X = clamp(g.Cursor.X, 0, cols-1)
	g.Cursor.Y = clamp(g.Cursor.Y, 0, rows-1)
	g.Cursor.Wrapnext = false
	if s := g.Cursor.saved; s != nil {
		s.X = clamp(s.X, 0, cols-1)
		s.Y = clamp(s.Y, 0, rows-1)
	}
	g.MarkDirtyRange(0, rows-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

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

// RuneWidth reports the display width (0, 1, or 2 columns) of r, using
// East Asian width rules. A control character reports width 1 to match
// st.c's treatment of non-printing runes reaching the print path (they
// are filtered out before this is consulted).
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w <= 0 {
		return 1
	}
	return w
}
