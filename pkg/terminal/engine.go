// Package terminal implements the VT screen model: the primary/alternate
// grids, cursor, SGR/mode state, and the escape-sequence operations a
// parser dispatches into it. It has no knowledge of ptys or transports;
// callers feed it decoded runes and CSI/OSC/ESC events.
package terminal

// Engine is one terminal screen: two grids (primary and alternate),
// global mode flags, and the G-set translator. It corresponds to st.c's
// global `Term term` plus the alt-screen swap logic normally spread across
// tnew/tswapscreen/tresize.
type Engine struct {
	Primary *Grid
	Alt     *Grid
	Mode    Mode
	Trans   *Translator

	AllowAltScreen bool

	OnTitle           func(title string)
	OnBell            func()
	OnSelectionChange func(text string)
	OnReply           func(b []byte)
	OnCursorStyle     func(style int)
	selection         selectionClearer
}

// selectionClearer is the minimal hook the engine needs into the
// selection tracker: screen mutations that touch selected cells must
// drop the selection, mirroring st.c's tclearregion calling selclear.
type selectionClearer interface {
	ClearIfTouched(x1, y1, x2, y2 int)
	Scroll(top, bot, n int)
}

// NewEngine allocates a terminal of the given size with both screens
// blank, matching st.c's tnew followed by treset.
func NewEngine(cols, rows int) *Engine {
	e := &Engine{
		Primary:        NewGrid(cols, rows),
		Alt:            NewGrid(cols, rows),
		Mode:           ModeWrap | ModeUTF8,
		Trans:          NewTranslator(),
		AllowAltScreen: true,
	}
	return e
}

// SetSelectionTracker wires a selection tracker so screen mutations can
// invalidate it. Optional; if unset, mutations simply skip invalidation.
func (e *Engine) SetSelectionTracker(s selectionClearer) {
	e.selection = s
}

func (e *Engine) active() *Grid {
	if e.Mode&ModeAltScreen != 0 {
		return e.Alt
	}
	return e.Primary
}

// Cols reports the active grid's column count.
func (e *Engine) Cols() int { return e.active().Cols }

// Rows reports the active grid's row count.
func (e *Engine) Rows() int { return e.active().Rows }

// Cursor returns the active grid's cursor, for read-only inspection by
// transports producing a snapshot.
func (e *Engine) Cursor() Cursor { return e.active().Cursor }

// Grid returns the currently visible grid.
func (e *Engine) Grid() *Grid { return e.active() }

// Reset restores both screens and mode flags to their power-on state,
// mirroring st.c's treset (run once per screen, toggling between them).
func (e *Engine) Reset() {
	e.Mode = ModeWrap | ModeUTF8
	e.Trans = NewTranslator()
	for _, g := range [2]*Grid{e.Primary, e.Alt} {
		g.Reset()
	}
}

// Resize adjusts both screens to the new size, clamping both screens'
// cursors (including whichever one isn't currently visible), matching the
// Open Question decision recorded in DESIGN.md.
func (e *Engine) Resize(cols, rows int) {
	e.Primary.Resize(cols, rows)
	e.Alt.Resize(cols, rows)
}

// SwapScreen switches the visible grid between primary and alternate
// (toggling ModeAltScreen) and marks the newly visible one fully dirty,
// mirroring st.c's tswapscreen.
func (e *Engine) SwapScreen() {
	e.Mode ^= ModeAltScreen
	e.active().MarkDirtyRange(0, e.active().Rows-1)
}

// originBounds returns the Y clamp range for cursor moves, honoring
// DECOM (origin mode): within the scroll region when set, full screen
// otherwise. Mirrors st.c's tmoveto.
func (e *Engine) originBounds() (miny, maxy int) {
	g := e.active()
	if e.Mode&ModeOrigin != 0 {
		return g.Top, g.Bot
	}
	return 0, g.Rows - 1
}

// MoveTo sets the cursor to (x, y) in screen-relative coordinates,
// clamped into bounds and clearing wrap-pending. Mirrors st.c's tmoveto.
func (e *Engine) MoveTo(x, y int) {
	g := e.active()
	miny, maxy := e.originBounds()
	g.Cursor.Wrapnext = false
	g.Cursor.X = clamp(x, 0, g.Cols-1)
	g.Cursor.Y = clamp(y, miny, maxy)
}

// moveToAbs is tmoveato: like MoveTo but y is relative to the scroll
// region's top when origin mode is active (used by CUP/HVP/VPA).
func (e *Engine) moveToAbs(x, y int) {
	g := e.active()
	if e.Mode&ModeOrigin != 0 {
		y += g.Top
	}
	e.MoveTo(x, y)
}

// Newline advances the cursor down one row, scrolling the region if
// already at the bottom margin, and optionally returns to column 0.
// Mirrors st.c's tnewline.
func (e *Engine) Newline(firstCol bool) {
	g := e.active()
	y := g.Cursor.Y
	if y == g.Bot {
		e.ScrollUp(g.Top, 1)
	} else {
		y++
	}
	x := g.Cursor.X
	if firstCol {
		x = 0
	}
	e.MoveTo(x, y)
}

// SetScrollRegion sets the scroll margin (DECSTBM), clamped and swapped
// into order if inverted. Mirrors st.c's tsetscroll.
func (e *Engine) SetScrollRegion(top, bot int) {
	g := e.active()
	top = clamp(top, 0, g.Rows-1)
	bot = clamp(bot, 0, g.Rows-1)
	if top > bot {
		top, bot = bot, top
	}
	g.Top, g.Bot = top, bot
}

// ScrollUp moves lines [orig, bot] up by n, pulling blank lines in at the
// bottom. Mirrors st.c's tscrollup.
func (e *Engine) ScrollUp(orig, n int) {
	g := e.active()
	n = clamp(n, 0, g.Bot-orig+1)
	if n == 0 {
		return
	}
	e.ClearRegion(0, orig, g.Cols-1, orig+n-1)
	g.MarkDirtyRange(orig+n, g.Bot)

	for i := orig; i <= g.Bot-n; i++ {
		g.Lines[i], g.Lines[i+n] = g.Lines[i+n], g.Lines[i]
	}
	if e.selection != nil {
		e.selection.Scroll(orig, g.Bot, -n)
	}
}

// ScrollDown moves lines [orig, bot] down by n, pulling blank lines in at
// the top. Mirrors st.c's tscrolldown.
func (e *Engine) ScrollDown(orig, n int) {
	g := e.active()
	n = clamp(n, 0, g.Bot-orig+1)
	if n == 0 {
		return
	}
	g.MarkDirtyRange(orig, g.Bot-n)
	e.ClearRegion(0, g.Bot-n+1, g.Cols-1, g.Bot)

	for i := g.Bot; i >= orig+n; i-- {
		g.Lines[i], g.Lines[i-n] = g.Lines[i-n], g.Lines[i]
	}
	if e.selection != nil {
		e.selection.Scroll(orig, g.Bot, n)
	}
}

// SetChar writes r at (x, y) with the given pen, handling the wide/dummy
// pairing cleanup st.c's tsetchar performs when overwriting half of a
// previous wide glyph. Translation through the active G-set must already
// have been applied by the caller for plain prints; SetChar itself does
// not re-translate (DEC test fill, for instance, writes raw glyphs).
func (e *Engine) SetChar(r rune, pen Pen, x, y int) {
	g := e.active()
	if x < 0 || x >= g.Cols || y < 0 || y >= g.Rows {
		return
	}
	cur := g.Lines[y][x]
	if cur.Mode&AttrWide != 0 && x+1 < g.Cols {
		g.Lines[y][x+1].Rune = ' '
		g.Lines[y][x+1].Mode &^= AttrWDummy
	} else if cur.Mode&AttrWDummy != 0 && x > 0 {
		g.Lines[y][x-1].Rune = ' '
		g.Lines[y][x-1].Mode &^= AttrWide
	}
	g.MarkDirty(y)
	glyph := pen.ToGlyph(r)
	g.Lines[y][x] = glyph
}

// PutChar prints one grapheme at the cursor, applying DECAWM autowrap,
// wide-character pairing, and insert-mode shifting. Mirrors the print
// path that surrounds st.c's tsetchar call inside tputc (wrap handling
// lives there, not in tsetchar itself).
func (e *Engine) PutChar(r rune) {
	r = e.Trans.Translate(r)
	width := RuneWidth(r)
	g := e.active()

	if e.Mode&ModeWrap != 0 && g.Cursor.Wrapnext {
		g.Lines[g.Cursor.Y][g.Cursor.X].Mode |= AttrWrap
		e.Newline(true)
		g = e.active()
	}

	if e.Mode&ModeInsert != 0 && g.Cursor.X+width < g.Cols {
		e.InsertBlanks(width)
		g = e.active()
	}

	if g.Cursor.X+width > g.Cols {
		if e.Mode&ModeWrap != 0 {
			g.Lines[g.Cursor.Y][g.Cursor.X].Mode |= AttrWrap
			e.Newline(true)
			g = e.active()
		} else {
			e.MoveTo(g.Cols-width, g.Cursor.Y)
			g = e.active()
		}
	}

	pen := g.Cursor.Pen
	e.SetChar(r, pen, g.Cursor.X, g.Cursor.Y)
	if width == 2 {
		g.Lines[g.Cursor.Y][g.Cursor.X].Mode |= AttrWide
		if g.Cursor.X+1 < g.Cols {
			g.Lines[g.Cursor.Y][g.Cursor.X+1] = Glyph{Rune: 0, Mode: AttrWDummy, FG: pen.FG, BG: pen.BG}
		}
	}

	if g.Cursor.X+width < g.Cols {
		g.Cursor.X += width
	} else {
		g.Cursor.Wrapnext = true
	}
}

// ClearRegion blanks the rectangle [x1,y1]-[x2,y2] (inclusive, normalized)
// using the current pen's colors and invalidates any selection touching
// it. Mirrors st.c's tclearregion.
func (e *Engine) ClearRegion(x1, y1, x2, y2 int) {
	g := e.active()
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	x1, x2 = clamp(x1, 0, g.Cols-1), clamp(x2, 0, g.Cols-1)
	y1, y2 = clamp(y1, 0, g.Rows-1), clamp(y2, 0, g.Rows-1)

	if e.selection != nil {
		e.selection.ClearIfTouched(x1, y1, x2, y2)
	}

	blank := g.Cursor.Pen.Blank()
	for y := y1; y <= y2; y++ {
		g.MarkDirty(y)
		for x := x1; x <= x2; x++ {
			g.Lines[y][x] = blank
		}
	}
}

// DeleteChars removes n cells starting at the cursor, shifting the rest
// of the line left and clearing the vacated tail. Mirrors st.c's
// tdeletechar.
func (e *Engine) DeleteChars(n int) {
	g := e.active()
	n = clamp(n, 0, g.Cols-g.Cursor.X)
	if n == 0 {
		return
	}
	line := g.Lines[g.Cursor.Y]
	copy(line[g.Cursor.X:], line[g.Cursor.X+n:])
	e.ClearRegion(g.Cols-n, g.Cursor.Y, g.Cols-1, g.Cursor.Y)
}

// InsertBlanks opens n blank cells at the cursor, shifting the remainder
// of the line right and dropping cells that fall off the edge. Mirrors
// st.c's tinsertblank.
func (e *Engine) InsertBlanks(n int) {
	g := e.active()
	n = clamp(n, 0, g.Cols-g.Cursor.X)
	if n == 0 {
		return
	}
	line := g.Lines[g.Cursor.Y]
	dst := g.Cursor.X + n
	copy(line[dst:], line[g.Cursor.X:g.Cols-n])
	e.ClearRegion(g.Cursor.X, g.Cursor.Y, dst-1, g.Cursor.Y)
}

// InsertLines shifts lines [cursor.y, bot] down by n within the scroll
// region, only when the cursor is inside the region. Mirrors st.c's
// tinsertblankline.
func (e *Engine) InsertLines(n int) {
	g := e.active()
	if g.Cursor.Y >= g.Top && g.Cursor.Y <= g.Bot {
		e.ScrollDown(g.Cursor.Y, n)
	}
}

// DeleteLines shifts lines [cursor.y, bot] up by n within the scroll
// region. Mirrors st.c's tdeleteline.
func (e *Engine) DeleteLines(n int) {
	g := e.active()
	if g.Cursor.Y >= g.Top && g.Cursor.Y <= g.Bot {
		e.ScrollUp(g.Cursor.Y, n)
	}
}

// PutTab moves the cursor forward (n>0) or backward (n<0) across tab
// stops. Mirrors st.c's tputtab.
func (e *Engine) PutTab(n int) {
	g := e.active()
	x := g.Cursor.X
	if n > 0 {
		for x < g.Cols-1 && n > 0 {
			x++
			for x < g.Cols-1 && !g.Tabs[x] {
				x++
			}
			n--
		}
	} else if n < 0 {
		for x > 0 && n < 0 {
			x--
			for x > 0 && !g.Tabs[x] {
				x--
			}
			n++
		}
	}
	g.Cursor.X = clamp(x, 0, g.Cols-1)
}

// SaveCursor / RestoreCursor implement DECSC/DECRC (ESC 7/8, CSI s/u).
func (e *Engine) SaveCursor()    { e.active().Cursor.Save() }
func (e *Engine) RestoreCursor() { e.active().Cursor.Restore() }

// DECAlignmentTest fills the active screen with 'E', used by ESC # 8.
func (e *Engine) DECAlignmentTest() {
	g := e.active()
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			e.SetChar('E', g.Cursor.Pen, x, y)
		}
	}
}

// Index performs IND (ESC D): linefeed without carriage return, scrolling
// if already at the bottom margin.
func (e *Engine) Index() {
	g := e.active()
	if g.Cursor.Y == g.Bot {
		e.ScrollUp(g.Top, 1)
	} else {
		e.MoveTo(g.Cursor.X, g.Cursor.Y+1)
	}
}

// ReverseIndex performs RI (ESC M): move up, scrolling down if already at
// the top margin.
func (e *Engine) ReverseIndex() {
	g := e.active()
	if g.Cursor.Y == g.Top {
		e.ScrollDown(g.Top, 1)
	} else {
		e.MoveTo(g.Cursor.X, g.Cursor.Y-1)
	}
}

// SetTabStop sets the tab stop at the cursor's column.
func (e *Engine) SetTabStop() {
	g := e.active()
	g.Tabs[g.Cursor.X] = true
}

// GridSource adapts an Engine's active grid to selection.Source, letting
// pkg/selection walk cells without depending on this package's types.
type GridSource struct{ E *Engine }

func (s GridSource) Cols() int { return s.E.Cols() }
func (s GridSource) Rows() int { return s.E.Rows() }

func (s GridSource) RuneAt(x, y int) rune {
	g := s.E.active()
	if x < 0 || x >= g.Cols || y < 0 || y >= g.Rows {
		return ' '
	}
	return g.Lines[y][x].Rune
}

func (s GridSource) IsWideDummy(x, y int) bool {
	g := s.E.active()
	if x < 0 || x >= g.Cols || y < 0 || y >= g.Rows {
		return false
	}
	return g.Lines[y][x].IsWideDummy()
}

func (s GridSource) IsWrapped(y int) bool {
	g := s.E.active()
	if y < 0 || y >= g.Rows || g.Cols == 0 {
		return false
	}
	return g.Lines[y][g.Cols-1].Mode&AttrWrap != 0
}

// ClearTabStop implements TBC: 0 clears the current column, 3 clears all.
func (e *Engine) ClearTabStop(mode int) {
	g := e.active()
	switch mode {
	case 0:
		g.Tabs[g.Cursor.X] = false
	case 3:
		for i := range g.Tabs {
			g.Tabs[i] = false
		}
	}
}
