package selection

import "testing"

// fakeGrid is a minimal Source for testing independent of pkg/terminal.
type fakeGrid struct {
	cols, rows int
	cells      [][]rune
	wrapped    map[int]bool
}

func newFakeGrid(rows []string) *fakeGrid {
	g := &fakeGrid{wrapped: map[int]bool{}}
	g.rows = len(rows)
	for _, r := range rows {
		if len(r) > g.cols {
			g.cols = len(r)
		}
	}
	g.cells = make([][]rune, g.rows)
	for y, r := range rows {
		line := make([]rune, g.cols)
		for i := range line {
			line[i] = ' '
		}
		copy(line, []rune(r))
		g.cells[y] = line
	}
	return g
}

func (g *fakeGrid) Cols() int           { return g.cols }
func (g *fakeGrid) Rows() int           { return g.rows }
func (g *fakeGrid) RuneAt(x, y int) rune { return g.cells[y][x] }
func (g *fakeGrid) IsWideDummy(x, y int) bool { return false }
func (g *fakeGrid) IsWrapped(y int) bool      { return g.wrapped[y] }

func TestSelectedWithinRegularBounds(t *testing.T) {
	g := newFakeGrid([]string{"hello world", "second line"})
	s := New(g)
	s.Start(2, 0, Regular, SnapNone)
	s.Extend(4, 1)

	if !s.Selected(5, 0) {
		t.Errorf("expected (5,0) selected")
	}
	if s.Selected(1, 0) {
		t.Errorf("did not expect (1,0) selected (before start)")
	}
	if !s.Selected(0, 1) {
		t.Errorf("expected (0,1) selected (full middle-ish line)")
	}
	if s.Selected(5, 1) {
		t.Errorf("did not expect (5,1) selected (after end)")
	}
}

func TestRectangularSelectionIsColumnBounded(t *testing.T) {
	g := newFakeGrid([]string{"aaaaaa", "bbbbbb", "cccccc"})
	s := New(g)
	s.Start(2, 0, Rectangular, SnapNone)
	s.Extend(4, 2)

	if !s.Selected(3, 1) {
		t.Errorf("expected (3,1) selected in rectangular region")
	}
	if s.Selected(0, 1) {
		t.Errorf("did not expect (0,1) selected, outside column bounds")
	}
}

func TestNormalizeOrdersEndpoints(t *testing.T) {
	g := newFakeGrid([]string{"abcdefgh"})
	s := New(g)
	s.Start(5, 0, Regular, SnapNone)
	s.Extend(1, 0)
	nbx, _, nex, _ := s.Bounds()
	if nbx != 1 || nex != 5 {
		t.Fatalf("bounds = (%d,%d), want ordered (1,5)", nbx, nex)
	}
}

func TestWordSnapExpandsToWordBoundaries(t *testing.T) {
	g := newFakeGrid([]string{"hello world"})
	s := New(g)
	s.Start(7, 0, Regular, SnapWord) // inside "world"
	nbx, _, nex, _ := s.Bounds()
	if nbx != 6 || nex != 10 {
		t.Fatalf("word snap bounds = (%d,%d), want (6,10)", nbx, nex)
	}
}

func TestLineSnapSelectsWholeLine(t *testing.T) {
	g := newFakeGrid([]string{"short", "second line here"})
	s := New(g)
	s.Start(2, 1, Regular, SnapLine)
	nbx, nby, nex, ney := s.Bounds()
	if nbx != 0 || nby != 1 || nex != g.Cols()-1 || ney != 1 {
		t.Fatalf("line snap bounds = (%d,%d)-(%d,%d), want full line 1", nbx, nby, nex, ney)
	}
}

func TestClearResetsActiveState(t *testing.T) {
	g := newFakeGrid([]string{"abcdef"})
	s := New(g)
	s.Start(0, 0, Regular, SnapNone)
	s.Extend(3, 0)
	if !s.Active() {
		t.Fatalf("expected selection active")
	}
	s.Clear()
	if s.Active() {
		t.Fatalf("expected selection inactive after Clear")
	}
	if s.Selected(1, 0) {
		t.Fatalf("expected nothing selected after Clear")
	}
}

func TestTextExtractsTrimmedRegion(t *testing.T) {
	g := newFakeGrid([]string{"hello world  "})
	s := New(g)
	s.Start(0, 0, Regular, SnapNone)
	s.Extend(10, 0)
	got := s.Text()
	if got != "hello world" {
		t.Fatalf("Text() = %q, want %q", got, "hello world")
	}
}

func TestScrollShiftsSelectionWithinBounds(t *testing.T) {
	g := newFakeGrid([]string{"a", "b", "c", "d"})
	s := New(g)
	s.Start(0, 2, Regular, SnapNone)
	s.Extend(0, 2)
	s.Scroll(0, 3, -1)
	if !s.Active() {
		t.Fatalf("expected selection still active after in-bounds scroll")
	}
	_, nby, _, ney := s.Bounds()
	if nby != 1 || ney != 1 {
		t.Fatalf("bounds y = (%d,%d), want shifted to (1,1)", nby, ney)
	}
}

func TestScrollClearsSelectionThatScrollsOffRegion(t *testing.T) {
	g := newFakeGrid([]string{"a", "b", "c", "d"})
	s := New(g)
	s.Start(0, 1, Regular, SnapNone)
	s.Extend(0, 1)
	s.Scroll(0, 3, -2)
	if s.Active() {
		t.Fatalf("expected selection cleared when scrolled entirely above region")
	}
}
