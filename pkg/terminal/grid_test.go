package terminal

import "testing"

func TestNewGridDefaultTabStops(t *testing.T) {
	g := NewGrid(20, 5)
	for _, x := range []int{8, 16} {
		if !g.Tabs[x] {
			t.Errorf("expected tab stop at column %d", x)
		}
	}
	if g.Tabs[1] {
		t.Errorf("unexpected tab stop at column 1")
	}
}

func TestGridResizePreservesOverlap(t *testing.T) {
	g := NewGrid(5, 3)
	g.Lines[0][0].Rune = 'a'
	g.Lines[2][4].Rune = 'z'
	g.Resize(3, 2)
	if g.Lines[0][0].Rune != 'a' {
		t.Fatalf("expected overlapping content preserved")
	}
	if len(g.Lines) != 2 || len(g.Lines[0]) != 3 {
		t.Fatalf("grid dims = %dx%d, want 3x2", len(g.Lines[0]), len(g.Lines))
	}
}

func TestGridResizeShrinkClampsScrollRegion(t *testing.T) {
	g := NewGrid(5, 5)
	g.Top, g.Bot = 1, 4
	g.Resize(5, 3)
	if g.Bot >= g.Rows {
		t.Fatalf("bot=%d not clamped for rows=%d", g.Bot, g.Rows)
	}
	if g.Top > g.Bot {
		t.Fatalf("top=%d > bot=%d after resize", g.Top, g.Bot)
	}
}

func TestRuneWidthWide(t *testing.T) {
	if RuneWidth('中') != 2 {
		t.Fatalf("expected width 2 for CJK rune")
	}
	if RuneWidth('a') != 1 {
		t.Fatalf("expected width 1 for ASCII rune")
	}
}

func TestCursorSaveRestoreRoundTrip(t *testing.T) {
	var c Cursor
	c.X, c.Y = 3, 4
	c.Pen.Mode = AttrBold
	c.Save()
	c.X, c.Y = 0, 0
	c.Pen.Mode = AttrNull
	c.Restore()
	if c.X != 3 || c.Y != 4 || c.Pen.Mode != AttrBold {
		t.Fatalf("restore did not recover saved state: %+v", c)
	}
}

func TestCursorRestoreWithoutSaveGoesToOrigin(t *testing.T) {
	var c Cursor
	c.X, c.Y = 7, 7
	c.Restore()
	if c.X != 0 || c.Y != 0 {
		t.Fatalf("expected restore-without-save to reset to origin, got (%d,%d)", c.X, c.Y)
	}
}
