package terminal

// Snapshot is a point-in-time copy of one grid plus cursor metadata,
// the unit handed to a renderer or serialized for a remote transport.
// It owns its cell storage so it remains valid after further engine
// mutation.
type Snapshot struct {
	Cols, Rows int
	Cells      [][]Glyph
	CursorX    int
	CursorY    int
	CursorVisible bool
	Dirty      []bool
}

// Snapshot copies the active grid's visible state.
func (e *Engine) Snapshot() Snapshot {
	g := e.active()
	cells := make([][]Glyph, g.Rows)
	for y := range cells {
		row := make([]Glyph, g.Cols)
		copy(row, g.Lines[y])
		cells[y] = row
	}
	dirty := make([]bool, len(g.Dirty))
	copy(dirty, g.Dirty)

	return Snapshot{
		Cols:          g.Cols,
		Rows:          g.Rows,
		Cells:         cells,
		CursorX:       g.Cursor.X,
		CursorY:       g.Cursor.Y,
		CursorVisible: e.Mode&ModeHide == 0,
		Dirty:         dirty,
	}
}
