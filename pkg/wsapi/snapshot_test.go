package wsapi

import (
	"testing"

	"github.com/vtcore/engine/pkg/terminal"
)

func TestEncodeDecodeSnapshotRoundTrip(t *testing.T) {
	e := terminal.NewEngine(10, 3)
	for _, r := range "hi" {
		e.PutChar(r)
	}
	snap := e.Snapshot()

	encoded := EncodeSnapshot(snap)
	decoded, err := DecodeSnapshot(encoded)
	if err != nil {
		t.Fatalf("DecodeSnapshot error = %v", err)
	}
	if decoded.Cols != snap.Cols || decoded.Rows != snap.Rows {
		t.Fatalf("decoded size = %dx%d, want %dx%d", decoded.Cols, decoded.Rows, snap.Cols, snap.Rows)
	}
	if decoded.CursorX != snap.CursorX || decoded.CursorY != snap.CursorY {
		t.Fatalf("decoded cursor = (%d,%d), want (%d,%d)", decoded.CursorX, decoded.CursorY, snap.CursorX, snap.CursorY)
	}
	if decoded.Cells[0][0].Rune != 'h' || decoded.Cells[0][1].Rune != 'i' {
		t.Fatalf("decoded row0 = %q%q, want 'h' 'i'", decoded.Cells[0][0].Rune, decoded.Cells[0][1].Rune)
	}
}

func TestEncodeSnapshotTrimsEmptyRows(t *testing.T) {
	e := terminal.NewEngine(5, 2)
	snap := e.Snapshot()
	encoded := EncodeSnapshot(snap)

	decoded, err := DecodeSnapshot(encoded)
	if err != nil {
		t.Fatalf("DecodeSnapshot error = %v", err)
	}
	for y, row := range decoded.Cells {
		for x, cell := range row {
			if cell.Rune != ' ' {
				t.Fatalf("decoded[%d][%d] = %q, want blank", y, x, cell.Rune)
			}
		}
	}
}

func TestDecodeSnapshotRejectsBadMagic(t *testing.T) {
	if _, err := DecodeSnapshot([]byte("xx garbage")); err != ErrBadSnapshot {
		t.Fatalf("DecodeSnapshot(garbage) error = %v, want ErrBadSnapshot", err)
	}
}
