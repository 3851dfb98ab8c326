package wsapi

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/vtcore/engine/pkg/terminal"
)

// snapshotMagic and snapshotVersion tag the binary buffer frame the
// way the teacher's buffer.go starts every snapshot with a "VT" magic
// and version byte, so a client can distinguish it from the raw-bytes
// websocket's plain binary frames.
var snapshotMagic = [2]byte{'V', 'T'}

const snapshotVersion = 1

const (
	rowEmpty   byte = 0
	rowContent byte = 1
)

// EncodeSnapshot serializes a Snapshot into the wsapi binary buffer
// frame format: magic + version + cols/rows, then one row marker per
// row (empty rows are a single byte; content rows carry a trimmed run
// of cells with packed rune/attr/fg/bg), adapted from the teacher's
// cell-run encoding to the richer Attr bitfield and 32-bit Color used
// here instead of its 4-flag byte.
func EncodeSnapshot(s terminal.Snapshot) []byte {
	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	buf.WriteByte(snapshotVersion)

	var hdr [10]byte
	binary.BigEndian.PutUint16(hdr[0:2], uint16(s.Cols))
	binary.BigEndian.PutUint16(hdr[2:4], uint16(s.Rows))
	binary.BigEndian.PutUint16(hdr[4:6], uint16(s.CursorX))
	binary.BigEndian.PutUint16(hdr[6:8], uint16(s.CursorY))
	if s.CursorVisible {
		hdr[8] = 1
	}
	buf.Write(hdr[:9])

	for _, row := range s.Cells {
		end := trimmedRowLen(row)
		if end == 0 {
			buf.WriteByte(rowEmpty)
			continue
		}
		buf.WriteByte(rowContent)
		var lenBuf [2]byte
		binary.BigEndian.PutUint16(lenBuf[:], uint16(end))
		buf.Write(lenBuf[:])
		for _, cell := range row[:end] {
			encodeCell(&buf, cell)
		}
	}

	return buf.Bytes()
}

func trimmedRowLen(row []terminal.Glyph) int {
	end := len(row)
	for end > 0 && row[end-1].Rune == ' ' && row[end-1].Mode == 0 &&
		row[end-1].FG == terminal.DefaultFG && row[end-1].BG == terminal.DefaultBG {
		end--
	}
	return end
}

func encodeCell(buf *bytes.Buffer, g terminal.Glyph) {
	var cellBuf [4 + 2 + 4 + 4]byte
	binary.BigEndian.PutUint32(cellBuf[0:4], uint32(g.Rune))
	binary.BigEndian.PutUint16(cellBuf[4:6], uint16(g.Mode))
	binary.BigEndian.PutUint32(cellBuf[6:10], uint32(g.FG))
	binary.BigEndian.PutUint32(cellBuf[10:14], uint32(g.BG))
	buf.Write(cellBuf[:])
}

// ErrBadSnapshot is returned by DecodeSnapshot for a malformed or
// truncated frame.
var ErrBadSnapshot = errors.New("wsapi: malformed snapshot frame")

// DecodeSnapshot is the client-side counterpart to EncodeSnapshot, kept
// here so tests can round-trip without a second implementation drifting.
func DecodeSnapshot(data []byte) (terminal.Snapshot, error) {
	var s terminal.Snapshot
	if len(data) < 3 || data[0] != 'V' || data[1] != 'T' || data[2] != snapshotVersion {
		return s, ErrBadSnapshot
	}
	data = data[3:]
	if len(data) < 9 {
		return s, ErrBadSnapshot
	}
	s.Cols = int(binary.BigEndian.Uint16(data[0:2]))
	s.Rows = int(binary.BigEndian.Uint16(data[2:4]))
	s.CursorX = int(binary.BigEndian.Uint16(data[4:6]))
	s.CursorY = int(binary.BigEndian.Uint16(data[6:8]))
	s.CursorVisible = data[8] == 1
	data = data[9:]

	s.Cells = make([][]terminal.Glyph, 0, s.Rows)
	for y := 0; y < s.Rows; y++ {
		if len(data) < 1 {
			return s, ErrBadSnapshot
		}
		marker := data[0]
		data = data[1:]
		row := make([]terminal.Glyph, s.Cols)
		for i := range row {
			row[i] = terminal.Pen{FG: terminal.DefaultFG, BG: terminal.DefaultBG}.Blank()
		}
		if marker == rowContent {
			if len(data) < 2 {
				return s, ErrBadSnapshot
			}
			n := int(binary.BigEndian.Uint16(data[0:2]))
			data = data[2:]
			if n > s.Cols || len(data) < n*14 {
				return s, ErrBadSnapshot
			}
			for i := 0; i < n; i++ {
				cell := data[:14]
				data = data[14:]
				row[i] = terminal.Glyph{
					Rune: rune(binary.BigEndian.Uint32(cell[0:4])),
					Mode: terminal.Attr(binary.BigEndian.Uint16(cell[4:6])),
					FG:   terminal.Color(binary.BigEndian.Uint32(cell[6:10])),
					BG:   terminal.Color(binary.BigEndian.Uint32(cell[10:14])),
				}
			}
		}
		s.Cells = append(s.Cells, row)
	}

	return s, nil
}
