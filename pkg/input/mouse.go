package input

import "fmt"

// MouseMode is the bitmask of active mouse-reporting modes, mirroring
// the MODE_MOUSEX10/MOUSEBTN/MOUSEMOTION/MOUSEMANY/MOUSESGR bits in
// st.h's enum term_mode.
type MouseMode uint8

const (
	MouseX10 MouseMode = 1 << iota
	MouseButton
	MouseMotion
	MouseMany
	MouseSGR
)

func (m MouseMode) has(bit MouseMode) bool { return m&bit != 0 }

// anyTracking is MODE_MOUSE in st.h: any of the four click/motion
// tracking modes is enabled.
func (m MouseMode) anyTracking() bool {
	return m.has(MouseX10) || m.has(MouseButton) || m.has(MouseMotion) || m.has(MouseMany)
}

// ButtonEventType distinguishes the three XEvent types mousereport
// switches on.
type ButtonEventType int

const (
	ButtonPress ButtonEventType = iota
	ButtonRelease
	MotionNotify
)

// ButtonEvent describes one mouse event in already-resolved cell
// coordinates (x2col/y2row is the caller's job, same division of
// labor as the Open Question decision recorded for selection).
type ButtonEvent struct {
	Type   ButtonEventType
	Button int // 0=left,1=middle,2=right; ignored for MotionNotify unless a button is held
	X, Y   int
	Shift  bool
	Alt    bool // Mod1Mask / urxvt's Mod4Mask equivalents folded together
	Ctrl   bool
}

// Reporter tracks the small amount of state mousereport needs across
// calls (oldbutton, last-reported cell) and renders XTerm mouse
// tracking sequences, mirroring st.c's mousereport.
type Reporter struct {
	Mode MouseMode

	oldButton  int
	lastX, lastY int
	haveLast   bool
}

// NewReporter returns a Reporter with oldbutton initialized the way
// st.c's global starts (released / no button).
func NewReporter() *Reporter {
	return &Reporter{oldButton: 3}
}

// Report renders the CSI M / CSI < mouse sequence for ev, or returns
// ok=false when the current mode suppresses reporting for this event
// (mirrors every early "return" in st.c's mousereport).
func (r *Reporter) Report(ev ButtonEvent) (seq []byte, ok bool) {
	button := ev.Button
	x, y := ev.X, ev.Y

	if ev.Type == MotionNotify {
		if r.haveLast && x == r.lastX && y == r.lastY {
			return nil, false
		}
		if !r.Mode.has(MouseMotion) && !r.Mode.has(MouseMany) {
			return nil, false
		}
		if r.Mode.has(MouseMotion) && r.oldButton == 3 {
			return nil, false
		}
		button = r.oldButton + 32
		r.lastX, r.lastY, r.haveLast = x, y, true
	} else {
		if !r.Mode.has(MouseSGR) && ev.Type == ButtonRelease {
			button = 3
		} else if button >= 3 {
			button += 64 - 3
		}
		if ev.Type == ButtonPress {
			r.oldButton = button
			r.lastX, r.lastY, r.haveLast = x, y, true
		} else if ev.Type == ButtonRelease {
			r.oldButton = 3
			if r.Mode.has(MouseX10) {
				return nil, false
			}
			if button == 64 || button == 65 {
				return nil, false
			}
		}
	}

	if !r.Mode.has(MouseX10) {
		if ev.Shift {
			button += 4
		}
		if ev.Alt {
			button += 8
		}
		if ev.Ctrl {
			button += 16
		}
	}

	if r.Mode.has(MouseSGR) {
		final := byte('M')
		if ev.Type == ButtonRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\033[<%d;%d;%d%c", button, x+1, y+1, final)), true
	}

	if x < 223 && y < 223 {
		return []byte(fmt.Sprintf("\033[M%c%c%c", 32+button, 32+x+1, 32+y+1)), true
	}
	return nil, false
}

// Tracking reports whether any click/motion tracking mode is active,
// so the caller can decide between forwarding clicks to Report versus
// handling them as local selection gestures.
func (r *Reporter) Tracking() bool {
	return r.Mode.anyTracking()
}
