package input

import "testing"

func TestReportX10PressSequence(t *testing.T) {
	r := NewReporter()
	r.Mode = MouseX10
	seq, ok := r.Report(ButtonEvent{Type: ButtonPress, Button: 0, X: 5, Y: 2})
	if !ok {
		t.Fatalf("expected a reported sequence")
	}
	want := "\033[M" + string(rune(32)) + string(rune(32+6)) + string(rune(32+3))
	if string(seq) != want {
		t.Fatalf("Report = %q, want %q", seq, want)
	}
}

func TestReportX10SuppressesRelease(t *testing.T) {
	r := NewReporter()
	r.Mode = MouseX10
	r.Report(ButtonEvent{Type: ButtonPress, Button: 0, X: 0, Y: 0})
	_, ok := r.Report(ButtonEvent{Type: ButtonRelease, Button: 0, X: 0, Y: 0})
	if ok {
		t.Fatalf("expected X10 mode to suppress button release reporting")
	}
}

func TestReportSGRSequence(t *testing.T) {
	r := NewReporter()
	r.Mode = MouseSGR | MouseButton
	seq, ok := r.Report(ButtonEvent{Type: ButtonPress, Button: 0, X: 3, Y: 1})
	if !ok {
		t.Fatalf("expected a reported sequence")
	}
	if string(seq) != "\033[<0;4;2M" {
		t.Fatalf("Report = %q, want \\033[<0;4;2M", seq)
	}
}

func TestReportSGRReleaseUsesLowercaseFinal(t *testing.T) {
	r := NewReporter()
	r.Mode = MouseSGR | MouseButton
	r.Report(ButtonEvent{Type: ButtonPress, Button: 0, X: 3, Y: 1})
	seq, ok := r.Report(ButtonEvent{Type: ButtonRelease, Button: 0, X: 3, Y: 1})
	if !ok {
		t.Fatalf("expected a reported sequence")
	}
	if string(seq) != "\033[<0;4;2m" {
		t.Fatalf("Report = %q, want \\033[<0;4;2m", seq)
	}
}

func TestReportMotionSuppressedWithoutMotionMode(t *testing.T) {
	r := NewReporter()
	r.Mode = MouseButton
	r.Report(ButtonEvent{Type: ButtonPress, Button: 0, X: 0, Y: 0})
	_, ok := r.Report(ButtonEvent{Type: MotionNotify, X: 1, Y: 0})
	if ok {
		t.Fatalf("expected motion to be suppressed without MouseMotion/MouseMany")
	}
}

func TestReportMotionRequiresHeldButtonUnderMouseMotion(t *testing.T) {
	r := NewReporter()
	r.Mode = MouseMotion
	_, ok := r.Report(ButtonEvent{Type: MotionNotify, X: 1, Y: 0})
	if ok {
		t.Fatalf("expected motion with no button held to be suppressed under MODE_MOUSEMOTION")
	}
}

func TestReportSameCellMotionSuppressed(t *testing.T) {
	r := NewReporter()
	r.Mode = MouseMany | MouseButton
	r.Report(ButtonEvent{Type: ButtonPress, Button: 0, X: 2, Y: 2})
	_, ok := r.Report(ButtonEvent{Type: MotionNotify, X: 2, Y: 2})
	if ok {
		t.Fatalf("expected no report when motion stays within the same cell")
	}
}

func TestTrackingReflectsMode(t *testing.T) {
	r := NewReporter()
	if r.Tracking() {
		t.Fatalf("expected no tracking with mode unset")
	}
	r.Mode = MouseButton
	if !r.Tracking() {
		t.Fatalf("expected tracking once MouseButton is set")
	}
}
