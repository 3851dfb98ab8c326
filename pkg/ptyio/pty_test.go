package ptyio

import "testing"

func TestResolveShellPrefersEnv(t *testing.T) {
	t.Setenv("SHELL", "/bin/myshell")
	if got := resolveShell(); got != "/bin/myshell" {
		t.Fatalf("resolveShell() = %q, want /bin/myshell", got)
	}
}

func TestBuildEnvStripsStaleSizeHints(t *testing.T) {
	t.Setenv("COLUMNS", "80")
	t.Setenv("LINES", "24")
	env := buildEnv("/bin/sh")
	for _, kv := range env {
		if hasPrefix(kv, "COLUMNS=") || hasPrefix(kv, "LINES=") || hasPrefix(kv, "TERMCAP=") {
			t.Fatalf("buildEnv() leaked stale size hint: %q", kv)
		}
	}
}

func TestBuildEnvSetsTermAndShell(t *testing.T) {
	env := buildEnv("/bin/zsh")
	var sawTerm, sawShell bool
	for _, kv := range env {
		if kv == "TERM=xterm-256color" {
			sawTerm = true
		}
		if kv == "SHELL=/bin/zsh" {
			sawShell = true
		}
	}
	if !sawTerm {
		t.Fatalf("buildEnv() missing TERM")
	}
	if !sawShell {
		t.Fatalf("buildEnv() missing SHELL")
	}
}

func TestSplitFields(t *testing.T) {
	got := splitFields("a:b::d", ':')
	want := []string{"a", "b", "", "d"}
	if len(got) != len(want) {
		t.Fatalf("splitFields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitFields[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines([]byte("a\nb\nc"))
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitLines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitLines[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
