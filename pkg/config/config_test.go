package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasAnEightyByTwentyFourSession(t *testing.T) {
	cfg := Default()
	if cfg.Session.Cols != 80 || cfg.Session.Rows != 24 {
		t.Fatalf("Default().Session = %+v, want 80x24", cfg.Session)
	}
}

func TestLoadMissingFileWritesDefaultsAndReturnsThem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vtcored.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.Cols != 80 {
		t.Fatalf("Load() on missing file = %+v, want defaults", cfg)
	}
}

func TestLoadMergesFileOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vtcored.yaml")
	contents := "session:\n  shell: /bin/zsh\n  cols: 120\n  rows: 40\npalette:\n  \"1\": \"#ff0000\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("os.WriteFile error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Session.Shell != "/bin/zsh" || cfg.Session.Cols != 120 || cfg.Session.Rows != 40 {
		t.Fatalf("Load() session = %+v, want shell=/bin/zsh cols=120 rows=40", cfg.Session)
	}
	if cfg.Palette["1"] != "#ff0000" {
		t.Fatalf("Load() palette[1] = %q, want #ff0000", cfg.Palette["1"])
	}
}

func TestParsePaletteColor(t *testing.T) {
	rgb, ok := ParsePaletteColor("#00ff80")
	if !ok || rgb != 0x00ff80 {
		t.Fatalf("ParsePaletteColor(#00ff80) = %06x,%v, want 00ff80,true", rgb, ok)
	}
	if _, ok := ParsePaletteColor("not-a-color"); ok {
		t.Fatalf("expected malformed palette entry to be rejected")
	}
}
