package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultColorMatchConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if len(cfg.Palette) != 12 {
		t.Errorf("default palette has %d colours, want 12", len(cfg.Palette))
	}
}

func TestEmbeddedYAMLMatchesDefaults(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded yaml should parse: %v", err)
	}
	want := DefaultColorMatchConfig()
	if cfg.Rules != want.Rules {
		t.Errorf("rules = %+v, want %+v", cfg.Rules, want.Rules)
	}
	if cfg.Scoring != want.Scoring || cfg.Display != want.Display {
		t.Errorf("scoring/display differ from defaults: %+v %+v", cfg.Scoring, cfg.Display)
	}
	for i := range want.Palette {
		if cfg.Palette[i] != want.Palette[i] {
			t.Errorf("palette[%d] = %+v, want %+v", i, cfg.Palette[i], want.Palette[i])
		}
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cm.yaml")
	data := "rules:\n  time_limit_seconds: 30\n  mismatch_delay: 750ms\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadColorMatch(path)
	if err != nil {
		t.Fatalf("LoadColorMatch() failed: %v", err)
	}
	if cfg.Rules.TimeLimitSeconds != 30 {
		t.Errorf("time limit = %d, want 30", cfg.Rules.TimeLimitSeconds)
	}
	if cfg.Rules.MismatchDelay != 750*time.Millisecond {
		t.Errorf("mismatch delay = %s, want 750ms", cfg.Rules.MismatchDelay)
	}
	// Unset keys keep their defaults.
	if cfg.Rules.Preview != 3*time.Second {
		t.Errorf("preview = %s, want 3s", cfg.Rules.Preview)
	}
	if len(cfg.Palette) != 12 {
		t.Errorf("palette len = %d, want 12", len(cfg.Palette))
	}
}

func TestLoadCustomPathReplacesPalette(t *testing.T) {
	var b strings.Builder
	b.WriteString("palette:\n")
	for i := 0; i < PaletteSize; i++ {
		fmt.Fprintf(&b, "  - {name: grey%d, hex: \"#%02X%02X%02X\"}\n", i, i*16, i*16, i*16)
	}
	path := filepath.Join(t.TempDir(), "cm.yaml")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadColorMatch(path)
	if err != nil {
		t.Fatalf("LoadColorMatch() failed: %v", err)
	}
	if len(cfg.Palette) != PaletteSize || cfg.Palette[1].Name != "grey1" || cfg.Palette[1].Hex != "#101010" {
		t.Errorf("palette = %+v, want the file's greys only", cfg.Palette)
	}
}

func TestLoadCustomPathRejectsShortPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cm.yaml")
	data := "palette:\n  - {name: red, hex: \"#FF0000\"}\n  - {name: blue, hex: \"#0000FF\"}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadColorMatch(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadColorMatch() = %v, want ErrInvalidConfig for a 2-colour palette", err)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadColorMatch(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("rules: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadColorMatch(bad); err == nil {
		t.Error("malformed yaml should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("rules:\n  time_limit_seconds: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadColorMatch(invalid)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadSearchPathFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := LoadColorMatch("")
	if err != nil {
		t.Fatalf("LoadColorMatch() failed: %v", err)
	}
	if cfg.Rules.TimeLimitSeconds != 60 {
		t.Errorf("time limit = %d, want embedded default 60", cfg.Rules.TimeLimitSeconds)
	}
}

func TestLoadSearchPathPrefersUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	dir := filepath.Join(home, ".colormatch", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("rules:\n  time_limit_seconds: 45\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadColorMatch("")
	if err != nil {
		t.Fatalf("LoadColorMatch() failed: %v", err)
	}
	if cfg.Rules.TimeLimitSeconds != 45 {
		t.Errorf("time limit = %d, want 45 from user config", cfg.Rules.TimeLimitSeconds)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ColorMatchConfig)
	}{
		{"zero time limit", func(c *ColorMatchConfig) { c.Rules.TimeLimitSeconds = 0 }},
		{"zero preview", func(c *ColorMatchConfig) { c.Rules.Preview = 0 }},
		{"negative match delay", func(c *ColorMatchConfig) { c.Rules.MatchDelay = -time.Second }},
		{"negative win delay", func(c *ColorMatchConfig) { c.Rules.WinMessageDelay = -time.Second }},
		{"negative points", func(c *ColorMatchConfig) { c.Scoring.MatchPoints = -1 }},
		{"zero columns", func(c *ColorMatchConfig) { c.Display.Columns = 0 }},
		{"single colour", func(c *ColorMatchConfig) { c.Palette = c.Palette[:1] }},
		{"eleven colours", func(c *ColorMatchConfig) { c.Palette = c.Palette[:PaletteSize-1] }},
		{"thirteen colours", func(c *ColorMatchConfig) {
			c.Palette = append(c.Palette, PaletteColor{Name: "black", Hex: "#000000"})
		}},
		{"bad hex", func(c *ColorMatchConfig) { c.Palette[0].Hex = "red" }},
		{"duplicate hex", func(c *ColorMatchConfig) { c.Palette[1].Hex = "#ff6b6b" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultColorMatchConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
