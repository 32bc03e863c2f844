package main

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/colormatch/internal/config"
	"github.com/vovakirdan/colormatch/internal/core"
	"github.com/vovakirdan/colormatch/internal/games/colormatch"
	"github.com/vovakirdan/colormatch/internal/registry"
)

func TestListCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"list"})

	if err := root.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "colormatch") || !strings.Contains(out.String(), "Color Match") {
		t.Errorf("list output missing game:\n%s", out.String())
	}
}

func TestPlayRejectsUnknownGame(t *testing.T) {
	err := runPlay("tetris", "", "")
	if !errors.Is(err, registry.ErrUnknownGame) {
		t.Errorf("runPlay(unknown) = %v", err)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("COLORMATCH_TEST_ADDR", ":9999")
	if got := envOr("COLORMATCH_TEST_ADDR", ":1"); got != ":9999" {
		t.Errorf("envOr() = %q", got)
	}
	if got := envOr("COLORMATCH_TEST_UNSET", ":1"); got != ":1" {
		t.Errorf("envOr() fallback = %q", got)
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	old := flagLogLevel
	t.Cleanup(func() { flagLogLevel = old })

	flagLogLevel = "loud"
	if _, err := newLogger(&bytes.Buffer{}, ""); err == nil {
		t.Error("expected error for unknown level")
	}
	flagLogLevel = "debug"
	if _, err := newLogger(&bytes.Buffer{}, ""); err != nil {
		t.Errorf("newLogger(debug) failed: %v", err)
	}
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colormatch.yaml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPlayRejectsBadConfig(t *testing.T) {
	t.Cleanup(func() { colormatch.SetConfigPath("") })

	invalid := writeConfig(t, "rules:\n  time_limit_seconds: -5\n")
	if err := runPlay(colormatch.GameID, invalid, ""); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("runPlay(invalid config) = %v, want ErrInvalidConfig", err)
	}

	missing := filepath.Join(t.TempDir(), "typo.yaml")
	if err := runPlay(colormatch.GameID, missing, ""); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("runPlay(missing config) = %v, want fs.ErrNotExist", err)
	}
}

func TestServeRejectsBadConfig(t *testing.T) {
	t.Cleanup(func() { colormatch.SetConfigPath("") })

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"serve", "--config", writeConfig(t, "palette: []\n")})

	if err := root.Execute(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("serve with invalid config = %v, want ErrInvalidConfig", err)
	}
}

func TestUseConfigAcceptsValidFile(t *testing.T) {
	t.Cleanup(func() { colormatch.SetConfigPath("") })

	path := writeConfig(t, "rules:\n  time_limit_seconds: 30\n")
	if err := useConfig(path); err != nil {
		t.Fatalf("useConfig() failed: %v", err)
	}

	g, err := registry.Create(colormatch.GameID)
	if err != nil {
		t.Fatal(err)
	}
	g.Reset(core.DefaultConfig())
	if got := g.State().TimeLeft; got != 30 {
		t.Errorf("TimeLeft = %d, want 30 from the config file", got)
	}
}
