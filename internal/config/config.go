// Package config provides YAML-based rules configuration for the color match
// game: timings, scoring, layout and the tile palette.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// PaletteSize is the number of colours on a board; each is dealt twice.
const PaletteSize = 12

// ColorMatchConfig contains all configuration for the Color Match game.
type ColorMatchConfig struct {
	Rules   RulesConfig    `yaml:"rules"`
	Scoring ScoringConfig  `yaml:"scoring"`
	Display DisplayConfig  `yaml:"display"`
	Palette []PaletteColor `yaml:"palette"`
}

// RulesConfig defines the round timings.
type RulesConfig struct {
	TimeLimitSeconds int           `yaml:"time_limit_seconds"`
	Preview          time.Duration `yaml:"preview"`           // All tiles shown before play
	MatchDelay       time.Duration `yaml:"match_delay"`       // Pause before a pair is marked matched
	MismatchDelay    time.Duration `yaml:"mismatch_delay"`    // Pause before a wrong pair is hidden
	WinMessageDelay  time.Duration `yaml:"win_message_delay"` // Pause before the bonus breakdown is shown
}

// ScoringConfig defines points awarded.
type ScoringConfig struct {
	MatchPoints        int `yaml:"match_points"`
	TimeBonusPerSecond int `yaml:"time_bonus_per_second"`
}

// DisplayConfig defines layout and the low-time warning.
type DisplayConfig struct {
	Columns        int `yaml:"columns"`
	WarningSeconds int `yaml:"warning_seconds"`
}

// PaletteColor is one tile colour. Every colour appears on exactly two tiles.
type PaletteColor struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks that the configuration describes a playable board.
func (c ColorMatchConfig) Validate() error {
	var errs []error

	if c.Rules.TimeLimitSeconds <= 0 {
		errs = append(errs, fmt.Errorf("rules.time_limit_seconds must be positive, got %d", c.Rules.TimeLimitSeconds))
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"rules.preview", c.Rules.Preview},
		{"rules.match_delay", c.Rules.MatchDelay},
		{"rules.mismatch_delay", c.Rules.MismatchDelay},
	}
	for _, d := range durations {
		if d.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.name, d.d))
		}
	}
	if c.Rules.WinMessageDelay < 0 {
		errs = append(errs, fmt.Errorf("rules.win_message_delay must not be negative, got %s", c.Rules.WinMessageDelay))
	}

	if c.Scoring.MatchPoints < 0 || c.Scoring.TimeBonusPerSecond < 0 {
		errs = append(errs, errors.New("scoring values must not be negative"))
	}
	if c.Display.Columns <= 0 {
		errs = append(errs, fmt.Errorf("display.columns must be positive, got %d", c.Display.Columns))
	}

	if len(c.Palette) != PaletteSize {
		errs = append(errs, fmt.Errorf("palette needs exactly %d colours, got %d", PaletteSize, len(c.Palette)))
	}
	seen := make(map[string]bool, len(c.Palette))
	for i, p := range c.Palette {
		if !hexColor.MatchString(p.Hex) {
			errs = append(errs, fmt.Errorf("palette[%d]: %q is not a #RRGGBB colour", i, p.Hex))
			continue
		}
		key := strings.ToUpper(p.Hex)
		if seen[key] {
			errs = append(errs, fmt.Errorf("palette[%d]: duplicate colour %s", i, p.Hex))
		}
		seen[key] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
