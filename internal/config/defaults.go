package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/colormatch.yaml
var defaultColorMatchYAML []byte

// DefaultPalette returns the twelve stock tile colours.
func DefaultPalette() []PaletteColor {
	return []PaletteColor{
		{Name: "coral", Hex: "#FF6B6B"},
		{Name: "teal", Hex: "#4ECDC4"},
		{Name: "sun", Hex: "#FFD166"},
		{Name: "mint", Hex: "#06D6A0"},
		{Name: "ocean", Hex: "#118AB2"},
		{Name: "rose", Hex: "#EF476F"},
		{Name: "violet", Hex: "#7209B7"},
		{Name: "azure", Hex: "#3A86FF"},
		{Name: "orange", Hex: "#FB5607"},
		{Name: "lavender", Hex: "#8338EC"},
		{Name: "magenta", Hex: "#FF006E"},
		{Name: "lime", Hex: "#8AC926"},
	}
}

// DefaultColorMatchConfig returns the default Color Match configuration.
func DefaultColorMatchConfig() ColorMatchConfig {
	return ColorMatchConfig{
		Rules: RulesConfig{
			TimeLimitSeconds: 60,
			Preview:          3 * time.Second,
			MatchDelay:       500 * time.Millisecond,
			MismatchDelay:    1000 * time.Millisecond,
			WinMessageDelay:  1500 * time.Millisecond,
		},
		Scoring: ScoringConfig{
			MatchPoints:        10,
			TimeBonusPerSecond: 2,
		},
		Display: DisplayConfig{
			Columns:        6,
			WarningSeconds: 10,
		},
		Palette: DefaultPalette(),
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultColorMatchYAML
}
