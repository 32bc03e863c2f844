package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/colormatch/internal/config"
	"github.com/vovakirdan/colormatch/internal/core"
	"github.com/vovakirdan/colormatch/internal/games/colormatch"
	"github.com/vovakirdan/colormatch/internal/platform/tui"
	"github.com/vovakirdan/colormatch/internal/registry"
	"github.com/vovakirdan/colormatch/internal/storage"
)

func newPlayCmd() *cobra.Command {
	var (
		configPath string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:   "play [game]",
		Short: "Play a game",
		Long: `Start playing in this terminal. The game defaults to colormatch.

Controls:
  n               - Start (shows the board, then starts the clock)
  Arrows/WASD/hjkl - Move the cursor
  Enter/Space     - Reveal the tile under the cursor
  Mouse click     - Reveal the clicked tile
  r               - Reset
  Tab             - Session results
  Ctrl+S          - Screenshot
  q/Ctrl+C        - Quit

Examples:
  colormatch play
  colormatch play --seed 42
  colormatch play --config ./my-colors.yaml --log-file ./colormatch.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			gameID := colormatch.GameID
			if len(args) == 1 {
				gameID = args[0]
			}
			return runPlay(gameID, configPath, logFile)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to custom game config YAML")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	return cmd
}

func runPlay(gameID, configPath, logFile string) error {
	if !registry.Exists(gameID) {
		return fmt.Errorf("%w %q, run 'colormatch list' to see available games", registry.ErrUnknownGame, gameID)
	}

	if err := useConfig(configPath); err != nil {
		return err
	}

	logger, closeLog, err := openLogFile(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("cannot create game: %w", err)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// The game still works without a results board.
	store, err := storage.Open()
	if err != nil {
		logger.Warn("could not open results board", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, cfg, tui.Options{Logger: logger}); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

// useConfig loads a custom rules file once so a bad --config fails the
// command instead of falling back to the defaults inside the game.
func useConfig(path string) error {
	if path != "" {
		if _, err := config.LoadColorMatch(path); err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}
	}
	colormatch.SetConfigPath(path)
	return nil
}
