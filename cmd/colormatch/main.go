// colormatch is a timed colour-matching memory game for the terminal.
//
// Usage:
//
//	colormatch play          - Play locally (default game)
//	colormatch list          - List available games
//	colormatch serve         - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible boards
//	--log-level <level> - debug, info, warn, error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/colormatch/internal/games/colormatch"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagLogLevel string
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "colormatch",
		Short: "Color Match - a timed memory game in your terminal",
		Long: `Color Match deals 24 hidden tiles, 12 colours twice each. The board is
shown for a few seconds, then hidden; find every pair before the clock runs out.

Available commands:
  play     - Play in this terminal
  list     - Show all available games
  serve    - Start SSH server for remote play

Examples:
  colormatch play
  colormatch play --config ./my-colors.yaml
  colormatch serve --ssh :2222 --http :8080`,
		SilenceUsage: true,
	}

	root.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	root.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", envOr("COLORMATCH_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	root.AddCommand(newListCmd())
	root.AddCommand(newPlayCmd())
	root.AddCommand(newServeCmd())
	return root
}

// envOr returns the environment variable or fallback when unset.
func envOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}
