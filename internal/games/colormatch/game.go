// Package colormatch implements the Color Match memory game: tiles are shown
// briefly, hidden, and the player finds matching colour pairs against the clock.
package colormatch

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/colormatch/internal/config"
	"github.com/vovakirdan/colormatch/internal/core"
	"github.com/vovakirdan/colormatch/internal/registry"
	"github.com/vovakirdan/colormatch/internal/schedule"
)

// GameID is the registry identifier.
const GameID = "colormatch"

// configPath stores the custom config path set via CLI
var configPath string

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

func init() {
	registry.Register(registry.Info{
		ID:       GameID,
		Title:    "Color Match",
		Controls: "arrows/wasd/hjkl move, enter/space/click select, n start, r reset",
	}, func() registry.Game {
		return New()
	})
}

// Game adapts the Controller to the fixed-tick platform loop.
type Game struct {
	fixed *config.ColorMatchConfig // Overrides file loading when set
	cfg   config.ColorMatchConfig

	sched    *schedule.Scheduler
	ctrl     *Controller
	tickRate int
	tick     uint64
	cursor   int

	screenW int
	screenH int
	layout  layout
}

// New creates a game that loads its rules from the config search path.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a game with fixed rules.
func NewWithConfig(cfg config.ColorMatchConfig) *Game {
	return &Game{fixed: &cfg}
}

// ID returns the game identifier.
func (g *Game) ID() string { return GameID }

// Title returns the display name.
func (g *Game) Title() string { return "Color Match" }

// Reset deals a new board and returns to the idle phase.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if g.fixed != nil {
		g.cfg = *g.fixed
	} else {
		loaded, err := config.LoadColorMatch(configPath)
		if err != nil {
			loaded = config.DefaultColorMatchConfig()
		}
		g.cfg = loaded
	}

	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.tick = 0
	g.cursor = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	g.sched = schedule.New()
	g.ctrl = NewController(g.cfg, g.sched, rand.New(rand.NewSource(cfg.Seed)))
	g.layout = computeLayout(g.screenW, g.screenH, g.ctrl.Len(), g.cfg.Display.Columns)
}

// Controller exposes the underlying state machine.
func (g *Game) Controller() *Controller { return g.ctrl }

// CanStart reports whether the start trigger is enabled.
func (g *Game) CanStart() bool { return g.ctrl.CanStart() }

// Cursor returns the highlighted tile index.
func (g *Game) Cursor() int { return g.cursor }

// Elapsed returns the game clock.
func (g *Game) Elapsed() time.Duration { return g.sched.Now() }

// Step advances the game clock by one tick and applies the tick's input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.sched.AdvanceTo(time.Duration(g.tick) * time.Second / time.Duration(g.tickRate))

	// Most ticks carry no input; only the clock moves.
	if in.Empty() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.ctrl.ResetGame()
		g.cursor = 0
	}
	if in.Has(core.ActionStart) {
		g.ctrl.StartGame()
	}

	cols := g.cfg.Display.Columns
	n := g.ctrl.Len()
	switch {
	case in.Has(core.ActionLeft):
		if g.cursor%cols > 0 {
			g.cursor--
		}
	case in.Has(core.ActionRight):
		if g.cursor%cols < cols-1 && g.cursor+1 < n {
			g.cursor++
		}
	case in.Has(core.ActionUp):
		if g.cursor-cols >= 0 {
			g.cursor -= cols
		}
	case in.Has(core.ActionDown):
		if g.cursor+cols < n {
			g.cursor += cols
		}
	}

	if in.Has(core.ActionSelect) {
		g.ctrl.SelectTile(g.cursor)
	}
	for _, p := range in.Clicks {
		if i, ok := g.layout.tileAt(p); ok {
			g.cursor = i
			g.ctrl.SelectTile(i)
		}
	}

	return core.StepResult{State: g.State()}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score:    g.ctrl.Score(),
		Moves:    g.ctrl.Moves(),
		TimeLeft: g.ctrl.TimeLeft(),
		GameOver: g.ctrl.Phase() == PhaseEnded,
	}
	if out, ok := g.ctrl.Outcome(); ok {
		st.Won = out.Won
		st.TimeBonus = out.TimeBonus
	}
	return st
}
