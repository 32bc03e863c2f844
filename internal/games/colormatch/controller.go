package colormatch

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/colormatch/internal/config"
	"github.com/vovakirdan/colormatch/internal/schedule"
)

// Phase is the controller's position in the round lifecycle.
type Phase int

const (
	PhaseIdle       Phase = iota // Board dealt, waiting for start
	PhasePreviewing              // All tiles shown before play
	PhasePlaying                 // Countdown running, accepting selections
	PhaseResolving               // Two tiles selected, outcome pending
	PhaseEnded                   // Won or out of time
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreviewing:
		return "previewing"
	case PhasePlaying:
		return "playing"
	case PhaseResolving:
		return "resolving"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Status messages shown by the UI.
const (
	StatusIdle      = "Click start to begin"
	StatusPreview   = "Memorize the colors!"
	StatusPlaying   = "Match the colors!"
	StatusTimeUp    = "Time's up! Game Over!"
	statusWinFormat = "Congratulations! You won with %d points!"
	statusWinBonus  = "You won! Score: %d (%d time bonus included!)"
)

// noSelection marks an empty selection slot.
const noSelection = -1

// Outcome describes a finished game.
type Outcome struct {
	Won          bool
	Score        int // Final score including TimeBonus
	TimeBonus    int
	Moves        int
	TimeLeft     int
	MatchedPairs int
}

// Controller owns the board and the round state machine. Deferred transitions
// run on the scheduler it was given; the owner advances that scheduler.
// A Controller is not safe for concurrent use.
type Controller struct {
	cfg     config.ColorMatchConfig
	palette []Color
	rng     *rand.Rand
	sched   *schedule.Scheduler

	tiles    []Tile
	phase    Phase
	score    int
	timeLeft int
	moves    int
	active   bool
	locked   bool
	first    int
	second   int
	status   string

	// generation is bumped by every InitializeBoard; deferred callbacks
	// capture it and do nothing once it has moved on.
	generation uint64
	countdown  *schedule.Handle

	outcome *Outcome
	onEnd   func(Outcome)
}

// NewController creates a controller with a freshly dealt board.
func NewController(cfg config.ColorMatchConfig, sched *schedule.Scheduler, rng *rand.Rand) *Controller {
	c := &Controller{
		cfg:     cfg,
		palette: paletteFrom(cfg.Palette),
		rng:     rng,
		sched:   sched,
	}
	c.InitializeBoard()
	return c
}

// OnEnd registers a hook called once for every finished game.
func (c *Controller) OnEnd(fn func(Outcome)) {
	c.onEnd = fn
}

// InitializeBoard deals a new shuffled board with every tile hidden and
// resets score, timer and moves. It does not start the countdown.
func (c *Controller) InitializeBoard() {
	c.generation++
	c.tiles = newBoard(c.palette, c.rng)
	c.phase = PhaseIdle
	c.score = 0
	c.timeLeft = c.cfg.Rules.TimeLimitSeconds
	c.moves = 0
	c.clearSelection()
	c.status = StatusIdle
	c.outcome = nil
}

// StartGame begins a round with the preview phase. Returns false when a game
// is already active. A finished board is re-dealt before starting.
func (c *Controller) StartGame() bool {
	if c.active {
		return false
	}
	if c.phase == PhaseEnded {
		c.InitializeBoard()
	}

	c.score = 0
	c.timeLeft = c.cfg.Rules.TimeLimitSeconds
	c.moves = 0
	c.clearSelection()
	c.outcome = nil
	c.active = true
	c.phase = PhasePreviewing
	c.status = StatusPreview

	for i := range c.tiles {
		c.tiles[i].Revealed = true
	}

	gen := c.generation
	c.sched.After(c.cfg.Rules.Preview, func() {
		if !c.current(gen) {
			return
		}
		c.endPreview()
	})
	return true
}

// ResetGame stops every pending transition and deals a new idle board.
func (c *Controller) ResetGame() {
	c.stopCountdown()
	c.sched.CancelAll()
	c.active = false
	c.InitializeBoard()
}

// endPreview hides unmatched tiles and starts the countdown.
func (c *Controller) endPreview() {
	for i := range c.tiles {
		if !c.tiles[i].Matched {
			c.tiles[i].Revealed = false
		}
	}
	c.phase = PhasePlaying
	c.status = StatusPlaying
	c.startCountdown()
}

func (c *Controller) startCountdown() {
	c.stopCountdown()
	gen := c.generation
	c.countdown = c.sched.Every(time.Second, func() {
		if !c.current(gen) {
			return
		}
		c.tick()
	})
}

func (c *Controller) stopCountdown() {
	c.countdown.Cancel()
	c.countdown = nil
}

// tick runs once per second while the countdown is running.
func (c *Controller) tick() {
	if !c.active {
		return
	}
	c.timeLeft--
	if c.timeLeft <= 0 {
		c.timeLeft = 0
		c.endGame(false)
	}
}

// SelectTile reveals the tile at index i. It returns false and changes
// nothing when the game is not accepting input, the index is out of range or
// the tile is already revealed or matched.
func (c *Controller) SelectTile(i int) bool {
	if !c.active || c.locked || c.phase != PhasePlaying {
		return false
	}
	if i < 0 || i >= len(c.tiles) {
		return false
	}
	t := &c.tiles[i]
	if t.Matched || t.Revealed {
		return false
	}

	t.Revealed = true
	if c.first == noSelection {
		c.first = i
		return true
	}

	c.second = i
	c.moves++
	c.locked = true
	c.phase = PhaseResolving

	a, b := c.first, c.second
	gen := c.generation
	if c.tiles[a].Color == c.tiles[b].Color {
		c.sched.After(c.cfg.Rules.MatchDelay, func() {
			if !c.current(gen) {
				return
			}
			c.resolveMatch(a, b)
		})
	} else {
		c.sched.After(c.cfg.Rules.MismatchDelay, func() {
			if !c.current(gen) {
				return
			}
			c.resolveMismatch(a, b)
		})
	}
	return true
}

func (c *Controller) resolveMatch(a, b int) {
	c.tiles[a].Matched = true
	c.tiles[b].Matched = true
	c.score += c.cfg.Scoring.MatchPoints

	if c.MatchedCount() == len(c.tiles) {
		c.endGame(true)
		return
	}
	c.clearSelection()
	c.phase = PhasePlaying
}

func (c *Controller) resolveMismatch(a, b int) {
	c.tiles[a].Revealed = false
	c.tiles[b].Revealed = false
	c.clearSelection()
	c.phase = PhasePlaying
}

// endGame finishes the round. Only the first call for an active game has
// any effect.
func (c *Controller) endGame(won bool) {
	if !c.active {
		return
	}
	c.active = false
	c.stopCountdown()
	c.clearSelection()
	c.phase = PhaseEnded

	for i := range c.tiles {
		c.tiles[i].Revealed = true
	}

	out := Outcome{
		Won:          won,
		Moves:        c.moves,
		TimeLeft:     c.timeLeft,
		MatchedPairs: c.MatchedCount() / 2,
	}
	if won {
		base := c.score
		out.TimeBonus = c.timeLeft * c.cfg.Scoring.TimeBonusPerSecond
		c.score += out.TimeBonus
		c.status = fmt.Sprintf(statusWinFormat, base)

		gen := c.generation
		c.sched.After(c.cfg.Rules.WinMessageDelay, func() {
			if gen != c.generation || c.phase != PhaseEnded {
				return
			}
			c.status = fmt.Sprintf(statusWinBonus, c.score, out.TimeBonus)
		})
	} else {
		c.status = StatusTimeUp
	}
	out.Score = c.score
	c.outcome = &out

	if c.onEnd != nil {
		c.onEnd(out)
	}
}

// current reports whether a callback scheduled in generation gen may act.
func (c *Controller) current(gen uint64) bool {
	return c.active && gen == c.generation
}

func (c *Controller) clearSelection() {
	c.first = noSelection
	c.second = noSelection
	c.locked = false
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// Score returns the current score.
func (c *Controller) Score() int { return c.score }

// TimeLeft returns the remaining seconds.
func (c *Controller) TimeLeft() int { return c.timeLeft }

// Moves returns the number of completed pair selections.
func (c *Controller) Moves() int { return c.moves }

// Active reports whether a round is in progress.
func (c *Controller) Active() bool { return c.active }

// InputLocked reports whether a resolution is pending.
func (c *Controller) InputLocked() bool { return c.locked }

// CanStart reports whether the start trigger is enabled.
func (c *Controller) CanStart() bool { return !c.active }

// Status returns the message for the current phase.
func (c *Controller) Status() string { return c.status }

// Selection returns the pending selection indices, -1 when empty.
func (c *Controller) Selection() (first, second int) { return c.first, c.second }

// TimeWarning reports whether the timer should pulse.
func (c *Controller) TimeWarning() bool {
	return c.active && c.timeLeft <= c.cfg.Display.WarningSeconds
}

// Len returns the number of tiles on the board.
func (c *Controller) Len() int { return len(c.tiles) }

// Tile returns a copy of the tile at index i.
func (c *Controller) Tile(i int) Tile { return c.tiles[i] }

// Tiles returns a copy of the board.
func (c *Controller) Tiles() []Tile {
	out := make([]Tile, len(c.tiles))
	copy(out, c.tiles)
	return out
}

// MatchedCount returns the number of matched tiles.
func (c *Controller) MatchedCount() int {
	n := 0
	for _, t := range c.tiles {
		if t.Matched {
			n++
		}
	}
	return n
}

// Outcome returns the result of the last finished game.
func (c *Controller) Outcome() (Outcome, bool) {
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}
