// Package registry provides a registry of game factories.
// Game packages register themselves in init() so the CLI, the SSH server and
// the HTTP API can discover them by ID without importing each other.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/colormatch/internal/core"
)

// ErrUnknownGame is returned when no factory is registered under an ID.
var ErrUnknownGame = errors.New("registry: unknown game")

// Game is the interface the terminal platform drives.
// Games contain pure logic with no Bubble Tea dependency; the platform handles
// input mapping, timing and rendering.
type Game interface {
	// ID returns a unique identifier, used by the CLI and the results board.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or re-initializes the game for the given runtime
	// config (screen size, tick rate, RNG seed).
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick with this tick's input.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// Info contains metadata about a registered game.
type Info struct {
	ID       string
	Title    string
	Controls string // One-line control summary for list output
}

// Factory creates a new instance of a game.
type Factory func() Game

type entry struct {
	info    Info
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a game factory under info.ID.
// Panics on an empty or duplicate ID; registration happens in init().
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if strings.TrimSpace(info.ID) == "" {
		panic("registry: empty game id")
	}
	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = f().Title()
	}

	entries[info.ID] = entry{info: info, factory: f}
}

// List returns all registered games sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	slices.SortFunc(result, func(a, b Info) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Lookup returns the metadata registered under id.
func Lookup(id string) (Info, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a new game by its ID.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}
