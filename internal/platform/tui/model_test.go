package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/colormatch/internal/core"
	"github.com/vovakirdan/colormatch/internal/storage"
)

// scriptedGame ends after a fixed number of steps and records its input.
type scriptedGame struct {
	endAfter int
	steps    int
	resets   int
	started  bool
	inputs   []core.InputFrame
	state    core.GameState
}

// cloneFrame copies a frame so later Clear calls on the model's frame do not
// change what the game recorded.
func cloneFrame(in core.InputFrame) core.InputFrame {
	out := core.NewInputFrame()
	for a, on := range in.Actions {
		out.Actions[a] = on
	}
	out.Clicks = append([]core.Point(nil), in.Clicks...)
	return out
}

func (g *scriptedGame) ID() string    { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }

func (g *scriptedGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.state = core.GameState{}
}

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.inputs = append(g.inputs, cloneFrame(in))
	if in.Has(core.ActionStart) {
		g.started = true
		g.state = core.GameState{}
		g.steps = 0
	}
	if g.started {
		g.steps++
		if g.steps >= g.endAfter {
			g.started = false
			g.state = core.GameState{Score: 228, Moves: 12, TimeLeft: 54, TimeBonus: 108, GameOver: true, Won: true}
		}
	}
	return core.StepResult{State: g.state}
}

func (g *scriptedGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "scripted")
}

func (g *scriptedGame) State() core.GameState { return g.state }

func (g *scriptedGame) CanStart() bool { return !g.started }

func newTestModel(t *testing.T, g *scriptedGame, store *storage.Store) Model {
	t.Helper()
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
	return NewModel(g, store, cfg, Options{Session: "test-session", ScreenshotDir: t.TempDir()})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestModelSavesOneResultPerGame(t *testing.T) {
	store, err := storage.Open()
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	g := &scriptedGame{endAfter: 3}
	m := newTestModel(t, g, store)
	if g.resets != 1 {
		t.Fatalf("game should be reset once on creation, got %d", g.resets)
	}

	m = update(t, m, runeKey('n'))
	for i := 0; i < 10; i++ {
		m = update(t, m, TickMsg{})
	}

	results, err := store.SessionResults("test-session", 10)
	if err != nil {
		t.Fatalf("SessionResults() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 saved result, got %d", len(results))
	}
	r := results[0]
	if r.GameID != "scripted" || r.Score != 228 || !r.Won || r.TimeBonus != 108 || r.Moves != 12 || r.TimeLeft != 54 {
		t.Errorf("saved result = %+v", r)
	}

	// A second game saves a second result.
	m = update(t, m, runeKey('n'))
	for i := 0; i < 10; i++ {
		m = update(t, m, TickMsg{})
	}
	results, _ = store.SessionResults("test-session", 10)
	if len(results) != 2 {
		t.Errorf("expected 2 saved results, got %d", len(results))
	}
}

func TestModelWithoutStore(t *testing.T) {
	g := &scriptedGame{endAfter: 1}
	m := newTestModel(t, g, nil)
	m = update(t, m, runeKey('n'))
	m = update(t, m, TickMsg{})
	if !m.gameState.GameOver {
		t.Error("game should be over")
	}
}

func TestModelStartKeyFollowsGame(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := newTestModel(t, g, nil)

	m = update(t, m, runeKey('n'))
	m = update(t, m, TickMsg{})
	if !g.inputs[0].Has(core.ActionStart) {
		t.Fatal("first start should reach the game")
	}

	// While running the start binding is disabled.
	m = update(t, m, runeKey('n'))
	update(t, m, TickMsg{})
	if g.inputs[1].Has(core.ActionStart) {
		t.Error("start should be ignored while the game is running")
	}
}

func TestModelForwardsClicksAndClearsInput(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := newTestModel(t, g, nil)

	m = update(t, m, tea.MouseMsg{X: 20, Y: 7, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, TickMsg{})
	update(t, m, TickMsg{})

	if len(g.inputs[0].Clicks) != 1 || g.inputs[0].Clicks[0] != (core.Point{X: 20, Y: 7}) {
		t.Errorf("click not forwarded: %+v", g.inputs[0])
	}
	if !g.inputs[1].Empty() {
		t.Errorf("input should be cleared after a tick: %+v", g.inputs[1])
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := newTestModel(t, g, nil)

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if g.resets != 1 {
		t.Errorf("resize should not reset the game, resets = %d", g.resets)
	}
	if m.screen.Width() != 100 || m.screen.Height() != 29 {
		t.Errorf("screen = %dx%d, want 100x29", m.screen.Width(), m.screen.Height())
	}
}

func TestModelResultsToggle(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := newTestModel(t, g, nil)

	if !strings.Contains(m.View(), "scripted") {
		t.Error("game view should render the game")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	view := m.View()
	if !strings.Contains(view, "SESSION RESULTS") {
		t.Errorf("results view missing title: %q", view)
	}

	// Game keys are not forwarded while the results are shown.
	m = update(t, m, runeKey('n'))
	m = update(t, m, TickMsg{})
	if g.inputs[0].Has(core.ActionStart) {
		t.Error("keys should go to the results table")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if strings.Contains(m.View(), "SESSION RESULTS") {
		t.Error("tab should toggle back to the game")
	}
}

func TestModelScreenshot(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := newTestModel(t, g, nil)

	update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	entries, err := os.ReadDir(m.shotDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 screenshot, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(m.shotDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "scripted") {
		t.Errorf("screenshot content = %q", data)
	}
}

func TestModelQuit(t *testing.T) {
	g := &scriptedGame{endAfter: 100}
	m := newTestModel(t, g, nil)

	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}
