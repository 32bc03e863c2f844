package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/rs/xid"

	"github.com/vovakirdan/colormatch/internal/core"
	"github.com/vovakirdan/colormatch/internal/registry"
	"github.com/vovakirdan/colormatch/internal/storage"
)

// starter is implemented by games whose start trigger can be disabled.
type starter interface {
	CanStart() bool
}

// Options configures a Model beyond the game and runtime config.
type Options struct {
	// Renderer styles output; per SSH session it is bound to the session's
	// terminal. Nil uses the lipgloss default renderer.
	Renderer *lipgloss.Renderer

	// Logger receives lifecycle events. Nil discards them.
	Logger *log.Logger

	// Session identifies the player on the results board.
	// Empty generates a new ID.
	Session string

	// ScreenshotDir is where ctrl+s writes text screenshots.
	// Empty uses ~/.colormatch/screenshots.
	ScreenshotDir string
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game        registry.Game
	screen      *core.Screen
	store       *storage.Store
	renderer    *lipgloss.Renderer
	logger      *log.Logger
	session     string
	shotDir     string
	config      core.RuntimeConfig
	keys        *KeyMapper
	help        help.Model
	inputFrame  core.InputFrame
	gameState   core.GameState
	results     resultsView
	showResults bool
	quitting    bool
	resultSaved bool // Whether the result has been saved for the current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Session == "" {
		opts.Session = xid.New().String()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      store,
		renderer:   opts.Renderer,
		logger:     opts.Logger.With("session", opts.Session, "game", game.ID()),
		session:    opts.Session,
		shotDir:    opts.ScreenshotDir,
		config:     cfg,
		keys:       NewKeyMapper(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		results:    newResultsView(opts.Renderer, cfg.ScreenW, cfg.ScreenH),
	}

	// The game sees the screen minus the help footer.
	gameCfg := cfg
	gameCfg.ScreenH = m.screen.Height()
	m.game.Reset(gameCfg)
	m.gameState = m.game.State()
	m.syncKeys()
	m.logger.Debug("game created", "seed", cfg.Seed, "tick_rate", cfg.TickRate)

	return m
}

// gameHeight reserves one row for the help footer.
func gameHeight(h int) int {
	return max(h-1, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.showResults {
			m.keys.MapMouseToFrame(msg, &m.inputFrame)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.logger.Info("quit", "score", m.gameState.Score)
		return m, tea.Quit
	case key.Matches(msg, k.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	case key.Matches(msg, k.Results):
		m.showResults = !m.showResults
		if m.showResults {
			m.results.load(m.store, m.session, m.game.ID())
		}
		return m, nil
	}

	if m.showResults {
		var cmd tea.Cmd
		m.results, cmd = m.results.update(msg)
		return m, cmd
	}

	m.keys.MapKeyToFrame(msg, &m.inputFrame)
	return m, nil
}

// handleResize processes window resize events.
// The game keeps running; only the screen buffer changes size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width
	m.results.resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Run game simulation
	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if !m.gameState.GameOver {
		m.resultSaved = false
	}
	if m.gameState.GameOver && !wasOver {
		m.logger.Info("game over",
			"won", m.gameState.Won,
			"score", m.gameState.Score,
			"bonus", m.gameState.TimeBonus,
			"moves", m.gameState.Moves,
		)
	}

	// Save result on game over (once)
	if m.gameState.GameOver && !m.resultSaved {
		m.saveResult()
		m.resultSaved = true
	}

	m.syncKeys()

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveResult records the finished game on the results board.
func (m *Model) saveResult() {
	if m.store == nil {
		return
	}
	saved, err := m.store.SaveResult(storage.Result{
		GameID:    m.game.ID(),
		Session:   m.session,
		Score:     m.gameState.Score,
		Won:       m.gameState.Won,
		Moves:     m.gameState.Moves,
		TimeLeft:  m.gameState.TimeLeft,
		TimeBonus: m.gameState.TimeBonus,
	})
	if err != nil {
		// Best-effort save, game continues regardless
		m.logger.Warn("could not save result", "error", err)
		return
	}
	m.logger.Debug("result saved", "run", saved.RunID)
	if m.showResults {
		m.results.load(m.store, m.session, m.game.ID())
	}
}

// syncKeys enables the start binding only while the game accepts a start.
func (m *Model) syncKeys() {
	if s, ok := m.game.(starter); ok {
		m.keys.Keys.Start.SetEnabled(s.CanStart())
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() (string, error) {
	// Render current state
	m.game.Render(m.screen)

	dir := m.shotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		dir = filepath.Join(home, ".colormatch", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create screenshot directory: %w", err)
	}

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("cannot write screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.showResults {
		b.WriteString(m.results.View())
	} else {
		// Render game to screen buffer
		m.game.Render(m.screen)
		b.WriteString(RenderScreen(m.renderer, m.screen))
	}

	b.WriteString("\n")
	helpStyle := m.renderer.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys.Keys)))
	return b.String()
}

// Session returns the session identifier used on the results board.
func (m Model) Session() string {
	return m.session
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Tile clicks
	)

	_, err := p.Run()
	return err
}
