package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/colormatch/internal/storage"
)

// maxResults is the number of session results loaded into the table.
const maxResults = 50

// resultsView shows the results of the current session from the results board.
type resultsView struct {
	renderer *lipgloss.Renderer
	table    table.Model
	results  []storage.Result
	stats    storage.Stats
	width    int
	height   int
	err      error
}

func newResultsView(r *lipgloss.Renderer, width, height int) resultsView {
	v := resultsView{renderer: r, width: width, height: height}
	v.table = v.createTable()
	return v
}

// createTable creates a new table with appropriate columns.
func (v *resultsView) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Result", Width: 6},
		{Title: "Score", Width: 7},
		{Title: "Bonus", Width: 6},
		{Title: "Moves", Width: 6},
		{Title: "Time", Width: 5},
		{Title: "Finished", Width: 10},
	}

	height := v.height - 8 // Leave room for title, stats, help and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load refreshes the view from the store.
func (v *resultsView) load(store *storage.Store, session, gameID string) {
	v.results, v.err = nil, nil
	v.stats = storage.Stats{GameID: gameID}
	if store == nil {
		v.updateRows()
		return
	}

	results, err := store.SessionResults(session, maxResults)
	if err != nil {
		v.err = err
	} else {
		v.results = results
	}
	if stats, err := store.Stats(gameID); err == nil {
		v.stats = stats
	}
	v.updateRows()
}

// updateRows updates the table with current results.
func (v *resultsView) updateRows() {
	rows := make([]table.Row, len(v.results))
	for i, r := range v.results {
		outcome := "lost"
		if r.Won {
			outcome = "won"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", len(v.results)-i),
			outcome,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.TimeBonus),
			fmt.Sprintf("%d", r.Moves),
			fmt.Sprintf("%ds", r.TimeLeft),
			r.CreatedAt.Format("15:04:05"),
		}
	}
	v.table.SetRows(rows)

	// Reset cursor to top
	v.table.GotoTop()
}

func (v *resultsView) resize(width, height int) {
	v.width, v.height = width, height
	v.table = v.createTable()
	v.updateRows()
}

func (v resultsView) update(msg tea.Msg) (resultsView, tea.Cmd) {
	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

// View renders the results table.
func (v resultsView) View() string {
	r := v.renderer
	var b strings.Builder

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("SESSION RESULTS", v.width)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Server board: %d games  %d wins  best %d  avg moves %.1f",
		v.stats.Games, v.stats.Wins, v.stats.BestScore, v.stats.AvgMoves)
	b.WriteString(r.NewStyle().Foreground(lipgloss.Color("245")).Render(centerText(statsLine, v.width)))
	b.WriteString("\n\n")

	tableStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var content string
	switch {
	case v.err != nil:
		content = r.NewStyle().Foreground(lipgloss.Color("1")).Render("Could not load results: " + v.err.Error())
	case len(v.results) == 0:
		content = r.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No games finished yet.\nFinish a game to see it here!")
	default:
		content = v.table.View()
	}
	b.WriteString(tableStyle.Render(content))

	return b.String()
}

// centerText pads text with spaces to center it in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
