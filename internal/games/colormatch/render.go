package colormatch

import (
	"fmt"
	"time"

	"github.com/vovakirdan/colormatch/internal/core"
)

const (
	tileWidth  = 8
	tileHeight = 3
	tileGapX   = 2 // Leaves room for the cursor brackets
	tileGapY   = 1
	hudHeight  = 3 // Title, stats, frame top
	footerRows = 3 // Frame bottom, status, start hint
	framePadX  = 2 // Cursor bracket plus frame edge

	pulsePeriod = 500 * time.Millisecond
)

// layout holds the tile rectangles for one screen size.
type layout struct {
	tooSmall bool
	minW     int
	minH     int
	grid     core.Rect
	tiles    []core.Rect
}

// computeLayout centers a grid of n tiles with the given column count.
func computeLayout(screenW, screenH, n, cols int) layout {
	if cols <= 0 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	gridW := cols*tileWidth + (cols-1)*tileGapX
	gridH := rows*tileHeight + (rows-1)*tileGapY

	l := layout{
		minW: gridW + 2*framePadX,
		minH: hudHeight + gridH + footerRows,
	}
	if screenW < l.minW || screenH < l.minH {
		l.tooSmall = true
		return l
	}

	x0 := (screenW - gridW) / 2
	y0 := hudHeight
	l.grid = core.NewRect(x0, y0, gridW, gridH)
	l.tiles = make([]core.Rect, n)
	for i := 0; i < n; i++ {
		col, row := i%cols, i/cols
		l.tiles[i] = core.NewRect(
			x0+col*(tileWidth+tileGapX),
			y0+row*(tileHeight+tileGapY),
			tileWidth, tileHeight,
		)
	}
	return l
}

// tileAt returns the index of the tile under p.
func (l layout) tileAt(p core.Point) (int, bool) {
	if l.tooSmall || !l.grid.Contains(p.X, p.Y) {
		return 0, false
	}
	for i, r := range l.tiles {
		if r.Contains(p.X, p.Y) {
			return i, true
		}
	}
	return 0, false
}

// Render draws the HUD, the board and the status line.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if dst.Width() != g.screenW || dst.Height() != g.screenH || g.layout.tiles == nil {
		g.screenW, g.screenH = dst.Width(), dst.Height()
		g.layout = computeLayout(g.screenW, g.screenH, g.ctrl.Len(), g.cfg.Display.Columns)
	}

	if g.layout.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	grid := g.layout.grid
	dst.DrawBox(core.NewRect(grid.X-framePadX, grid.Y-1, grid.W+2*framePadX, grid.H+2), core.ColorDim)
	g.renderBoard(dst)
	g.renderFooter(dst)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", g.layout.minW, g.layout.minH))
}

func (g *Game) renderHUD(dst *core.Screen) {
	grid := g.layout.grid
	dst.DrawTextCenteredColor(0, "COLOR MATCH", core.ColorCyan)

	dst.DrawText(grid.X, 1, fmt.Sprintf("Score: %d", g.ctrl.Score()))

	moves := fmt.Sprintf("Moves: %d", g.ctrl.Moves())
	dst.DrawText(grid.Right()-len(moves), 1, moves)

	timer := fmt.Sprintf("Time: %2ds", g.ctrl.TimeLeft())
	timerColor := core.ColorDefault
	if g.ctrl.TimeWarning() {
		// Alternate colours every half second.
		timerColor = core.ColorRed
		if (g.sched.Now()/pulsePeriod)%2 == 1 {
			timerColor = core.ColorOrange
		}
	}
	dst.DrawTextColor(grid.X+(grid.W-len(timer))/2, 1, timer, timerColor)
}

func (g *Game) renderBoard(dst *core.Screen) {
	first, second := g.ctrl.Selection()
	for i, r := range g.layout.tiles {
		t := g.ctrl.Tile(i)
		switch {
		case !t.Revealed:
			dst.DrawRect(r, core.Cell{Rune: '░', Fg: core.ColorDim})
		case t.Matched:
			dst.DrawRect(r, core.Cell{Rune: ' ', Bg: t.Color.Hex})
			cx, cy := r.Center()
			dst.SetCell(cx, cy, core.Cell{Rune: '✓', Fg: core.ColorBlack, Bg: t.Color.Hex})
		default:
			dst.DrawRect(r, core.Cell{Rune: '█', Fg: t.Color.Hex})
		}

		if i == first || i == second {
			dst.SetCell(r.X, r.Bottom()-1, core.Cell{Rune: '•', Fg: core.ColorWhite, Bg: t.Color.Hex})
		}
	}

	r := g.layout.tiles[g.cursor]
	mid := r.Y + r.H/2
	dst.SetCell(r.X-1, mid, core.Cell{Rune: '[', Fg: core.ColorYellow})
	dst.SetCell(r.Right(), mid, core.Cell{Rune: ']', Fg: core.ColorYellow})
}

func (g *Game) renderFooter(dst *core.Screen) {
	y := g.layout.grid.Bottom() + 1

	statusColor := core.ColorWhite
	switch g.ctrl.Phase() {
	case PhasePreviewing:
		statusColor = core.ColorYellow
	case PhaseEnded:
		if out, ok := g.ctrl.Outcome(); ok && out.Won {
			statusColor = core.ColorCyan
		} else {
			statusColor = core.ColorRed
		}
	}
	dst.DrawTextCenteredColor(y, g.ctrl.Status(), statusColor)

	if g.ctrl.CanStart() {
		dst.DrawTextCenteredColor(y+1, "Press n to start", core.ColorGray)
	}
}
