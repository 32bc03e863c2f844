package colormatch

// Snapshot captures the complete game state for determinism testing.
type Snapshot struct {
	Tick     uint64
	Phase    Phase
	Score    int
	TimeLeft int
	Moves    int
	Active   bool
	Locked   bool
	First    int
	Second   int
	Cursor   int
	Status   string
	Tiles    []Tile
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	first, second := g.ctrl.Selection()
	return Snapshot{
		Tick:     g.tick,
		Phase:    g.ctrl.Phase(),
		Score:    g.ctrl.Score(),
		TimeLeft: g.ctrl.TimeLeft(),
		Moves:    g.ctrl.Moves(),
		Active:   g.ctrl.Active(),
		Locked:   g.ctrl.InputLocked(),
		First:    first,
		Second:   second,
		Cursor:   g.cursor,
		Status:   g.ctrl.Status(),
		Tiles:    g.ctrl.Tiles(),
	}
}
