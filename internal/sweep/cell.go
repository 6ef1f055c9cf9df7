package sweep

// Cell is one grid position. Row and Col are fixed at board construction;
// the rest is mutated by mine placement and by reveal/flag operations.
type Cell struct {
	Row, Col    int
	HasMine     bool
	Opened      bool
	Flagged     bool
	NearbyMines int
}

// Closed reports whether the cell is still untouched: not opened and not
// flagged. These are the cells a solver may still act on.
func (c Cell) Closed() bool {
	return !c.Opened && !c.Flagged
}

// CellUpdate is the incremental notification emitted for every cell whose
// state changed, carrying enough for a renderer to repaint just that cell.
type CellUpdate struct {
	Row, Col    int
	Opened      bool
	Flagged     bool
	NearbyMines int
	HasMine     bool
}

// BoardUpdate is the ordered list of cell changes one operation produced.
type BoardUpdate []CellUpdate
